package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// actorFromContext converts the middleware principal into the service-layer
// actor. Handlers behind the auth middleware can rely on its presence; the
// error path covers misconfigured routes.
func actorFromContext(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Actor{
		UserID: principal.UserID,
		Email:  principal.Email,
		Role:   principal.Role,
	}, nil
}
