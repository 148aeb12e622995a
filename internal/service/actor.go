package service

import "github.com/spec-kit/helpdesk-service/internal/domain"

// Actor is the authenticated caller as seen by the service layer. Ownership
// and role decisions are pure functions of the actor and the target
// resource; no service method mutates state to decide authorization.
type Actor struct {
	UserID string
	Email  string
	Role   domain.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// Owns reports whether the actor owns a resource with the given owner id.
func (a Actor) Owns(ownerID string) bool {
	return a.UserID == ownerID
}
