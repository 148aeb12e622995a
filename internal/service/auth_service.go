package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AuthService coordinates registration, login and the token lifecycle.
type AuthService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	tokens      *auth.TokenManager
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
	TokenManager   *auth.TokenManager
	Dispatcher     events.Dispatcher
	BcryptCost     int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		tokens:      deps.TokenManager,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  deps.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// RegisterInput describes a new account.
type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Username     string
	DepartmentID string
	Phone        *string
	Password     string
}

// ProfileUpdateInput carries the self-service mutable fields. Role, status
// and credentials are deliberately not settable here.
type ProfileUpdateInput struct {
	FirstName    *string
	LastName     *string
	DepartmentID *string
	Phone        *string
}

// Register creates a new account with the default role and active status.
// Duplicate email or username surfaces as a single Conflict that does not
// reveal which of the two collided.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := NormalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email or username already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("email or username already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.departments.GetByID(ctx, input.DepartmentID); err != nil {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Username:     username,
		DepartmentID: input.DepartmentID,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The race between the duplicate pre-check and the insert ends here:
		// the unique indexes on email/username reject the loser.
		if apperrors.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("email or username already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventUserRegistered,
			ActorID:   user.ID,
			Timestamp: time.Now(),
			Payload: events.UserRegisteredPayload{
				UserID:   user.ID,
				Email:    user.Email,
				Username: user.Username,
			},
		})
	}
	return user, nil
}

// Login verifies credentials and issues the token pair. An unknown email
// and a wrong password yield the same uniform failure so callers cannot
// enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, nil, apperrors.NewForbidden("account is not active")
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh verifies a refresh token and mints a new access token. The user
// must still exist; the refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return "", time.Time{}, apperrors.NewForbidden("refresh token expired")
		}
		return "", time.Time{}, apperrors.NewForbidden("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewNotFound("user", nil)
		}
		return "", time.Time{}, apperrors.MapError(err)
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, expiresAt, nil
}

// Profile returns the actor's own account.
func (s *AuthService) Profile(ctx context.Context, actor Actor) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateProfile mutates the actor's non-privileged fields.
func (s *AuthService) UpdateProfile(ctx context.Context, actor Actor, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			return nil, apperrors.MapError(err)
		}
		user.DepartmentID = *input.DepartmentID
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, actor Actor, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return apperrors.NewValidationError("old password is incorrect", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(s.users.Update(ctx, user))
}

// DeleteAccount removes the actor's own account.
func (s *AuthService) DeleteAccount(ctx context.Context, actor Actor) error {
	return apperrors.MapError(s.users.Delete(ctx, actor.UserID))
}

func (s *AuthService) issueTokenPair(user *domain.User) (*domain.TokenPair, error) {
	access, accessExp, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refresh, refreshExp, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
