package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserService covers administrator account management. Role checks happen
// at the router; these operations assume an admin caller.
type UserService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	bcryptCost  int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, departments repository.DepartmentRepository, bcryptCost int) *UserService {
	return &UserService{users: users, departments: departments, bcryptCost: bcryptCost}
}

// AdminCreateInput describes an admin-created account, including privileged
// fields the self-service registration cannot set.
type AdminCreateInput struct {
	FirstName    string
	LastName     string
	Email        string
	Username     string
	DepartmentID string
	Phone        *string
	Password     string
	Role         domain.UserRole
	Status       domain.UserStatus
}

// AdminUpdateInput describes an admin mutation. Nil fields are untouched.
type AdminUpdateInput struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Username     *string
	DepartmentID *string
	Phone        *string
	Role         *domain.UserRole
	Status       *domain.UserStatus
}

// Create adds an account with explicit role and status.
func (s *UserService) Create(ctx context.Context, input AdminCreateInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	status := input.Status
	if status == "" {
		status = domain.UserStatusActive
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
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
		Email:        NormalizeEmail(input.Email),
		Username:     strings.TrimSpace(input.Username),
		DepartmentID: input.DepartmentID,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("email or username already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List returns accounts ordered newest first.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get fetches a single account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Update mutates any account field, including role and status.
func (s *UserService) Update(ctx context.Context, id string, input AdminUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		user.Email = NormalizeEmail(*input.Email)
	}
	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
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
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
		user.Role = *input.Role
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		user.Status = *input.Status
	}

	if err := s.users.Update(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("email or username already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("user", nil)
	}
	return apperrors.MapError(err)
}

// ResetPassword forces a new password on an account without requiring the
// old one. Admin only.
func (s *UserService) ResetPassword(ctx context.Context, id, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(s.users.Update(ctx, user))
}
