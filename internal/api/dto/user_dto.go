package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

// AdminCreateUserRequest payload for admin account creation.
type AdminCreateUserRequest struct {
	FirstName    string            `json:"fname" validate:"required"`
	LastName     string            `json:"lname" validate:"required"`
	Email        string            `json:"email" validate:"required,email"`
	Username     string            `json:"username" validate:"required,min=3"`
	DepartmentID string            `json:"department_id" validate:"required"`
	Phone        *string           `json:"phone,omitempty"`
	Password     string            `json:"password" validate:"required,min=8"`
	Role         domain.UserRole   `json:"role,omitempty"`
	Status       domain.UserStatus `json:"status,omitempty"`
}

// AdminUpdateUserRequest payload for admin account mutation.
type AdminUpdateUserRequest struct {
	FirstName    *string            `json:"fname,omitempty"`
	LastName     *string            `json:"lname,omitempty"`
	Email        *string            `json:"email,omitempty" validate:"omitempty,email"`
	Username     *string            `json:"username,omitempty" validate:"omitempty,min=3"`
	DepartmentID *string            `json:"department_id,omitempty"`
	Phone        *string            `json:"phone,omitempty"`
	Role         *domain.UserRole   `json:"role,omitempty"`
	Status       *domain.UserStatus `json:"status,omitempty"`
}

// ResetPasswordRequest payload for admin-forced password resets.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
