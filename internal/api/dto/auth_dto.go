package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	FirstName    string  `json:"fname" validate:"required"`
	LastName     string  `json:"lname" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Username     string  `json:"username" validate:"required,min=3"`
	DepartmentID string  `json:"department_id" validate:"required"`
	Phone        *string `json:"phone,omitempty"`
	Password     string  `json:"password" validate:"required,min=8"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UpdateProfileRequest payload for self-service profile changes.
type UpdateProfileRequest struct {
	FirstName    *string `json:"fname,omitempty"`
	LastName     *string `json:"lname,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

// AccessTokenResponse carries a freshly issued access token.
type AccessTokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID           string            `json:"id"`
	FirstName    string            `json:"fname"`
	LastName     string            `json:"lname"`
	Email        string            `json:"email"`
	Username     string            `json:"username"`
	DepartmentID string            `json:"department_id"`
	Phone        *string           `json:"phone,omitempty"`
	Role         domain.UserRole   `json:"role"`
	Status       domain.UserStatus `json:"status"`
	JoinedAt     time.Time         `json:"joined_at"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewUserResponse maps a domain user, dropping the password hash.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Username:     user.Username,
		DepartmentID: user.DepartmentID,
		Phone:        user.Phone,
		Role:         user.Role,
		Status:       user.Status,
		JoinedAt:     user.JoinedAt,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
