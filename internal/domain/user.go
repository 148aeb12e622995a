package domain

import "time"

// UserRole enumerates caller roles carried in access tokens.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
	RoleUser    UserRole = "user"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleUser:
		return true
	}
	return false
}

// UserStatus represents account lifecycle states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBanned   UserStatus = "banned"
)

// Valid reports whether the status is one of the known values.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusBanned:
		return true
	}
	return false
}

// User is the domain model for registered accounts. Email and username are
// globally unique; email is stored lower-cased.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Username     string
	DepartmentID string
	Phone        *string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	JoinedAt     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
