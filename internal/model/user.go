package model

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole is a user's permission level. Values match the user_role enum.
type UserRole string

const (
	RoleEmployee      UserRole = "employee"
	RoleOHSSpecialist UserRole = "ohs_specialist"
	RoleDoctor        UserRole = "doctor"
	RoleAdmin         UserRole = "admin"
	RoleSuperAdmin    UserRole = "super_admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleEmployee, RoleOHSSpecialist, RoleDoctor, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether r may use the admin console.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// ParseUserRole parses a role name, case-insensitively.
func ParseUserRole(s string) (UserRole, error) {
	r := UserRole(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", s)}
	}
	return r, nil
}

// UserStatus is an account's lifecycle state. Values match the user_status enum.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusPending   UserStatus = "pending"
	StatusSuspended UserStatus = "suspended"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending, StatusSuspended:
		return true
	}
	return false
}

// ParseUserStatus parses a status name, case-insensitively.
func ParseUserStatus(s string) (UserStatus, error) {
	st := UserStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
	}
	return st, nil
}

// User is a row of the users table.
type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Role            UserRole   `json:"role"`
	Status          UserStatus `json:"status"`
	CompanyID       *uuid.UUID `json:"company_id,omitempty"`
	Department      *string    `json:"department,omitempty"`
	JobTitle        *string    `json:"job_title,omitempty"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty"`
	PhoneNumber     *string    `json:"phone_number,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}

// FullName returns "First Last".
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NewUser is the input for creating a user.
type NewUser struct {
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        UserRole   `json:"role"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	Department  *string    `json:"department,omitempty"`
	JobTitle    *string    `json:"job_title,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
}

// MinPasswordLength is the shortest password NewUser accepts.
const MinPasswordLength = 8

// Validate checks required fields and formats. An empty role defaults to
// employee.
func (n *NewUser) Validate() error {
	n.Email = strings.ToLower(strings.TrimSpace(n.Email))
	n.FirstName = strings.TrimSpace(n.FirstName)
	n.LastName = strings.TrimSpace(n.LastName)

	if n.Email == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	addr, err := mail.ParseAddress(n.Email)
	if err != nil || addr.Address != n.Email {
		return &ValidationError{Field: "email", Message: "is not a valid address"}
	}
	if len(n.Password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength)}
	}
	if n.FirstName == "" {
		return &ValidationError{Field: "first_name", Message: "is required"}
	}
	if n.LastName == "" {
		return &ValidationError{Field: "last_name", Message: "is required"}
	}
	if n.Role == "" {
		n.Role = RoleEmployee
	}
	if !n.Role.Valid() {
		return &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", n.Role)}
	}
	return nil
}

// ValidationError reports invalid input for one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
