package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type AdminRole string

const (
	RoleSuper AdminRole = "super"
	RoleAdmin AdminRole = "admin"
)

// MaxSuperAdmins caps the number of accounts allowed to hold RoleSuper.
const MaxSuperAdmins = 2

const DefaultDepartment = "Other"

// Departments a field admin can belong to. Input is normalized to title case
// before the membership check.
var Departments = map[string]bool{
	"Security":       true,
	"Health":         true,
	"Education":      true,
	"Environment":    true,
	"Infrastructure": true,
	"Other":          true,
}

// NormalizeDepartment title-cases the label and reports whether it is one of
// the known departments. Blank input falls back to DefaultDepartment.
func NormalizeDepartment(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDepartment, true
	}
	s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	return s, Departments[s]
}

type Admin struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
	Department   string    `json:"department,omitempty"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AdminProfile is the sanitized projection returned to clients; it never
// carries the password hash.
type AdminProfile struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       AdminRole `json:"role"`
	Department string    `json:"department,omitempty"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (a *Admin) Profile() AdminProfile {
	return AdminProfile{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		Role:       a.Role,
		Department: a.Department,
		Approved:   a.Approved,
		CreatedAt:  a.CreatedAt,
	}
}

type RegisterRequest struct {
	Username   string `json:"username" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,admin_role"`
	Department string `json:"department"`
}

type RegisterResponse struct {
	Msg string `json:"msg"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,admin_role"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	Admin AdminProfile `json:"admin"`
}
