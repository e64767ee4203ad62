package models

import (
	"strings"
	"time"
)

// UserRole represents the available roles for college-side users.
type UserRole string

const (
	RolePrincipal UserRole = "PRINCIPAL"
	RoleManager   UserRole = "MANAGER"
)

// NormalizeRole upper-cases a role string into the canonical form. Tokens in
// the wild carry both "principal" and "PRINCIPAL"; normalisation happens once
// at the auth boundary so every downstream check compares canonical values.
func NormalizeRole(raw string) UserRole {
	return UserRole(strings.ToUpper(strings.TrimSpace(raw)))
}

// Reviewer reports whether the role may review and approve applications.
func (r UserRole) Reviewer() bool {
	return r == RolePrincipal || r == RoleManager
}

// User represents a college-side account stored in the users table.
type User struct {
	UserID       int64      `db:"user_id" json:"user_id"`
	CollegeID    int64      `db:"college_id" json:"college_id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"is_active" json:"is_active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
