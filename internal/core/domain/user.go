package domain

import (
	"strings"
	"time"
)

// UserRole enumerates account roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User mirrors the persisted representation in the users table.
// LoginAttempts and LockUntil are mutated only through the lockout
// operations on the user repository, never assigned directly.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Role            UserRole
	Avatar          *string
	Phone           *string
	Location        *string
	Bio             *string
	Skills          []string
	Experience      int
	CurrentRole     *string
	IsEmailVerified bool
	LoginAttempts   int
	LockUntil       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLocked reports whether the account rejects logins at the given instant.
func (u User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// NormalizeEmail lowercases and trims an email for the case-insensitive
// uniqueness rule on the users table.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
