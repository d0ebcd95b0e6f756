package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated user account.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	Phone        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser carries the fields required to register an account.
type NewUser struct {
	Email        string
	FullName     string
	Phone        string
	PasswordHash string
}

// Session keys written at login.
const (
	sessionKeyEmail        = "email"
	sessionKeyAccessToken  = "access_token"
	sessionKeyTokenExpires = "token_expires"
)
