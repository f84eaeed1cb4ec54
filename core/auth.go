package core

import (
	"errors"
	"time"
)

// User is the public view of an account returned to clients.
// It never carries the password hash.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	// ErrInvalidCredentials is returned when username/password is wrong.
	// Unknown username and wrong password share this value on purpose so
	// login responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateUsername / ErrDuplicateEmail are the friendly pre-check
	// failures during registration.
	ErrDuplicateUsername = errors.New("username already registered")
	ErrDuplicateEmail    = errors.New("email already registered")

	// ErrStorageUnavailable is returned when the storage backend does not
	// answer within the per-operation deadline.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
