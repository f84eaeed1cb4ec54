package core

import (
	"context"
	"errors"
	"time"
)

// storageTimeout bounds every storage round-trip made by the auth service.
const storageTimeout = 3 * time.Second

// AuthService orchestrates registration and login over the user store,
// password hasher and token service.
type AuthService struct {
	users  UserRepository
	tokens *TokenService
}

func NewAuthService(users UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new account and returns its public view.
// Username and email are pre-checked for fast, specific errors; the unique
// indexes in the store remain the authoritative guard, so a concurrent
// registration that slips past the pre-checks still fails with
// ErrDuplicateUser at insert time.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return User{}, ErrDuplicateUsername
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, storageErr(err)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return User{}, ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, storageErr(err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	u, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return User{}, ErrDuplicateUser
		}
		return User{}, storageErr(err)
	}
	return publicView(u), nil
}

// Login verifies credentials and issues an access token. Unknown username
// and wrong password deliberately collapse into the single
// ErrInvalidCredentials so neither response reveals whether the account exists.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", storageErr(err)
	}
	if !CheckPassword(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u.Username)
}

func publicView(u *UserRecord) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func storageErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStorageUnavailable
	}
	return err
}
