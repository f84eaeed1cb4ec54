package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when the token was valid but its expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers bad signatures, malformed tokens and algorithm mismatches.
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenService signs and verifies time-bounded identity tokens.
// It is stateless and safe for concurrent use.
type TokenService struct {
	secret   []byte
	method   jwt.SigningMethod
	validity time.Duration
}

// NewTokenService builds a TokenService from config. The configured
// algorithm name must identify an HMAC method (HS256/HS384/HS512).
func NewTokenService(cfg Config) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.TokenAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", cfg.TokenAlgorithm)
	}
	return &TokenService{
		secret:   []byte(cfg.SecretKey),
		method:   method,
		validity: time.Duration(cfg.AccessTokenExpireMinutes) * time.Minute,
	}, nil
}

// Issue produces a signed token carrying subject and an absolute expiry.
func (s *TokenService) Issue(subject string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.validity)),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the token subject.
// A token signed with a different algorithm is rejected even when the
// signature would verify under that algorithm.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
