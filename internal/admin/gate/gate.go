// Package gate guards the admin surface with a single static password. A
// successful login yields a short-lived HS256 token that the admin routes
// accept as a bearer credential.
package gate

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Issuer  = "agendamento"
	Subject = "admin"
)

var (
	ErrPasswordNotConfigured = errors.New("admin password is not configured")
	ErrWrongPassword         = errors.New("wrong admin password")
	ErrInvalidToken          = errors.New("invalid admin token")
)

type Claims struct {
	jwt.RegisteredClaims
}

// Token is a signed capability with its expiry.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AccessGate struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAccessGate(password, secret string, ttl time.Duration) (*AccessGate, error) {
	if password == "" {
		return nil, ErrPasswordNotConfigured
	}
	if secret == "" {
		return nil, fmt.Errorf("admin token secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("admin token ttl must be positive, got %s", ttl)
	}
	return &AccessGate{
		password: []byte(password),
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// VerifyPassword compares in constant time. Used on login and again before
// destructive operations.
func (g *AccessGate) VerifyPassword(password string) error {
	if subtle.ConstantTimeCompare([]byte(password), g.password) != 1 {
		return ErrWrongPassword
	}
	return nil
}

func (g *AccessGate) Login(password string) (*Token, error) {
	if err := g.VerifyPassword(password); err != nil {
		return nil, err
	}

	now := g.now()
	expiresAt := now.Add(g.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign admin token: %w", err)
	}
	return &Token{Value: signed, ExpiresAt: expiresAt.UTC().Truncate(time.Second)}, nil
}

// Verify returns the token subject. It matches the middleware.TokenVerifier
// signature so it can be passed to BearerAuth directly.
func (g *AccessGate) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithSubject(Subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
