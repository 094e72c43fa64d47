package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PlaceholderToken is what StaticIssuer hands out.
const PlaceholderToken = "fake-jwt-token"

// TokenIssuer creates login tokens and recognises them again.
type TokenIssuer interface {
	Issue(username string) (string, error)
	Verify(token string) error
}

// StaticIssuer returns the same opaque token for every login.
type StaticIssuer struct {
	Token string
}

func (s StaticIssuer) Issue(string) (string, error) {
	return s.Token, nil
}

func (s StaticIssuer) Verify(token string) error {
	if token == "" || token != s.Token {
		return ErrInvalidToken
	}
	return nil
}

// JWTIssuer signs HS256 tokens whose subject is the username.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *JWTIssuer) Issue(username string) (string, error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (j *JWTIssuer) Verify(token string) error {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return ErrInvalidToken
	}
	return nil
}

// NewIssuer picks a JWTIssuer when a secret is configured, otherwise the placeholder.
func NewIssuer(secret string, ttl time.Duration) TokenIssuer {
	if secret == "" {
		return StaticIssuer{Token: PlaceholderToken}
	}
	return NewJWTIssuer(secret, ttl)
}
