// Package auth checks logins against the configured credential list and
// issues the token returned to the client.
package auth

import (
	"errors"
	"fmt"

	"simple-crud/models"
)

var (
	// ErrInvalidCredentials is returned when no configured pair matches.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned by TokenIssuer.Verify.
	ErrInvalidToken = errors.New("invalid token")
)

// Authenticator holds a fixed credential list. It is read-only after construction.
type Authenticator struct {
	users  []models.Credential
	tokens TokenIssuer
}

func NewAuthenticator(users []models.Credential, tokens TokenIssuer) *Authenticator {
	list := make([]models.Credential, len(users))
	copy(list, users)
	return &Authenticator{users: list, tokens: tokens}
}

// Login scans the credential list for an exact match and returns a token for it.
func (a *Authenticator) Login(username, password string) (string, error) {
	for _, u := range a.users {
		if u.Username == username && u.Password == password {
			token, err := a.tokens.Issue(username)
			if err != nil {
				return "", fmt.Errorf("issuing token for %q: %w", username, err)
			}
			return token, nil
		}
	}
	return "", ErrInvalidCredentials
}

// Verify checks a token previously returned by Login.
func (a *Authenticator) Verify(token string) error {
	return a.tokens.Verify(token)
}
