package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple-crud/models"
)

var adminOnly = []models.Credential{{Username: "admin", Password: "admin"}}

func TestLogin(t *testing.T) {
	a := NewAuthenticator(adminOnly, StaticIssuer{Token: PlaceholderToken})

	token, err := a.Login("admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, "fake-jwt-token", token)

	tests := []struct{ user, pass string }{
		{"admin", "wrong"},
		{"wrong", "admin"},
		{"Admin", "admin"},
		{"admin", "admin "},
		{"", ""},
	}
	for _, tt := range tests {
		_, err := a.Login(tt.user, tt.pass)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "user=%q pass=%q", tt.user, tt.pass)
	}
}

func TestLogin_ScansWholeList(t *testing.T) {
	users := []models.Credential{
		{Username: "admin", Password: "admin"},
		{Username: "bob", Password: "hunter2"},
	}
	a := NewAuthenticator(users, StaticIssuer{Token: PlaceholderToken})

	_, err := a.Login("bob", "hunter2")
	assert.NoError(t, err)
}

func TestStaticIssuer_Verify(t *testing.T) {
	s := StaticIssuer{Token: PlaceholderToken}
	assert.NoError(t, s.Verify(PlaceholderToken))
	assert.ErrorIs(t, s.Verify("other"), ErrInvalidToken)
	assert.ErrorIs(t, StaticIssuer{}.Verify(""), ErrInvalidToken)
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	j := NewJWTIssuer("a-test-secret-that-is-long-enough", time.Minute)
	a := NewAuthenticator(adminOnly, j)

	token, err := a.Login("admin", "admin")
	require.NoError(t, err)
	assert.NotEqual(t, PlaceholderToken, token)
	assert.NoError(t, a.Verify(token))
}

func TestJWTIssuer_Rejects(t *testing.T) {
	j := NewJWTIssuer("secret-one", time.Minute)
	token, err := j.Issue("admin")
	require.NoError(t, err)

	other := NewJWTIssuer("secret-two", time.Minute)
	assert.ErrorIs(t, other.Verify(token), ErrInvalidToken)
	assert.ErrorIs(t, j.Verify("not-a-jwt"), ErrInvalidToken)
}

func TestJWTIssuer_Expired(t *testing.T) {
	j := NewJWTIssuer("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	j.now = func() time.Time { return issued }
	token, err := j.Issue("admin")
	require.NoError(t, err)

	j.now = time.Now
	assert.ErrorIs(t, j.Verify(token), ErrInvalidToken)
}

func TestNewIssuer(t *testing.T) {
	assert.IsType(t, StaticIssuer{}, NewIssuer("", time.Minute))
	assert.IsType(t, &JWTIssuer{}, NewIssuer("s3cret", time.Minute))
}
