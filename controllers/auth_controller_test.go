package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"simple-crud/auth"
	"simple-crud/controllers"
	"simple-crud/logging"
	"simple-crud/models"
)

func loginHandler() http.Handler {
	a := auth.NewAuthenticator(
		[]models.Credential{{Username: "admin", Password: "admin"}},
		auth.StaticIssuer{Token: auth.PlaceholderToken},
	)
	return http.HandlerFunc(controllers.NewAuthController(a, logging.Discard()).Login)
}

func TestLogin(t *testing.T) {
	rr := serve(loginHandler(), "POST", "/login", `{"username":"admin","password":"admin"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"token":"fake-jwt-token"}`, rr.Body.String())
}

func TestLogin_Rejected(t *testing.T) {
	for _, body := range []string{
		`{"username":"admin","password":"nope"}`,
		`{"username":"root","password":"admin"}`,
		`{}`,
	} {
		rr := serve(loginHandler(), "POST", "/login", body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, body)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rr.Body.String())
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	rr := serve(loginHandler(), "POST", "/login", `not json`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
