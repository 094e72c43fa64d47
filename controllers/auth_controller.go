package controllers

import (
	"errors"
	"net/http"

	"simple-crud/auth"
	"simple-crud/logging"
	"simple-crud/models"
)

// AuthController serves POST /login.
type AuthController struct {
	auth   *auth.Authenticator
	logger *logging.Logger
}

func NewAuthController(a *auth.Authenticator, logger *logging.Logger) *AuthController {
	return &AuthController{auth: a, logger: logger}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := c.auth.Login(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.logger.Info("login rejected", "username", req.Username)
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		c.logger.Error("login failed", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{Success: true, Token: token})
}
