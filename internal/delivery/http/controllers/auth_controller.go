package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eventsapp/internal/delivery/http/helpers"
	"eventsapp/internal/delivery/http/middleware"
	"eventsapp/internal/domain"
)

// SignUpRequest is the request body for POST /api/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (s SignUpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginRequest is the request body for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the data of a successful POST /api/login. The user never carries its password hash.
type LoginResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// LoginSuccessResponse is the success envelope for POST /api/login.
type LoginSuccessResponse struct {
	Data  LoginResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

// UserSuccessResponse is the success envelope for POST /api/signup.
type UserSuccessResponse struct {
	Data  *domain.User `json:"data"`
	Error *h.APIError  `json:"error"`
}

type AuthController struct {
	Logger        *slog.Logger
	Service       domain.AuthService
	SecureCookies bool
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, secureCookies bool) *AuthController {
	return &AuthController{
		Logger:        logger,
		Service:       svc,
		SecureCookies: secureCookies,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Creates a user with email, name and password. The password is stored salted and hashed.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} controllers.UserSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email already registered)"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SignUp(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials, opens a session and sets the session cookie. The token may also be sent as "Authorization: Bearer <token>".
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} controllers.LoginSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.Login(r.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	middleware.SetSessionCookie(w, res, c.SecureCookies)
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{
		User:      res.User,
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
	})
}

// Logout godoc
// @Summary Log out
// @Description Ends the current session and clears the session cookie. Succeeds without a session.
// @Tags auth
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /logout [get]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Logout(r.Context(), middleware.SessionToken(r)); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	middleware.ClearSessionCookie(w, c.SecureCookies)
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "logged out"})
}
