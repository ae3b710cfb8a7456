package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/sondreb/foodie/internal/auth"
	apperrors "github.com/sondreb/foodie/internal/errors"
	"github.com/sondreb/foodie/internal/metrics"
	"github.com/sondreb/foodie/internal/middleware"
	"github.com/sondreb/foodie/internal/model"
	"github.com/sondreb/foodie/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookies     *auth.CookieFactory
	logger      logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookies *auth.CookieFactory, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, logger: logger}
}

// LoginRequest represents a password login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProofRequest completes the challenge flow with a signature over the
// challenge made by the key registered on the user.
type ProofRequest struct {
	Username  string `json:"username" validate:"required"`
	Challenge string `json:"challenge" validate:"required"`
	Signature string `json:"signature" validate:"required,base64"`
}

// SessionUser is the public part of the logged in user.
type SessionUser struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// SessionResponse is returned by a successful login.
type SessionResponse struct {
	Success bool        `json:"success"`
	Data    SessionUser `json:"data"`
}

// ChallengeResponse carries a one-time challenge.
type ChallengeResponse struct {
	Challenge string `json:"challenge"`
}

// StatusResponse is a plain status acknowledgement.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ProtectedResponse echoes the verified session claims.
type ProtectedResponse struct {
	User *auth.Claims `json:"user"`
}

// GetChallenge godoc
// @Summary Issue a login challenge
// @Tags auth
// @Produce json
// @Success 200 {object} ChallengeResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /authenticate [get]
func (h *AuthHandler) GetChallenge(c echo.Context) error {
	challenge, err := h.authService.IssueChallenge(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ChallengeResponse{Challenge: challenge})
}

// ProveChallenge godoc
// @Summary Log in with a signed challenge
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ProofRequest true "Signed challenge"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /authenticate [post]
func (h *AuthHandler) ProveChallenge(c echo.Context) error {
	var req ProofRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation(err.Error())
	}

	token, user, err := h.authService.LoginWithProof(c.Request().Context(), req.Username, req.Challenge, req.Signature)
	if err != nil {
		metrics.RecordLogin("proof", false)
		h.logger.WithError(err).WithField("username", req.Username).Info("Proof login rejected")
		return err
	}
	metrics.RecordLogin("proof", true)

	return h.startSession(c, token, user)
}

// Login godoc
// @Summary Log in with username and password
// @Description Sets an HttpOnly session cookie on success.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /authenticate/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("username and password are required")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.RecordLogin("password", false)
		h.logger.WithError(err).WithField("username", req.Username).Info("Login rejected")
		return err
	}
	metrics.RecordLogin("password", true)

	return h.startSession(c, token, user)
}

func (h *AuthHandler) startSession(c echo.Context, token string, user *model.User) error {
	c.SetCookie(h.cookies.Session(token))
	return c.JSON(http.StatusOK, SessionResponse{
		Success: true,
		Data: SessionUser{
			ID:       user.ID,
			Username: user.Username,
			Roles:    user.Roles,
		},
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie. Requires the cookie to be present.
// @Tags auth
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /authenticate/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookieName); err != nil || cookie.Value == "" {
		return apperrors.ErrUnauthorized
	}

	c.SetCookie(h.cookies.Cleared())
	return c.JSON(http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "Logged out successfully",
	})
}

// Protected godoc
// @Summary Show the current session
// @Tags auth
// @Produce json
// @Success 200 {object} ProtectedResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /authenticate/protected [get]
func (h *AuthHandler) Protected(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return apperrors.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, ProtectedResponse{User: claims})
}
