package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sondreb/foodie/internal/auth"
	apperrors "github.com/sondreb/foodie/internal/errors"
)

// UtilHandler serves version info and operator helpers.
type UtilHandler struct {
	version    string
	production bool
}

// NewUtilHandler creates a new util handler.
func NewUtilHandler(version string, production bool) *UtilHandler {
	return &UtilHandler{version: version, production: production}
}

// VersionResponse reports the build and mode.
type VersionResponse struct {
	Version    string `json:"version"`
	Production bool   `json:"production"`
}

// HashPasswordRequest carries a plaintext password.
type HashPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// HashPasswordResponse carries the encoded hash.
type HashPasswordResponse struct {
	Hash      string `json:"hash"`
	Algorithm string `json:"algorithm"`
}

// GenerateKeyRequest optionally sets the key length in bytes.
type GenerateKeyRequest struct {
	Length *int `json:"length"`
}

// GenerateKeyResponse carries a random signing key.
type GenerateKeyResponse struct {
	Key    string `json:"key"`
	Length int    `json:"length"`
	Format string `json:"format"`
	Usage  string `json:"usage"`
}

// Version godoc
// @Summary Show version
// @Tags util
// @Produce json
// @Success 200 {object} VersionResponse
// @Router /version [get]
func (h *UtilHandler) Version(c echo.Context) error {
	return c.JSON(http.StatusOK, VersionResponse{Version: h.version, Production: h.production})
}

// HashPassword godoc
// @Summary Hash a password
// @Description Returns an argon2id hash suitable for seeding the user store.
// @Tags util
// @Accept json
// @Produce json
// @Param request body HashPasswordRequest true "Password"
// @Success 200 {object} HashPasswordResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /hash-password [post]
func (h *UtilHandler) HashPassword(c echo.Context) error {
	var req HashPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("password is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, HashPasswordResponse{Hash: hash, Algorithm: auth.PasswordAlgorithm})
}

// GenerateKey godoc
// @Summary Generate a signing key
// @Tags util
// @Accept json
// @Produce json
// @Param request body GenerateKeyRequest false "Key length in bytes (32-128, default 64)"
// @Success 200 {object} GenerateKeyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /generate-key [post]
func (h *UtilHandler) GenerateKey(c echo.Context) error {
	var req GenerateKeyRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}

	length := auth.DefaultKeyLength
	if req.Length != nil {
		length = *req.Length
	}
	if length < auth.MinKeyLength || length > auth.MaxKeyLength {
		return apperrors.Validation(fmt.Sprintf("length must be between %d and %d", auth.MinKeyLength, auth.MaxKeyLength))
	}

	key, err := auth.GenerateKey(length)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, GenerateKeyResponse{
		Key:    key,
		Length: length,
		Format: "base64",
		Usage:  "Set as JWT_SECRET",
	})
}
