package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/sondreb/foodie/internal/errors"
	"github.com/sondreb/foodie/internal/middleware"
	"github.com/sondreb/foodie/internal/model"
	"github.com/sondreb/foodie/internal/service"
)

// UserHandler serves the admin user directory.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest is the payload for a new user.
type CreateUserRequest struct {
	Username  string   `json:"username" validate:"required,min=3,max=64"`
	Password  string   `json:"password" validate:"required,min=8"`
	Roles     []string `json:"roles" validate:"omitempty,dive,required,max=32"`
	PublicKey string   `json:"publicKey" validate:"omitempty,base64"`
}

// UpdateUserRequest is a partial update. Omitted fields keep their value.
type UpdateUserRequest struct {
	Username  *string  `json:"username" validate:"omitempty,min=3,max=64"`
	Roles     []string `json:"roles" validate:"omitempty,dive,required,max=32"`
	PublicKey *string  `json:"publicKey"`
}

// UserListResponse wraps the directory listing.
type UserListResponse struct {
	Success bool         `json:"success"`
	Data    []model.User `json:"data"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Success bool        `json:"success"`
	Data    *model.User `json:"data"`
}

// MessageResponse acknowledges a mutation.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {object} UserListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, UserListResponse{Success: true, Data: users})
}

// CreateUser godoc
// @Summary Create user
// @Tags admin
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation(err.Error())
	}

	created, err := h.svc.CreateUser(c.Request().Context(), actorID(c), service.CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		Roles:     req.Roles,
		PublicKey: req.PublicKey,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, UserResponse{Success: true, Data: created})
}

// UpdateUser godoc
// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation(err.Error())
	}

	err := h.svc.UpdateUser(c.Request().Context(), actorID(c), c.Param("id"), service.UpdateUserInput{
		Username:  req.Username,
		Roles:     req.Roles,
		PublicKey: req.PublicKey,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "User updated successfully"})
}

// DeleteUser godoc
// @Summary Delete user
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.svc.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "User deleted successfully"})
}

func actorID(c echo.Context) string {
	if claims, ok := middleware.ClaimsFrom(c); ok {
		return claims.UserID
	}
	return ""
}
