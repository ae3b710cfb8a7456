package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sondreb/foodie/internal/auth"
	apperrors "github.com/sondreb/foodie/internal/errors"
	"github.com/sondreb/foodie/internal/model"
	"github.com/sondreb/foodie/internal/repository"
)

// MinPasswordLength applies to every new password.
const MinPasswordLength = 8

// CreateUserInput carries the fields of a new directory entry.
type CreateUserInput struct {
	Username  string
	Password  string
	Roles     []string
	PublicKey string
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Username  *string
	Roles     []string
	PublicKey *string
}

// UserService exposes the admin-only user directory.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, actorID string, input CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, actorID, id string, input UpdateUserInput) error
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserService builds a UserService with repository.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo, now: time.Now}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// CreateUser checks uniqueness before doing the expensive hashing.
func (s *userService) CreateUser(ctx context.Context, actorID string, input CreateUserInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if len(input.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, MinPasswordLength)
	}
	if input.PublicKey != "" {
		if _, err := auth.ParsePublicKey(input.PublicKey); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, apperrors.ErrUsernameTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        normalizeRoles(input.Roles),
		PublicKey:    input.PublicKey,
		CreatedAt:    s.now().UTC(),
		CreatedBy:    actorID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// The unique index catches what the existence check raced past.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID, id string, input UpdateUserInput) error {
	if input.Username == nil && input.Roles == nil && input.PublicKey == nil {
		return fmt.Errorf("%w: nothing to update, provide username, roles or publicKey", apperrors.ErrValidation)
	}

	var roles []string
	if input.Roles != nil {
		roles = trimRoles(input.Roles)
		if len(roles) == 0 {
			return fmt.Errorf("%w: roles must not be empty", apperrors.ErrValidation)
		}
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	now := s.now().UTC()
	patch := &model.User{UpdatedAt: &now, UpdatedBy: actorID}
	columns := []string{"updated_at", "updated_by"}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return fmt.Errorf("%w: username must not be empty", apperrors.ErrValidation)
		}
		existing, err := s.repo.FindByUsername(ctx, username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check username: %w", err)
		}
		if existing != nil && existing.ID != id {
			return apperrors.ErrUsernameTaken
		}
		patch.Username = username
		columns = append(columns, "username")
	}

	if roles != nil {
		patch.Roles = roles
		columns = append(columns, "roles")
	}

	if input.PublicKey != nil {
		if *input.PublicKey != "" {
			if _, err := auth.ParsePublicKey(*input.PublicKey); err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
			}
		}
		patch.PublicKey = *input.PublicKey
		columns = append(columns, "public_key")
	}

	if err := s.repo.Update(ctx, id, patch, columns); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return apperrors.ErrUserNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// trimRoles drops blanks and duplicates.
func trimRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// normalizeRoles is trimRoles defaulting to "user".
func normalizeRoles(roles []string) []string {
	out := trimRoles(roles)
	if len(out) == 0 {
		out = append(out, auth.RoleUser)
	}
	return out
}
