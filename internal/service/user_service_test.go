package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sondreb/foodie/internal/auth"
	apperrors "github.com/sondreb/foodie/internal/errors"
	"github.com/sondreb/foodie/internal/model"
)

func strPtr(s string) *string { return &s }

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name          string
		input         CreateUserInput
		setupMock     func(*MockUserRepository)
		expectedError error
		expectedRoles []string
	}{
		{
			name:  "successful creation defaults roles",
			input: CreateUserInput{Username: "bob", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("UsernameExists", mock.Anything, "bob").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRoles: []string{"user"},
		},
		{
			name:  "duplicate username",
			input: CreateUserInput{Username: "admin", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("UsernameExists", mock.Anything, "admin").Return(true, nil)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
		{
			name:  "unique index race",
			input: CreateUserInput{Username: "eve", Password: "password123", Roles: []string{"user", "user", "editor"}},
			setupMock: func(m *MockUserRepository) {
				m.On("UsernameExists", mock.Anything, "eve").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
		{
			name:          "missing username",
			input:         CreateUserInput{Username: "  ", Password: "password123"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "short password",
			input:         CreateUserInput{Username: "carl", Password: "seven77"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "bad public key",
			input:         CreateUserInput{Username: "dan", Password: "password123", PublicKey: "AAAA"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewUserService(mockRepo)
			user, err := service.CreateUser(context.Background(), "actor-1", tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input.Username, user.Username)
				assert.Equal(t, tt.expectedRoles, user.Roles)
				assert.Equal(t, "actor-1", user.CreatedBy)
				assert.Empty(t, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_CreateUserHashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("UsernameExists", mock.Anything, "bob").Return(false, nil)

	var stored *model.User
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			u := *args.Get(1).(*model.User)
			stored = &u
		}).
		Return(nil)

	_, err := NewUserService(mockRepo).CreateUser(context.Background(), "actor-1", CreateUserInput{
		Username: "bob",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.True(t, auth.VerifyPassword("password123", stored.PasswordHash))
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestUserService_UpdateUser(t *testing.T) {
	existing := &model.User{ID: "u-1", Username: "bob", Roles: []string{"admin"}}

	tests := []struct {
		name          string
		id            string
		input         UpdateUserInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "update roles",
			id:    "u-1",
			input: UpdateUserInput{Roles: []string{"user", "editor"}},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, "u-1").Return(existing, nil)
				m.On("Update", mock.Anything, "u-1", mock.MatchedBy(func(p *model.User) bool {
					return p.UpdatedBy == "actor-1" && p.UpdatedAt != nil && len(p.Roles) == 2
				}), []string{"updated_at", "updated_by", "roles"}).Return(nil)
			},
		},
		{
			name:  "unchanged row is not a miss",
			id:    "u-1",
			input: UpdateUserInput{Roles: []string{"admin"}},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, "u-1").Return(existing, nil)
				m.On("Update", mock.Anything, "u-1", mock.AnythingOfType("*model.User"), []string{"updated_at", "updated_by", "roles"}).Return(nil)
			},
		},
		{
			name:  "rename to own name",
			id:    "u-1",
			input: UpdateUserInput{Username: strPtr("bob")},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, "u-1").Return(existing, nil)
				m.On("FindByUsername", mock.Anything, "bob").Return(&model.User{ID: "u-1", Username: "bob"}, nil)
				m.On("Update", mock.Anything, "u-1", mock.AnythingOfType("*model.User"), []string{"updated_at", "updated_by", "username"}).Return(nil)
			},
		},
		{
			name:  "rename to taken name",
			id:    "u-1",
			input: UpdateUserInput{Username: strPtr("admin")},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, "u-1").Return(existing, nil)
				m.On("FindByUsername", mock.Anything, "admin").Return(&model.User{ID: "u-9", Username: "admin"}, nil)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
		{
			name:          "no fields",
			id:            "u-1",
			input:         UpdateUserInput{},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "empty roles",
			id:            "u-1",
			input:         UpdateUserInput{Roles: []string{}},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "blank roles",
			id:            "u-1",
			input:         UpdateUserInput{Roles: []string{" ", ""}},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:  "missing user",
			id:    "nope",
			input: UpdateUserInput{Roles: []string{"user"}},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewUserService(mockRepo)
			err := service.UpdateUser(context.Background(), "actor-1", tt.id, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("Delete", mock.Anything, "u-1").Return(nil)
	mockRepo.On("Delete", mock.Anything, "missing").Return(gorm.ErrRecordNotFound)

	service := NewUserService(mockRepo)

	assert.NoError(t, service.DeleteUser(context.Background(), "u-1"))
	assert.ErrorIs(t, service.DeleteUser(context.Background(), "missing"), apperrors.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}

func TestUserService_ListUsersStripsHashes(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("List", mock.Anything).Return([]model.User{
		{ID: "u-1", Username: "admin", PasswordHash: "secret", CreatedAt: time.Now()},
	}, nil)

	users, err := NewUserService(mockRepo).ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].PasswordHash)
}
