package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
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

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestAuthService_Login(t *testing.T) {
	adminHash := mustHash(t, "password123")

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "admin",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(&model.User{
					ID:           "u-1",
					Username:     "admin",
					PasswordHash: adminHash,
					Roles:        []string{"user", "admin"},
				}, nil)
			},
		},
		{
			name:     "wrong password",
			username: "admin",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(&model.User{
					ID:           "u-1",
					Username:     "admin",
					PasswordHash: adminHash,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			service := NewAuthService(mockRepo, jwtService, new(MockChallengeStore))

			token, user, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				claims, err := jwtService.ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, "u-1", claims.UserID)
				assert.Equal(t, []string{"user", "admin"}, claims.Roles)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginStoreFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "admin").Return(nil, errors.New("connection refused"))

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour), new(MockChallengeStore))
	_, _, err := service.Login(context.Background(), "admin", "pw")

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_LoginWithProof(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	encodedPub := base64.StdEncoding.EncodeToString(pub)
	holder := &model.User{ID: "u-2", Username: "carol", PublicKey: encodedPub, Roles: []string{"user"}}

	sign := func(msg string) string {
		return base64.StdEncoding.EncodeToString(ed25519.Sign(priv, []byte(msg)))
	}

	tests := []struct {
		name          string
		challenge     string
		signature     string
		setupMock     func(*MockUserRepository, *MockChallengeStore)
		expectedError error
	}{
		{
			name:      "valid proof",
			challenge: "c1",
			signature: sign("c1"),
			setupMock: func(r *MockUserRepository, c *MockChallengeStore) {
				c.On("Consume", mock.Anything, "c1").Return(true, nil)
				r.On("FindByUsername", mock.Anything, "carol").Return(holder, nil)
			},
		},
		{
			name:      "unknown or used challenge",
			challenge: "c2",
			signature: sign("c2"),
			setupMock: func(r *MockUserRepository, c *MockChallengeStore) {
				c.On("Consume", mock.Anything, "c2").Return(false, nil)
			},
			expectedError: apperrors.ErrInvalidProof,
		},
		{
			name:      "signature over another challenge",
			challenge: "c3",
			signature: sign("other"),
			setupMock: func(r *MockUserRepository, c *MockChallengeStore) {
				c.On("Consume", mock.Anything, "c3").Return(true, nil)
				r.On("FindByUsername", mock.Anything, "carol").Return(holder, nil)
			},
			expectedError: apperrors.ErrInvalidProof,
		},
		{
			name:      "user without key",
			challenge: "c4",
			signature: sign("c4"),
			setupMock: func(r *MockUserRepository, c *MockChallengeStore) {
				c.On("Consume", mock.Anything, "c4").Return(true, nil)
				r.On("FindByUsername", mock.Anything, "carol").Return(&model.User{ID: "u-2", Username: "carol"}, nil)
			},
			expectedError: apperrors.ErrInvalidProof,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockChallenges := new(MockChallengeStore)
			tt.setupMock(mockRepo, mockChallenges)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour), mockChallenges)
			token, user, err := service.LoginWithProof(context.Background(), "carol", tt.challenge, tt.signature)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, "carol", user.Username)
			}

			mockRepo.AssertExpectations(t)
			mockChallenges.AssertExpectations(t)
		})
	}
}

func TestAuthService_VerifySessionAndRequireAdmin(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	service := NewAuthService(new(MockUserRepository), jwtService, new(MockChallengeStore))

	adminToken, err := jwtService.GenerateToken("u-1", "admin", []string{"user", "admin"})
	require.NoError(t, err)
	userToken, err := jwtService.GenerateToken("u-2", "bob", []string{"user"})
	require.NoError(t, err)

	_, err = service.VerifySession("")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = service.VerifySession("garbage")
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	claims, err := service.RequireAdmin(adminToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	_, err = service.RequireAdmin(userToken)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = service.RequireAdmin("")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_IssueChallenge(t *testing.T) {
	challenges := new(MockChallengeStore)
	challenges.On("Issue", mock.Anything).Return("abc", nil).Once()
	challenges.On("Issue", mock.Anything).Return("", errors.New("redis down")).Once()

	service := NewAuthService(new(MockUserRepository), auth.NewJWTService("s", time.Hour), challenges)

	got, err := service.IssueChallenge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	_, err = service.IssueChallenge(context.Background())
	assert.Error(t, err)

	challenges.AssertExpectations(t)
}
