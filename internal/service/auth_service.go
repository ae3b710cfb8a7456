package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sondreb/foodie/internal/auth"
	apperrors "github.com/sondreb/foodie/internal/errors"
	"github.com/sondreb/foodie/internal/model"
	"github.com/sondreb/foodie/internal/repository"
)

// AuthService handles authentication operations.
type AuthService interface {
	IssueChallenge(ctx context.Context) (string, error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	LoginWithProof(ctx context.Context, username, challenge, signature string) (token string, user *model.User, err error)
	VerifySession(token string) (*auth.Claims, error)
	RequireAdmin(token string) (*auth.Claims, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	challenges auth.ChallengeStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, challenges auth.ChallengeStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		challenges: challenges,
	}
}

// IssueChallenge returns a one-time token for the proof-of-possession login.
func (s *authService) IssueChallenge(ctx context.Context) (string, error) {
	challenge, err := s.challenges.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("issue challenge: %w", err)
	}
	return challenge, nil
}

// Login authenticates a user by password and returns a signed session token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same hashing cost as a wrong password.
			auth.VerifyPassword(password, auth.DummyHash)
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// LoginWithProof authenticates a user holding the Ed25519 key on record by
// checking their signature over a previously issued challenge. The challenge
// is consumed before anything else so it can never be replayed.
func (s *authService) LoginWithProof(ctx context.Context, username, challenge, signature string) (string, *model.User, error) {
	ok, err := s.challenges.Consume(ctx, challenge)
	if err != nil {
		return "", nil, fmt.Errorf("consume challenge: %w", err)
	}
	if !ok {
		return "", nil, apperrors.ErrInvalidProof
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidProof
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if user.PublicKey == "" || !auth.VerifyProof(user.PublicKey, challenge, signature) {
		return "", nil, apperrors.ErrInvalidProof
	}

	return s.issueSession(user)
}

// VerifySession decodes a session token. An empty token means no session.
func (s *authService) VerifySession(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSessionExpired, err)
	}
	return claims, nil
}

// RequireAdmin verifies the session and checks for the admin role.
func (s *authService) RequireAdmin(token string) (*auth.Claims, error) {
	claims, err := s.VerifySession(token)
	if err != nil {
		return nil, err
	}
	if !claims.HasRole(auth.RoleAdmin) {
		return nil, apperrors.ErrForbidden
	}
	return claims, nil
}

func (s *authService) issueSession(user *model.User) (string, *model.User, error) {
	token, err := s.jwtService.GenerateToken(user.ID, user.Username, user.Roles)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}
