package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/summarly/summarly-backend/internal/models"
	"github.com/summarly/summarly-backend/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when email/password don't match
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserExists is returned when the email or username is taken
	ErrUserExists = errors.New("user already exists")
	// ErrUserInactive is returned for deactivated accounts
	ErrUserInactive = errors.New("user account is inactive")
)

// Service handles authentication
type Service struct {
	userRepo repository.UserRepository
	jwt      *JWTService
}

// NewService creates a new auth service
func NewService(userRepo repository.UserRepository, jwtSecret, issuer string) *Service {
	return &Service{
		userRepo: userRepo,
		jwt:      NewJWTService(jwtSecret, issuer),
	}
}

// SignUp registers a new user with the default role
func (s *Service) SignUp(ctx context.Context, email, username, password, fullName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, ErrUserExists
	}
	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		IsActive:     true,
		Role:         models.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the user with a fresh token pair
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil || !CheckPassword(password, user.PasswordHash) {
		return nil, "", "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", "", ErrUserInactive
	}

	access, refresh, err := s.jwt.GenerateTokenPair(user.ID.String(), user.Email, user.Username, user.Role)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return user, access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", "", ErrInvalidClaims
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil || !user.IsActive {
		return "", "", ErrInvalidToken
	}

	return s.jwt.GenerateTokenPair(user.ID.String(), user.Email, user.Username, user.Role)
}

// ValidateAccessToken resolves an access token to its user
func (s *Service) ValidateAccessToken(ctx context.Context, token string) (*models.User, *JWTClaims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil, ErrInvalidClaims
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}

	return user, claims, nil
}
