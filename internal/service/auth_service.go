package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tasks-be/internal/apperr"
	"tasks-be/internal/entities"
	"tasks-be/internal/jwt"
	"tasks-be/internal/models"
	"tasks-be/internal/password"
	"tasks-be/internal/repository"
)

var (
	errMissingRegisterFields = fmt.Errorf("%w: Please provide all required fields", apperr.ErrValidation)
	errMissingLoginFields    = fmt.Errorf("%w: Please provide email and password", apperr.ErrValidation)
	errUserExists            = fmt.Errorf("%w: User already exists", apperr.ErrConflict)
	errInvalidCredentials    = fmt.Errorf("%w: Invalid credentials", apperr.ErrUnauthorized)
	errUnknownUser           = fmt.Errorf("%w: Not authorized", apperr.ErrUnauthorized)
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	// Me resolves an authenticated caller to their public profile.
	Me(ctx context.Context, userID string) (*models.UserView, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     *password.Hasher
	jwtService *jwt.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, hasher *password.Hasher, jwtService *jwt.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
	}
}

// NormalizeEmail trims and lower-cases an address so uniqueness is case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account and logs it in
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, errMissingRegisterFields
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, errUserExists
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &entities.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// The unique index still guards against a concurrent registration.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, errUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user)
}

// Login authenticates a user; unknown email and wrong password fail identically
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, errMissingLoginFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		// Burn a comparison so an unknown email takes as long as a wrong password.
		_ = s.hasher.Compare("", req.Password)
		return nil, errInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	return s.issue(user)
}

// Me fails with an unauthorized error when the token outlived its user.
func (s *authService) Me(ctx context.Context, userID string) (*models.UserView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errUnknownUser
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	view := models.NewUserView(user)
	return &view, nil
}

func (s *authService) issue(user *entities.User) (*models.AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.AuthResponse{
		Token: token,
		User:  models.NewUserView(user),
	}, nil
}
