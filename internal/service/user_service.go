package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// userService implements UserService.
type userService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) UserService {
	return &userService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("service", "user").Logger(),
	}
}

// Register creates a new customer account.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         model.RoleCustomer,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		// Same error as a wrong password so the response does not leak
		// which emails are registered.
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug().Str("user_id", user.ID.String()).Msg("password mismatch")
		return nil, model.ErrInvalidCredentials
	}

	token, err := auth.Sign(s.jwtSecret, s.tokenTTL, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return &model.LoginResponse{Token: token, User: *user}, nil
}

// AddAddress adds a shipping address to the user's address book.
func (s *userService) AddAddress(ctx context.Context, userID uuid.UUID, req *model.AddressRequest) (*model.Address, error) {
	if req == nil || req.RecipientName == "" || req.Line1 == "" || req.City == "" || req.Country == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "recipient, line1, city and country are required")
	}

	address := &model.Address{
		ID:            uuid.New(),
		UserID:        userID,
		RecipientName: req.RecipientName,
		Line1:         req.Line1,
		City:          req.City,
		ZipCode:       req.ZipCode,
		Country:       req.Country,
		IsDefault:     req.IsDefault,
		CreatedAt:     time.Now(),
	}

	if err := s.userRepo.CreateAddress(ctx, address); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("address added")

	return address, nil
}

// ListAddresses retrieves the user's address book.
func (s *userService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	addresses, err := s.userRepo.GetAddressesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// validateRegisterRequest validates registration payloads.
func validateRegisterRequest(req *model.RegisterRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "registration payload is required")
	}
	if !strings.Contains(req.Email, "@") {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "a valid email is required")
	}
	if len(req.Password) < 8 {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "password must be at least 8 characters")
	}
	if req.FullName == "" {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "full name is required")
	}
	return nil
}
