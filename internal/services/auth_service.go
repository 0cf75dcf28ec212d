package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/internal/utils"
	"shelterfund/internal/validators"
	"shelterfund/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
}

type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	IsNewUser   bool         `json:"is_new_user"`
}

type authService struct {
	userRepo   interfaces.UserRepository
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	logger     *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, jwtSecret string, tokenTTL time.Duration, logger *logger.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

func (s *authService) Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error) {
	if errs := validators.ValidateRegister(request); len(errs) > 0 {
		return nil, errs
	}

	hashedPassword, err := s.hashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		DisplayName: request.DisplayName,
		Email:       request.Email,
		Password:    hashedPassword,
		Age:         request.Age,
		Gender:      models.Gender(request.Gender),
	}

	// The unique email index is the authority; a pre-check would race.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.LogUserAction(user.ID, "register", nil)

	return s.issue(user, true)
}

func (s *authService) Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error) {
	if errs := validators.ValidateLogin(request); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			s.logger.WithField("email", request.Email).Warn("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.checkPassword(request.Password, user.Password) {
		s.logger.WithUserID(user.ID).Warn("Login attempt with invalid password")
		return nil, ErrInvalidCredentials
	}

	s.logger.LogUserAction(user.ID, "login", nil)

	return s.issue(user, false)
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID.IsZero() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) issue(user *models.User, isNew bool) (*AuthResponse, error) {
	token, err := utils.GenerateAccessToken(user.ID, user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
		IsNewUser:   isNew,
	}, nil
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
