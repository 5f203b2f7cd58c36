// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jvidalgz/go-gympulse/internal/domain"
	"github.com/jvidalgz/go-gympulse/internal/repository/user"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates users and issues the bearer tokens the
// messaging endpoints require.
type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// Register creates a new member account. Role defaults to "usuario";
// elevated roles are assigned out of band.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	u := &domain.User{
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  domain.RoleMember,
	}
	if err := u.HashPassword(password); err != nil {
		return nil, err
	}
	if err := u.IsValid(); err != nil {
		return nil, err
	}

	created, err := s.userRepo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", created.ID)
	return created, nil
}

// Login authenticates a user and returns a signed JWT token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login failed - user not found")
		return nil, "", ErrInvalidCredentials
	}

	if err := u.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "user_id", u.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(u)
	if err != nil {
		s.logger.Error("token generation failed", "user_id", u.ID, "error", err.Error())
		return nil, "", errors.New("could not generate token")
	}

	s.logger.Info("user logged in", "user_id", u.ID)
	return u, token, nil
}

// GenerateJWT signs a token carrying the user id, valid for 24 hours.
func (s *AuthService) GenerateJWT(u *domain.User) (string, error) {
	if s.jwtSecretKey == "" {
		return "", errors.New("JWT secret key is not configured")
	}

	claims := jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecretKey))
}

// ValidateJWTToken validates a JWT token and returns the user ID.
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, errors.New("token is required")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}

	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, errors.New("token missing user id")
	}
	return uint(rawID), nil
}

// CurrentUser resolves a validated token's user against the directory.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
