package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"library-server/internal/models"
)

// Login verifies the credentials and returns the user together with a signed
// session token for the session cookie.
func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateSessionToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("error generating session token: %w", err)
	}

	return user, token, nil
}

// CurrentUser resolves the user id carried by a session.
func (s *DefaultService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// SessionTTL returns the configured session lifetime.
func (s *DefaultService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *DefaultService) generateSessionToken(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.sessionTTL)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10), // subject
		"role": user.Role,
		"jti":  uuid.New().String(),
		"exp":  expirationTime.Unix(),
		"iat":  time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.sessionSecret)
}
