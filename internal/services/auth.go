package services

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"catalog-backend/internal/middleware"
	"catalog-backend/internal/models"
)

// AuthService checks the configured admin credentials and issues admin
// tokens. There is no user table; the single admin identity comes from
// configuration.
type AuthService struct {
	jwt          *middleware.JWTAuth
	username     string
	passwordHash []byte
}

func NewAuthService(jwt *middleware.JWTAuth, username, passwordHash string) *AuthService {
	return &AuthService{
		jwt:          jwt,
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

func (s *AuthService) Login(_ context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	fieldErrors := make(map[string]string)
	if req.Username == "" {
		fieldErrors["username"] = "Username is required"
	}
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	// bcrypt runs for unknown usernames too.
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	if !usernameOK || passwordErr != nil {
		return nil, &UnauthorizedError{Message: "Invalid username or password"}
	}

	accessToken, err := s.jwt.GenerateAdminToken(s.username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken: accessToken,
		ExpiresIn:   int(middleware.AdminTokenTTL.Seconds()),
	}, nil
}
