package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/bmi-planner/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrDevAuthDenied = errors.New("dev auth disabled")
	ErrInvalidUserID = errors.New("invalid user id")
)

// DevUserID is the subject issued when the request names no user.
const DevUserID = "dev-user"

const maxUserIDLength = 64

// Service выпускает и проверяет токены; sub токена становится владельцем данных.
type Service struct {
	config *config.Config
	now    func() time.Time
}

func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg, now: time.Now}
}

// SignInDev issues a token for userID, or for DevUserID when it is blank.
// Only available with AUTH_MODE=dev.
func (s *Service) SignInDev(_ context.Context, userID string) (*DevAuthResponse, error) {
	if s.config.AuthMode != "dev" {
		return nil, ErrDevAuthDenied
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = DevUserID
	}
	if !validUserID(userID) {
		return nil, ErrInvalidUserID
	}

	ttl := time.Duration(s.config.JWTTTLMinutes) * time.Minute
	accessToken, err := s.generateJWTWithTTL(userID, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev JWT: %w", err)
	}

	return &DevAuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		UserID:      userID,
	}, nil
}

func (s *Service) generateJWTWithTTL(userID string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    s.config.JWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT returns the token subject. Every failure wraps ErrInvalidToken.
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (interface{}, error) { return []byte(s.config.JWTSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.JWTIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// the subject names storage keys and history files
	if !validUserID(claims.Subject) {
		return "", fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

func validUserID(id string) bool {
	return id != "" && len(id) <= maxUserIDLength && !strings.ContainsAny(id, "/ \t\n")
}
