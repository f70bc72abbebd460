package service

import (
	"time"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/apperrors"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/auth"
)

// AuthService exchanges the shared admin secret for a short-lived token.
type AuthService struct {
	hash      string
	jwtSecret string
	ttl       time.Duration
}

// NewAuthService hashes adminPassword once; only the hash is kept.
func NewAuthService(adminPassword, jwtSecret string, ttl time.Duration) (*AuthService, error) {
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return nil, err
	}
	return &AuthService{hash: hash, jwtSecret: jwtSecret, ttl: ttl}, nil
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *AuthService) Login(password string) (*AuthResult, error) {
	if password == "" || !auth.CheckPassword(s.hash, password) {
		return nil, apperrors.Forbidden("auth.login", "invalid credentials")
	}
	token, exp, err := auth.GenerateToken(s.jwtSecret, auth.RoleAdmin, s.ttl)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: exp.UTC()}, nil
}
