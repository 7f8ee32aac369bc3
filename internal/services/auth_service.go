package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ByteToHex/vrf-lottery-backend/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// ErrInvalidCredentials is returned for any login failure; the response does
// not distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthServiceImpl authenticates admin operators and issues JWTs
type AuthServiceImpl struct {
	adminRepo repositories.AdminUserRepository
	jwtSecret []byte
	expiresIn int
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(adminRepo repositories.AdminUserRepository, jwtSecret string, expiresIn int) *AuthServiceImpl {
	return &AuthServiceImpl{
		adminRepo: adminRepo,
		jwtSecret: []byte(jwtSecret),
		expiresIn: expiresIn,
	}
}

// Login verifies credentials against the admin user store and returns a
// signed token plus its lifetime in seconds
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, int, error) {
	user, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, fmt.Errorf("failed to look up admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		slog.Warn("Login rejected", "email", email)
		return "", 0, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(s.expiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	slog.Info("Admin logged in", "email", user.Email, "role", user.Role)
	return signed, s.expiresIn, nil
}
