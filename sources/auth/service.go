package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"domainhub/sources/configuration"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/repository"
	"domainhub/sources/tracing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims identify an admin session.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	admins *repository.AdminsRepository
	config configuration.AuthConfig
	now    func() time.Time
}

func NewAuthService(config *configuration.Config, admins *repository.AdminsRepository) *AuthService {
	return &AuthService{admins: admins, config: config.Auth, now: time.Now}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the credentials and returns a signed session token. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (x *AuthService) Login(ctx context.Context, logger *tracing.Logger, username string, password string) (string, *entities.Admin, error) {
	defer tracing.ProfilePoint(logger, "Auth login completed", "auth.login", tracing.AdminName, username)()

	admin, err := x.admins.GetAdminByUsername(ctx, logger, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			logger.W("Login for unknown admin", tracing.AdminName, username)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		logger.W("Login with wrong password", tracing.AdminName, username)
		return "", nil, ErrInvalidCredentials
	}

	token, err := x.Issue(admin)
	if err != nil {
		logger.E("Failed to sign token", tracing.InnerError, err)
		return "", nil, err
	}

	logger.I("Admin logged in", tracing.AdminName, admin.Username)
	return token, admin, nil
}

func (x *AuthService) Issue(admin *entities.Admin) (string, error) {
	now := x.now()
	claims := Claims{
		UserID:   admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(x.config.TokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(x.config.JwtSecret))
}

// Verify parses a token signed by Issue. Expired, malformed and foreign
// tokens all yield ErrInvalidToken.
func (x *AuthService) Verify(token string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(x.config.JwtSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(x.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims, nil
}

// SeedDefaultAdmin creates the configured default admin when it is missing.
func (x *AuthService) SeedDefaultAdmin(ctx context.Context, logger *tracing.Logger) error {
	username := x.config.DefaultAdmin
	if username == "" {
		return nil
	}

	_, err := x.admins.GetAdminByUsername(ctx, logger, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrAdminNotFound) {
		return err
	}

	hash, err := HashPassword(x.config.DefaultPassword)
	if err != nil {
		return err
	}

	err = x.admins.CreateAdmin(ctx, logger, &entities.Admin{Username: username, PasswordHash: hash})
	if err != nil && !errors.Is(err, repository.ErrAdminExists) {
		return err
	}

	logger.W("Default admin created, change its password", tracing.AdminName, username)
	return nil
}
