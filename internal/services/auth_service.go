package services

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/callwatch/callwatch/internal/models"
	pgrepo "github.com/callwatch/callwatch/internal/repositories/postgres"
	"github.com/callwatch/callwatch/internal/utils"
)

const tokenTTL = 24 * time.Hour

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, string, error)
	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

type authService struct {
	users pgrepo.UserRepo
}

func NewAuthService(users pgrepo.UserRepo) AuthService {
	return &authService{users: users}
}

func (s *authService) Register(ctx context.Context, email, password, name string) (*models.User, string, error) {
	const op = "AuthService.Register"

	if email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", utils.E(utils.CodeConflict, op, "user already exists", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hash,
		Name:     name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	token, err := signToken(user.ID)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "AuthService.Login"

	if email == "" || password == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, utils.ErrNotFound) {
		return "", utils.E(utils.CodeUnauthorized, op, "incorrect email or password", nil)
	}
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	if err := utils.CheckPassword(user.Password, password); err != nil {
		return "", utils.E(utils.CodeUnauthorized, op, "incorrect email or password", nil)
	}

	token, err := signToken(user.ID)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return token, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*models.User, error) {
	const op = "AuthService.Profile"

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	return user, nil
}

func signToken(userID string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
