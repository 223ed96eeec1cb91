package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/linemk/coin-users/internal/domain/models"
	security "github.com/linemk/coin-users/internal/jwt-new"
	"github.com/linemk/coin-users/internal/lib/passhash"
	"github.com/linemk/coin-users/internal/storage"
)

type AuthService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	validate  *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, validate *validator.Validate, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:       log,
		userRepo:  userRepo,
		validate:  validate,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type AuthServiceInterface interface {
	Register(ctx context.Context, in models.NewUser) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// LoginResult — токен и пользователь без пароля
type LoginResult struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

// Register регистрирует пользователя. Баланс при регистрации всегда 0.
func (a *AuthService) Register(ctx context.Context, in models.NewUser) (*models.User, error) {
	const op = "service.AuthService.Register"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", in.Email),
		slog.String("username", in.Username),
	)
	logger.Info("registering user")

	in.CoinBalance = nil
	if err := checkNewUser(ctx, a.userRepo, a.validate, in); err != nil {
		logger.Warn("registration rejected", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := buildUser(in)
	if err != nil {
		logger.Error("failed to build user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := a.userRepo.CreateUser(ctx, user)
	if err != nil {
		logger.Error("failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create user: %w", op, mapStorageError(err))
	}

	logger.Info("user registered", slog.Int64("userID", created.ID))
	return created, nil
}

// Login проверяет email и пароль и выдаёт JWT-токен.
// Для несуществующего email и неверного пароля возвращается одна и та же ошибка.
func (a *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if !passhash.Verify(user.PassHash, password) {
		logger.Warn("invalid password")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(user, a.jwtSecret, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	user.PassHash = nil
	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return &LoginResult{AccessToken: token, User: user}, nil
}
