package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/linemk/coin-users/internal/domain/models"
	"github.com/linemk/coin-users/internal/lib/passhash"
	"github.com/linemk/coin-users/internal/storage"
)

// UserService описывает CRUD над пользователями
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
}

type userService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	validate *validator.Validate
}

func NewUserService(log *slog.Logger, userRepo storage.UserStorage, validate *validator.Validate) UserService {
	return &userService{
		log:      log,
		userRepo: userRepo,
		validate: validate,
	}
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	const op = "service.UserService.List"

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	const op = "service.UserService.Get"

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageError(err))
	}
	return user, nil
}

// Create делает то же, что регистрация, но баланс можно задать явно
func (s *userService) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	const op = "service.UserService.Create"
	logger := s.log.With(slog.String("op", op), slog.String("email", in.Email))

	if err := checkNewUser(ctx, s.userRepo, s.validate, in); err != nil {
		logger.Warn("create rejected", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := buildUser(in)
	if err != nil {
		logger.Error("failed to build user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		logger.Error("failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, mapStorageError(err))
	}

	logger.Info("user created", slog.Int64("userID", created.ID))
	return created, nil
}

// Update применяет только переданные поля. Новый пароль проверяется и хэшируется.
func (s *userService) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	const op = "service.UserService.Update"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", id))

	if patch.Password != nil {
		if err := checkPassword(*patch.Password); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		passHash, err := passhash.Hash(*patch.Password)
		if err != nil {
			logger.Error("failed to hash password", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
		}
		patch.PassHash = passHash
		patch.Password = nil
	}

	if err := checkCIN(s.validate, patch.CIN); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.userRepo.UpdateUser(ctx, id, patch)
	if err != nil {
		logger.Warn("failed to update user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, mapStorageError(err))
	}

	logger.Info("user updated")
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) (*models.User, error) {
	const op = "service.UserService.Delete"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", id))

	user, err := s.userRepo.DeleteUser(ctx, id)
	if err != nil {
		logger.Warn("failed to delete user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, mapStorageError(err))
	}

	logger.Info("user deleted")
	return user, nil
}
