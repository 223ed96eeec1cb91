package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/linemk/coin-users/internal/domain/models"
	"github.com/linemk/coin-users/internal/lib/passhash"
	"github.com/linemk/coin-users/internal/lib/validation"
	"github.com/linemk/coin-users/internal/storage"
)

const minPasswordLen = 6

// checkNewUser выполняет проверки по порядку, побеждает первая ошибка:
// email свободен -> username свободен -> длина пароля -> формат CIN.
// Проверка и вставка не атомарны: гонку закрывает уникальный индекс в БД.
func checkNewUser(ctx context.Context, repo storage.UserStorage, v *validator.Validate, in models.NewUser) error {
	if _, err := repo.GetUserByEmail(ctx, in.Email); err == nil {
		return ErrEmailInUse
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := repo.GetUserByUsername(ctx, in.Username); err == nil {
		return ErrUsernameInUse
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if err := checkPassword(in.Password); err != nil {
		return err
	}

	return checkCIN(v, in.CIN)
}

func checkPassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

func checkCIN(v *validator.Validate, cin *string) error {
	if cin == nil {
		return nil
	}
	if err := v.Var(*cin, validation.TagCIN); err != nil {
		return ErrInvalidCIN
	}
	return nil
}

// buildUser хэширует пароль и подставляет баланс по умолчанию
func buildUser(in models.NewUser) (*models.User, error) {
	passHash, err := passhash.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	balance := 0
	if in.CoinBalance != nil {
		balance = *in.CoinBalance
	}

	return &models.User{
		Email:       in.Email,
		Username:    in.Username,
		PassHash:    passHash,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Phone:       in.Phone,
		Address:     in.Address,
		CIN:         in.CIN,
		CoinBalance: balance,
	}, nil
}

// mapStorageError переводит ошибки хранилища в доменные
func mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, storage.ErrEmailExists):
		return ErrEmailInUse
	case errors.Is(err, storage.ErrUsernameExists):
		return ErrUsernameInUse
	}
	return err
}
