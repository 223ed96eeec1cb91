package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/linemk/coin-users/internal/domain/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)

// имена ограничений из миграции 000001
const (
	uniqueViolation    = "23505"
	emailConstraint    = "users_email_key"
	usernameConstraint = "users_username_key"
)

// публичная проекция, без pass_hash
const publicColumns = "id, email, username, first_name, last_name, phone, address, cin, coin_balance"

type UserStorage interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPublic(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName,
		&user.Phone, &user.Address, &user.CIN, &user.CoinBalance)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+publicColumns+" FROM users WHERE id = $1", id)
	user, err := scanPublic(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetUserByEmail единственный метод, который читает pass_hash, нужен для логина
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT "+publicColumns+", pass_hash FROM users WHERE email = $1", email)
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName,
		&user.Phone, &user.Address, &user.CIN, &user.CoinBalance, &user.PassHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+publicColumns+" FROM users WHERE username = $1", username)
	user, err := scanPublic(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+publicColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanPublic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser вставляет пользователя; уникальность email/username гарантирует индекс в БД
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, username, pass_hash, first_name, last_name, phone, address, cin, coin_balance)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+publicColumns,
		user.Email, user.Username, user.PassHash, user.FirstName, user.LastName,
		user.Phone, user.Address, user.CIN, user.CoinBalance,
	)
	created, err := scanPublic(row)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return created, nil
}

// UpdateUser обновляет только переданные поля: NULL-параметр оставляет колонку как есть
func (r *userRepository) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	var passHash any
	if patch.PassHash != nil {
		passHash = patch.PassHash
	}
	row := r.db.QueryRowContext(ctx,
		`UPDATE users SET
			email = COALESCE($1, email),
			username = COALESCE($2, username),
			pass_hash = COALESCE($3, pass_hash),
			first_name = COALESCE($4, first_name),
			last_name = COALESCE($5, last_name),
			phone = COALESCE($6, phone),
			address = COALESCE($7, address),
			cin = COALESCE($8, cin),
			coin_balance = COALESCE($9, coin_balance)
		 WHERE id = $10
		 RETURNING `+publicColumns,
		patch.Email, patch.Username, passHash, patch.FirstName, patch.LastName,
		patch.Phone, patch.Address, patch.CIN, patch.CoinBalance, id,
	)
	user, err := scanPublic(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, mapConstraintError(err)
	}
	return user, nil
}

// DeleteUser удаляет запись и возвращает её публичные поля
func (r *userRepository) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "DELETE FROM users WHERE id = $1 RETURNING "+publicColumns, id)
	user, err := scanPublic(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case emailConstraint:
			return ErrEmailExists
		case usernameConstraint:
			return ErrUsernameExists
		}
	}
	return err
}
