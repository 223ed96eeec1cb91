// Package storagetest содержит хранилище пользователей в памяти для тестов
package storagetest

import (
	"context"
	"sort"
	"sync"

	"github.com/linemk/coin-users/internal/domain/models"
	"github.com/linemk/coin-users/internal/storage"
)

// MemoryRepo — хранилище в памяти с проверкой уникальности, как у индекса в БД
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
	Err    error // если задано, возвращается из любого метода
}

var _ storage.UserStorage = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[int64]*models.User)}
}

func public(u *models.User) *models.User {
	cp := *u
	cp.PassHash = nil
	return &cp
}

func (f *MemoryRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return public(u), nil
}

func (f *MemoryRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *MemoryRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, u := range f.users {
		if u.Username == username {
			return public(u), nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *MemoryRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	users := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, public(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *MemoryRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if err := f.uniqueLocked(0, user.Email, user.Username); err != nil {
		return nil, err
	}
	f.nextID++
	cp := *user
	cp.ID = f.nextID
	f.users[cp.ID] = &cp
	return public(&cp), nil
}

func (f *MemoryRepo) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	email, username := u.Email, u.Username
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.Username != nil {
		username = *patch.Username
	}
	if err := f.uniqueLocked(id, email, username); err != nil {
		return nil, err
	}
	u.Email, u.Username = email, username
	if patch.PassHash != nil {
		u.PassHash = patch.PassHash
	}
	setIf(&u.FirstName, patch.FirstName)
	setIf(&u.LastName, patch.LastName)
	setIf(&u.Phone, patch.Phone)
	setIf(&u.Address, patch.Address)
	setIf(&u.CIN, patch.CIN)
	if patch.CoinBalance != nil {
		u.CoinBalance = *patch.CoinBalance
	}
	return public(u), nil
}

func (f *MemoryRepo) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	delete(f.users, id)
	return public(u), nil
}

func (f *MemoryRepo) uniqueLocked(selfID int64, email, username string) error {
	for id, u := range f.users {
		if id == selfID {
			continue
		}
		if u.Email == email {
			return storage.ErrEmailExists
		}
		if u.Username == username {
			return storage.ErrUsernameExists
		}
	}
	return nil
}

func setIf(dst **string, v *string) {
	if v != nil {
		s := *v
		*dst = &s
	}
}
