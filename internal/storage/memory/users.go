// Package memory содержит хранилища, живущие в памяти процесса:
// пользователей, фиксированный курс валют и статус здоровья сервиса.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
	"github.com/magabrotheeeer/hexagonal-auth/internal/storage"
)

// UserRepository хранит пользователей в двух картах: по имени и по почте.
//
// Карты обновляются только через Save. Пользователи возвращаются копиями.
type UserRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*models.User
	byEmail    map[string]*models.User
}

// NewUserRepository создаёт пустое хранилище.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byUsername: make(map[string]*models.User),
		byEmail:    make(map[string]*models.User),
	}
}

// NewSeededUserRepository создаёт хранилище с учётными записями по умолчанию.
func NewSeededUserRepository(ctx context.Context, encoder storage.Encoder) (*UserRepository, error) {
	const op = "storage.memory.NewSeededUserRepository"
	users, err := storage.DefaultUsers(encoder)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := NewUserRepository()
	for _, u := range users {
		if _, err := repo.Save(ctx, u); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return repo, nil
}

// FindByUsername возвращает пользователя по имени или storage.ErrUserNotFound.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.memory.FindByUsername"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byUsername[username]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return clone(u), nil
}

// FindByEmail возвращает пользователя по почте или storage.ErrUserNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.memory.FindByEmail"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return clone(u), nil
}

// Save сохраняет пользователя. Пользователь без ID получает ID, равный числу
// уже сохранённых пользователей плюс один. Повторное сохранение с тем же
// именем заменяет запись, а старая почта перестаёт указывать на неё.
func (r *UserRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "storage.memory.Save"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if other, ok := r.byEmail[user.Email]; ok && other.Username != user.Username {
		return nil, fmt.Errorf("%s: email %s: %w", op, user.Email, storage.ErrUserExists)
	}

	stored := clone(user)
	if previous, ok := r.byUsername[stored.Username]; ok {
		delete(r.byEmail, previous.Email)
		if stored.ID == 0 {
			stored.ID = previous.ID
		}
	}
	if stored.ID == 0 {
		stored.ID = int64(len(r.byUsername) + 1)
	}

	r.byUsername[stored.Username] = stored
	r.byEmail[stored.Email] = stored
	return clone(stored), nil
}

// Count возвращает количество сохранённых пользователей.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUsername)
}

func clone(u *models.User) *models.User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}
