// Package storage содержит общие для всех хранилищ пользователей ошибки
// и учётные записи, которые создаются при старте приложения.
package storage

import (
	"errors"
	"fmt"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

var (
	// ErrUserNotFound возвращается, когда пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists возвращается при конфликте имени пользователя или почты.
	ErrUserExists = errors.New("user already exists")
)

// Encoder хеширует пароли учётных записей перед сохранением.
type Encoder interface {
	Encode(rawPassword string) (string, error)
}

// DefaultUsers возвращает две учётные записи по умолчанию: admin и user.
func DefaultUsers(encoder Encoder) ([]*models.User, error) {
	const op = "storage.DefaultUsers"

	adminHash, err := encoder.Encode("admin123")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	userHash, err := encoder.Encode("user123")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return []*models.User{
		{
			ID:           1,
			Username:     "admin",
			PasswordHash: adminHash,
			Email:        "admin@example.com",
			Roles:        []string{"ADMIN", "USER"},
			Enabled:      true,
		},
		{
			ID:           2,
			Username:     "user",
			PasswordHash: userHash,
			Email:        "user@example.com",
			Roles:        []string{"USER"},
			Enabled:      true,
		},
	}, nil
}
