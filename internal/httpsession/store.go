// Package httpsession реализует серверные HTTP-сессии: хранилища, cookie и middleware,
// которое привязывает сессию к контексту запроса.
package httpsession

import (
	"context"
	"errors"
	"time"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

// ErrSessionNotFound возвращается, если сессии нет или она истекла.
var ErrSessionNotFound = errors.New("session not found")

// Store хранит сессии и индекс "пользователь → его сессия".
type Store interface {
	// Load возвращает сессию или ErrSessionNotFound.
	Load(ctx context.Context, id string) (*models.Session, error)
	// Save сохраняет сессию со сроком жизни MaxInactiveInterval.
	Save(ctx context.Context, s *models.Session) error
	// Touch перезаписывает существующую сессию и продлевает её привязку к пользователю.
	// Возвращает false, если сессии уже нет или пользователь вошёл в другую сессию;
	// во втором случае сессия удаляется.
	Touch(ctx context.Context, s *models.Session) (bool, error)
	// Delete удаляет сессию. Отсутствие сессии ошибкой не считается.
	Delete(ctx context.Context, id string) error
	// PrincipalSession возвращает ID сессии пользователя или пустую строку.
	PrincipalSession(ctx context.Context, username string) (string, error)
	// BindPrincipal запоминает сессию пользователя на ttl.
	BindPrincipal(ctx context.Context, username, id string, ttl time.Duration) error
	// UnbindPrincipal снимает привязку, только если она указывает на id.
	UnbindPrincipal(ctx context.Context, username, id string) error
}

const (
	sessionPrefix   = "session:"
	principalPrefix = "principal:"
)
