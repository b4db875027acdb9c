// Package services реализует работу с HTTP-сессией аутентифицированного пользователя.
//
// Сама сессия принадлежит текущему HTTP-запросу. Сервис получает её через Resolver
// и спокойно работает вне запроса: чтение возвращает nil, запись даёт резервный ответ.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hexagonal-auth/internal/lib/sl"
	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

// FallbackSessionID отдаётся, когда сессию создать негде.
const FallbackSessionID = "fallback-session"

// DefaultMaxInactiveInterval — время жизни неактивной сессии.
const DefaultMaxInactiveInterval = 30 * time.Minute

// Scope — сессия текущего запроса.
type Scope interface {
	// Current возвращает сессию запроса или nil.
	Current() *models.Session
	// Start открывает новую сессию. Существующая сессия заменяется новой с другим ID.
	Start(ctx context.Context) (*models.Session, error)
	// Save сохраняет изменения сессии.
	Save(ctx context.Context, s *models.Session) error
	// Invalidate удаляет сессию и сбрасывает cookie.
	Invalidate(ctx context.Context) error
}

// Resolver достаёт Scope из контекста запроса.
type Resolver func(ctx context.Context) (Scope, bool)

// SessionService — обёртка над сессией запроса.
type SessionService struct {
	resolve     Resolver
	maxInactive time.Duration
	now         func() time.Time
	log         *slog.Logger
}

// NewSessionService создаёт новый экземпляр SessionService.
// Неположительный maxInactive заменяется на DefaultMaxInactiveInterval.
func NewSessionService(resolve Resolver, maxInactive time.Duration, log *slog.Logger) *SessionService {
	if maxInactive <= 0 {
		maxInactive = DefaultMaxInactiveInterval
	}
	return &SessionService{
		resolve:     resolve,
		maxInactive: maxInactive,
		now:         time.Now,
		log:         log,
	}
}

// CreateSession сохраняет пользователя в новой сессии.
func (s *SessionService) CreateSession(ctx context.Context, user *models.User) (*models.SessionInfo, error) {
	const op = "services.session.CreateSession"
	log := s.log.With(sl.Op(op), slog.String("username", user.Username))

	now := s.now()
	scope, ok := s.resolve(ctx)
	if !ok {
		log.Warn("no request scope, returning fallback session")
		return &models.SessionInfo{
			SessionID:           FallbackSessionID,
			UserID:              user.ID,
			Username:            user.Username,
			CreatedTime:         now.UnixMilli(),
			MaxInactiveInterval: int(s.maxInactive / time.Second),
		}, nil
	}

	sess, err := scope.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sess.User = user.SessionUser()
	sess.CreatedAt = now
	sess.LastAccessedAt = now
	sess.MaxInactiveInterval = s.maxInactive

	if err := scope.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("session created", slog.String("session_id", sess.ID))

	return &models.SessionInfo{
		SessionID:           sess.ID,
		UserID:              user.ID,
		Username:            user.Username,
		CreatedTime:         now.UnixMilli(),
		MaxInactiveInterval: int(s.maxInactive / time.Second),
		IsNew:               sess.IsNew,
	}, nil
}

// CurrentUser возвращает пользователя текущей сессии или nil.
func (s *SessionService) CurrentUser(ctx context.Context) *models.SessionUser {
	sess := s.current(ctx)
	if sess == nil {
		return nil
	}
	return sess.User
}

// SessionInfo возвращает сведения о текущей сессии или nil.
func (s *SessionService) SessionInfo(ctx context.Context) *models.SessionInfo {
	sess := s.current(ctx)
	if sess == nil || sess.User == nil {
		return nil
	}
	info := &models.SessionInfo{
		SessionID:           sess.ID,
		UserID:              sess.User.ID,
		Username:            sess.User.Username,
		Email:               sess.User.Email,
		Roles:               sess.User.Roles,
		CreatedTime:         sess.CreatedAt.UnixMilli(),
		MaxInactiveInterval: int(sess.MaxInactiveInterval / time.Second),
		IsNew:               sess.IsNew,
	}
	if !sess.LastAccessedAt.IsZero() {
		info.LastAccessedTime = sess.LastAccessedAt.UnixMilli()
	}
	return info
}

// Invalidate завершает текущую сессию. Вне запроса ничего не делает.
func (s *SessionService) Invalidate(ctx context.Context) {
	const op = "services.session.Invalidate"
	scope, ok := s.resolve(ctx)
	if !ok {
		return
	}
	if err := scope.Invalidate(ctx); err != nil {
		s.log.Error("failed to invalidate session", sl.Op(op), sl.Err(err))
	}
}

// IsValid сообщает, есть ли сессия с привязанным пользователем.
func (s *SessionService) IsValid(ctx context.Context) bool {
	sess := s.current(ctx)
	return sess != nil && sess.User != nil
}

func (s *SessionService) current(ctx context.Context) *models.Session {
	scope, ok := s.resolve(ctx)
	if !ok {
		return nil
	}
	return scope.Current()
}
