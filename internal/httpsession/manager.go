package httpsession

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/hexagonal-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/hexagonal-auth/internal/lib/sl"
	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
	sessionservice "github.com/magabrotheeeer/hexagonal-auth/internal/services/session"
)

// CookieConfig описывает cookie, в которой передаётся идентификатор сессии.
type CookieConfig struct {
	Name   string
	Path   string
	Secure bool
	MaxAge time.Duration
}

// DefaultCookieConfig возвращает настройки cookie JSESSIONID на 30 минут.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Name:   "JSESSIONID",
		Path:   "/",
		MaxAge: sessionservice.DefaultMaxInactiveInterval,
	}
}

// TokenParser разбирает Bearer-токен, который ссылается на сессию.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// Manager связывает хранилище сессий с HTTP-запросами.
type Manager struct {
	store  Store
	cookie CookieConfig
	tokens TokenParser
	now    func() time.Time
	log    *slog.Logger
}

// NewManager создаёт Manager. tokens может быть nil, тогда сессия
// определяется только по cookie.
func NewManager(store Store, cookie CookieConfig, tokens TokenParser, log *slog.Logger) *Manager {
	if cookie.Name == "" {
		cookie.Name = DefaultCookieConfig().Name
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = sessionservice.DefaultMaxInactiveInterval
	}
	return &Manager{
		store:  store,
		cookie: cookie,
		tokens: tokens,
		now:    time.Now,
		log:    log,
	}
}

type ctxKey struct{}

// Resolve возвращает сессию запроса, помещённую в контекст Middleware.
func Resolve(ctx context.Context) (sessionservice.Scope, bool) {
	sc, ok := ctx.Value(ctxKey{}).(*scope)
	if !ok || sc == nil {
		return nil, false
	}
	return sc, true
}

// Middleware загружает сессию по cookie или Bearer-токену и кладёт её в контекст.
// Просроченная сессия удаляется, у живой обновляется время последнего обращения.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "httpsession.Middleware"
		ctx := r.Context()
		sc := &scope{m: m, w: w}

		if id, username := m.sessionID(r); id != "" {
			sess, err := m.load(ctx, id, username)
			if err != nil {
				m.log.Error("failed to load session", sl.Op(op), sl.Err(err))
			}
			sc.current = sess
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxKey{}, sc)))
	})
}

func (m *Manager) load(ctx context.Context, id, tokenUser string) (*models.Session, error) {
	sess, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := m.now()
	if sess.Expired(now) {
		m.drop(ctx, sess)
		return nil, nil
	}
	if tokenUser != "" && (sess.User == nil || sess.User.Username != tokenUser) {
		return nil, nil
	}

	sess.LastAccessedAt = now
	sess.IsNew = false
	alive, err := m.store.Touch(ctx, sess)
	if err != nil {
		return sess, err
	}
	if !alive {
		m.log.Debug("session superseded", slog.String("session_id", sess.ID))
		return nil, nil
	}
	return sess, nil
}

// sessionID достаёт ID сессии из cookie, а при её отсутствии из Bearer-токена.
// Для токена также возвращается имя пользователя, которому он выдан.
func (m *Manager) sessionID(r *http.Request) (string, string) {
	if c, err := r.Cookie(m.cookie.Name); err == nil && c.Value != "" {
		return c.Value, ""
	}
	if m.tokens == nil {
		return "", ""
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", ""
	}
	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		m.log.Debug("rejected bearer token", sl.Err(err))
		return "", ""
	}
	return claims.SessionID(), claims.Username
}

func (m *Manager) persist(ctx context.Context, s *models.Session) error {
	if err := m.store.Save(ctx, s); err != nil {
		return err
	}
	if s.User == nil {
		return nil
	}
	return m.store.BindPrincipal(ctx, s.User.Username, s.ID, s.MaxInactiveInterval)
}

func (m *Manager) drop(ctx context.Context, s *models.Session) {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		m.log.Error("failed to delete session", slog.String("session_id", s.ID), sl.Err(err))
	}
	if s.User == nil {
		return
	}
	if err := m.store.UnbindPrincipal(ctx, s.User.Username, s.ID); err != nil {
		m.log.Error("failed to unbind session", slog.String("session_id", s.ID), sl.Err(err))
	}
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    id,
		Path:     m.cookie.Path,
		MaxAge:   int(m.cookie.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) expireCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     m.cookie.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// scope — сессия одного запроса.
type scope struct {
	m       *Manager
	w       http.ResponseWriter
	mu      sync.Mutex
	current *models.Session
}

func (s *scope) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *scope) Start(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.m.drop(ctx, s.current)
	}
	now := s.m.now()
	sess := &models.Session{
		ID:                  uuid.NewString(),
		CreatedAt:           now,
		LastAccessedAt:      now,
		MaxInactiveInterval: s.m.cookie.MaxAge,
		IsNew:               true,
	}
	s.current = sess
	s.m.setCookie(s.w, sess.ID)
	return sess, nil
}

// Save сохраняет сессию. Другая живая сессия того же пользователя завершается.
func (s *scope) Save(ctx context.Context, sess *models.Session) error {
	const op = "httpsession.Save"
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.User != nil {
		prev, err := s.m.store.PrincipalSession(ctx, sess.User.Username)
		if err != nil {
			return err
		}
		if prev != "" && prev != sess.ID {
			if err := s.m.store.Delete(ctx, prev); err != nil {
				return err
			}
			s.m.log.Info("expired previous session of user", sl.Op(op),
				slog.String("username", sess.User.Username),
				slog.String("session_id", prev),
			)
		}
	}
	if err := s.m.persist(ctx, sess); err != nil {
		return err
	}
	s.current = sess
	return nil
}

func (s *scope) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m.expireCookie(s.w)
	if s.current == nil {
		return nil
	}
	sess := s.current
	s.current = nil

	if err := s.m.store.Delete(ctx, sess.ID); err != nil {
		return err
	}
	if sess.User != nil {
		return s.m.store.UnbindPrincipal(ctx, sess.User.Username, sess.ID)
	}
	return nil
}
