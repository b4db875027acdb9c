package httpsession

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

// MemoryStore хранит сессии в памяти процесса. Просроченные записи
// удаляются go-cache в фоне.
type MemoryStore struct {
	mu sync.Mutex
	c  *cache.Cache
}

// NewMemoryStore создаёт хранилище, которое чистит просроченные записи раз в cleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*models.Session, error) {
	v, ok := m.c.Get(sessionPrefix + id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := v.(*models.Session).Clone()
	s.IsNew = false
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Set(sessionPrefix+s.ID, s.Clone(), ttl(s.MaxInactiveInterval))
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, s *models.Session) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.c.Get(sessionPrefix + s.ID); !ok {
		return false, nil
	}
	if s.User != nil {
		key := principalPrefix + s.User.Username
		if v, ok := m.c.Get(key); ok && v.(string) != s.ID {
			m.c.Delete(sessionPrefix + s.ID)
			return false, nil
		}
		m.c.Set(key, s.ID, ttl(s.MaxInactiveInterval))
	}
	m.c.Set(sessionPrefix+s.ID, s.Clone(), ttl(s.MaxInactiveInterval))
	return true, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Delete(sessionPrefix + id)
	return nil
}

func (m *MemoryStore) PrincipalSession(_ context.Context, username string) (string, error) {
	v, ok := m.c.Get(principalPrefix + username)
	if !ok {
		return "", nil
	}
	return v.(string), nil
}

func (m *MemoryStore) BindPrincipal(_ context.Context, username, id string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Set(principalPrefix+username, id, ttl(d))
	return nil
}

func (m *MemoryStore) UnbindPrincipal(_ context.Context, username, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.c.Get(principalPrefix + username); ok && v.(string) == id {
		m.c.Delete(principalPrefix + username)
	}
	return nil
}

func ttl(d time.Duration) time.Duration {
	if d <= 0 {
		return cache.NoExpiration
	}
	return d
}
