package httpsession

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/hexagonal-auth/internal/cache"
	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

// touchScript атомарно обновляет сессию KEYS[1], только если она существует.
// KEYS[2], если передан, ключ привязки пользователя: чужая привязка удаляет сессию,
// своя или отсутствующая продлевается. ARGV: сессия, TTL в мс (0 без срока), ID сессии в JSON.
var touchScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
local ttl = tonumber(ARGV[2])
if #KEYS > 1 then
	local owner = redis.call('GET', KEYS[2])
	if owner and owner ~= ARGV[3] then
		redis.call('DEL', KEYS[1])
		return 0
	end
	if ttl > 0 then
		redis.call('SET', KEYS[2], ARGV[3], 'PX', ttl)
	else
		redis.call('SET', KEYS[2], ARGV[3])
	end
end
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// RedisStore хранит сессии в Redis. Сессии общие для всех экземпляров сервиса.
type RedisStore struct {
	cache *cache.Cache
}

// NewRedisStore создаёт хранилище поверх подключённого кэша.
func NewRedisStore(c *cache.Cache) *RedisStore {
	return &RedisStore{cache: c}
}

func (r *RedisStore) Load(ctx context.Context, id string) (*models.Session, error) {
	const op = "httpsession.RedisStore.Load"
	var s models.Session
	found, err := r.cache.Get(ctx, sessionPrefix+id, &s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *models.Session) error {
	const op = "httpsession.RedisStore.Save"
	if err := r.cache.Set(ctx, sessionPrefix+s.ID, s, redisTTL(s.MaxInactiveInterval)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RedisStore) Touch(ctx context.Context, s *models.Session) (bool, error) {
	const op = "httpsession.RedisStore.Touch"
	data, err := json.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	id, err := json.Marshal(s.ID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	keys := []string{r.cache.Key(sessionPrefix + s.ID)}
	if s.User != nil {
		keys = append(keys, r.cache.Key(principalPrefix+s.User.Username))
	}
	ok, err := touchScript.Run(ctx, r.cache.Db, keys, data, redisTTL(s.MaxInactiveInterval).Milliseconds(), id).Int()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok == 1, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	const op = "httpsession.RedisStore.Delete"
	if err := r.cache.Invalidate(ctx, sessionPrefix+id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RedisStore) PrincipalSession(ctx context.Context, username string) (string, error) {
	const op = "httpsession.RedisStore.PrincipalSession"
	var id string
	if _, err := r.cache.Get(ctx, principalPrefix+username, &id); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func (r *RedisStore) BindPrincipal(ctx context.Context, username, id string, d time.Duration) error {
	const op = "httpsession.RedisStore.BindPrincipal"
	if err := r.cache.Set(ctx, principalPrefix+username, id, redisTTL(d)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RedisStore) UnbindPrincipal(ctx context.Context, username, id string) error {
	const op = "httpsession.RedisStore.UnbindPrincipal"
	current, err := r.PrincipalSession(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if current != id {
		return nil
	}
	if err := r.cache.Invalidate(ctx, principalPrefix+username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// redisTTL переводит неположительный интервал в хранение без срока.
func redisTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d
}
