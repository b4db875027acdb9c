package middlewarectx

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/hexagonal-auth/internal/http/response"
)

// MsgTooManyRequests — ответ при превышении лимита.
const MsgTooManyRequests = "Too many login attempts, please try again later"

// RateLimiterConfig задаёт лимит попыток входа с одного адреса.
type RateLimiterConfig struct {
	PerMinute       int
	Burst           int
	CleanupInterval time.Duration
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter ограничивает частоту запросов с каждого IP-адреса.
type RateLimiter struct {
	limit           rate.Limit
	burst           int
	cleanupInterval time.Duration

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter создаёт RateLimiter и запускает фоновую очистку неактивных адресов.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 30
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	rl := &RateLimiter{
		limit:           rate.Limit(float64(cfg.PerMinute) / 60.0),
		burst:           cfg.Burst,
		cleanupInterval: cfg.CleanupInterval,
		clients:         make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop останавливает фоновую очистку.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware отвечает 429 Too Many Requests с заголовком Retry-After при превышении лимита.
func (rl *RateLimiter) Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !rl.get(ip).Allow() {
				log.Warn("too many requests", slog.String("ip", ip), slog.String("path", r.URL.Path))
				w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Fail(MsgTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientCount возвращает число отслеживаемых адресов.
func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastAccess = time.Now()
	return c.limiter
}

// retryAfter — секунды до появления следующей попытки, не меньше одной.
func (rl *RateLimiter) retryAfter() int {
	sec := int(math.Ceil(1.0 / float64(rl.limit)))
	if sec < 1 {
		sec = 1
	}
	return sec
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup удаляет адреса, не обращавшиеся дольше двух интервалов очистки.
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.cleanupInterval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, c := range rl.clients {
		if now.Sub(c.lastAccess) > ttl {
			delete(rl.clients, ip)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
