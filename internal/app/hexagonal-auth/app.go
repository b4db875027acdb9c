// Package hexagonalauth собирает зависимости приложения и запускает HTTP- и gRPC-серверы.
package hexagonalauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/hexagonal-auth/internal/cache"
	"github.com/magabrotheeeer/hexagonal-auth/internal/config"
	"github.com/magabrotheeeer/hexagonal-auth/internal/grpc/server"
	"github.com/magabrotheeeer/hexagonal-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hexagonal-auth/internal/httpsession"
	"github.com/magabrotheeeer/hexagonal-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/hexagonal-auth/internal/lib/password"
	"github.com/magabrotheeeer/hexagonal-auth/internal/lib/sl"
	"github.com/magabrotheeeer/hexagonal-auth/internal/metrics"
	"github.com/magabrotheeeer/hexagonal-auth/internal/migrations"
	"github.com/magabrotheeeer/hexagonal-auth/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/hexagonal-auth/internal/services/auth"
	currencyservice "github.com/magabrotheeeer/hexagonal-auth/internal/services/currency"
	healthservice "github.com/magabrotheeeer/hexagonal-auth/internal/services/health"
	sessionservice "github.com/magabrotheeeer/hexagonal-auth/internal/services/session"
	"github.com/magabrotheeeer/hexagonal-auth/internal/storage/memory"
	"github.com/magabrotheeeer/hexagonal-auth/internal/storage/postgresql"
)

const shutdownTimeout = 15 * time.Second

// App содержит серверы приложения и ресурсы, которые нужно закрыть при остановке.
type App struct {
	server  *http.Server
	grpc    *server.Server
	logger  *slog.Logger
	limiter *middlewarectx.RateLimiter
	closers []func() error
}

// Deps — собранные сервисы, из которых строится роутер.
type Deps struct {
	Auth     *authservice.AuthService
	Sessions *sessionservice.SessionService
	Currency *currencyservice.CurrencyService
	Health   *healthservice.HealthService
	Manager  *httpsession.Manager
	Limiter  *middlewarectx.RateLimiter
	Events   rabbitmq.EventPublisher
	Metrics  *metrics.Collector
	Registry *prometheus.Registry
	CORS     config.CORS
}

// New создаёт приложение по конфигу. При ошибке уже открытые ресурсы закрываются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app *App, err error) {
	const op = "app.New"

	a := &App{logger: logger}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	encoder := password.NewBcryptEncoder(bcrypt.DefaultCost)

	users, err := a.userRepository(ctx, cfg, encoder)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store, health, err := a.sessionStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	events, err := a.eventPublisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		tokenIssuer authservice.TokenIssuer
		tokenParser httpsession.TokenParser
	)
	if cfg.JWTSecretKey != "" {
		maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
		tokenIssuer, tokenParser = maker, maker
	}

	manager := httpsession.NewManager(store, httpsession.CookieConfig{
		Name:   cfg.CookieName,
		Path:   "/",
		Secure: cfg.CookieSecure,
		MaxAge: cfg.MaxInactive,
	}, tokenParser, logger)

	sessions := sessionservice.NewSessionService(httpsession.Resolve, cfg.MaxInactive, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.limiter = middlewarectx.NewRateLimiter(middlewarectx.RateLimiterConfig{
		PerMinute:       cfg.LoginPerMinute,
		Burst:           cfg.LoginBurst,
		CleanupInterval: cfg.CleanupInterval,
	})

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Auth:     authservice.NewAuthService(users, encoder, sessions, tokenIssuer, logger),
		Sessions: sessions,
		Currency: currencyservice.NewCurrencyService(memory.NewExchangeRateRepository()),
		Health:   health,
		Manager:  manager,
		Limiter:  a.limiter,
		Events:   events,
		Metrics:  metrics.NewCollector(registry),
		Registry: registry,
		CORS:     cfg.CORS,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.AddressGRPC != "" {
		a.grpc, err = server.New(cfg.AddressGRPC, health, logger)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return a, nil
}

func (a *App) userRepository(ctx context.Context, cfg *config.Config, encoder *password.BcryptEncoder) (authservice.UserRepository, error) {
	if cfg.Driver != "postgres" {
		a.logger.Info("using in-memory user repository")
		return memory.NewSeededUserRepository(ctx, encoder)
	}

	db, err := postgresql.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = db.Seed(ctx, encoder); err != nil {
		return nil, err
	}
	a.logger.Info("using postgres user repository")
	return db, nil
}

// sessionStore выбирает хранилище сессий. Проверка состояния следит за Redis, если он используется.
func (a *App) sessionStore(ctx context.Context, cfg *config.Config) (httpsession.Store, *healthservice.HealthService, error) {
	if cfg.SessionStore != "redis" {
		a.logger.Info("using in-memory session store")
		return httpsession.NewMemoryStore(cfg.CleanupInterval), healthservice.NewHealthService(memory.HealthRepository{}), nil
	}

	c, err := cache.InitServer(ctx, cfg.RedisConnection, cfg.Namespace)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, c.Close)
	a.logger.Info("using redis session store", slog.String("address", cfg.AddressRedis))
	return httpsession.NewRedisStore(c), healthservice.NewHealthService(c), nil
}

func (a *App) eventPublisher(cfg *config.Config) (rabbitmq.EventPublisher, error) {
	if cfg.RabbitMQ.URL == "" {
		a.logger.Info("auth event publishing disabled")
		return rabbitmq.NoopPublisher{}, nil
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn.Close)

	ch, err := rabbitmq.SetupChannel(conn, cfg.ExchangeName)
	if err != nil {
		return nil, err
	}
	// Канал закрывается раньше соединения.
	a.closers = append(a.closers, ch.Close)
	return rabbitmq.NewPublisher(ch, cfg.ExchangeName), nil
}

// Handler возвращает HTTP-обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает серверы и останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	grpcCtx, stopGRPC := context.WithCancel(ctx)
	defer stopGRPC()
	if a.grpc != nil {
		go func() {
			errCh <- a.grpc.Run(grpcCtx)
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}

// close освобождает ресурсы в порядке, обратном открытию.
func (a *App) close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
