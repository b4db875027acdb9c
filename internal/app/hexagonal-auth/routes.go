package hexagonalauth

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация описания API для /docs.
	_ "github.com/magabrotheeeer/hexagonal-auth/docs"
	authhealth "github.com/magabrotheeeer/hexagonal-auth/internal/http/handlers/auth/health"
	"github.com/magabrotheeeer/hexagonal-auth/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/hexagonal-auth/internal/http/handlers/currency/convert"
	"github.com/magabrotheeeer/hexagonal-auth/internal/http/handlers/health"
	"github.com/magabrotheeeer/hexagonal-auth/internal/http/handlers/session/info"
	"github.com/magabrotheeeer/hexagonal-auth/internal/http/handlers/session/logout"
	"github.com/magabrotheeeer/hexagonal-auth/internal/http/handlers/session/user"
	"github.com/magabrotheeeer/hexagonal-auth/internal/http/handlers/session/validate"
	"github.com/magabrotheeeer/hexagonal-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hexagonal-auth/internal/metrics"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.CORS(d.CORS.AllowedOrigins, d.CORS.MaxAge),
		d.Manager.Middleware,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.With(d.Limiter.Middleware(logger)).
			Post("/auth/login", login.New(logger, d.Auth, d.Events, d.Metrics).ServeHTTP)
		r.Get("/auth/health", authhealth.New(logger).ServeHTTP)
		r.Get("/health", health.New(logger, d.Health).ServeHTTP)
		// Сам отвечает текстом на недействительную сессию.
		r.Get("/session/validate", validate.New(logger, d.Sessions).ServeHTTP)

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireSession(d.Sessions, logger))
			r.Get("/session", info.New(logger, d.Sessions).ServeHTTP)
			r.Post("/session/logout", logout.New(logger, d.Sessions, d.Events, d.Metrics).ServeHTTP)
			r.Get("/session/user", user.New(logger, d.Sessions).ServeHTTP)
			r.Get("/currency/convert", convert.New(logger, d.Currency, d.Metrics).ServeHTTP)
		})
	})

	r.Handle("/metrics", metrics.Handler(d.Registry))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
