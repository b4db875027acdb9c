// Package middlewarectx содержит HTTP middleware сервиса: проверку сессии,
// ограничение частоты попыток входа и CORS.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hexagonal-auth/internal/http/response"
)

// MsgAuthRequired — ответ на запрос без действующей сессии.
const MsgAuthRequired = "Authentication required"

// SessionChecker сообщает, есть ли у запроса действующая сессия.
type SessionChecker interface {
	IsValid(ctx context.Context) bool
}

// RequireSession пропускает запрос дальше, только если сессия действительна.
// Иначе отвечает 401 Unauthorized.
func RequireSession(sessions SessionChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSession"
			if !sessions.IsValid(r.Context()) {
				log.Info("request without valid session",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Fail(MsgAuthRequired))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
