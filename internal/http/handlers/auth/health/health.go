// Package health реализует проверку доступности сервиса аутентификации.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// Message — ответ работающего сервиса аутентификации.
const Message = "Authentication service is running"

// Handler отвечает, что сервис аутентификации работает.
type Handler struct {
	log *slog.Logger
}

// New создаёт новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Состояние сервиса аутентификации
// @Tags Auth
// @Produce plain
// @Success 200 {string} string "Authentication service is running"
// @Router /api/auth/health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.health"

	h.log.Debug("auth health check",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	render.PlainText(w, r, Message)
}
