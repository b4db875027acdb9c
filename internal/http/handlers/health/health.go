// Package health реализует HTTP-обработчик проверки состояния сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// Service описывает сценарий проверки состояния.
type Service interface {
	Check() string
}

// Handler отдаёт статус сервиса простым текстом.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /api/health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	status := h.service.Check()
	h.log.Debug("health check",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("status", status),
	)
	render.PlainText(w, r, status)
}
