// Package validate реализует HTTP-обработчик проверки сессии.
package validate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

const (
	msgValid   = "Session is valid"
	msgInvalid = "Session is invalid or expired"
)

// Service сообщает, действительна ли сессия.
type Service interface {
	IsValid(ctx context.Context) bool
}

// Handler проверяет сессию запроса.
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
// @Summary Проверка сессии
// @Tags Session
// @Produce plain
// @Success 200 {string} string "Session is valid"
// @Failure 401 {string} string "Session is invalid or expired"
// @Router /api/session/validate [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.validate"

	valid := h.service.IsValid(r.Context())
	h.log.Debug("session validated",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Bool("valid", valid),
	)
	if valid {
		render.PlainText(w, r, msgValid)
		return
	}
	render.Status(r, http.StatusUnauthorized)
	render.PlainText(w, r, msgInvalid)
}
