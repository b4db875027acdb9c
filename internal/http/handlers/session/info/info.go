// Package info реализует HTTP-обработчик сведений о текущей сессии.
package info

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

// Service описывает чтение текущей сессии.
type Service interface {
	IsValid(ctx context.Context) bool
	SessionInfo(ctx context.Context) *models.SessionInfo
}

// Handler отдаёт сведения о сессии запроса.
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
// @Summary Сведения о сессии
// @Tags Session
// @Produce json
// @Success 200 {object} models.SessionInfo
// @Failure 401 {string} string "Нет действующей сессии"
// @Security SessionCookie
// @Router /api/session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.info"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var info *models.SessionInfo
	if h.service.IsValid(r.Context()) {
		info = h.service.SessionInfo(r.Context())
	}
	if info == nil {
		log.Debug("no valid session")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	log.Debug("session info", slog.String("username", info.Username))
	render.JSON(w, r, info)
}
