// Package logout реализует HTTP-обработчик выхода из сессии.
package logout

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hexagonal-auth/internal/lib/sl"
	"github.com/magabrotheeeer/hexagonal-auth/internal/metrics"
	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

// Response — ответ на выход.
type Response struct {
	Message string `json:"message" example:"Logout successful"`
	Status  string `json:"status" example:"success"`
}

// Service описывает завершение сессии.
type Service interface {
	SessionInfo(ctx context.Context) *models.SessionInfo
	Invalidate(ctx context.Context)
}

// EventPublisher публикует события аудита.
type EventPublisher interface {
	Publish(ctx context.Context, event models.AuthEvent) error
}

// Handler завершает сессию запроса.
type Handler struct {
	log     *slog.Logger
	service Service
	events  EventPublisher
	metrics metrics.Recorder
}

// New создаёт новый экземпляр Handler.
func New(log *slog.Logger, service Service, events EventPublisher, rec metrics.Recorder) *Handler {
	return &Handler{
		log:     log,
		service: service,
		events:  events,
		metrics: rec,
	}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Завершает сессию и сбрасывает cookie.
// @Tags Session
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} response.Failure "Нет действующей сессии"
// @Security SessionCookie
// @Router /api/session/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	info := h.service.SessionInfo(r.Context())
	h.service.Invalidate(r.Context())

	if info != nil {
		h.metrics.RecordSessionInvalidated()
		event := models.AuthEvent{
			Type:      models.EventLogout,
			Username:  info.Username,
			SessionID: info.SessionID,
			At:        time.Now().UTC(),
		}
		if err := h.events.Publish(r.Context(), event); err != nil {
			log.Warn("failed to publish auth event", slog.String("type", event.Type), sl.Err(err))
		}
		log.Info("logout", slog.String("username", info.Username))
	}

	render.JSON(w, r, Response{
		Message: "Logout successful",
		Status:  "success",
	})
}
