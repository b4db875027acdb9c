// Package user реализует HTTP-обработчик сведений о пользователе текущей сессии.
package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

// Service описывает чтение пользователя из сессии.
type Service interface {
	IsValid(ctx context.Context) bool
	CurrentUser(ctx context.Context) *models.SessionUser
}

// Handler отдаёт пользователя сессии.
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
// @Summary Текущий пользователь
// @Tags Session
// @Produce json
// @Success 200 {object} models.SessionUser
// @Failure 401 {string} string "Нет действующей сессии"
// @Security SessionCookie
// @Router /api/session/user [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.user"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var u *models.SessionUser
	if h.service.IsValid(r.Context()) {
		u = h.service.CurrentUser(r.Context())
	}
	if u == nil {
		log.Debug("no user in session")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	log.Debug("current user", slog.String("username", u.Username))
	render.JSON(w, r, u)
}
