// Package login реализует HTTP-обработчик входа пользователя.
//
// Обработчик декодирует учётные данные, передаёт их сервису аутентификации,
// который при успехе открывает сессию, и публикует событие аудита.
// Клиент получает cookie сессии и краткие сведения о пользователе.
package login

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/hexagonal-auth/internal/http/response"
	"github.com/magabrotheeeer/hexagonal-auth/internal/lib/sl"
	"github.com/magabrotheeeer/hexagonal-auth/internal/metrics"
	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
	authservice "github.com/magabrotheeeer/hexagonal-auth/internal/services/auth"
)

// MsgInvalidBody — ответ на тело запроса, которое не удалось разобрать.
const MsgInvalidBody = "Invalid request body"

// Request — учётные данные пользователя.
// Пустые и слишком длинные значения получают тот же ответ 401, что и неверный пароль.
type Request struct {
	Username string `json:"username" validate:"max=255" example:"admin"`
	Password string `json:"password" validate:"max=255" example:"admin123"`
}

// User — сведения о пользователе в ответе.
type User struct {
	Username string   `json:"username" example:"admin"`
	Email    string   `json:"email" example:"admin@example.com"`
	Roles    []string `json:"roles"`
}

// Response — ответ на успешный вход.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Authentication successful"`
	User    User   `json:"user"`
	Token   string `json:"token,omitempty"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	AuthenticateAndCreateSession(ctx context.Context, req authservice.LoginRequest) (*authservice.LoginResponse, error)
}

// EventPublisher публикует события аудита.
type EventPublisher interface {
	Publish(ctx context.Context, event models.AuthEvent) error
}

// Handler обрабатывает HTTP-запросы на вход.
type Handler struct {
	log      *slog.Logger
	service  Service
	events   EventPublisher
	metrics  metrics.Recorder
	validate *validator.Validate
}

// New создаёт новый экземпляр Handler.
func New(log *slog.Logger, service Service, events EventPublisher, rec metrics.Recorder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		events:   events,
		metrics:  rec,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет имя и пароль, открывает сессию (cookie JSESSIONID) и возвращает сведения о пользователе.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} Response "Успешный вход"
// @Failure 400 {object} response.Failure "Некорректный JSON"
// @Failure 401 {object} response.Failure "Неверное имя пользователя или пароль"
// @Failure 429 {object} response.Failure "Слишком много попыток"
// @Failure 500 {object} response.Failure "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			log.Error("request body is empty")
		} else {
			log.Error("failed to decode request body", sl.Err(err))
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Fail(MsgInvalidBody))
		return
	}
	log.Info("login attempt", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Info("validation failed", sl.Err(err))
			h.metrics.RecordLogin(metrics.ResultFailure)
			h.publish(r.Context(), log, models.AuthEvent{Type: models.EventLoginFailure, Username: req.Username})
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Fail(authservice.MsgInvalidCredentials))
			return
		}
		log.Error("failed to validate request", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.InternalError(err))
		return
	}

	resp, err := h.service.AuthenticateAndCreateSession(r.Context(), authservice.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		log.Error("login failed", sl.Err(err))
		h.metrics.RecordLogin(metrics.ResultError)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.InternalError(err))
		return
	}

	if !resp.Success {
		log.Info("authentication rejected", slog.String("username", req.Username))
		h.metrics.RecordLogin(metrics.ResultFailure)
		h.publish(r.Context(), log, models.AuthEvent{Type: models.EventLoginFailure, Username: req.Username})
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Fail(resp.Message))
		return
	}

	h.metrics.RecordLogin(metrics.ResultSuccess)
	h.metrics.RecordSessionCreated()
	event := models.AuthEvent{Type: models.EventLoginSuccess, Username: resp.User.Username}
	if resp.Session != nil {
		event.SessionID = resp.Session.SessionID
	}
	h.publish(r.Context(), log, event)

	log.Info("login success", slog.String("username", resp.User.Username))
	render.JSON(w, r, Response{
		Success: true,
		Message: resp.Message,
		User: User{
			Username: resp.User.Username,
			Email:    resp.User.Email,
			Roles:    resp.User.Roles,
		},
		Token: resp.Token,
	})
}

func (h *Handler) publish(ctx context.Context, log *slog.Logger, event models.AuthEvent) {
	event.At = time.Now().UTC()
	if err := h.events.Publish(ctx, event); err != nil {
		log.Warn("failed to publish auth event", slog.String("type", event.Type), sl.Err(err))
	}
}
