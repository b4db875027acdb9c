// Package convert реализует HTTP-обработчик конвертации перуанских солей в доллары США.
package convert

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/hexagonal-auth/internal/http/response"
	"github.com/magabrotheeeer/hexagonal-auth/internal/lib/sl"
	"github.com/magabrotheeeer/hexagonal-auth/internal/metrics"
	currencyservice "github.com/magabrotheeeer/hexagonal-auth/internal/services/currency"
)

const (
	currencyPEN    = "PEN"
	currencyUSD    = "USD"
	msgConverted   = "Conversion successful"
	msgInvalidAmnt = "Amount must be a number"
)

// Query — параметры запроса. Формат числа проверяет strconv.ParseFloat.
type Query struct {
	Amount string `validate:"required"`
}

// Response — результат конвертации.
type Response struct {
	OriginalAmount   float64 `json:"originalAmount" example:"38"`
	OriginalCurrency string  `json:"originalCurrency" example:"PEN"`
	ConvertedAmount  float64 `json:"convertedAmount" example:"10"`
	TargetCurrency   string  `json:"targetCurrency" example:"USD"`
	ExchangeRate     float64 `json:"exchangeRate" example:"3.8"`
	Message          string  `json:"message" example:"Conversion successful"`
}

// Service описывает сценарий конвертации валюты.
type Service interface {
	ConvertSolesToDollars(amount float64) (float64, error)
	ExchangeRate() float64
}

// Handler обрабатывает запросы конвертации.
type Handler struct {
	log      *slog.Logger
	service  Service
	metrics  metrics.Recorder
	validate *validator.Validate
}

// New создаёт новый экземпляр Handler.
func New(log *slog.Logger, service Service, rec metrics.Recorder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		metrics:  rec,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Конвертация PEN в USD
// @Description Переводит сумму в перуанских солях в доллары США по фиксированному курсу. Результат округляется до двух знаков.
// @Tags Currency
// @Produce json
// @Param amount query number true "Сумма в PEN"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректная сумма"
// @Failure 401 {object} response.Failure "Нет действующей сессии"
// @Security SessionCookie
// @Router /api/currency/convert [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.currency.convert"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := Query{Amount: r.URL.Query().Get("amount")}
	if err := h.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("failed to validate query", sl.Err(err))
			h.metrics.RecordConversion(metrics.ResultError)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.InternalError(err))
			return
		}
		log.Info("invalid amount", slog.String("amount", q.Amount), sl.Err(err))
		h.metrics.RecordConversion(metrics.ResultFailure)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	amount, err := strconv.ParseFloat(q.Amount, 64)
	if err == nil && (math.IsNaN(amount) || math.IsInf(amount, 0)) {
		err = errors.New("amount is not a finite number")
	}
	if err != nil {
		log.Info("failed to parse amount", slog.String("amount", q.Amount), sl.Err(err))
		h.metrics.RecordConversion(metrics.ResultFailure)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(msgInvalidAmnt))
		return
	}

	usd, err := h.service.ConvertSolesToDollars(amount)
	if errors.Is(err, currencyservice.ErrNegativeAmount) {
		log.Info("negative amount", slog.Float64("amount", amount))
		h.metrics.RecordConversion(metrics.ResultFailure)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	if err != nil {
		log.Error("conversion failed", sl.Err(err))
		h.metrics.RecordConversion(metrics.ResultError)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.InternalError(err))
		return
	}

	h.metrics.RecordConversion(metrics.ResultSuccess)
	log.Debug("conversion done", slog.Float64("pen", amount), slog.Float64("usd", usd))
	render.JSON(w, r, Response{
		OriginalAmount:   amount,
		OriginalCurrency: currencyPEN,
		ConvertedAmount:  math.Round(usd*100) / 100,
		TargetCurrency:   currencyUSD,
		ExchangeRate:     h.service.ExchangeRate(),
		Message:          msgConverted,
	})
}
