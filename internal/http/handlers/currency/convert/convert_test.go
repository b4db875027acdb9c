package convert

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hexagonal-auth/internal/metrics"
	currencyservice "github.com/magabrotheeeer/hexagonal-auth/internal/services/currency"
	"github.com/magabrotheeeer/hexagonal-auth/internal/storage/memory"
)

type CurrencyServiceMock struct {
	mock.Mock
}

func (m *CurrencyServiceMock) ConvertSolesToDollars(amount float64) (float64, error) {
	args := m.Called(amount)
	return args.Get(0).(float64), args.Error(1)
}

func (m *CurrencyServiceMock) ExchangeRate() float64 {
	return m.Called().Get(0).(float64)
}

type RecorderMock struct {
	metrics.Noop
	results []string
}

func (m *RecorderMock) RecordConversion(result string) {
	m.results = append(m.results, result)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var got map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	return w, got
}

func TestConvertHandler_WithRealService(t *testing.T) {
	svc := currencyservice.NewCurrencyService(memory.NewExchangeRateRepository())

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantBody map[string]any
	}{
		{
			name:     "exact conversion",
			query:    "?amount=38",
			wantCode: http.StatusOK,
			wantBody: map[string]any{
				"originalAmount":   38.0,
				"originalCurrency": "PEN",
				"convertedAmount":  10.0,
				"targetCurrency":   "USD",
				"exchangeRate":     3.8,
				"message":          "Conversion successful",
			},
		},
		{
			name:     "rounded to two decimals",
			query:    "?amount=100",
			wantCode: http.StatusOK,
			wantBody: map[string]any{
				"originalAmount":   100.0,
				"originalCurrency": "PEN",
				"convertedAmount":  26.32,
				"targetCurrency":   "USD",
				"exchangeRate":     3.8,
				"message":          "Conversion successful",
			},
		},
		{
			name:     "zero",
			query:    "?amount=0",
			wantCode: http.StatusOK,
			wantBody: map[string]any{
				"originalAmount":   0.0,
				"originalCurrency": "PEN",
				"convertedAmount":  0.0,
				"targetCurrency":   "USD",
				"exchangeRate":     3.8,
				"message":          "Conversion successful",
			},
		},
		{
			name:     "negative amount",
			query:    "?amount=-10",
			wantCode: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":   "Amount cannot be negative",
				"message": "Invalid input provided",
			},
		},
		{
			name:     "missing amount",
			query:    "",
			wantCode: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":   "field Amount is a required field",
				"message": "Invalid input provided",
			},
		},
		{
			name:     "not a number",
			query:    "?amount=abc",
			wantCode: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":   "Amount must be a number",
				"message": "Invalid input provided",
			},
		},
		{
			name:     "not a finite number",
			query:    "?amount=NaN",
			wantCode: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":   "Amount must be a number",
				"message": "Invalid input provided",
			},
		},
		{
			name:     "infinity",
			query:    "?amount=Inf",
			wantCode: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":   "Amount must be a number",
				"message": "Invalid input provided",
			},
		},
		{
			name:     "overflow",
			query:    "?amount=1e400",
			wantCode: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":   "Amount must be a number",
				"message": "Invalid input provided",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := New(newNoopLogger(), svc, metrics.Noop{})
			w, got := doRequest(t, handler, "/api/currency/convert"+tt.query)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestConvertHandler_FloatFormats(t *testing.T) {
	svc := currencyservice.NewCurrencyService(memory.NewExchangeRateRepository())
	handler := New(newNoopLogger(), svc, metrics.Noop{})

	tests := []struct {
		amount  string
		wantPEN float64
		wantUSD float64
	}{
		{amount: ".5", wantPEN: 0.5, wantUSD: 0.13},
		{amount: "5.", wantPEN: 5, wantUSD: 1.32},
		{amount: "1e2", wantPEN: 100, wantUSD: 26.32},
		{amount: "3.8", wantPEN: 3.8, wantUSD: 1},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			w, got := doRequest(t, handler, "/api/currency/convert?amount="+tt.amount)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantPEN, got["originalAmount"])
			assert.Equal(t, tt.wantUSD, got["convertedAmount"])
		})
	}
}

func TestConvertHandler_Metrics(t *testing.T) {
	svc := new(CurrencyServiceMock)
	svc.On("ConvertSolesToDollars", 19.0).Return(5.0, nil).Once()
	svc.On("ConvertSolesToDollars", -1.0).Return(0.0, currencyservice.ErrNegativeAmount).Once()
	svc.On("ConvertSolesToDollars", 1.0).Return(0.0, errors.New("rate unavailable")).Once()
	svc.On("ExchangeRate").Return(3.8).Once()

	rec := &RecorderMock{}
	handler := New(newNoopLogger(), svc, rec)

	w, got := doRequest(t, handler, "/api/currency/convert?amount=19")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5.0, got["convertedAmount"])

	w, _ = doRequest(t, handler, "/api/currency/convert?amount=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, got = doRequest(t, handler, "/api/currency/convert?amount=1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error: rate unavailable", got["message"])

	w, _ = doRequest(t, handler, "/api/currency/convert?amount=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, []string{
		metrics.ResultSuccess,
		metrics.ResultFailure,
		metrics.ResultError,
		metrics.ResultFailure,
	}, rec.results)
	svc.AssertExpectations(t)
}
