// Package metrics собирает Prometheus-метрики сервиса.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Значения метки result.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
)

// Recorder описывает события, которые учитывают обработчики.
type Recorder interface {
	RecordLogin(result string)
	RecordSessionCreated()
	RecordSessionInvalidated()
	RecordConversion(result string)
}

// Collector — реализация Recorder на Prometheus.
type Collector struct {
	loginAttempts       *prometheus.CounterVec
	sessionsCreated     prometheus.Counter
	sessionsInvalidated prometheus.Counter
	conversions         *prometheus.CounterVec
}

// NewCollector создаёт Collector и регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hexauth_login_attempts_total",
			Help: "Количество попыток входа по результату",
		}, []string{"result"}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hexauth_sessions_created_total",
			Help: "Количество созданных сессий",
		}),
		sessionsInvalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hexauth_sessions_invalidated_total",
			Help: "Количество завершённых сессий",
		}),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hexauth_currency_conversions_total",
			Help: "Количество конвертаций PEN в USD по результату",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.loginAttempts,
		c.sessionsCreated,
		c.sessionsInvalidated,
		c.conversions,
	)
	return c
}

// RecordLogin учитывает попытку входа.
func (c *Collector) RecordLogin(result string) {
	c.loginAttempts.WithLabelValues(result).Inc()
}

// RecordSessionCreated учитывает новую сессию.
func (c *Collector) RecordSessionCreated() {
	c.sessionsCreated.Inc()
}

// RecordSessionInvalidated учитывает выход из сессии.
func (c *Collector) RecordSessionInvalidated() {
	c.sessionsInvalidated.Inc()
}

// RecordConversion учитывает конвертацию валюты.
func (c *Collector) RecordConversion(result string) {
	c.conversions.WithLabelValues(result).Inc()
}

// Handler возвращает обработчик для /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop ничего не учитывает. Используется в тестах обработчиков.
type Noop struct{}

func (Noop) RecordLogin(string)        {}
func (Noop) RecordSessionCreated()     {}
func (Noop) RecordSessionInvalidated() {}
func (Noop) RecordConversion(string)   {}
