package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	services "github.com/magabrotheeeer/hexagonal-auth/internal/services/currency"
	"github.com/magabrotheeeer/hexagonal-auth/internal/storage/memory"
)

type fixedRate float64

func (r fixedRate) CurrentExchangeRate() float64 { return float64(r) }

func TestConvertSolesToDollars(t *testing.T) {
	svc := services.NewCurrencyService(memory.NewExchangeRateRepository())

	tests := []struct {
		name   string
		amount float64
		want   float64
	}{
		{name: "zero", amount: 0, want: 0},
		{name: "exact rate multiple", amount: 38, want: 10},
		{name: "half", amount: 19, want: 5},
		{name: "one rate", amount: 3.8, want: 1},
		{name: "fraction", amount: 100, want: 26.315789},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ConvertSolesToDollars(tt.amount)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestConvertSolesToDollars_Negative(t *testing.T) {
	svc := services.NewCurrencyService(memory.NewExchangeRateRepository())

	for _, amount := range []float64{-10, -0.01} {
		got, err := svc.ConvertSolesToDollars(amount)
		assert.ErrorIs(t, err, services.ErrNegativeAmount)
		assert.EqualError(t, err, "Amount cannot be negative")
		assert.Zero(t, got)
	}
}

func TestConvertSolesToDollars_InvalidRate(t *testing.T) {
	svc := services.NewCurrencyService(fixedRate(0))

	_, err := svc.ConvertSolesToDollars(10)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrNegativeAmount)
}

func TestExchangeRate(t *testing.T) {
	assert.Equal(t, 3.8, services.NewCurrencyService(memory.NewExchangeRateRepository()).ExchangeRate())
	assert.Equal(t, 4.2, services.NewCurrencyService(fixedRate(4.2)).ExchangeRate())
}
