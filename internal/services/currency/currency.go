// Package services реализует конвертацию перуанских солей в доллары США.
package services

import (
	"errors"
	"fmt"
)

// ErrNegativeAmount возвращается при отрицательной сумме.
var ErrNegativeAmount = errors.New("Amount cannot be negative")

// ExchangeRateRepository отдаёт курс PEN→USD: сколько солей стоит один доллар.
type ExchangeRateRepository interface {
	CurrentExchangeRate() float64
}

// CurrencyService конвертирует суммы по курсу из репозитория.
type CurrencyService struct {
	rates ExchangeRateRepository
}

// NewCurrencyService создаёт новый экземпляр CurrencyService.
func NewCurrencyService(rates ExchangeRateRepository) *CurrencyService {
	return &CurrencyService{rates: rates}
}

// ConvertSolesToDollars переводит сумму в солях в доллары: usd = pen / rate.
func (s *CurrencyService) ConvertSolesToDollars(amount float64) (float64, error) {
	const op = "services.currency.ConvertSolesToDollars"
	if amount < 0 {
		return 0, ErrNegativeAmount
	}
	rate := s.rates.CurrentExchangeRate()
	if rate <= 0 {
		return 0, fmt.Errorf("%s: invalid exchange rate %v", op, rate)
	}
	return amount / rate, nil
}

// ExchangeRate возвращает текущий курс.
func (s *CurrencyService) ExchangeRate() float64 {
	return s.rates.CurrentExchangeRate()
}
