package memory

// PENPerUSD — сколько перуанских солей стоит один доллар США.
const PENPerUSD = 3.8

// ExchangeRateRepository отдаёт фиксированный курс PEN→USD.
type ExchangeRateRepository struct {
	rate float64
}

// NewExchangeRateRepository создаёт репозиторий с курсом PENPerUSD.
func NewExchangeRateRepository() *ExchangeRateRepository {
	return &ExchangeRateRepository{rate: PENPerUSD}
}

// CurrentExchangeRate возвращает текущий курс.
func (r *ExchangeRateRepository) CurrentExchangeRate() float64 {
	return r.rate
}
