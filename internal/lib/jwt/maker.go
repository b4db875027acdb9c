// Package jwt реализует выдачу и разбор JWT, которые переносят идентификатор сессии.
//
// Токен не заменяет серверную сессию: он лишь позволяет клиенту без cookie
// предъявить идентификатор сессии в заголовке Authorization.
package jwt

import (
	"time"
)

// MakerImpl подписывает и проверяет токены секретным ключом
// и задаёт им время жизни (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}
