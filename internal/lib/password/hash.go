// Package password реализует хеширование и проверку паролей на основе bcrypt.
//
// BcryptEncoder удовлетворяет порту PasswordEncoder сервиса аутентификации.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptEncoder хеширует пароли с заданной стоимостью bcrypt.
type BcryptEncoder struct {
	cost int
}

// NewBcryptEncoder создаёт кодировщик. Стоимость вне допустимого диапазона заменяется на bcrypt.DefaultCost.
func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptEncoder{cost: cost}
}

// Encode принимает пароль пользователя и возвращает его bcrypt‑хэш.
func (e *BcryptEncoder) Encode(rawPassword string) (string, error) {
	const op = "password.Encode"
	hashed, err := bcrypt.GenerateFromPassword([]byte(rawPassword), e.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Matches сравнивает пароль с хэшем. Испорченный хэш считается несовпадением.
func (e *BcryptEncoder) Matches(rawPassword, encoded string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(rawPassword))
	return err == nil
}
