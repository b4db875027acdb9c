// Package models содержит доменные модели сервиса: пользователя системы
// и данные HTTP-сессии, в которой хранится аутентифицированный пользователь.
package models

import "sort"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64    // Уникальный идентификатор пользователя
	Username     string   // Имя пользователя (уникальное)
	PasswordHash string   // bcrypt-хэш пароля
	Email        string   // Электронная почта (уникальная)
	Roles        []string // Набор ролей, например ADMIN и USER
	Enabled      bool     // Признак активной учётной записи
}

// SortedRoles возвращает копию набора ролей в алфавитном порядке.
func (u *User) SortedRoles() []string {
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	sort.Strings(roles)
	return roles
}

// SessionUser возвращает представление пользователя для хранения в сессии, без хэша пароля.
func (u *User) SessionUser() *SessionUser {
	return &SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    u.SortedRoles(),
		Enabled:  u.Enabled,
	}
}
