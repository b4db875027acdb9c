package models

import "time"

// Типы событий аудита аутентификации.
const (
	EventLoginSuccess = "login.success"
	EventLoginFailure = "login.failure"
	EventLogout       = "logout"
)

// AuthEvent описывает событие аудита: вход, неудачная попытка входа или выход.
type AuthEvent struct {
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	SessionID string    `json:"session_id,omitempty"`
	At        time.Time `json:"at"`
}
