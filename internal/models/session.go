package models

import "time"

// SessionUser — пользователь, сохранённый в сессии после успешного входа.
type SessionUser struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Enabled  bool     `json:"enabled"`
}

// Session хранит состояние HTTP-сессии на стороне сервера.
//
// Сессия считается действительной, пока с момента последнего обращения
// прошло не больше MaxInactiveInterval и к ней привязан пользователь.
type Session struct {
	ID                  string        `json:"id"`
	User                *SessionUser  `json:"user,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	LastAccessedAt      time.Time     `json:"last_accessed_at"`
	MaxInactiveInterval time.Duration `json:"max_inactive_interval"`
	IsNew               bool          `json:"-"`
}

// Expired сообщает, истёк ли интервал неактивности к моменту now.
func (s *Session) Expired(now time.Time) bool {
	if s.MaxInactiveInterval <= 0 {
		return false
	}
	return now.Sub(s.LastAccessedAt) > s.MaxInactiveInterval
}

// SessionInfo — сведения о сессии, которые отдаются клиенту.
// Время передаётся в миллисекундах Unix, интервал неактивности — в секундах.
type SessionInfo struct {
	SessionID           string   `json:"sessionId"`
	UserID              int64    `json:"userId"`
	Username            string   `json:"username"`
	Email               string   `json:"email,omitempty"`
	Roles               []string `json:"roles,omitempty"`
	CreatedTime         int64    `json:"createdTime"`
	LastAccessedTime    int64    `json:"lastAccessedTime,omitempty"`
	MaxInactiveInterval int      `json:"maxInactiveInterval"`
	IsNew               bool     `json:"isNew"`
}

// Clone возвращает копию сессии, не разделяющую данные пользователя с исходной.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.User != nil {
		u := *s.User
		u.Roles = append([]string(nil), s.User.Roles...)
		c.User = &u
	}
	return &c
}
