// Package services содержит логику бизнес-уровня для аутентификации пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/hexagonal-auth/internal/lib/sl"
	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
	"github.com/magabrotheeeer/hexagonal-auth/internal/storage"
)

// Сообщения, которые возвращаются клиенту.
const (
	MsgAuthenticated      = "Authentication successful"
	MsgInvalidCredentials = "Invalid username or password"
)

// UserRepository описывает контракт для поиска пользователей.
type UserRepository interface {
	// FindByUsername возвращает пользователя или ошибку storage.ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// PasswordEncoder проверяет пароль по сохранённому хэшу.
type PasswordEncoder interface {
	Matches(rawPassword, encoded string) bool
}

// SessionCreator создаёт HTTP-сессию для аутентифицированного пользователя.
type SessionCreator interface {
	CreateSession(ctx context.Context, user *models.User) (*models.SessionInfo, error)
}

// TokenIssuer выпускает токен, ссылающийся на сессию.
type TokenIssuer interface {
	GenerateToken(sessionID, username string, roles []string) (string, error)
}

// LoginRequest — учётные данные, присланные клиентом.
type LoginRequest struct {
	Username string
	Password string
}

// UserInfo — сведения о пользователе в ответе на успешный вход.
type UserInfo struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// LoginResponse — результат попытки входа.
type LoginResponse struct {
	Success bool
	Message string
	Token   string
	User    *UserInfo
	Session *models.SessionInfo
}

// AuthService проверяет учётные данные и открывает сессию.
type AuthService struct {
	users    UserRepository
	encoder  PasswordEncoder
	sessions SessionCreator
	tokens   TokenIssuer
	log      *slog.Logger
}

// NewAuthService создаёт новый экземпляр AuthService. tokens может быть nil,
// тогда токен при входе не выдаётся.
func NewAuthService(users UserRepository, encoder PasswordEncoder, sessions SessionCreator, tokens TokenIssuer, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		encoder:  encoder,
		sessions: sessions,
		tokens:   tokens,
		log:      log,
	}
}

// Authenticate проверяет учётные данные. Любая причина отказа (пустые поля,
// неизвестный пользователь, неверный пароль, отключённая учётная запись)
// даёт одинаковое сообщение MsgInvalidCredentials. Ошибка возвращается только
// при сбое хранилища.
func (s *AuthService) Authenticate(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	resp, _, err := s.authenticate(ctx, req)
	return resp, err
}

// AuthenticateAndCreateSession проверяет учётные данные и при успехе создаёт сессию.
// При отказе сессия не создаётся.
func (s *AuthService) AuthenticateAndCreateSession(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	const op = "services.auth.AuthenticateAndCreateSession"

	resp, user, err := s.authenticate(ctx, req)
	if err != nil || !resp.Success {
		return resp, err
	}

	info, err := s.sessions.CreateSession(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp.Session = info

	if s.tokens != nil {
		token, err := s.tokens.GenerateToken(info.SessionID, user.Username, resp.User.Roles)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		resp.Token = token
	}
	return resp, nil
}

func (s *AuthService) authenticate(ctx context.Context, req LoginRequest) (*LoginResponse, *models.User, error) {
	const op = "services.auth.Authenticate"
	log := s.log.With(sl.Op(op))

	username := strings.TrimSpace(req.Username)
	if username == "" {
		log.Debug("username is empty")
		return failure(), nil, nil
	}
	if strings.TrimSpace(req.Password) == "" {
		log.Debug("password is empty", slog.String("username", username))
		return failure(), nil, nil
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, storage.ErrUserNotFound) {
		log.Info("unknown user", slog.String("username", username))
		return failure(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.encoder.Matches(req.Password, user.PasswordHash) {
		log.Info("password mismatch", slog.String("username", username))
		return failure(), nil, nil
	}
	if !user.Enabled {
		log.Info("account is disabled", slog.String("username", username))
		return failure(), nil, nil
	}

	return &LoginResponse{
		Success: true,
		Message: MsgAuthenticated,
		User: &UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Roles:    user.SortedRoles(),
		},
	}, user, nil
}

func failure() *LoginResponse {
	return &LoginResponse{Success: false, Message: MsgInvalidCredentials}
}
