// Package postgresql реализует хранилище пользователей на основе PostgreSQL.
// Роли хранятся одной строкой через запятую.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
	"github.com/magabrotheeeer/hexagonal-auth/internal/storage"
)

const uniqueViolation = "23505"

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает подключение к PostgreSQL и проверяет его.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// Seed добавляет учётные записи по умолчанию, если их ещё нет.
func (s *Storage) Seed(ctx context.Context, encoder storage.Encoder) error {
	const op = "storage.postgresql.Seed"
	users, err := storage.DefaultUsers(encoder)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO users (username, email, password_hash, roles, enabled)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT DO NOTHING`
	for _, u := range users {
		if _, err := s.DB.ExecContext(ctx, query,
			u.Username, u.Email, u.PasswordHash, joinRoles(u.Roles), u.Enabled); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// FindByUsername возвращает пользователя по имени.
func (s *Storage) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.postgresql.FindByUsername"
	query := `SELECT id, username, email, password_hash, roles, enabled
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByEmail возвращает пользователя по почте.
func (s *Storage) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgresql.FindByEmail"
	query := `SELECT id, username, email, password_hash, roles, enabled
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Save вставляет пользователя или обновляет запись с тем же именем.
// ID назначается базой данных.
func (s *Storage) Save(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "storage.postgresql.Save"
	query := `INSERT INTO users (username, email, password_hash, roles, enabled)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (username) DO UPDATE
			  SET email = EXCLUDED.email,
			      password_hash = EXCLUDED.password_hash,
			      roles = EXCLUDED.roles,
			      enabled = EXCLUDED.enabled
			  RETURNING id`

	saved := *user
	saved.Roles = append([]string(nil), user.Roles...)
	err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, joinRoles(user.Roles), user.Enabled).Scan(&saved.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &saved, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u     models.User
		roles string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &roles, &u.Enabled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, err
	}
	u.Roles = splitRoles(roles)
	return &u, nil
}

func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

func splitRoles(roles string) []string {
	if roles == "" {
		return nil
	}
	return strings.Split(roles, ",")
}
