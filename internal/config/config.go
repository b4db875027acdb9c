// Package config предоставляет структуры и функции для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	Session         `yaml:"session"`
	RedisConnection `yaml:"redis_connection"`
	Storage         `yaml:"storage"`
	CORS            `yaml:"cors"`
	JWTToken        `yaml:"jwttoken"`
	RabbitMQ        `yaml:"rabbitmq"`
	GRPC            `yaml:"grpc"`
	RateLimit       `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Session структура для настройки HTTP-сессий
type Session struct {
	SessionStore string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	CookieName   string        `yaml:"cookie_name" env-default:"JSESSIONID"`
	CookieSecure bool          `yaml:"cookie_secure"`
	MaxInactive  time.Duration `yaml:"max_inactive_interval" env-default:"30m"`
	Namespace    string        `yaml:"namespace" env-default:"hexagonal-auth:session"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// Storage структура для выбора хранилища пользователей
type Storage struct {
	Driver                  string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_DSN"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
}

// CORS структура для настройки разрешённых источников
type CORS struct {
	AllowedOrigins []string      `yaml:"allowed_origins" env-default:"http://localhost:5173,http://localhost:3000"`
	MaxAge         time.Duration `yaml:"max_age" env-default:"1h"`
}

// JWTToken структура для работы с jwt-токеном.
// Пустой ключ отключает выдачу токена при входе.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"30m"`
}

// RabbitMQ структура для публикации событий аудита.
// Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL          string        `yaml:"url" env:"RABBITMQ_URL"`
	Retries      int           `yaml:"retries" env-default:"5"`
	RetryDelay   time.Duration `yaml:"retry_delay" env-default:"2s"`
	ExchangeName string        `yaml:"exchange" env-default:"auth.events"`
}

// GRPC структура для настройки gRPC health-сервера.
// Пустой адрес отключает сервер.
type GRPC struct {
	AddressGRPC string `yaml:"address" env:"GRPC_ADDRESS"`
}

// RateLimit структура для ограничения частоты попыток входа
type RateLimit struct {
	LoginPerMinute  int           `yaml:"login_per_minute" env-default:"30"`
	LoginBurst      int           `yaml:"login_burst" env-default:"10"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env-default:"5m"`
}

// Load читает конфиг по указанному пути. Переменные окружения перекрывают значения из файла.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из CONFIG_PATH.
// Перед чтением подгружает необязательный файл .env.
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}
	switch c.Driver {
	case "memory":
	case "postgres":
		if c.StorageConnectionString == "" {
			return errors.New("storage_connection_string is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Session:\n"+
			"  Store: %s\n"+
			"  CookieName: %s\n"+
			"  MaxInactive: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"CORS:\n"+
			"  AllowedOrigins: %v\n"+
			"JWTToken:\n"+
			"  Enabled: %t\n"+
			"  TokenTTL: %s\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"GRPC:\n"+
			"  Address: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.SessionStore,
		c.CookieName,
		c.MaxInactive,
		c.AddressRedis,
		c.DB,
		c.Driver,
		c.AllowedOrigins,
		c.JWTSecretKey != "",
		c.TokenTTL,
		c.URL != "",
		c.AddressGRPC,
	)
}
