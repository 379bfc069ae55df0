package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config содержит настройки приложения
type Config struct {
	Env      string         `envconfig:"APP_ENV" default:"development" validate:"oneof=development production"`
	Server   ServerConfig   `envconfig:"SERVER"`
	Database DatabaseConfig `envconfig:"DB"`
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `envconfig:"DRIVER" default:"postgres" validate:"oneof=postgres sqlite"`
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            string `envconfig:"PORT" default:"5432"`
	User            string `envconfig:"USER" default:"postgres"`
	Password        string `envconfig:"PASSWORD" default:"postgres"`
	DBName          string `envconfig:"NAME" default:"employees"`
	SSLMode         string `envconfig:"SSLMODE" default:"disable"`
	Path            string `envconfig:"PATH" default:"employees.db"`
	ConnectAttempts int    `envconfig:"CONNECT_ATTEMPTS" default:"30" validate:"min=1"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"25" validate:"min=1"`
	IsolationLevel  string `envconfig:"ISOLATION_LEVEL" default:"snapshot" validate:"oneof=read_committed repeatable_read snapshot serializable"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// SQLiteDSN возвращает строку подключения к файлу SQLite с включёнными внешними ключами
func (c *DatabaseConfig) SQLiteDSN() string {
	return fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000", c.Path)
}

// IsDevelopment сообщает, можно ли отдавать клиенту подробности внутренних ошибок
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load загружает конфигурацию из переменных окружения.
// Если рядом лежит .env, его значения подхватываются первыми.
func Load(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using system environment variables")
	} else {
		logger.Info("environment variables loaded from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("config loaded",
		slog.String("env", cfg.Env),
		slog.String("port", cfg.Server.Port),
		slog.String("db_driver", cfg.Database.Driver),
		slog.String("isolation_level", cfg.Database.IsolationLevel),
	)
	return &cfg, nil
}
