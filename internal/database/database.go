package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/employee-api/internal/config"
	"github.com/employee-api/internal/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// retryDelay - пауза между попытками подключения к PostgreSQL
var retryDelay = time.Second

// Options возвращает общую конфигурацию gorm.
// Транзакциями управляет unit of work, поэтому неявные транзакции gorm отключены.
func Options() *gorm.Config {
	return &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
		SkipDefaultTransaction: true,
	}
}

// Open подключается к БД, выбранной в cfg.Driver
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "postgres":
		db, err = connectPostgres(cfg, logger)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLiteDSN()), Options())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	return db, nil
}

// Migrate применяет миграции для диалекта driver
func Migrate(db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return migrations.Up(sqlDB, driver)
}

func connectPostgres(cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for attempt := 1; attempt <= cfg.ConnectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), Options())
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					return db, nil
				}
				_ = sqlDB.Close()
			} else {
				err = dbErr
			}
		}

		logger.Warn("database is not ready",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", cfg.ConnectAttempts, err)
}
