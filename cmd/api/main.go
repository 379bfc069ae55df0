package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/employee-api/internal/config"
	"github.com/employee-api/internal/database"
	"github.com/employee-api/internal/handler"
	"github.com/employee-api/internal/service"
	"github.com/employee-api/internal/uow"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Инициализация логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(logger *slog.Logger) error {
	// Загрузка конфигурации
	cfg, err := config.Load(logger)
	if err != nil {
		return err
	}

	isolation, err := uow.ParseIsolationLevel(cfg.Database.IsolationLevel)
	if err != nil {
		return err
	}

	// Подключение к БД
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// Запуск миграций
	if err := database.Migrate(db, cfg.Database.Driver); err != nil {
		return err
	}

	// Каждая операция сервиса получает свой unit of work
	uows := uow.NewFactory(db, isolation)
	employeeService := service.NewEmployeeService(uows, logger)
	employeeHandler := handler.NewEmployeeHandler(employeeService, logger, cfg.IsDevelopment())

	// Настройка роутера
	router := handler.NewRouter(employeeHandler, logger)

	// Настройка HTTP сервера
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server is starting", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
