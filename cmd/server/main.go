package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"course-service/internal/api"
	"course-service/internal/config"
	"course-service/internal/events"
	"course-service/internal/repository"
	"course-service/internal/service"
	"course-service/internal/tracing"
	_ "course-service/migrations"
)

func main() {
	cfg, err := config.Load(".env.dev")
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := api.SetupGlobalHandler(cfg.ServiceName, cfg.LogLevel); err != nil {
		slog.Error("Failed to configure logging", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrations(cfg); err != nil {
			slog.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	shutdownTracer, err := tracing.InitTracerProvider(tracing.Options{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OtelEndpoint,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Warn("Error shutting down tracer provider", slog.String("error", err.Error()))
		}
	}()

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("Successfully connected to the database.")

	publisher := newPublisher(cfg.NatsURL)
	defer publisher.Close()

	userRepo := repository.NewPostgresUserRepository(db)
	courseRepo := repository.NewPostgresCourseRepository(db)

	app := api.NewApp(cfg.ServiceName, api.Services{
		Auth:   service.NewAuthService(userRepo),
		User:   service.NewUserService(userRepo, publisher, cfg.BcryptCost),
		Course: service.NewCourseService(courseRepo, publisher),
	})

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("Listening", slog.String("service", cfg.ServiceName), slog.String("port", cfg.Port))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		return err
	case <-quit:
	}

	slog.Info("Shutdown signal received, draining connections...")

	return app.ShutdownWithTimeout(10 * time.Second)
}

func newPublisher(natsURL string) events.EventPublisher {
	if natsURL == "" {
		slog.Info("NATS_URL not set, domain events are disabled")
		return events.NopPublisher{}
	}

	publisher, err := events.NewNatsPublisher(natsURL)
	if err != nil {
		slog.Warn("Failed to connect to NATS, domain events are disabled", slog.String("error", err.Error()))
		return events.NopPublisher{}
	}

	slog.Info("Successfully connected to NATS.")
	return publisher
}

func handleMigrations(cfg *config.Config) error {
	slog.Info("Running database migrations...")

	db, err := sql.Open("pgx", cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return err
	}

	slog.Info("Migrations applied successfully!")
	return nil
}
