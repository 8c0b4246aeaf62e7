package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saged-tournament/cricket-league/config"
	"github.com/saged-tournament/cricket-league/db"
	"github.com/saged-tournament/cricket-league/handlers"
	"github.com/saged-tournament/cricket-league/live"
	"github.com/saged-tournament/cricket-league/repositories"
	"github.com/saged-tournament/cricket-league/routes"
	"github.com/saged-tournament/cricket-league/services"
	"github.com/saged-tournament/cricket-league/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	conn, err := db.Connect(cfg.DatabaseURL, 10*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()
	logger.Info("database connection established")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		logger.Error("failed to ensure database schema", slog.Any("error", err))
		os.Exit(1)
	}

	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 file uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("R2 storage not configured, logo uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run(ctx)

	tournamentRepo := repositories.NewPostgresTournamentRepository(conn)
	teamRepo := repositories.NewPostgresTeamRepository(conn)

	guard := services.NewAdminGuard()
	tournamentService := services.NewTournamentService(tournamentRepo, teamRepo, guard, hub, logger)
	teamService := services.NewTeamService(teamRepo, tournamentRepo, uploader, logger)

	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	teamHandler := handlers.NewTeamHandler(teamService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, tournamentService, cfg.AllowedOrigins)

	router := chi.NewRouter()
	routes.SetupRoutes(router, cfg.AllowedOrigins, tournamentHandler, teamHandler, webSocketHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.Int("port", cfg.ServerPort))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			_ = server.Close()
		}
	}

	logger.Info("server stopped")
}
