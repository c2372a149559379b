package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinesocial/auth-api/internal/config"
	"github.com/cinesocial/auth-api/internal/domain"
	"github.com/cinesocial/auth-api/internal/email"
	"github.com/cinesocial/auth-api/internal/handler"
	"github.com/cinesocial/auth-api/internal/metrics"
	"github.com/cinesocial/auth-api/internal/repository/sqlite"
	"github.com/cinesocial/auth-api/internal/service"
	"github.com/cinesocial/auth-api/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	avatars, err := storage.NewDiskStore(cfg.UploadDir, cfg.UploadPublicPrefix)
	if err != nil {
		slog.Error("failed to set up avatar storage", "error", err)
		os.Exit(1)
	}

	var sender domain.EmailSender
	if cfg.SMTPAddr != "" {
		sender, err = email.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
		if err != nil {
			slog.Error("failed to set up smtp sender", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("SMTP_ADDR not set, verification emails will be logged instead of sent")
		sender = email.NewLogSender()
	}

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	authService := service.NewAuthService(db.Users(), sender, service.NewCodeGenerator(), collector, service.AuthConfig{
		JWTSecret: []byte(cfg.JWTSecret),
		CodeTTL:   cfg.CodeTTL,
		SiteName:  cfg.SiteName,
	})
	profileService := service.NewProfileService(db.Users(), avatars)

	router := handler.NewRouter(authService, profileService, collector, handler.RouterConfig{
		CORSAllowedOrigin:  cfg.CORSAllowedOrigin,
		UploadDir:          cfg.UploadDir,
		UploadPublicPrefix: cfg.UploadPublicPrefix,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
