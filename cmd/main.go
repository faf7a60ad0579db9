/*
Package main is the entry point for the Haven API server.

It loads configuration, initializes logging, connects to PostgreSQL (running
migrations on startup), wires the realtime registry, notification pipeline and
digest scheduler, and runs the HTTP server until an interrupt signal triggers a
graceful shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/db"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/mail"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/notify"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/realtime"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/storage"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/configs"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/handler"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("dm_email_cooldown", cfg.DMEmailCooldown).
		Dur("digest_period", cfg.DigestPeriod).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	queries := store.New(pool)

	storageService, err := storage.NewService(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize storage service")
	}

	registry := realtime.NewRegistry()
	router := realtime.NewRouter(registry)

	mailer := mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromAddress)
	gate := notify.NewCooldownGate(queries, cfg.DMEmailCooldown)
	notifier := notify.NewNotifier(queries, router, gate, mailer, cfg.FrontendURL)

	digests := notify.NewDigestScheduler(queries, mailer, cfg.DigestPeriod, cfg.DigestBuffer, cfg.FrontendURL)
	go digests.Run(ctx, cfg.DigestCheckInterval)

	deps := &handler.AppDeps{
		Config:   cfg,
		DB:       queries,
		Registry: registry,
		Router:   router,
		Storage:  storageService,
		Notifier: notifier,
		Digests:  digests,
	}

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Haven API starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	registry.Shutdown()

	logx.Info("Server gracefully stopped.")
}
