package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outreach_backend/internal/directory"
	"outreach_backend/internal/email"
	"outreach_backend/internal/generation"
	apphttp "outreach_backend/internal/http"
	"outreach_backend/internal/http/router"
	"outreach_backend/internal/msgraph"
	"outreach_backend/internal/outreach"
	"outreach_backend/internal/relay"
	"outreach_backend/internal/tasks"
	"outreach_backend/platform/config"
	"outreach_backend/platform/db"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	val := validator.New()

	graphClient := msgraph.NewClient(cfg, log)
	relayClient := relay.NewClient(cfg, log)
	if relayClient.Enabled() {
		log.Info("messaging relay configured", "base_url", cfg.GetRelayBaseURL())
	} else {
		log.Warn("messaging relay not configured; LinkedIn follow-ups disabled")
	}

	var smtpSender email.Sender
	if cfg.IsSMTPEnabled() {
		smtpSender = email.NewSMTPSender(cfg)
		log.Info("smtp fallback sender configured", "host", cfg.GetSMTPHost())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	directoryModule := directory.NewModule(pool, val)
	tasksModule := tasks.NewModule(pool, val)

	outreachModule := outreach.NewModule(
		tasksModule.Repository(),
		directoryModule.Repository(),
		graphClient,
		relayClient,
		smtpSender,
		cfg,
		val,
		log,
	)

	composer, err := generation.NewComposer(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize follow-up composer", "error", err)
		panic("failed to initialize follow-up composer: " + err.Error())
	}
	if composer == nil {
		log.Warn("GEMINI_API_KEY not configured; follow-up drafting disabled")
	}
	generationModule := generation.NewModule(composer, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			directoryModule,
			tasksModule,
			outreachModule,
			generationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
