package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	assignmentrepository "leadflow_backend/internal/assignment/repository"
	assignmentservice "leadflow_backend/internal/assignment/service"
	"leadflow_backend/internal/events"
	"leadflow_backend/internal/notification"
	"leadflow_backend/internal/scheduler"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/db"
	"leadflow_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The worker consumes the asynq queues: follow-up reminders scheduled by the
// API and reassignment commands drained from the outbox. It shares the
// database with the API but runs as a separate process so queue processing
// never competes with request handling.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	if cfg.GetRedisURL() == "" {
		log.Error("REDIS_URL is required for the worker")
		panic("REDIS_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	var notifier notification.Sender
	if cfg.GetEmailEnabled() {
		notifier = notification.NewSMTPSender(cfg)
		log.Info("email notifications enabled", "host", cfg.GetSMTPHost())
	} else {
		notifier = notification.NoopSender{}
		log.Warn("SMTP not configured; email notifications disabled")
	}

	assignmentRepo := assignmentrepository.New(pool)
	assignmentSvc := assignmentservice.New(assignmentRepo, eventBus, cfg, log)
	assignmentSvc.SetNotifier(notifier)

	worker, err := scheduler.NewWorker(cfg, pool, assignmentSvc, notifier, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	log.Info("worker listening", "queue", cfg.GetAsynqQueueName(), "concurrency", cfg.GetAsynqConcurrency())
	worker.Run(ctx)
	log.Info("worker stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
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

	return lastErr
}
