package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/squad-stats/internal/app"
	"github.com/riskibarqy/squad-stats/internal/config"
	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/squad-stats/internal/observability"
	"github.com/riskibarqy/squad-stats/internal/platform/logging"
	"github.com/riskibarqy/squad-stats/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	cfg.ServiceName = strings.TrimSuffix(cfg.ServiceName, "-api") + "-worker"

	logger := logging.New(logging.Options{
		Level:          cfg.LogLevel,
		Service:        cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.AppEnv,
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if !cfg.AMQP.Enabled && cfg.Reconcile.Interval <= 0 {
		logger.Error("statsworker has nothing to do", "reason", "set AMQP_ENABLED=true or RECONCILE_INTERVAL>0")
		os.Exit(2)
	}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	var wg conc.WaitGroup
	if cfg.AMQP.Enabled {
		consumer := jobqueue.NewAMQPConsumer(app.AMQPConfig(cfg), reconcileCompleted(container.Reconcile, logger), logger)
		wg.Go(func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("amqp consumer stopped", "error", err)
				stop()
			}
		})
	}
	if cfg.Reconcile.Interval > 0 {
		wg.Go(func() {
			runInterval(ctx, container.Reconcile, cfg.Reconcile.Interval, logger)
		})
	}

	logger.Info("statsworker started",
		"amqp_enabled", cfg.AMQP.Enabled,
		"reconcile_interval", cfg.Reconcile.Interval.String(),
	)
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := container.Close(); err != nil {
		logger.Error("close app", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}
	logger.Info("statsworker stopped")
}

// reconcileCompleted rebuilds the cache for the team of a completed match.
// A failed team is returned as an error so the delivery is retried once.
func reconcileCompleted(svc *usecase.ReconcileService, logger *logging.Logger) jobqueue.CompletedHandler {
	return func(ctx context.Context, event match.CompletedEvent) error {
		result, err := svc.Reconcile(ctx, usecase.ReconcileInput{TeamIDs: []string{event.TeamID}, MaxWorkers: 1})
		if err != nil {
			return err
		}
		if result.FailedCount > 0 {
			return fmt.Errorf("reconcile team %s failed", event.TeamID)
		}
		logger.InfoContext(ctx, "cache rebuilt after match completed",
			"match_id", event.MatchID,
			"team_id", event.TeamID,
			"discrepancy_count", result.DiscrepancyCount,
		)
		return nil
	}
}

func runInterval(ctx context.Context, svc *usecase.ReconcileService, interval time.Duration, logger *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := svc.Reconcile(ctx, usecase.ReconcileInput{})
			if err != nil {
				logger.WarnContext(ctx, "scheduled reconcile failed", "error", err)
				continue
			}
			logger.InfoContext(ctx, "scheduled reconcile finished",
				"team_count", result.TeamCount,
				"failed_count", result.FailedCount,
				"discrepancy_count", result.DiscrepancyCount,
			)
		}
	}
}
