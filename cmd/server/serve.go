package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"birthdays/internal/email"
	"birthdays/internal/events"
	"birthdays/internal/handlers/api"
	"birthdays/internal/jobs"
	"birthdays/internal/logger"
	"birthdays/internal/metrics"
	"birthdays/internal/ratelimit"
	"birthdays/internal/server"
	"birthdays/internal/sharing"
	"birthdays/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations, then serve HTTP and background jobs",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	shutdownTracer, err := telemetry.InitTracer(cfg.OTELEndpoint, "birthdays", version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			logger.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	if err := a.migrate(); err != nil {
		return err
	}

	metrics.Init(a.db)

	// Rate-limit counters and sessions live in Redis when configured so
	// that limits hold across instances.
	var counters ratelimit.Store = ratelimit.NewMemoryStore()
	var storage fiber.Storage
	var redisPing api.Pinger
	if a.redis != nil {
		client := a.redis.Conn()
		counters = ratelimit.NewRedisStore(client)
		storage = a.redis
		redisPing = api.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	tokenLimiter := ratelimit.NewFixedWindow(counters, "submit", cfg.SubmissionRateLimit, cfg.SubmissionRateWindow)
	var ipLimiter sharing.Limiter
	if cfg.IPRateLimit > 0 {
		ipLimiter = ratelimit.NewFixedWindow(counters, "submit", cfg.IPRateLimit, cfg.SubmissionRateWindow)
	}

	// Immediate notifications go to Kafka when brokers are configured and
	// are mailed directly otherwise. Digests are always mailed.
	mailer := email.NewNotifier(cfg, a.db)
	var notifier sharing.Notifier = mailer
	if cfg.IsKafkaEnabled() {
		publisher := events.NewPublisher(events.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic), cfg.KafkaTopic)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("failed to close kafka writer", zap.Error(err))
			}
		}()
		notifier = publisher
		logger.Info("publishing submission events to kafka", zap.Strings("brokers", cfg.KafkaBrokers))
	} else if !mailer.IsEnabled() {
		logger.Info("email is disabled; immediate notifications will be skipped")
	}

	dispatcher := sharing.NewDispatcher(a.db, a.db, notifier)
	// In-flight notifications finish before the database closes
	defer dispatcher.Wait()

	links := sharing.NewLinkService(a.db, cfg.Policy)
	intake := sharing.NewIntakeService(links, a.db, tokenLimiter, ipLimiter, dispatcher)
	review := sharing.NewReviewService(a.db, a.db, cfg.Policy)
	owner := sharing.NewOwnerService(a.db, a.db)

	srv := server.New(cfg, server.Options{Storage: storage})
	if err := srv.RegisterRoutes(ctx, server.Deps{
		Users:    a.db,
		Links:    links,
		Intake:   intake,
		Review:   review,
		Owner:    owner,
		Database: a.db,
		Redis:    redisPing,
	}); err != nil {
		return err
	}

	// Background jobs
	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()
	go jobs.NewLinkCleanup(a.db, cfg.Policy.CleanupInterval, cfg.Policy.CleanupRetention).Start(jobCtx)
	go jobs.NewSummaryDigest(a.db, mailer, cfg.Policy.DigestInterval).Start(jobCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	cancelJobs()
	if err := srv.Shutdown(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
	return nil
}
