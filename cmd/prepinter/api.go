package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/prepinter/prepinter/internal/api"
	"github.com/prepinter/prepinter/internal/api/metrics"
	"github.com/prepinter/prepinter/internal/api/middleware"
	"github.com/prepinter/prepinter/internal/core/origin"
	"github.com/prepinter/prepinter/internal/core/service"
	"github.com/prepinter/prepinter/internal/infrastructure/config"
	mongodb "github.com/prepinter/prepinter/internal/infrastructure/db/mongo"
	redisdb "github.com/prepinter/prepinter/internal/infrastructure/db/redis"
	opshttp "github.com/prepinter/prepinter/internal/infrastructure/http"
	"github.com/prepinter/prepinter/internal/infrastructure/http/handlers"
	"github.com/prepinter/prepinter/internal/infrastructure/queue"
	"github.com/prepinter/prepinter/internal/infrastructure/telemetry"
	"github.com/prepinter/prepinter/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newAPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Serve the REST API and the ops listener",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := setup(ctx, "api")
			if err != nil {
				return err
			}
			return runAPI(ctx, cfg)
		},
	}
}

func runAPI(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	tracingShutdown, err := telemetry.InitTracer(ctx, telemetry.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Tracing.ServiceName,
		Environment:  cfg.Env,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled")
		cfg.Tracing.Enabled = false
		tracingShutdown = func(context.Context) error { return nil }
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		closeStores(context.Background(), log, nil, mongoClient)
		return err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	interviewRepo := mongodb.NewInterviewRepository(db)
	sessionRepo := mongodb.NewSessionRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, interviewRepo, sessionRepo, paymentRepo, activityRepo); err != nil {
		closeStores(context.Background(), log, rdb, mongoClient)
		return err
	}

	// --- Services ---
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	analyticsService := service.NewAnalyticsService(activityRepo, interviewRepo, log)
	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, cfg.Activity.BufferSize, analyticsService, log)
	authService := service.NewAuthService(userRepo, tokens, log)
	interviewService := service.NewInterviewService(interviewRepo, dispatcher, log)
	sessionService := service.NewSessionService(sessionRepo, interviewRepo, dispatcher, log)
	paymentService := service.NewPaymentService(paymentRepo, userRepo, redisdb.NewIdempotencyStore(rdb), dispatcher, log)

	policy := origin.NewPolicy(cfg.Origins(), cfg.IsProduction(),
		origin.WithLogger(log),
		origin.WithRejectHook(func(string) { metrics.CORSRejectionsTotal.Inc() }),
	)
	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)

	deps := api.Deps{
		Log:         log,
		Production:  cfg.IsProduction(),
		Policy:      policy,
		Verifier:    authService,
		Auth:        authService,
		Interviews:  interviewService,
		Sessions:    sessionService,
		Payments:    paymentService,
		Analytics:   analyticsService,
		RateLimiter: limiter,
		UploadsDir:  cfg.UploadsDir,
		BodyLimit:   cfg.BodyLimit,
	}
	if cfg.Tracing.Enabled {
		deps.TracingService = cfg.Tracing.ServiceName
	}
	apiServer := api.NewRouter(deps)
	opsServer := opshttp.NewOpsRouter(
		handlers.Check{Name: "mongodb", Ping: mongodb.Ping(db)},
		handlers.Check{Name: "redis", Ping: redisdb.Ping(rdb)},
	)

	// Workers outlive the request context so buffered events drain after
	// the listeners stop.
	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	dispatcher.Start(workerCtx)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		limiter.Run(gCtx)
		return nil
	})
	g.Go(func() error {
		return serve(gCtx, apiServer, net.JoinHostPort("", cfg.Port))
	})
	g.Go(func() error {
		return serve(gCtx, opsServer, net.JoinHostPort("", cfg.OpsPort))
	})

	log.Info().
		Str("port", cfg.Port).
		Str("ops_port", cfg.OpsPort).
		Str("env", cfg.Env).
		Msg("server running")

	err = g.Wait()

	stopWorkers()
	dispatcher.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	closeStores(shutdownCtx, log, rdb, mongoClient)
	if terr := tracingShutdown(shutdownCtx); terr != nil {
		log.Error().Err(terr).Msg("tracing shutdown")
	}

	if err != nil {
		return err
	}
	log.Info().Msg("server exited properly")
	return nil
}

// closeStores releases the Redis and Mongo connections. A nil Redis client
// is skipped.
func closeStores(ctx context.Context, log zerolog.Logger, rdb *redis.Client, client *mongo.Client) {
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}

// serve runs e on addr until ctx is cancelled, then shuts it down
// gracefully.
func serve(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log := logger.Get()
	log.Info().Str("addr", addr).Msg("shutting down listener")
	return e.Shutdown(shutdownCtx)
}
