package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/prjrating/sellerrating/internal/auth"
	"github.com/prjrating/sellerrating/internal/config"
	"github.com/prjrating/sellerrating/internal/event"
	handler "github.com/prjrating/sellerrating/internal/handler/http"
	"github.com/prjrating/sellerrating/internal/notification"
	"github.com/prjrating/sellerrating/internal/repository/postgres"
	redisrepo "github.com/prjrating/sellerrating/internal/repository/redis"
	"github.com/prjrating/sellerrating/internal/service"
	"github.com/prjrating/sellerrating/migrations"
	"github.com/prjrating/sellerrating/pkg/database"
	"github.com/prjrating/sellerrating/pkg/health"
	pkgkafka "github.com/prjrating/sellerrating/pkg/kafka"
	"github.com/prjrating/sellerrating/pkg/middleware"
	"github.com/prjrating/sellerrating/pkg/tracing"
)

// idempotencyTTL bounds how long consumed notification event ids are kept.
const idempotencyTTL = 24 * time.Hour

// App wires together all dependencies and runs the seller rating service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	dlq            *pkgkafka.DLQProducer
	consumer       *event.NotificationConsumer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	// Initialize PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, cfg.ServiceName)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryThreshold > 0 {
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)
	}

	// Initialize Redis for confirmation and reset codes.
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis(), logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = redisClient
	database.RegisterRedisMetrics(redisClient, cfg.ServiceName)
	logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))

	// Notifications are either sent inline or queued on Kafka and sent by
	// the consumer started in Run.
	dispatcher := notification.NewDispatcher(
		notification.NewRenderer(cfg.PublicBaseURL),
		newSender(cfg, logger),
		logger,
	)
	var notifier service.Notifier = dispatcher
	if cfg.KafkaEnabled() {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		a.dlq = pkgkafka.NewDLQProducer(cfg.KafkaBrokers, logger)
		a.consumer = event.NewNotificationConsumer(
			event.ConsumerConfig{Brokers: cfg.KafkaBrokers, GroupID: cfg.KafkaGroupID},
			dispatcher,
			redisrepo.NewIdempotencyStore(redisClient, idempotencyTTL),
			a.dlq,
			logger,
		)
		notifier = event.NewNotificationProducer(a.producer, logger)
		logger.Info("kafka notification pipeline initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry)
	userRepo := postgres.NewUserRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	ratingRepo := postgres.NewRatingRepository(pool)
	gameObjectRepo := postgres.NewGameObjectRepository(pool)
	codes := redisrepo.NewCodeStore(redisClient)

	svcs := handler.Services{
		Auth: service.NewAuthService(userRepo, codes, jwtManager, notifier, service.AuthConfig{
			BcryptCost:      cfg.BcryptCost,
			ConfirmationTTL: cfg.ConfirmationCodeTTL,
			ResetTTL:        cfg.ResetCodeTTL,
		}, logger),
		Users:       service.NewUserService(userRepo, cfg.BcryptCost, logger),
		Comments:    service.NewCommentService(commentRepo, userRepo, cfg.BcryptCost, logger),
		Ratings:     service.NewRatingService(ratingRepo, commentRepo, logger),
		Admin:       service.NewAdminService(userRepo, ratingRepo, notifier, cfg.TopSellersPageSize, logger),
		GameObjects: service.NewGameObjectService(gameObjectRepo, userRepo, logger),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if a.producer != nil {
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(svcs, jwtManager.TokenValidator(), healthHandler, logger, handler.RouterConfig{
		ServiceName:        cfg.ServiceName,
		CORS:               middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins},
		PprofAllowedCIDRs:  cfg.PprofAllowedCIDRs,
		PublicCacheMaxAge:  cfg.PublicCacheMaxAge,
		TopSellersPageSize: cfg.TopSellersPageSize,
		AnonymousRateLimit: middleware.RateLimitConfig{
			RPS:   cfg.RateLimitRPS,
			Burst: cfg.RateLimitBurst,
		},
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// newSender returns an SMTP sender, or a log-only sender when no relay is
// configured.
func newSender(cfg *config.Config, logger *slog.Logger) notification.Sender {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST is empty; emails will be logged, not sent")
		return notification.NewLogSender(logger)
	}
	return notification.NewSMTPSender(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, notification.DefaultBreakerConfig(), logger)
}

// Run starts the HTTP server, and the notification consumer when Kafka is
// enabled, and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()

	var wg sync.WaitGroup
	if a.consumer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.logger.Info("starting notification consumer", slog.String("topic", event.TopicNotificationRequested))
			if err := a.consumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("notification consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		a.logger.Error("component failed", slog.String("error", runErr.Error()))
	}

	stopConsumer()
	wg.Wait()

	return errors.Join(runErr, a.Shutdown())
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Notification consumer and Kafka writers
// 3. Tracer (flush pending spans)
// 4. Redis client
// 5. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.dlq != nil {
		if err := a.dlq.Close(); err != nil {
			a.logger.Error("kafka dlq producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
