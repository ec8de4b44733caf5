// Package app wires configuration, storage, messaging and HTTP serving into
// a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/AssistantGo/internal/auth"
	"github.com/utafrali/AssistantGo/internal/cache"
	"github.com/utafrali/AssistantGo/internal/config"
	"github.com/utafrali/AssistantGo/internal/event"
	handler "github.com/utafrali/AssistantGo/internal/handler/http"
	"github.com/utafrali/AssistantGo/internal/llm"
	"github.com/utafrali/AssistantGo/internal/repository/postgres"
	"github.com/utafrali/AssistantGo/internal/service"
	"github.com/utafrali/AssistantGo/migrations"
	"github.com/utafrali/AssistantGo/pkg/database"
	"github.com/utafrali/AssistantGo/pkg/health"
	"github.com/utafrali/AssistantGo/pkg/httpclient"
	"github.com/utafrali/AssistantGo/pkg/kafka"
	"github.com/utafrali/AssistantGo/pkg/logger"
	"github.com/utafrali/AssistantGo/pkg/tracing"
)

// App holds the service's long-lived resources.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool        *pgxpool.Pool
	redisClient *redis.Client
	producer    *kafka.Producer

	server         *http.Server
	tracerShutdown func(context.Context) error
}

// New builds the application: it connects to PostgreSQL and Redis, runs
// migrations, and wires the full handler stack.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(cfg.Service.Name, cfg.Service.LogLevel)
	slog.SetDefault(log)

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, &database.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	var events event.Publisher = event.NoopPublisher{}
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.Kafka.Brokers), log)
		events = event.NewKafkaPublisher(producer, log)
	}

	tokens, err := auth.NewTokenManager(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTokenTTL(),
		cfg.Auth.RefreshTokenTTL(),
		cfg.Service.Name,
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	userRepo := postgres.NewUserRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	profileCache := cache.NewProfileCache(redisClient, cfg.Redis.CacheTTL, log)

	llmHTTP := httpclient.New(httpclient.Config{
		Timeout:         cfg.LLM.RequestTimeout,
		MaxConnsPerHost: 50,
	})
	llmClient := llm.NewGeminiClient(
		httpclient.NewCircuitBreakerClient(llmHTTP, httpclient.DefaultCircuitBreakerConfig("gemini"), log),
		cfg.LLM.BaseURL,
		cfg.LLM.Model,
		cfg.LLM.APIKey,
	)

	authSvc := service.NewAuthService(userRepo, profileRepo, tokens, hasher, events, log)
	userSvc := service.NewUserService(userRepo, profileRepo, profileCache, hasher, events, log)
	assistantSvc := service.NewAssistantService(userRepo, profileRepo, profileCache, llmClient, log)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(authSvc, cfg.Auth.CookieSecure, cfg.Auth.CookieDomain, log),
		Users:          handler.NewUserHandler(userSvc, cfg.Auth.CookieSecure, cfg.Auth.CookieDomain, log),
		Assistant:      handler.NewAssistantHandler(assistantSvc, log),
		Authenticator:  handler.NewAuthenticator(tokens, userRepo, log),
		Health:         healthHandler,
		Logger:         log,
		ServiceName:    cfg.Service.Name,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:            cfg,
		logger:         log,
		pool:           pool,
		redisClient:    redisClient,
		producer:       producer,
		server:         server,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or a
// termination signal arrives, then shuts everything down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close failed", slog.String("error", err.Error()))
		}
	}

	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close failed", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown failed", slog.String("error", err.Error()))
	}

	a.logger.Info("shutdown complete")
	return nil
}
