package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"isit-trivia/internal/app"
	"isit-trivia/internal/config"
	"isit-trivia/internal/infra/content"
	"isit-trivia/internal/infra/memory"
	pgstore "isit-trivia/internal/infra/postgres"
	redisstore "isit-trivia/internal/infra/redis"
	transport "isit-trivia/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runServer(cmd.Context(), cfg, opts.port, logger)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, portFlag string, logger *zap.Logger) error {
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
	}

	source, err := newSource(cfg, pool)
	if err != nil {
		return err
	}

	cacheTTL := config.TTLDuration(cfg.Data.CacheTTL, 10*time.Minute)
	var fetcher app.TopicFetcher
	if redisClient != nil {
		fetcher = redisstore.NewTextCache(redisClient, source, cacheTTL)
	} else {
		fetcher = memory.NewTextCache(source, cacheTTL)
	}

	var sessions app.SessionRepository
	var progress app.ProgressRepository
	progressTTL := config.TTLDuration(cfg.Daily.ProgressTTL, 48*time.Hour)
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, redisTTL)
		progress = redisstore.NewProgressStore(redisClient, progressTTL)
	} else {
		sessions = memory.NewSessionStore()
		progress = memory.NewProgressStore()
	}

	var engineOpts []app.EngineOption
	if len(cfg.Data.Topics) > 0 {
		engineOpts = append(engineOpts, app.WithTopics(cfg.Data.Topics))
	}
	service := app.NewGameService(sessions, progress, fetcher, logger, engineOpts...)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	reapCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go reapIdleSessions(reapCtx, service, config.TTLDuration(cfg.Server.SessionTimeout, 60*time.Minute))

	go func() {
		logger.Info("starting trivia server",
			zap.String("port", finalPort),
			zap.String("source", cfg.Data.Source),
			zap.Bool("redis", redisClient != nil))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// reapIdleSessions evicts sessions idle for longer than timeout until ctx ends.
func reapIdleSessions(ctx context.Context, service *app.GameService, timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	interval := timeout / 2
	if interval <= 0 {
		interval = timeout
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			service.EvictIdle(ctx, now.Add(-timeout))
		}
	}
}

// newSource picks the uncached topic fetcher for the configured data source.
func newSource(cfg config.Config, pool *pgxpool.Pool) (app.TopicFetcher, error) {
	switch cfg.Data.Source {
	case config.SourceDir:
		return content.NewDirFetcher(cfg.Data.Dir), nil
	case config.SourceHTTP:
		timeout := config.TTLDuration(cfg.Data.FetchTimeout, 10*time.Second)
		return content.NewHTTPFetcher(cfg.Data.BaseURL, timeout), nil
	case config.SourcePostgres:
		if pool == nil {
			return nil, errors.New("postgres source needs postgres.url")
		}
		return pgstore.NewTopicFetcher(pool), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}
