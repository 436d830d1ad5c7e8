package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"isit-trivia/internal/app"
	"isit-trivia/internal/config"
	"isit-trivia/internal/infra/content"
	pgstore "isit-trivia/internal/infra/postgres"
	redisstore "isit-trivia/internal/infra/redis"
	"isit-trivia/internal/quizdata"
)

// NewImportCmd copies .quiz files from a directory into Postgres.
func NewImportCmd(opts *rootOptions) *cobra.Command {
	var dir string
	var topics []string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load .quiz files into the quiz_topics table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if dir == "" {
				dir = cfg.Data.Dir
			}
			if len(topics) == 0 {
				topics = cfg.Data.Topics
			}
			if len(topics) == 0 {
				topics = app.DefaultTopics
			}
			return runImport(cmd.Context(), cfg, dir, topics, logger)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory holding <topic>.quiz files (default data.dir)")
	cmd.Flags().StringSliceVar(&topics, "topics", nil, "topics to import (default data.topics or the built-in list)")
	return cmd
}

func runImport(ctx context.Context, cfg config.Config, dir string, topics []string, logger *zap.Logger) error {
	if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	files := content.NewDirFetcher(dir)
	store := pgstore.NewTopicFetcher(pool)
	for _, topic := range topics {
		text, err := files.FetchText(ctx, topic)
		if err != nil {
			return err
		}
		if err := store.StoreTopic(ctx, topic, text); err != nil {
			return err
		}
		logger.Info("topic imported",
			zap.String("topic", topic),
			zap.String("path", files.Path(topic)),
			zap.Int("items", len(quizdata.Parse(text))))
	}

	// Drop stale cached copies so running servers pick up the new text.
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		cache := redisstore.NewTextCache(client, store, config.TTLDuration(cfg.Data.CacheTTL, 0))
		if err := cache.Invalidate(ctx, topics...); err != nil {
			return err
		}
	}
	return nil
}
