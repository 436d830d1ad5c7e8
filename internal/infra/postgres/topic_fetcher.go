package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"isit-trivia/internal/domain"
)

// TopicFetcher loads raw topic text from the quiz_topics table.
type TopicFetcher struct {
	pool *pgxpool.Pool
}

func NewTopicFetcher(pool *pgxpool.Pool) *TopicFetcher {
	return &TopicFetcher{pool: pool}
}

func (f *TopicFetcher) FetchText(ctx context.Context, topic string) (string, error) {
	var content string
	err := f.pool.QueryRow(ctx, `SELECT content FROM quiz_topics WHERE topic=$1`, topic).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("load topic %s: %w", topic, domain.ErrTopicNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("load topic %s: %w", topic, err)
	}
	return content, nil
}

// StoreTopic inserts or replaces the text of a topic.
func (f *TopicFetcher) StoreTopic(ctx context.Context, topic, content string) error {
	_, err := f.pool.Exec(ctx, `
		INSERT INTO quiz_topics (topic, content, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (topic) DO UPDATE SET content=EXCLUDED.content, updated_at=EXCLUDED.updated_at`,
		topic, content)
	if err != nil {
		return fmt.Errorf("store topic %s: %w", topic, err)
	}
	return nil
}
