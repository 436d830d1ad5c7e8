package redis

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"isit-trivia/internal/app"
)

// TextCache stores raw topic text in Redis and falls back to a source on miss.
// Text is stored as: SET isit:topic:{topic} {text} EX ttl
type TextCache struct {
	client *redis.Client
	source app.TopicFetcher
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

// NewTextCache caches source text for ttl plus up to 10% jitter. A ttl of
// zero or less stores keys without expiry; they stay until Invalidate.
func NewTextCache(client *redis.Client, source app.TopicFetcher, ttl time.Duration) *TextCache {
	return &TextCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FetchText serves topic from Redis or loads it once for all concurrent
// callers. The shared load outlives any single caller's cancellation; a
// cancelled caller stops waiting and gets ctx.Err().
func (c *TextCache) FetchText(ctx context.Context, topic string) (string, error) {
	key := c.topicKey(topic)

	text, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return text, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(topic, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		text, err := c.client.Get(loadCtx, key).Result()
		if err == nil {
			return text, nil
		}
		// Only a clean miss is written back; Redis trouble just falls through to the source.
		cacheable := errors.Is(err, redis.Nil)

		text, err = c.source.FetchText(loadCtx, topic)
		if err != nil {
			return "", err
		}
		if cacheable {
			_ = c.client.Set(loadCtx, key, text, c.ttlWithJitter()).Err()
		}
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate removes cached text for the given topics.
func (c *TextCache) Invalidate(ctx context.Context, topics ...string) error {
	if len(topics) == 0 {
		return nil
	}
	keys := make([]string, len(topics))
	for i, topic := range topics {
		keys[i] = c.topicKey(topic)
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *TextCache) topicKey(topic string) string {
	return "isit:topic:" + topic
}

func (c *TextCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
