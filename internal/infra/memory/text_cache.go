package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"isit-trivia/internal/app"
	"isit-trivia/internal/domain"
)

// TextCache keeps topic text in process with a TTL so every new player
// engine does not hit the content source again.
type TextCache struct {
	source app.TopicFetcher
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedText
}

type cachedText struct {
	text string
	// zero means the entry never expires
	expiresAt time.Time
}

// NewTextCache caches source text for ttl plus up to 10% jitter. A ttl of
// zero or less keeps entries until Invalidate.
func NewTextCache(source app.TopicFetcher, ttl time.Duration) *TextCache {
	return &TextCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedText),
	}
}

// FetchText serves topic from the cache or loads it once for all concurrent
// callers. The shared load outlives any single caller's cancellation; a
// cancelled caller stops waiting and gets ctx.Err().
func (c *TextCache) FetchText(ctx context.Context, topic string) (string, error) {
	if text, ok := c.lookup(topic); ok {
		return text, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(topic, func() (interface{}, error) {
		if text, ok := c.lookup(topic); ok {
			return text, nil
		}

		text, err := c.source.FetchText(loadCtx, topic)
		if err != nil {
			return "", err
		}

		entry := cachedText{text: text}
		if ttl := c.ttlWithJitter(); ttl > 0 {
			entry.expiresAt = c.clock().Add(ttl)
		}
		c.mu.Lock()
		c.cache[topic] = entry
		c.mu.Unlock()
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

func (c *TextCache) lookup(topic string) (string, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[topic]
	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(now) {
		return "", false
	}
	return entry.text, true
}

// Invalidate drops every cached topic.
func (c *TextCache) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]cachedText)
	c.mu.Unlock()
}

func (c *TextCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticFetcher serves topic text from a map (useful for tests/demos).
type StaticFetcher struct {
	topics map[string]string
}

func NewStaticFetcher(topics map[string]string) *StaticFetcher {
	return &StaticFetcher{topics: topics}
}

func (f *StaticFetcher) FetchText(ctx context.Context, topic string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if text, ok := f.topics[topic]; ok {
		return text, nil
	}
	return "", domain.ErrTopicNotFound
}
