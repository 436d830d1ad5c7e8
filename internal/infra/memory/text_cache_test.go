package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"isit-trivia/internal/app"
	"isit-trivia/internal/domain"
)

func TestTextCacheCaches(t *testing.T) {
	source := &countingFetcher{
		TopicFetcher: NewStaticFetcher(map[string]string{
			"mythology": sampleTopic(),
		}),
	}
	cache := NewTextCache(source, time.Minute)

	text, err := cache.FetchText(context.Background(), "mythology")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if text != sampleTopic() {
		t.Fatalf("unexpected text %q", text)
	}
	if source.count() != 1 {
		t.Fatalf("expected source once, got %d", source.count())
	}

	if _, err := cache.FetchText(context.Background(), "mythology"); err != nil {
		t.Fatalf("fetch 2: %v", err)
	}
	if source.count() != 1 {
		t.Fatalf("expected cache hit, source calls %d", source.count())
	}
}

func TestTextCacheExpires(t *testing.T) {
	source := &countingFetcher{TopicFetcher: NewStaticFetcher(map[string]string{"tech": "Go | ProgrammingLang: \"Gopher\""})}
	cache := NewTextCache(source, time.Minute)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.FetchText(context.Background(), "tech")
	now = now.Add(2 * time.Minute)
	_, _ = cache.FetchText(context.Background(), "tech")
	if source.count() != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", source.count())
	}

	cache.Invalidate()
	_, _ = cache.FetchText(context.Background(), "tech")
	if source.count() != 3 {
		t.Fatalf("expected refetch after invalidate, got %d calls", source.count())
	}
}

func TestTextCacheDoesNotCacheErrors(t *testing.T) {
	source := &countingFetcher{TopicFetcher: NewStaticFetcher(nil)}
	cache := NewTextCache(source, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.FetchText(context.Background(), "missing"); !errors.Is(err, domain.ErrTopicNotFound) {
			t.Fatalf("expected topic not found, got %v", err)
		}
	}
	if source.count() != 2 {
		t.Fatalf("expected errors to bypass cache, got %d calls", source.count())
	}
}

func TestTextCacheZeroTTLKeepsEntries(t *testing.T) {
	source := &countingFetcher{TopicFetcher: NewStaticFetcher(map[string]string{"tech": "Go | ProgrammingLang: \"Gopher\""})}
	cache := NewTextCache(source, 0)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.FetchText(context.Background(), "tech")
	now = now.Add(1000 * time.Hour)
	_, _ = cache.FetchText(context.Background(), "tech")
	if source.count() != 1 {
		t.Fatalf("expected entry kept without ttl, got %d calls", source.count())
	}

	cache.Invalidate()
	_, _ = cache.FetchText(context.Background(), "tech")
	if source.count() != 2 {
		t.Fatalf("expected refetch after invalidate, got %d calls", source.count())
	}
}

func TestTextCacheSharedLoadOutlivesCancelledCaller(t *testing.T) {
	source := newBlockingFetcher()
	cache := NewTextCache(source, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.FetchText(ctx, "mythology")
		firstErr <- err
	}()
	<-source.started

	type result struct {
		text string
		err  error
	}
	second := make(chan result, 1)
	go func() {
		text, err := cache.FetchText(context.Background(), "mythology")
		second <- result{text, err}
	}()

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled caller to stop waiting, got %v", err)
	}

	close(source.release)
	got := <-second
	if got.err != nil || got.text != sampleTopic() {
		t.Fatalf("expected text for the remaining caller, got %q (%v)", got.text, got.err)
	}
	if _, err := cache.FetchText(context.Background(), "mythology"); err != nil {
		t.Fatalf("fetch after load: %v", err)
	}
	if source.count() != 1 {
		t.Fatalf("expected a single source load, got %d", source.count())
	}
}

func TestStaticFetcherHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStaticFetcher(map[string]string{"music": ""}).FetchText(ctx, "music"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

type countingFetcher struct {
	app.TopicFetcher
	mu    sync.Mutex
	calls int
}

func (f *countingFetcher) FetchText(ctx context.Context, topic string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.TopicFetcher.FetchText(ctx, topic)
}

func (f *countingFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// blockingFetcher holds every load until release is closed, then fails if its
// context was cancelled meanwhile.
type blockingFetcher struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
}

func (f *blockingFetcher) FetchText(ctx context.Context, topic string) (string, error) {
	f.mu.Lock()
	f.calls++
	if f.calls == 1 {
		close(f.started)
	}
	f.mu.Unlock()

	<-f.release
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return sampleTopic(), nil
}

func (f *blockingFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleTopic() string {
	return `# mythology
Loki | NorsePagan: "Norse trickster god" | Superhero?: "Marvel character too"`
}
