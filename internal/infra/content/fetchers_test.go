package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"isit-trivia/internal/domain"
)

const lokiLine = `Loki | NorsePagan: "Norse trickster god" | Superhero?: "Marvel character too"`

func TestDirFetcherReadsTopicFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mythology.quiz"), []byte(lokiLine), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	f := NewDirFetcher(dir)

	text, err := f.FetchText(context.Background(), "mythology")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if text != lokiLine {
		t.Fatalf("unexpected text %q", text)
	}

	if _, err := f.FetchText(context.Background(), "music"); !errors.Is(err, domain.ErrTopicNotFound) {
		t.Fatalf("expected topic not found, got %v", err)
	}
	if _, err := f.FetchText(context.Background(), "../etc/passwd"); !errors.Is(err, domain.ErrTopicNotFound) {
		t.Fatalf("expected path topics to be rejected, got %v", err)
	}
}

func TestHTTPFetcher(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/data/quiz-items/mythology.quiz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(lokiLine))
	})
	mux.HandleFunc("/data/quiz-items/broken.quiz", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := NewHTTPFetcher(server.URL+"/data/quiz-items/", 5*time.Second)

	text, err := f.FetchText(context.Background(), "mythology")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if text != lokiLine {
		t.Fatalf("unexpected text %q", text)
	}

	if _, err := f.FetchText(context.Background(), "music"); !errors.Is(err, domain.ErrTopicNotFound) {
		t.Fatalf("expected topic not found, got %v", err)
	}
	if _, err := f.FetchText(context.Background(), "broken"); err == nil {
		t.Fatalf("expected error for 500 response")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.FetchText(ctx, "mythology"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
