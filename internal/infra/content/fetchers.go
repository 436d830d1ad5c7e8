// Package content fetches topic text from a directory or over HTTP.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"isit-trivia/internal/domain"
)

// FileExtension is appended to topic ids to form file names.
const FileExtension = ".quiz"

// DirFetcher reads <dir>/<topic>.quiz.
type DirFetcher struct {
	dir string
}

func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{dir: dir}
}

func (f *DirFetcher) FetchText(ctx context.Context, topic string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.ContainsAny(topic, `/\`) {
		return "", fmt.Errorf("read topic %q: %w", topic, domain.ErrTopicNotFound)
	}
	data, err := os.ReadFile(f.Path(topic))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read topic %s: %w", topic, domain.ErrTopicNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read topic %s: %w", topic, err)
	}
	return string(data), nil
}

// Path is the file a topic is read from.
func (f *DirFetcher) Path(topic string) string {
	return filepath.Join(f.dir, topic+FileExtension)
}

// HTTPFetcher downloads <baseURL>/<topic>.quiz.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
}

// NewHTTPFetcher uses a client with the given timeout; zero means no timeout.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (f *HTTPFetcher) FetchText(ctx context.Context, topic string) (string, error) {
	target := f.baseURL + "/" + url.PathEscape(topic) + FileExtension
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", topic, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", topic, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("fetch %s: %w", topic, domain.ErrTopicNotFound)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("fetch %s: unexpected status %s", topic, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", topic, err)
	}
	return string(body), nil
}
