package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"isit-trivia/internal/app"
	"isit-trivia/internal/domain"
	"isit-trivia/internal/infra/memory"
)

func TestReapIdleSessionsEvictsAbandonedPlayers(t *testing.T) {
	sessions := memory.NewSessionStore()
	service := app.NewGameService(sessions, memory.NewProgressStore(),
		memory.NewStaticFetcher(map[string]string{"t": `Loki | NorsePagan: "Trickster"`}),
		zap.NewNop(), app.WithTopics([]string{"t"}))
	if _, err := service.Join(context.Background(), "p1"); err != nil {
		t.Fatalf("join: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		reapIdleSessions(ctx, service, 20*time.Millisecond)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for sessions.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected idle session to be reaped")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := service.Current(context.Background(), "p1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}

	cancel()
	<-done
}
