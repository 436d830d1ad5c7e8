package memory

import (
	"context"
	"sync"

	"isit-trivia/internal/domain"
)

// ProgressStore is an in-memory implementation of app.ProgressRepository.
type ProgressStore struct {
	mu       sync.RWMutex
	progress map[string]domain.DailyProgress
	history  map[string][]domain.DailyHistoryEntry
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		progress: make(map[string]domain.DailyProgress),
		history:  make(map[string][]domain.DailyHistoryEntry),
	}
}

func (s *ProgressStore) LoadProgress(_ context.Context, playerID, date string) (domain.DailyProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[progressKey(playerID, date)]
	if !ok {
		return domain.DailyProgress{}, domain.ErrProgressNotFound
	}
	p.Answers = append([]domain.SavedAnswer(nil), p.Answers...)
	return p, nil
}

func (s *ProgressStore) SaveProgress(_ context.Context, playerID string, progress domain.DailyProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	progress.Answers = append([]domain.SavedAnswer(nil), progress.Answers...)
	s.progress[progressKey(playerID, progress.Date)] = progress
	return nil
}

// AppendHistory replaces an existing entry for the same date.
func (s *ProgressStore) AppendHistory(_ context.Context, playerID string, entry domain.DailyHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.history[playerID]
	for i := range entries {
		if entries[i].Date == entry.Date {
			entries[i] = entry
			return nil
		}
	}
	s.history[playerID] = append(entries, entry)
	return nil
}

func (s *ProgressStore) History(_ context.Context, playerID string) ([]domain.DailyHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.DailyHistoryEntry(nil), s.history[playerID]...), nil
}

func progressKey(playerID, date string) string {
	return playerID + "|" + date
}
