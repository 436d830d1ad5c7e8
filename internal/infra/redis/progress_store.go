package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"isit-trivia/internal/domain"
)

// ProgressStore persists daily progress in Redis.
// Progress is stored as: SET  isit:daily:{playerID}:{date} {json} EX ttl
// History is stored as:  HSET isit:history:{playerID} {date} {json}
type ProgressStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProgressStore(client *redis.Client, ttl time.Duration) *ProgressStore {
	return &ProgressStore{client: client, ttl: ttl}
}

func (s *ProgressStore) LoadProgress(ctx context.Context, playerID, date string) (domain.DailyProgress, error) {
	raw, err := s.client.Get(ctx, s.progressKey(playerID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DailyProgress{}, domain.ErrProgressNotFound
	}
	if err != nil {
		return domain.DailyProgress{}, fmt.Errorf("load daily progress: %w", err)
	}
	var progress domain.DailyProgress
	if err := json.Unmarshal(raw, &progress); err != nil {
		return domain.DailyProgress{}, fmt.Errorf("unmarshal daily progress: %w", err)
	}
	return progress, nil
}

func (s *ProgressStore) SaveProgress(ctx context.Context, playerID string, progress domain.DailyProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal daily progress: %w", err)
	}
	if err := s.client.Set(ctx, s.progressKey(playerID, progress.Date), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save daily progress: %w", err)
	}
	return nil
}

// AppendHistory replaces an existing entry for the same date.
func (s *ProgressStore) AppendHistory(ctx context.Context, playerID string, entry domain.DailyHistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal daily history: %w", err)
	}
	if err := s.client.HSet(ctx, s.historyKey(playerID), entry.Date, data).Err(); err != nil {
		return fmt.Errorf("save daily history: %w", err)
	}
	return nil
}

// History returns entries sorted by date.
func (s *ProgressStore) History(ctx context.Context, playerID string) ([]domain.DailyHistoryEntry, error) {
	raw, err := s.client.HGetAll(ctx, s.historyKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load daily history: %w", err)
	}
	entries := make([]domain.DailyHistoryEntry, 0, len(raw))
	for date, data := range raw {
		var entry domain.DailyHistoryEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal daily history %s: %w", date, err)
		}
		entries = append(entries, entry)
	}
	sortHistory(entries)
	return entries, nil
}

func (s *ProgressStore) progressKey(playerID, date string) string {
	return "isit:daily:" + playerID + ":" + date
}

func (s *ProgressStore) historyKey(playerID string) string {
	return "isit:history:" + playerID
}

func sortHistory(entries []domain.DailyHistoryEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
}
