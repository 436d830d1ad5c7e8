package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"isit-trivia/internal/domain"
)

// SessionRepository abstracts where player sessions live (in-memory, Redis-marked, etc).
type SessionRepository interface {
	// GetOrCreate returns the player's session, creating it when missing, and
	// attaches one connection to it.
	GetOrCreate(playerID string, create func(playerID string) *Session) *Session
	Get(playerID string) (*Session, bool)
	// DeleteIfEmpty removes the session only when no connection is attached.
	DeleteIfEmpty(playerID string) bool
	// EvictIdle removes sessions not used since cutoff and returns their players.
	EvictIdle(cutoff time.Time) []string
}

// ProgressRepository persists daily progress and finished daily results.
type ProgressRepository interface {
	LoadProgress(ctx context.Context, playerID, date string) (domain.DailyProgress, error)
	SaveProgress(ctx context.Context, playerID string, progress domain.DailyProgress) error
	AppendHistory(ctx context.Context, playerID string, entry domain.DailyHistoryEntry) error
	History(ctx context.Context, playerID string) ([]domain.DailyHistoryEntry, error)
}

// Question is the player-facing view of the current item.
type Question struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// Snapshot is the player-facing state of a session.
type Snapshot struct {
	PlayerID         string             `json:"playerId"`
	Phase            domain.Phase       `json:"phase"`
	Mode             domain.GameMode    `json:"mode"`
	Scoring          domain.ScoringMode `json:"scoring"`
	ActiveCategories []domain.Category  `json:"activeCategories"`
	Question         *Question          `json:"question,omitempty"`
	TotalQuestions   int                `json:"totalQuestions"`
	Score            int                `json:"score"`
	DailyDate        string             `json:"dailyDate,omitempty"`
	ShowResults      bool               `json:"showResults"`
}

// AnswerOutcome is the result of one submitted answer.
type AnswerOutcome struct {
	Record       domain.AnswerRecord `json:"record"`
	Descriptions map[string]string   `json:"descriptions"`
	Snapshot     Snapshot            `json:"snapshot"`
}

// DailyInfo describes today's shared daily game without revealing its items.
type DailyInfo struct {
	Date       string            `json:"date"`
	Seed       int               `json:"seed"`
	Categories []domain.Category `json:"categories"`
}

// GameService hosts one Engine per player.
type GameService struct {
	sessions   SessionRepository
	progress   ProgressRepository
	fetcher    TopicFetcher
	engineOpts []EngineOption
	logger     *zap.Logger
}

// NewGameService wires the repositories; engineOpts apply to every new player engine.
func NewGameService(sessions SessionRepository, progress ProgressRepository, fetcher TopicFetcher, logger *zap.Logger, engineOpts ...EngineOption) *GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameService{
		sessions:   sessions,
		progress:   progress,
		fetcher:    fetcher,
		engineOpts: engineOpts,
		logger:     logger,
	}
}

func (s *GameService) newSession(playerID string) *Session {
	opts := append([]EngineOption{WithLogger(s.logger.With(zap.String("player", playerID)))}, s.engineOpts...)
	return NewSession(playerID, NewEngine(s.fetcher, opts...))
}

// Join attaches a connection to the player's session, creating it if needed,
// and loads the corpus. A failed join leaves nothing attached.
func (s *GameService) Join(ctx context.Context, playerID string) (Snapshot, error) {
	session := s.sessions.GetOrCreate(playerID, s.newSession)

	var snap Snapshot
	err := session.with(func(e *Engine) error {
		if err := e.LoadItems(ctx); err != nil {
			return err
		}
		snap = snapshot(playerID, e)
		return nil
	})
	if err != nil {
		s.Leave(ctx, playerID)
		return Snapshot{}, err
	}
	return snap, nil
}

// StartCustom starts a free-play game. An empty or too small category list
// keeps the current active set.
func (s *GameService) StartCustom(_ context.Context, playerID string, categories []string, scoring domain.ScoringMode) (Snapshot, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}

	var snap Snapshot
	err := session.with(func(e *Engine) error {
		if len(categories) > 0 && !e.SetActiveCategories(categories) {
			s.logger.Debug("category selection ignored",
				zap.String("player", playerID),
				zap.Strings("requested", categories))
		}
		if scoring != "" {
			e.SetScoringMode(scoring)
		}
		e.StartCustomGame()
		snap = snapshot(playerID, e)
		return nil
	})
	return snap, err
}

// StartDaily starts today's daily game, resuming stored progress for the date.
func (s *GameService) StartDaily(ctx context.Context, playerID string) (Snapshot, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}

	var snap Snapshot
	err := session.with(func(e *Engine) error {
		e.StartDailyGame()
		date := e.DailyDateString()

		saved, err := s.progress.LoadProgress(ctx, playerID, date)
		if err == nil && !saved.Resumable() {
			s.logger.Warn("discarding unusable daily progress",
				zap.String("player", playerID),
				zap.String("date", date),
				zap.Int("position", saved.Position),
				zap.Int("score", saved.Score))
			err = domain.ErrProgressNotFound
		}
		switch {
		case err == nil:
			e.RestoreDailyGame(saved.Position, saved.Score)
			s.logger.Debug("daily progress restored",
				zap.String("player", playerID),
				zap.String("date", date),
				zap.Int("position", saved.Position))
		case errors.Is(err, domain.ErrProgressNotFound):
			fresh := domain.DailyProgress{
				Date:           date,
				TotalQuestions: e.TotalQuestions(),
				Categories:     e.ActiveCategories(),
				Answers:        []domain.SavedAnswer{},
			}
			if err := s.progress.SaveProgress(ctx, playerID, fresh); err != nil {
				return err
			}
		default:
			return err
		}
		snap = snapshot(playerID, e)
		return nil
	})
	return snap, err
}

// Current returns the session state without changing it.
func (s *GameService) Current(_ context.Context, playerID string) (Snapshot, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	var snap Snapshot
	err := session.with(func(e *Engine) error {
		snap = snapshot(playerID, e)
		return nil
	})
	return snap, err
}

// Answer scores the selection for the current question and moves on. Daily
// answers are persisted along with the position and score.
func (s *GameService) Answer(ctx context.Context, playerID string, selected []string) (AnswerOutcome, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return AnswerOutcome{}, domain.ErrSessionNotFound
	}

	var out AnswerOutcome
	err := session.with(func(e *Engine) error {
		switch e.Phase() {
		case domain.PhaseUnloaded, domain.PhaseLoaded:
			return domain.ErrNoActiveGame
		case domain.PhaseFinished:
			return domain.ErrGameFinished
		}

		item, ok := e.CurrentItem()
		if !ok {
			return domain.ErrGameFinished
		}
		e.CheckAnswer(selected)
		history := e.History()
		record := history[len(history)-1]
		descriptions := e.CategoryDescriptions(item)
		e.Advance()

		if e.Mode() == domain.GameModeDaily {
			if err := s.recordDaily(ctx, playerID, e, record, descriptions); err != nil {
				return err
			}
		}

		out = AnswerOutcome{
			Record:       record,
			Descriptions: descriptions,
			Snapshot:     snapshot(playerID, e),
		}
		return nil
	})
	return out, err
}

func (s *GameService) recordDaily(ctx context.Context, playerID string, e *Engine, record domain.AnswerRecord, descriptions map[string]string) error {
	date := e.DailyDateString()
	progress, err := s.progress.LoadProgress(ctx, playerID, date)
	if err != nil && !errors.Is(err, domain.ErrProgressNotFound) {
		return err
	}
	progress.Date = date
	progress.Position = e.Position()
	progress.Score = e.Score()
	progress.TotalQuestions = e.TotalQuestions()
	progress.Categories = e.ActiveCategories()
	progress.Answers = append(progress.Answers, savedAnswer(e, record, descriptions))
	if err := s.progress.SaveProgress(ctx, playerID, progress); err != nil {
		return err
	}

	if e.IsFinished() || e.IsDailyComplete() {
		entry := domain.DailyHistoryEntry{Date: date, Score: e.Score(), TotalQuestions: e.TotalQuestions()}
		if err := s.progress.AppendHistory(ctx, playerID, entry); err != nil {
			return err
		}
		s.logger.Info("daily game finished",
			zap.String("player", playerID),
			zap.String("date", date),
			zap.Int("score", entry.Score),
			zap.Int("total", entry.TotalQuestions))
	}
	return nil
}

// History returns the answers of the player's current game.
func (s *GameService) History(_ context.Context, playerID string) ([]domain.AnswerRecord, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var history []domain.AnswerRecord
	err := session.with(func(e *Engine) error {
		history = e.History()
		return nil
	})
	return history, err
}

// DailyHistory returns the player's finished daily games.
func (s *GameService) DailyHistory(ctx context.Context, playerID string) ([]domain.DailyHistoryEntry, error) {
	return s.progress.History(ctx, playerID)
}

// Daily reports the date, seed and categories of today's daily game. The
// category draw does not depend on the corpus, so no items are loaded.
func (s *GameService) Daily(_ context.Context) DailyInfo {
	e := NewEngine(s.fetcher, s.engineOpts...)
	e.StartDailyGame()
	return DailyInfo{
		Date:       e.DailyDateString(),
		Seed:       e.DailySeed(),
		Categories: categoriesOf(e.ActiveCategories()),
	}
}

// Leave detaches one connection and drops the session once the last one is gone.
func (s *GameService) Leave(_ context.Context, playerID string) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return
	}
	if remaining := session.Detach(); remaining > 0 {
		s.logger.Debug("connection left", zap.String("player", playerID), zap.Int("remaining", remaining))
		return
	}
	if s.sessions.DeleteIfEmpty(playerID) {
		s.logger.Debug("session closed", zap.String("player", playerID))
	}
}

// EvictIdle drops sessions nobody has used since cutoff, connected or not, and
// returns how many went. Connections still open on an evicted session get
// ErrSessionNotFound on their next request.
func (s *GameService) EvictIdle(_ context.Context, cutoff time.Time) int {
	evicted := s.sessions.EvictIdle(cutoff)
	if len(evicted) > 0 {
		s.logger.Info("evicted idle sessions",
			zap.Int("count", len(evicted)),
			zap.Strings("players", evicted))
	}
	return len(evicted)
}

func snapshot(playerID string, e *Engine) Snapshot {
	snap := Snapshot{
		PlayerID:         playerID,
		Phase:            e.Phase(),
		Mode:             e.Mode(),
		Scoring:          e.ScoringMode(),
		ActiveCategories: categoriesOf(e.ActiveCategories()),
		TotalQuestions:   e.TotalQuestions(),
		Score:            e.Score(),
		ShowResults:      e.IsFinished() || e.IsDailyComplete() || e.HasReachedMinQuestions(),
	}
	if e.Mode() == domain.GameModeDaily {
		snap.DailyDate = e.DailyDateString()
	}
	if item, ok := e.CurrentItem(); ok {
		snap.Question = &Question{Name: item.Name, Number: e.CurrentQuestionNumber()}
	}
	return snap
}

func categoriesOf(ids []string) []domain.Category {
	cats := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := domain.LookupCategory(id); ok {
			cats = append(cats, c)
		}
	}
	return cats
}

func savedAnswer(e *Engine, record domain.AnswerRecord, descriptions map[string]string) domain.SavedAnswer {
	byResult := e.classify(record.Item)
	return domain.SavedAnswer{
		ItemName:     record.Item.Name,
		Correct:      sortedCategories(byResult[domain.ResultCorrect]),
		Arguable:     sortedCategories(byResult[domain.ResultArguable]),
		Obscure:      sortedCategories(byResult[domain.ResultObscure]),
		Selected:     record.Selected,
		WasCorrect:   record.WasCorrect,
		Descriptions: descriptions,
	}
}
