package app

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"isit-trivia/internal/domain"
	"isit-trivia/internal/quizdata"
)

const (
	// MinCategories is the smallest active set a player may choose.
	MinCategories = 3
	// DailyCategories is how many categories the daily game draws.
	DailyCategories = 6
	// DailyQuestions caps the daily play sequence.
	DailyQuestions = 20
	// MinQuestionsForResults is how many answers a custom game needs before results are shown.
	MinQuestionsForResults = 20

	dailyDateLayout = "2006-01-02"
)

// DefaultTopics lists the corpus files in load order.
var DefaultTopics = []string{
	"mythology",
	"fantasy",
	"anime-games",
	"music",
	"tech",
	"people",
	"things",
}

// TopicFetcher supplies the raw corpus text for one topic.
type TopicFetcher interface {
	FetchText(ctx context.Context, topic string) (string, error)
}

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithTopics overrides the topic list loaded by LoadItems.
func WithTopics(topics []string) EngineOption {
	return func(e *Engine) {
		e.topics = append([]string(nil), topics...)
	}
}

// WithRand sets the shuffler used by custom games and the initial category draw.
func WithRand(rnd Shuffler) EngineOption {
	return func(e *Engine) {
		e.rnd = rnd
	}
}

// WithClock is used by tests to pin the daily date.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithScoringMode sets the initial scoring mode.
func WithScoringMode(mode domain.ScoringMode) EngineOption {
	return func(e *Engine) {
		e.scoring = mode
	}
}

// Engine runs one player's game. It is not safe for concurrent use; every
// player needs their own Engine.
type Engine struct {
	fetcher TopicFetcher
	topics  []string
	rnd     Shuffler
	now     func() time.Time
	logger  *zap.Logger

	items    []domain.QuizItem
	active   map[string]struct{}
	scoring  domain.ScoringMode
	mode     domain.GameMode
	started  bool
	sequence []domain.QuizItem
	position int
	score    int
	history  []domain.AnswerRecord
}

// NewEngine builds an engine that loads its items through fetcher.
func NewEngine(fetcher TopicFetcher, opts ...EngineOption) *Engine {
	e := &Engine{
		fetcher: fetcher,
		topics:  append([]string(nil), DefaultTopics...),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		logger:  zap.NewNop(),
		scoring: domain.ScoringAllCorrect,
		mode:    domain.GameModeCustom,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.active = drawCategories(e.rnd, DailyCategories)
	return e
}

// LoadItems fetches and parses every topic. It is a no-op once items are
// loaded. Topics are fetched concurrently but concatenated in topic order; any
// failure discards the whole load and returns a *domain.DataLoadError.
func (e *Engine) LoadItems(ctx context.Context) error {
	if len(e.items) > 0 {
		return nil
	}

	parsed := make([][]domain.QuizItem, len(e.topics))
	g, gctx := errgroup.WithContext(ctx)
	for i, topic := range e.topics {
		i, topic := i, topic
		g.Go(func() error {
			text, err := e.fetcher.FetchText(gctx, topic)
			if err != nil {
				return &domain.DataLoadError{Topic: topic, Err: err}
			}
			parsed[i] = quizdata.Parse(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warn("quiz data load failed", zap.Error(err))
		return err
	}

	var items []domain.QuizItem
	for _, chunk := range parsed {
		items = append(items, chunk...)
	}
	e.items = items
	e.logger.Debug("quiz data loaded", zap.Int("topics", len(e.topics)), zap.Int("items", len(items)))
	return nil
}

// SetActiveCategories keeps the registered members of candidates and applies
// them only when at least MinCategories remain. An ignored call leaves the
// previous set in place and returns false.
func (e *Engine) SetActiveCategories(candidates []string) bool {
	valid := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if domain.IsCategory(c) {
			valid[c] = struct{}{}
		}
	}
	if len(valid) < MinCategories {
		return false
	}
	e.active = valid
	return true
}

// ActiveCategories returns the active set in registry order.
func (e *Engine) ActiveCategories() []string {
	return sortedCategories(e.active)
}

func (e *Engine) ScoringMode() domain.ScoringMode { return e.scoring }

func (e *Engine) SetScoringMode(mode domain.ScoringMode) { e.scoring = mode }

func (e *Engine) Mode() domain.GameMode { return e.mode }

// ItemCount is the size of the loaded corpus.
func (e *Engine) ItemCount() int { return len(e.items) }

// StartCustomGame plays every item with an active Correct category, in a
// shuffled order and without a length cap.
func (e *Engine) StartCustomGame() {
	e.mode = domain.GameModeCustom
	seq := playable(e.items, e.active)
	e.rnd.Shuffle(len(seq), func(i, j int) { seq[i], seq[j] = seq[j], seq[i] })
	e.reset(seq)
}

// StartDailyGame builds the game shared by every player on the current UTC
// date. One generator seeded from the date first shuffles the registry to pick
// the categories, then shuffles the playable items; the draw order must not
// change or every client would see a different game.
func (e *Engine) StartDailyGame() {
	e.mode = domain.GameModeDaily
	rnd := rand.New(rand.NewSource(int64(e.DailySeed())))

	e.active = drawCategories(rnd, DailyCategories)

	seq := playable(e.items, e.active)
	rnd.Shuffle(len(seq), func(i, j int) { seq[i], seq[j] = seq[j], seq[i] })
	if len(seq) > DailyQuestions {
		seq = seq[:DailyQuestions]
	}
	e.reset(seq)
}

// RestoreDailyGame regenerates today's daily game and jumps to saved progress.
// Position is clamped to the game and score to the position. Answer history is
// not restored.
func (e *Engine) RestoreDailyGame(position, score int) {
	e.StartDailyGame()
	e.position = clamp(position, 0, len(e.sequence))
	e.score = clamp(score, 0, e.position)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (e *Engine) reset(seq []domain.QuizItem) {
	e.started = true
	e.sequence = seq
	e.position = 0
	e.score = 0
	e.history = nil
}

// DailySeed is year*10000 + month*100 + day of the current UTC date.
func (e *Engine) DailySeed() int {
	t := e.now().UTC()
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// DailyDateString is the current UTC date as yyyy-MM-dd.
func (e *Engine) DailyDateString() string {
	return e.now().UTC().Format(dailyDateLayout)
}

// CurrentItem returns the item at the current position.
func (e *Engine) CurrentItem() (domain.QuizItem, bool) {
	if e.position < 0 || e.position >= len(e.sequence) {
		return domain.QuizItem{}, false
	}
	return e.sequence[e.position], true
}

// CheckAnswer scores selected against the current item and records the
// answer. Only active categories count. Any selection outside the acceptable
// tags (Correct, Arguable, Obscure) fails the answer; AllCorrect also needs
// every Correct tag while AnyCorrect needs just one acceptable tag. With no
// current item it returns false and records nothing.
func (e *Engine) CheckAnswer(selected []string) bool {
	current, ok := e.CurrentItem()
	if !ok {
		return false
	}

	chosen := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		chosen[s] = struct{}{}
	}

	byResult := e.classify(current)
	correct := byResult[domain.ResultCorrect]
	miss := byResult[domain.ResultMiss]
	acceptable := make(map[string]struct{})
	for r, set := range byResult {
		if !r.Acceptable() {
			continue
		}
		for c := range set {
			acceptable[c] = struct{}{}
		}
	}

	onlyValid := true
	anyValid := false
	for s := range chosen {
		if _, ok := acceptable[s]; ok {
			anyValid = true
		} else {
			onlyValid = false
		}
	}

	var isCorrect bool
	switch e.scoring {
	case domain.ScoringAnyCorrect:
		isCorrect = anyValid && onlyValid
	default:
		hasAll := true
		for c := range correct {
			if _, ok := chosen[c]; !ok {
				hasAll = false
				break
			}
		}
		isCorrect = hasAll && onlyValid
	}
	if isCorrect {
		e.score++
	}

	missed := make(map[string]struct{})
	for s := range chosen {
		if _, ok := miss[s]; ok {
			missed[s] = struct{}{}
		}
	}

	e.history = append(e.history, domain.AnswerRecord{
		Item:                 current,
		Selected:             sortedCategories(chosen),
		Acceptable:           sortedCategories(acceptable),
		WasCorrect:           isCorrect,
		MissedFalsePositives: sortedCategories(missed),
	})
	return isCorrect
}

// classify groups the item's active categories by result.
func (e *Engine) classify(item domain.QuizItem) map[domain.ResultType]map[string]struct{} {
	out := make(map[domain.ResultType]map[string]struct{}, 4)
	for _, c := range item.Categories {
		if _, ok := e.active[c.Category]; !ok {
			continue
		}
		set, ok := out[c.Result]
		if !ok {
			set = make(map[string]struct{})
			out[c.Result] = set
		}
		set[c.Category] = struct{}{}
	}
	return out
}

// CategoryDescriptions maps each active category on item to its description.
func (e *Engine) CategoryDescriptions(item domain.QuizItem) map[string]string {
	out := make(map[string]string)
	for _, c := range item.Categories {
		if _, ok := e.active[c.Category]; ok {
			out[c.Category] = c.Description
		}
	}
	return out
}

// Advance moves to the next question, even past the end.
func (e *Engine) Advance() {
	e.position++
}

func (e *Engine) IsFinished() bool {
	return e.position >= len(e.sequence)
}

func (e *Engine) IsDailyComplete() bool {
	return e.mode == domain.GameModeDaily && e.position >= DailyQuestions
}

// HasReachedMinQuestions reports whether enough questions were played to show results.
func (e *Engine) HasReachedMinQuestions() bool {
	return e.position >= MinQuestionsForResults
}

func (e *Engine) CurrentQuestionNumber() int { return e.position + 1 }

func (e *Engine) Position() int { return e.position }

func (e *Engine) Score() int { return e.score }

func (e *Engine) TotalQuestions() int { return len(e.sequence) }

// History returns the answers recorded since the current game started.
func (e *Engine) History() []domain.AnswerRecord {
	out := make([]domain.AnswerRecord, len(e.history))
	copy(out, e.history)
	return out
}

// Phase derives the lifecycle phase.
func (e *Engine) Phase() domain.Phase {
	switch {
	case !e.started && len(e.items) == 0:
		return domain.PhaseUnloaded
	case !e.started:
		return domain.PhaseLoaded
	case e.IsFinished():
		return domain.PhaseFinished
	default:
		return domain.PhaseInProgress
	}
}

// playable filters items to those with an active Correct category. The
// result is a fresh slice so shuffling never reorders the corpus.
func playable(items []domain.QuizItem, active map[string]struct{}) []domain.QuizItem {
	out := make([]domain.QuizItem, 0, len(items))
	for _, item := range items {
		if item.HasCorrectIn(active) {
			out = append(out, item)
		}
	}
	return out
}

// drawCategories shuffles the full registry and keeps the first n.
func drawCategories(rnd Shuffler, n int) map[string]struct{} {
	ids := domain.CategoryIDs()
	rnd.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if n > len(ids) {
		n = len(ids)
	}
	out := make(map[string]struct{}, n)
	for _, id := range ids[:n] {
		out[id] = struct{}{}
	}
	return out
}

// sortedCategories orders a set by registry position; unknown ids go last, alphabetically.
func sortedCategories(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := domain.CategoryOrder(out[i]), domain.CategoryOrder(out[j])
		switch {
		case oi < 0 && oj < 0:
			return out[i] < out[j]
		case oi < 0:
			return false
		case oj < 0:
			return true
		default:
			return oi < oj
		}
	})
	return out
}
