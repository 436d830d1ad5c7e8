package domain

import "golang.org/x/text/cases"

// ResultType classifies how a category tag is scored for a given item.
// The integer values match the legacy JSON corpus.
type ResultType int

const (
	ResultMiss     ResultType = -1
	ResultCorrect  ResultType = 0
	ResultArguable ResultType = 1
	ResultObscure  ResultType = 2
)

// Suffix returns the marker written after the category id in the text format.
func (r ResultType) Suffix() string {
	switch r {
	case ResultArguable:
		return "~"
	case ResultObscure:
		return "?"
	case ResultMiss:
		return "!"
	default:
		return ""
	}
}

func (r ResultType) String() string {
	switch r {
	case ResultCorrect:
		return "correct"
	case ResultArguable:
		return "arguable"
	case ResultObscure:
		return "obscure"
	case ResultMiss:
		return "miss"
	default:
		return "unknown"
	}
}

// Acceptable reports whether selecting a tag with this result keeps an answer valid.
func (r ResultType) Acceptable() bool {
	return r == ResultCorrect || r == ResultArguable || r == ResultObscure
}

// ResultFromSuffix maps a text-format suffix to its result. Unknown suffixes are Correct.
func ResultFromSuffix(suffix string) ResultType {
	switch suffix {
	case "~":
		return ResultArguable
	case "?":
		return ResultObscure
	case "!":
		return ResultMiss
	default:
		return ResultCorrect
	}
}

// CategoryEntry tags an item with one category and how that tag scores.
type CategoryEntry struct {
	Category    string     `json:"category"`
	Result      ResultType `json:"result"`
	Description string     `json:"description"`
}

// QuizItem is a single named quiz subject.
type QuizItem struct {
	Name       string          `json:"name"`
	Categories []CategoryEntry `json:"categories"`
}

// HasCorrectIn reports whether the item has at least one Correct tag in the active set.
func (q QuizItem) HasCorrectIn(active map[string]struct{}) bool {
	for _, c := range q.Categories {
		if c.Result != ResultCorrect {
			continue
		}
		if _, ok := active[c.Category]; ok {
			return true
		}
	}
	return false
}

// FoldName is the case-insensitive identity of an item name: two names are
// the same item when their folds are equal. Casers are stateful, so each call
// gets its own.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

// ScoringMode decides how strict answer evaluation is.
type ScoringMode string

const (
	// ScoringAllCorrect requires every Correct tag and nothing unacceptable.
	ScoringAllCorrect ScoringMode = "all-correct"
	// ScoringAnyCorrect requires at least one acceptable tag and nothing unacceptable.
	ScoringAnyCorrect ScoringMode = "any-correct"
)

// ParseScoringMode accepts the wire names; empty means AllCorrect.
func ParseScoringMode(raw string) (ScoringMode, error) {
	switch ScoringMode(raw) {
	case "", ScoringAllCorrect:
		return ScoringAllCorrect, nil
	case ScoringAnyCorrect:
		return ScoringAnyCorrect, nil
	default:
		return "", ErrInvalidScoringMode
	}
}

// GameMode is the kind of game currently being played.
type GameMode string

const (
	GameModeCustom GameMode = "custom"
	GameModeDaily  GameMode = "daily"
)

// Phase is the lifecycle position of an engine.
type Phase string

const (
	PhaseUnloaded   Phase = "unloaded"
	PhaseLoaded     Phase = "loaded"
	PhaseInProgress Phase = "in-progress"
	PhaseFinished   Phase = "finished"
)

// AnswerRecord is one answered question. Sets are sorted slices.
type AnswerRecord struct {
	Item                 QuizItem `json:"item"`
	Selected             []string `json:"selected"`
	Acceptable           []string `json:"acceptable"`
	WasCorrect           bool     `json:"wasCorrect"`
	MissedFalsePositives []string `json:"missedFalsePositives"`
}

// DailyProgress is what a client persists between visits on the same date.
type DailyProgress struct {
	Date           string        `json:"date"`
	Position       int           `json:"position"`
	Score          int           `json:"score"`
	TotalQuestions int           `json:"totalQuestions"`
	Categories     []string      `json:"categories"`
	Answers        []SavedAnswer `json:"answers"`
}

// Completed reports whether every daily question has an answer.
func (p DailyProgress) Completed() bool {
	return p.TotalQuestions > 0 && len(p.Answers) >= p.TotalQuestions
}

// Resumable reports whether stored progress describes a reachable point in a
// game: nothing negative and no more points than answered questions.
func (p DailyProgress) Resumable() bool {
	return p.Position >= 0 && p.Score >= 0 && p.Score <= p.Position
}

// SavedAnswer is the persisted form of an AnswerRecord.
type SavedAnswer struct {
	ItemName     string            `json:"itemName"`
	Correct      []string          `json:"correct"`
	Arguable     []string          `json:"arguable"`
	Obscure      []string          `json:"obscure"`
	Selected     []string          `json:"selected"`
	WasCorrect   bool              `json:"wasCorrect"`
	Descriptions map[string]string `json:"descriptions"`
}

// DailyHistoryEntry summarizes one finished daily game.
type DailyHistoryEntry struct {
	Date           string `json:"date"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
}
