package quizdata

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"isit-trivia/internal/domain"
)

var descriptionEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// FormatItem renders one item as a corpus line, keeping clause order.
func FormatItem(item domain.QuizItem) string {
	var b strings.Builder
	b.WriteString(item.Name)
	for _, c := range item.Categories {
		b.WriteString(" | ")
		b.WriteString(c.Category)
		b.WriteString(c.Result.Suffix())
		b.WriteString(`: "`)
		b.WriteString(descriptionEscaper.Replace(c.Description))
		b.WriteString(`"`)
	}
	return b.String()
}

// WriteFile writes a complete corpus file: a comment header followed by the
// items sorted by name, each with its clauses in canonical order.
func WriteFile(w io.Writer, title string, items []domain.QuizItem) error {
	bw := bufio.NewWriter(w)

	rule := "# ============================================"
	header := []string{
		rule,
		"# QUIZ DATA - " + title,
		rule,
		`# Format: Name | Category: "Description" | ...`,
		"#",
		"# Result suffixes:",
		"#   (none) = Correct   - Player must select this",
		"#   ~      = Arguable  - Acceptable, but debatable",
		"#   ?      = Obscure   - Acceptable, trivia-level",
		"#   !      = Miss      - Wrong, but commonly confused",
		rule,
		"",
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}

	for _, item := range canonicalOrder(items) {
		if _, err := fmt.Fprintln(bw, FormatItem(item)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func canonicalOrder(items []domain.QuizItem) []domain.QuizItem {
	sorted := make([]domain.QuizItem, len(items))
	for i, item := range items {
		cats := make([]domain.CategoryEntry, len(item.Categories))
		copy(cats, item.Categories)
		sort.SliceStable(cats, func(a, b int) bool {
			ra, rb := resultRank(cats[a].Result), resultRank(cats[b].Result)
			if ra != rb {
				return ra < rb
			}
			return cats[a].Category < cats[b].Category
		})
		sorted[i] = domain.QuizItem{Name: item.Name, Categories: cats}
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		return domain.FoldName(sorted[a].Name) < domain.FoldName(sorted[b].Name)
	})
	return sorted
}

// resultRank orders clauses Correct, Arguable, Obscure, Miss.
func resultRank(r domain.ResultType) int {
	switch r {
	case domain.ResultCorrect:
		return 0
	case domain.ResultArguable:
		return 1
	case domain.ResultObscure:
		return 2
	case domain.ResultMiss:
		return 3
	default:
		return 4
	}
}
