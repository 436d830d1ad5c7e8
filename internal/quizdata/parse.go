// Package quizdata reads and writes the line-oriented quiz corpus format:
//
//	Name | Cat1: "desc" | Cat2~: "desc" | Cat3!: "desc"
//
// Lines starting with # are comments. A category suffix of ~ marks the tag
// Arguable, ? Obscure and ! Miss; no suffix means Correct.
package quizdata

import (
	"regexp"
	"strings"

	"isit-trivia/internal/domain"
)

var (
	entryPattern  = regexp.MustCompile(`^(?P<name>[^|]+)\s*\|\s*(?P<categories>.+)$`)
	clausePattern = regexp.MustCompile(`(?P<cat>\w+)(?P<suffix>[~?!]?):\s*"(?P<desc>(?:[^"\\]|\\.)*)"`)
)

// Parse turns corpus text into items in line order. It never fails: lines and
// clauses that do not match the grammar are skipped.
func Parse(content string) []domain.QuizItem {
	var items []domain.QuizItem
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		m := entryPattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		items = append(items, domain.QuizItem{
			Name:       strings.TrimSpace(m[1]),
			Categories: parseCategories(m[2]),
		})
	}
	return items
}

func parseCategories(clauses string) []domain.CategoryEntry {
	matches := clausePattern.FindAllStringSubmatch(clauses, -1)
	categories := make([]domain.CategoryEntry, 0, len(matches))
	for _, m := range matches {
		categories = append(categories, domain.CategoryEntry{
			Category:    m[1],
			Result:      domain.ResultFromSuffix(m[2]),
			Description: unescape(m[3]),
		})
	}
	return categories
}

// unescape decodes \\ and \" in a single left-to-right pass. Any other
// backslash pair is kept as written.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
