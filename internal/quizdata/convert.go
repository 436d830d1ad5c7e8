package quizdata

import (
	"encoding/json"
	"fmt"
	"io"

	"isit-trivia/internal/domain"
)

// ReadJSON decodes the legacy JSON corpus: an array of
// {name, categories: [{category, result, description}]} where result is
// 0 Correct, 1 Arguable, 2 Obscure, -1 Miss.
func ReadJSON(r io.Reader) ([]domain.QuizItem, error) {
	var items []domain.QuizItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode quiz json: %w", err)
	}
	return items, nil
}

// Convert reads a JSON corpus from r and writes it to w in the text format.
func Convert(r io.Reader, w io.Writer, title string) (int, error) {
	items, err := ReadJSON(r)
	if err != nil {
		return 0, err
	}
	if err := WriteFile(w, title, items); err != nil {
		return 0, fmt.Errorf("write quiz file: %w", err)
	}
	return len(items), nil
}
