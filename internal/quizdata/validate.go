package quizdata

import (
	"fmt"

	"isit-trivia/internal/domain"
)

// IssueKind names a corpus quality problem.
type IssueKind string

const (
	IssueDuplicateName   IssueKind = "duplicate"
	IssueNoCategories    IssueKind = "empty"
	IssueUnknownCategory IssueKind = "unknown-category"
)

// SourceFile is the parsed content of one corpus file.
type SourceFile struct {
	Name  string
	Items []domain.QuizItem
}

// Issue is one problem found by Validate.
type Issue struct {
	Kind      IssueKind
	Name      string
	Category  string
	File      string
	OtherFile string
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueDuplicateName:
		return fmt.Sprintf("'%s' in both %s and %s", i.Name, i.OtherFile, i.File)
	case IssueNoCategories:
		return fmt.Sprintf("'%s' in %s has no categories", i.Name, i.File)
	case IssueUnknownCategory:
		return fmt.Sprintf("'%s' uses unknown category '%s' in %s", i.Name, i.Category, i.File)
	default:
		return fmt.Sprintf("%s: '%s' in %s", i.Kind, i.Name, i.File)
	}
}

// Validate checks what the parser deliberately tolerates: names must be unique
// across all files ignoring case, every item needs a category, and every
// category must be registered. Issues are reported in file and line order.
func Validate(files []SourceFile) []Issue {
	var issues []Issue
	firstSeen := make(map[string]string)

	for _, file := range files {
		for _, item := range file.Items {
			key := domain.FoldName(item.Name)
			if other, ok := firstSeen[key]; ok {
				issues = append(issues, Issue{Kind: IssueDuplicateName, Name: item.Name, File: file.Name, OtherFile: other})
			} else {
				firstSeen[key] = file.Name
			}

			if len(item.Categories) == 0 {
				issues = append(issues, Issue{Kind: IssueNoCategories, Name: item.Name, File: file.Name})
			}
			for _, c := range item.Categories {
				if !domain.IsCategory(c.Category) {
					issues = append(issues, Issue{Kind: IssueUnknownCategory, Name: item.Name, Category: c.Category, File: file.Name})
				}
			}
		}
	}
	return issues
}
