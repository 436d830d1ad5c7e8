package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"isit-trivia/internal/app"
	"isit-trivia/internal/infra/content"
	"isit-trivia/internal/quizdata"
)

var errLintFailed = errors.New("quiz data has issues")

// NewLintCmd checks a directory of .quiz files for duplicates, uncategorised
// items and unknown category ids.
func NewLintCmd() *cobra.Command {
	var topics []string

	cmd := &cobra.Command{
		Use:   "lint <dir>",
		Short: "Validate .quiz files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(topics) == 0 {
				topics = app.DefaultTopics
			}
			files := content.NewDirFetcher(args[0])

			sources := make([]quizdata.SourceFile, 0, len(topics))
			total := 0
			for _, topic := range topics {
				text, err := files.FetchText(cmd.Context(), topic)
				if err != nil {
					return err
				}
				items := quizdata.Parse(text)
				total += len(items)
				sources = append(sources, quizdata.SourceFile{Name: topic + content.FileExtension, Items: items})
			}

			out := cmd.OutOrStdout()
			issues := quizdata.Validate(sources)
			for _, issue := range issues {
				fmt.Fprintln(out, issue.String())
			}
			fmt.Fprintf(out, "%d items in %d files, %d issues\n", total, len(sources), len(issues))
			if len(issues) > 0 {
				return errLintFailed
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&topics, "topics", nil, "topics to check (default the built-in list)")
	return cmd
}
