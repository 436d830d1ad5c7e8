package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"isit-trivia/internal/quizdata"
)

// NewConvertCmd turns a JSON item dump into a .quiz file.
func NewConvertCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "convert <input.json> <output.quiz>",
		Short: "Convert a JSON item list to the .quiz text format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			if title == "" {
				title = strings.TrimSuffix(filepath.Base(args[1]), filepath.Ext(args[1]))
			}
			n, err := quizdata.Convert(in, out, title)
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d items to %s\n", n, args[1])
			return out.Close()
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "header title (default output file name)")
	return cmd
}
