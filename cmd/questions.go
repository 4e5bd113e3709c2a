package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quantsim/internal/bank"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBank(cmd)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		format, _ := cmd.Flags().GetString("output")
		chapter, _ := cmd.Flags().GetString("chapter")

		qs := b.All()
		if chapter != "" {
			qs = filterChapter(qs, chapter)
		}
		return writeQuestions(cmd.OutOrStdout(), qs, format)
	},
}

func init() {
	questionsCmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")
	questionsCmd.Flags().StringP("chapter", "c", "", "Only list questions from this chapter")
}

func filterChapter(qs []bank.Question, chapter string) []bank.Question {
	var out []bank.Question
	for _, q := range qs {
		if q.Chapter == chapter {
			out = append(out, q)
		}
	}
	return out
}

func writeQuestions(w io.Writer, qs []bank.Question, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(qs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(qs); err != nil {
			return err
		}
		return enc.Close()
	case "table":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if len(qs) == 0 {
		fmt.Fprintln(w, "No questions found.")
		return nil
	}
	fmt.Fprintf(w, "%-8s  %-24s  %-4s  %s\n", "ID", "Chapter", "Hint", "Title")
	for _, q := range qs {
		hint := ""
		if q.HasHint() {
			hint = "✓"
		}
		fmt.Fprintf(w, "%-8s  %-24s  %-4s  %s\n", q.ID, truncate(q.Chapter, 24), hint, q.Title)
	}
	fmt.Fprintf(w, "\n%d questions\n", len(qs))
	return nil
}
