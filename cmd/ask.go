package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quantsim/internal/client"
	"github.com/abhisek/quantsim/internal/feedback"
)

var askCmd = &cobra.Command{
	Use:   "ask <question-id> <reasoning...>",
	Short: "Get one round of feedback on your reasoning for a question",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

		b, err := loadBank(cmd)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		q, _, ok := b.ByID(args[0])
		if !ok {
			return fmt.Errorf("question %q not found", args[0])
		}

		var judge feedback.Judge
		if serverURL, _ := cmd.Flags().GetString("server"); serverURL != "" {
			judge = client.New(serverURL, client.WithLogger(logger))
		} else {
			svc, closeJudge, err := localJudge(cmd, logger)
			if err != nil {
				return err
			}
			defer closeJudge()
			judge = svc
		}

		res := judge.Judge(ctx, feedback.Request{
			ProblemText:     q.ProblemText,
			UserReasoning:   strings.Join(args[1:], " "),
			CorrectSolution: q.Solution,
		})
		fmt.Fprintln(cmd.OutOrStdout(), res.Text())
		if _, failed := res.(feedback.Failure); failed {
			return fmt.Errorf("no feedback for %s", q.ID)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().String("server", "", "Feedback proxy base URL; judge in-process when empty")
}
