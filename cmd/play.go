package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/quantsim/internal/app"
	"github.com/abhisek/quantsim/internal/bank"
	"github.com/abhisek/quantsim/internal/client"
	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/session"
	"github.com/abhisek/quantsim/internal/speech"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a flashcard session in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func addPlayFlags(c *cobra.Command) {
	c.Flags().String("server", "", "Feedback proxy base URL; judge in-process when empty")
	c.Flags().Bool("no-speech", false, "Disable read-aloud")
	c.Flags().String("log-file", "", "Write logs to this file while the UI is running")
}

func init() {
	addPlayFlags(playCmd)
}

func runPlay(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger, closeLog, err := playLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	serverURL, _ := cmd.Flags().GetString("server")

	var (
		b     *bank.Bank
		judge feedback.Judge
	)
	if serverURL != "" {
		c := client.New(serverURL, client.WithLogger(logger))
		qs, err := c.Questions(ctx)
		if err != nil {
			return fmt.Errorf("fetch questions from %s: %w", serverURL, err)
		}
		b = bank.New(bank.Filter(qs))
		judge = c
	} else {
		b, err = loadBank(cmd)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		svc, closeJudge, err := localJudge(cmd, logger)
		if err != nil {
			return err
		}
		defer closeJudge()
		judge = svc
	}

	if b.Len() == 0 {
		return fmt.Errorf("question bank is empty")
	}

	opts := app.Options{
		Controller: session.New(b),
		Judge:      judge,
	}
	if noSpeech, _ := cmd.Flags().GetBool("no-speech"); !noSpeech {
		opts.Speaker = speech.NewSpeaker(nil)
	}

	return app.Run(ctx, opts)
}

// playLogger keeps log output off the terminal the UI draws on.
func playLogger(cmd *cobra.Command) (*slog.Logger, func(), error) {
	path, _ := cmd.Flags().GetString("log-file")
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, nil)), func() { f.Close() }, nil
}
