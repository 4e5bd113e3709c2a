package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/quantsim/internal/bank"
	"github.com/abhisek/quantsim/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quantsim",
	Short: "Quant interview flashcards with a Socratic judge",
	Long: "Quant Simulator presents probability and finance interview questions, " +
		"takes your free-form reasoning and returns Socratic feedback from a language model.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is normal; the process environment still applies.
		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file loaded", "error", err)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the LLM audit database (overrides QUANTSIM_AUDIT_DB)")
	rootCmd.PersistentFlags().String("questions", "", "Question bank file, .json or .yaml (overrides QUANTSIM_QUESTIONS)")
	addPlayFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// auditDBPath returns the audit database path from --db, then
// QUANTSIM_AUDIT_DB. Empty means auditing is off.
func auditDBPath(cmd *cobra.Command) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = os.Getenv("QUANTSIM_AUDIT_DB")
	}
	if p == "" {
		return "", nil
	}
	return p, store.EnsureDir(p)
}

// inspectDBPath is the database the llm subcommands read: --db, then the
// default location.
func inspectDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	return store.DefaultDBPath()
}

// questionsPath returns the bank override from --questions, then
// QUANTSIM_QUESTIONS.
func questionsPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("questions"); p != "" {
		return p
	}
	return os.Getenv("QUANTSIM_QUESTIONS")
}

func loadBank(cmd *cobra.Command) (*bank.Bank, error) {
	return bank.Load(questionsPath(cmd))
}
