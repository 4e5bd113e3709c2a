package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quantsim/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feedback proxy",
	Long: "Serve the judge endpoint and the question bank over HTTP. Model credentials " +
		"are read from the environment on every request.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)

		cfg, err := server.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetString("port")
		}
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			cfg.AuditDBPath = p
		}
		if p, _ := cmd.Flags().GetString("questions"); p != "" {
			cfg.QuestionsPath = p
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		a, err := server.NewApp(cfg, logger, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting feedback proxy",
			"addr", cfg.Addr(),
			"questions", a.Bank.Len(),
			"audit", cfg.AuditDBPath != "",
		)
		return a.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "8080", "Listen port (overrides PORT)")
}
