package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/llm"
	"github.com/abhisek/quantsim/internal/store"
)

// localJudge builds an in-process judge. The model client is created per
// request from the environment, as the proxy does. The returned close func
// releases the audit store.
func localJudge(cmd *cobra.Command, logger *slog.Logger) (*feedback.Service, func(), error) {
	dbPath, err := auditDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve audit DB path: %w", err)
	}

	var repo store.EventRepo
	closeFn := func() {}
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open audit log: %w", err)
		}
		repo = st.EventRepo()
		closeFn = func() { st.Close() }
	}

	svc := feedback.NewService(func(ctx context.Context) (llm.Provider, error) {
		return llm.NewProviderFromEnv(ctx, logger, repo)
	})
	return svc, closeFn, nil
}
