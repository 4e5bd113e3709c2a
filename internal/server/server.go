package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/quantsim/internal/api"
	"github.com/abhisek/quantsim/internal/bank"
	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/llm"
	"github.com/abhisek/quantsim/internal/middleware"
	"github.com/abhisek/quantsim/internal/store"
)

// App is a fully wired proxy: the question bank, the optional audit store
// and the HTTP handler tree.
type App struct {
	Handler http.Handler
	Bank    *bank.Bank
	Store   *store.Store

	cfg    *Config
	logger *slog.Logger
}

// NewApp wires the proxy. A nil newProvider builds the model client from the
// environment on every request, so a key added after startup takes effect.
func NewApp(cfg *Config, logger *slog.Logger, newProvider feedback.ProviderFunc) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b, err := bank.Load(cfg.QuestionsPath)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	var st *store.Store
	var repo store.EventRepo
	if cfg.AuditDBPath != "" {
		if err := store.EnsureDir(cfg.AuditDBPath); err != nil {
			return nil, err
		}
		st, err = store.Open(cfg.AuditDBPath)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		repo = st.EventRepo()
	}

	if newProvider == nil {
		newProvider = func(ctx context.Context) (llm.Provider, error) {
			return llm.NewProviderFromEnv(ctx, logger, repo)
		}
	}

	h := api.NewHandler(feedback.NewService(newProvider), b, logger)
	return &App{
		Handler: NewRouter(h, cfg.AllowedOrigins),
		Bank:    b,
		Store:   st,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Close releases the audit store, if any.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// NewRouter builds the router with the global middleware stack.
func NewRouter(h *api.Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(allowedOrigins))

	h.RegisterRoutes(r)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	// No write deadline: judge calls wait on the remote model.
	srv := &http.Server{
		Addr:        a.cfg.Addr(),
		Handler:     a.Handler,
		ReadTimeout: a.cfg.ReadTimeout,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Server listening", "addr", srv.Addr, "questions", a.Bank.Len(), "audit", a.Store != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.logger.Info("Server stopped successfully")
	return nil
}
