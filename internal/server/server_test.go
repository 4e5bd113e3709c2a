package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/llm"
	"github.com/abhisek/quantsim/internal/store"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Port:            "0",
		AllowedOrigins:  []string{"*"},
		ReadTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestAppServesJudgeAndHealth(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "What about the complement?"})
	app, err := NewApp(testConfig(t), nil, feedback.StaticProvider(mock))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	srv := httptest.NewServer(app.Handler)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := json.Marshal(feedback.Request{ProblemText: "Roll a die.", UserReasoning: "3.5"})
	resp, err = http.Post(srv.URL+"/api/judge", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out feedback.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "What about the complement?", out.Feedback)
	assert.Nil(t, app.Store)
	assert.Positive(t, app.Bank.Len())
}

func TestAppAuditLogRecordsEnvProvider(t *testing.T) {
	t.Setenv("QUANTSIM_LLM_PROVIDER", "mock")

	cfg := testConfig(t)
	cfg.AuditDBPath = filepath.Join(t.TempDir(), "audit", "audit.db")
	app, err := NewApp(cfg, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	require.NotNil(t, app.Store)

	body, _ := json.Marshal(feedback.Request{ProblemText: "Roll a die."})
	req := httptest.NewRequest(http.MethodPost, "/api/judge", bytes.NewReader(body))
	req.Header.Set(feedback.SessionHeader, "sess-1")
	rr := httptest.NewRecorder()
	app.Handler.ServeHTTP(rr, req)

	// The env-built mock has no queued responses, so the call fails and is
	// audited as a failure.
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	events, err := app.Store.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "sess-1", events[0].SessionID)
	assert.Equal(t, "feedback", events[0].Purpose)
	assert.False(t, events[0].Success)
}

func TestAppRunStopsOnCancel(t *testing.T) {
	app, err := NewApp(testConfig(t), nil, feedback.StaticProvider(llm.NewMockProvider()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewAppBadQuestionsPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.QuestionsPath = filepath.Join(t.TempDir(), "missing.json")
	_, err := NewApp(cfg, nil, nil)
	assert.Error(t, err)
}

func TestAppJudgeMakesOneRemoteAttempt(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"upstream outage", http.StatusInternalServerError},
		{"rejected request", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"code": tt.status, "message": "nope"},
				})
			}))
			t.Cleanup(upstream.Close)

			t.Setenv("QUANTSIM_LLM_PROVIDER", "gemini")
			t.Setenv("QUANTSIM_GEMINI_API_KEY", "test-key")
			t.Setenv("QUANTSIM_GEMINI_BASE_URL", upstream.URL)

			app, err := NewApp(testConfig(t), nil, nil)
			require.NoError(t, err)
			t.Cleanup(func() { app.Close() })

			body, _ := json.Marshal(feedback.Request{
				ProblemText:   "What is E[X] for a fair die?",
				UserReasoning: "I think it's 3 because that's the middle",
			})
			req := httptest.NewRequest(http.MethodPost, "/api/judge", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			app.Handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			var out feedback.Response
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
			assert.True(t, strings.HasPrefix(out.Error, "Failed to generate feedback: "), out.Error)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}
