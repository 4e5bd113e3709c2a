package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/quantsim/internal/store"
)

// LoggingProvider is a decorator that reports every LLM request through slog
// and, when an audit repo is configured, records it as an event.
type LoggingProvider struct {
	inner     Provider
	logger    *slog.Logger
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with request logging. A nil logger falls back
// to slog.Default; a nil repo disables the audit log.
func WithLogging(p Provider, logger *slog.Logger, repo store.EventRepo) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, logger: logger, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		SessionID:   SessionIDFrom(ctx),
		Provider:    ProviderName(l.inner),
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = resp.Text
	}

	attrs := []any{
		"provider", data.Provider,
		"model", data.Model,
		"purpose", purpose,
		"turns", len(req.History) + 1,
		"latency_ms", latencyMs,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.ErrorContext(ctx, "llm request failed", append(attrs, "error", err)...)
	} else {
		l.logger.InfoContext(ctx, "llm request",
			append(attrs, "input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)...)
	}

	// Audit failures never fail the request.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
			l.logger.WarnContext(ctx, "failed to record LLM request event", "error", logErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// ProviderName returns the short provider name for p, looking through
// decorators.
func ProviderName(p Provider) string {
	switch v := p.(type) {
	case *LoggingProvider:
		return ProviderName(v.inner)
	case *GeminiProvider:
		return "gemini"
	case *AnthropicProvider:
		return "anthropic"
	case *OpenRouterProvider:
		return "openrouter"
	case *OpenAIProvider:
		return "openai"
	case *MockProvider:
		return "mock"
	default:
		return "unknown"
	}
}

const turnMarker = "[%s]\n"

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Turns() {
		fmt.Fprintf(&b, turnMarker, m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// LastUserTurn returns the final user turn of a request recorded in the
// audit log, or "" when there is none.
func LastUserTurn(body string) string {
	marker := fmt.Sprintf(turnMarker, RoleUser)
	i := strings.LastIndex(body, marker)
	if i < 0 {
		return ""
	}
	return body[i+len(marker):]
}
