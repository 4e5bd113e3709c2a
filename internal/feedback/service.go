package feedback

import (
	"context"
	"errors"

	"github.com/abhisek/quantsim/internal/llm"
)

// ProviderFunc builds the remote model client. It is called once per request
// so credentials are read at request time.
type ProviderFunc func(ctx context.Context) (llm.Provider, error)

// Service turns judge requests into remote model calls. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	newProvider ProviderFunc
}

// NewService creates a feedback service.
func NewService(newProvider ProviderFunc) *Service {
	return &Service{newProvider: newProvider}
}

// StaticProvider returns a ProviderFunc that always yields p.
func StaticProvider(p llm.Provider) ProviderFunc {
	return func(context.Context) (llm.Provider, error) { return p, nil }
}

// Generate returns the remote model's feedback for req verbatim. Errors are
// *ConfigError or *GenerationError.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	provider, err := s.newProvider(ctx)
	if err != nil {
		return "", &ConfigError{Err: err}
	}

	purpose := "feedback"
	if req.MultiTurn() {
		purpose = "chat"
	}
	ctx = llm.WithPurpose(ctx, purpose)

	resp, err := provider.Generate(ctx, BuildLLMRequest(req))
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	return resp.Text, nil
}

// Judge implements Judge for in-process use.
func (s *Service) Judge(ctx context.Context, req Request) Result {
	text, err := s.Generate(ctx, req)
	if err != nil {
		return Failure{Kind: FailureRemote, Message: err.Error()}
	}
	return FromResponse(Response{Feedback: text})
}

// BuildLLMRequest reshapes a judge request into the model conversation.
//
// Multi-turn: the interviewer framing is the system instruction, every
// transcript entry but the last is history and the last entry's content is
// the current turn. Single-turn: one prompt, no system instruction and no
// history.
func BuildLLMRequest(req Request) llm.Request {
	if !req.MultiTurn() {
		return llm.Request{
			Prompt: buildSingleTurnPrompt(req.ProblemText, req.UserReasoning, req.CorrectSolution),
		}
	}

	n := len(req.ChatHistory)
	history := make([]llm.Message, 0, n-1)
	for _, m := range req.ChatHistory[:n-1] {
		role := m.Role
		if !role.Valid() {
			role = llm.RoleUser
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}

	return llm.Request{
		System:  buildSystemPrompt(req.ProblemText, req.CorrectSolution),
		History: history,
		Prompt:  req.ChatHistory[n-1].Content,
	}
}

// IsConfigError reports whether err is a configuration problem.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
