package feedback

import (
	"context"

	"github.com/abhisek/quantsim/internal/llm"
)

// SessionHeader carries the client's browsing-session ID on judge calls.
const SessionHeader = "X-Quantsim-Session"

// Request is the body of a judge call. ChatHistory selects multi-turn mode
// when non-empty; otherwise UserReasoning is judged as a single turn.
type Request struct {
	ProblemText     string        `json:"problem_text"`
	CorrectSolution string        `json:"correct_solution"`
	UserReasoning   string        `json:"user_reasoning,omitempty"`
	ChatHistory     []llm.Message `json:"chat_history,omitempty"`
}

// MultiTurn reports whether the request carries a chat transcript.
func (r Request) MultiTurn() bool {
	return len(r.ChatHistory) > 0
}

// Response is the wire shape returned by the judge endpoint. Exactly one
// field is set.
type Response struct {
	Feedback string `json:"feedback,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Result is the outcome of a judge call as seen by a client. It is either
// Success or Failure.
type Result interface {
	// Text is the line appended to the transcript as the assistant turn.
	Text() string
	isResult()
}

// Success carries the model's feedback verbatim.
type Success struct {
	Feedback string
}

func (s Success) Text() string { return s.Feedback }
func (Success) isResult() {}

// FailureKind classifies why a judge call produced no feedback.
type FailureKind int

const (
	// FailureRemote means the proxy reported an error message.
	FailureRemote FailureKind = iota
	// FailureShape means the response carried neither feedback nor error.
	FailureShape
	// FailureTransport means the proxy could not be reached.
	FailureTransport
)

// Failure is a judge call that produced no feedback.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f Failure) Text() string {
	switch f.Kind {
	case FailureShape:
		return "Connection to Judge lost. Self-verify."
	case FailureTransport:
		return "Error contacting Judge."
	default:
		return "System Error: " + f.Message
	}
}

func (Failure) isResult() {}

// FromResponse decodes a wire response into a Result.
func FromResponse(resp Response) Result {
	switch {
	case resp.Feedback != "":
		return Success{Feedback: resp.Feedback}
	case resp.Error != "":
		return Failure{Kind: FailureRemote, Message: resp.Error}
	default:
		return Failure{Kind: FailureShape}
	}
}

// Judge obtains feedback for a request. Implementations never return Go
// errors; every failure is folded into a Failure result.
type Judge interface {
	Judge(ctx context.Context, req Request) Result
}
