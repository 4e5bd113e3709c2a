package session

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/quantsim/internal/bank"
	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/llm"
)

// Controller holds the client-side state of one browsing session: which
// question is shown, how its card is presented and the chat transcript for
// it. It is not safe for concurrent use; the UI loop owns it.
type Controller struct {
	bank      *bank.Bank
	sessionID string

	index       int
	flipped     bool
	hintVisible bool
	answerShown bool
	inFlight    bool
	pending     string
	transcript  []llm.Message

	// completed survives navigation.
	completed map[int]bool

	// generation changes whenever the view is reset so that late responses
	// can be recognized.
	generation uint64
}

// Ticket identifies an accepted submission.
type Ticket struct {
	Index      int
	Generation uint64
}

// New creates a controller positioned on the first question.
func New(b *bank.Bank) *Controller {
	if b == nil {
		b = bank.New(nil)
	}
	return &Controller{
		bank:      b,
		sessionID: uuid.NewString(),
		completed: make(map[int]bool),
	}
}

// SessionID identifies this browsing session to the proxy's audit log.
func (c *Controller) SessionID() string { return c.sessionID }

// Len returns the number of questions.
func (c *Controller) Len() int { return c.bank.Len() }

// Index returns the current position.
func (c *Controller) Index() int { return c.index }

// Current returns the active question, or false when the bank is empty.
func (c *Controller) Current() (bank.Question, bool) {
	if c.bank.Len() == 0 {
		return bank.Question{}, false
	}
	return c.bank.At(c.index), true
}

// Questions returns the bank in order.
func (c *Controller) Questions() []bank.Question { return c.bank.All() }

func (c *Controller) Flipped() bool { return c.flipped }
func (c *Controller) HintVisible() bool { return c.hintVisible }
func (c *Controller) AnswerShown() bool { return c.answerShown }
func (c *Controller) InFlight() bool { return c.inFlight }
func (c *Controller) Pending() string { return c.pending }
func (c *Controller) Completed(i int) bool { return c.completed[i] }

// CompletedCount returns how many questions have at least one submission.
func (c *Controller) CompletedCount() int { return len(c.completed) }

// Transcript returns a copy of the current chat transcript.
func (c *Controller) Transcript() []llm.Message {
	out := make([]llm.Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Advance moves to the next question, wrapping from last to first.
func (c *Controller) Advance() {
	n := c.bank.Len()
	if n == 0 {
		return
	}
	c.moveTo((c.index + 1) % n)
}

// Retreat moves to the previous question, wrapping from first to last.
func (c *Controller) Retreat() {
	n := c.bank.Len()
	if n == 0 {
		return
	}
	c.moveTo((c.index - 1 + n) % n)
}

// JumpTo moves to question i. Out-of-range indices are ignored and false is
// returned.
func (c *Controller) JumpTo(i int) bool {
	if i < 0 || i >= c.bank.Len() {
		return false
	}
	c.moveTo(i)
	return true
}

func (c *Controller) moveTo(i int) {
	c.index = i
	c.flipped = false
	c.hintVisible = false
	c.answerShown = false
	c.pending = ""
	c.resetChat()
}

func (c *Controller) resetChat() {
	c.transcript = nil
	c.inFlight = false
	c.generation++
}

// SetPending replaces the reasoning being typed.
func (c *Controller) SetPending(text string) { c.pending = text }

// ClearTranscript empties the transcript and the pending buffer and drops
// any outstanding response. The position is kept.
func (c *Controller) ClearTranscript() {
	c.pending = ""
	c.resetChat()
}

// ToggleHint flips hint visibility.
func (c *Controller) ToggleHint() { c.hintVisible = !c.hintVisible }

// SetFlipped shows the back (true) or front (false) of the card.
func (c *Controller) SetFlipped(v bool) { c.flipped = v }

// ToggleAnswer flips visibility of the official solution on the front.
func (c *Controller) ToggleAnswer() { c.answerShown = !c.answerShown }

// BeginSubmit accepts reasoning text for the current question. Blank text is
// rejected. On success the user turn is appended, the pending buffer is
// cleared and the request to send to the judge is returned.
func (c *Controller) BeginSubmit(text string) (Ticket, feedback.Request, bool) {
	q, ok := c.Current()
	if !ok || strings.TrimSpace(text) == "" {
		return Ticket{}, feedback.Request{}, false
	}

	c.transcript = append(c.transcript, llm.Message{Role: llm.RoleUser, Content: text})
	c.pending = ""
	c.inFlight = true

	req := feedback.Request{
		ProblemText:     q.ProblemText,
		CorrectSolution: q.Solution,
		ChatHistory:     c.Transcript(),
	}
	return Ticket{Index: c.index, Generation: c.generation}, req, true
}

// Complete applies the judge's result for t. The question is marked completed
// either way; the assistant turn is appended only if the view has not been
// reset since t was issued. It reports whether the result was applied.
func (c *Controller) Complete(t Ticket, res feedback.Result) bool {
	c.completed[t.Index] = true
	if t.Generation != c.generation {
		return false
	}
	c.transcript = append(c.transcript, llm.Message{Role: llm.RoleAssistant, Content: res.Text()})
	c.inFlight = false
	return true
}

// SubmitReasoning runs a whole submission synchronously.
func (c *Controller) SubmitReasoning(ctx context.Context, text string, judge feedback.Judge) bool {
	t, req, ok := c.BeginSubmit(text)
	if !ok {
		return false
	}
	res := judge.Judge(llm.WithSessionID(ctx, c.sessionID), req)
	return c.Complete(t, res)
}
