package session

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quantsim/internal/bank"
	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/llm"
)

func testBank(n int) *bank.Bank {
	qs := make([]bank.Question, n)
	for i := range qs {
		qs[i] = bank.Question{
			ID:          fmt.Sprintf("q%d", i),
			Title:       fmt.Sprintf("Question %d", i),
			ProblemText: fmt.Sprintf("Problem number %d, stated at length.", i),
			Solution:    fmt.Sprintf("solution %d", i),
		}
	}
	return bank.New(qs)
}

type stubJudge struct {
	result feedback.Result
	calls  []feedback.Request
}

func (s *stubJudge) Judge(_ context.Context, req feedback.Request) feedback.Result {
	s.calls = append(s.calls, req)
	return s.result
}

func TestNavigationWraps(t *testing.T) {
	c := New(testBank(3))

	c.Retreat()
	assert.Equal(t, 2, c.Index(), "retreat from first wraps to last")

	c.Advance()
	assert.Equal(t, 0, c.Index(), "advance from last wraps to first")

	c.Advance()
	c.Advance()
	assert.Equal(t, 2, c.Index())
}

func TestNavigationResetsView(t *testing.T) {
	c := New(testBank(3))
	c.SetFlipped(true)
	c.ToggleHint()
	c.ToggleAnswer()
	c.SetPending("draft")
	_, _, ok := c.BeginSubmit("my reasoning")
	require.True(t, ok)

	c.Advance()

	assert.False(t, c.Flipped())
	assert.False(t, c.HintVisible())
	assert.False(t, c.AnswerShown())
	assert.False(t, c.InFlight())
	assert.Empty(t, c.Pending())
	assert.Empty(t, c.Transcript())
}

func TestJumpTo(t *testing.T) {
	c := New(testBank(4))

	assert.True(t, c.JumpTo(2))
	assert.Equal(t, 2, c.Index())

	c.SetFlipped(true)
	assert.False(t, c.JumpTo(-1))
	assert.False(t, c.JumpTo(4))
	assert.Equal(t, 2, c.Index())
	assert.True(t, c.Flipped(), "out-of-range jump must not reset the view")
}

func TestSubmitReasoning(t *testing.T) {
	c := New(testBank(2))
	judge := &stubJudge{result: feedback.Success{Feedback: "What about the tails case?"}}
	c.SetPending("It is one half")

	applied := c.SubmitReasoning(context.Background(), "It is one half", judge)
	require.True(t, applied)

	want := []llm.Message{
		{Role: llm.RoleUser, Content: "It is one half"},
		{Role: llm.RoleAssistant, Content: "What about the tails case?"},
	}
	assert.Equal(t, want, c.Transcript())
	assert.Empty(t, c.Pending())
	assert.False(t, c.InFlight())
	assert.True(t, c.Completed(0))

	require.Len(t, judge.calls, 1)
	sent := judge.calls[0]
	assert.Equal(t, "Problem number 0, stated at length.", sent.ProblemText)
	assert.Equal(t, "solution 0", sent.CorrectSolution)
	assert.Equal(t, want[:1], sent.ChatHistory)
}

func TestSubmitReasoningMultiTurnCarriesTranscript(t *testing.T) {
	c := New(testBank(1))
	judge := &stubJudge{result: feedback.Success{Feedback: "ok"}}

	c.SubmitReasoning(context.Background(), "first", judge)
	c.SubmitReasoning(context.Background(), "second", judge)

	require.Len(t, judge.calls, 2)
	hist := judge.calls[1].ChatHistory
	require.Len(t, hist, 3)
	assert.Equal(t, "second", hist[2].Content)
	assert.Equal(t, llm.RoleAssistant, hist[1].Role)
}

func TestSubmitBlankIsNoop(t *testing.T) {
	c := New(testBank(1))
	judge := &stubJudge{result: feedback.Success{Feedback: "x"}}

	for _, text := range []string{"", "   ", "\n\t"} {
		assert.False(t, c.SubmitReasoning(context.Background(), text, judge))
	}
	assert.Empty(t, judge.calls)
	assert.Empty(t, c.Transcript())
	assert.False(t, c.Completed(0))
}

func TestSubmitFailureRendersSystemError(t *testing.T) {
	c := New(testBank(1))
	judge := &stubJudge{result: feedback.Failure{Kind: feedback.FailureRemote, Message: "GEMINI_API_KEY is not defined"}}

	c.SubmitReasoning(context.Background(), "guess", judge)

	tr := c.Transcript()
	require.Len(t, tr, 2)
	assert.Equal(t, "System Error: GEMINI_API_KEY is not defined", tr[1].Content)
	assert.True(t, c.Completed(0))
}

func TestBeginSubmitClearsPendingBeforeResponse(t *testing.T) {
	c := New(testBank(1))
	c.SetPending("draft")

	_, req, ok := c.BeginSubmit("draft")
	require.True(t, ok)
	assert.Empty(t, c.Pending())
	assert.True(t, c.InFlight())
	assert.Len(t, req.ChatHistory, 1)
}

func TestStaleResponseDiscarded(t *testing.T) {
	c := New(testBank(3))
	ticket, _, ok := c.BeginSubmit("answer for q0")
	require.True(t, ok)

	c.Advance()
	applied := c.Complete(ticket, feedback.Success{Feedback: "late"})

	assert.False(t, applied)
	assert.Empty(t, c.Transcript())
	assert.True(t, c.Completed(0), "the original question still counts as attempted")
	assert.False(t, c.Completed(1))
}

func TestClearTranscript(t *testing.T) {
	c := New(testBank(2))
	c.JumpTo(1)
	c.SubmitReasoning(context.Background(), "x", &stubJudge{result: feedback.Success{Feedback: "y"}})
	c.SetPending("more")

	c.ClearTranscript()
	assert.Empty(t, c.Transcript())
	assert.Empty(t, c.Pending())
	assert.Equal(t, 1, c.Index())

	// Idempotent.
	c.ClearTranscript()
	assert.Empty(t, c.Transcript())
	assert.Equal(t, 1, c.Index())
	assert.True(t, c.Completed(1))
}

func TestClearTranscriptDropsInFlightResponse(t *testing.T) {
	c := New(testBank(1))
	ticket, _, _ := c.BeginSubmit("x")

	c.ClearTranscript()
	assert.False(t, c.InFlight())
	assert.False(t, c.Complete(ticket, feedback.Success{Feedback: "late"}))
	assert.Empty(t, c.Transcript())
}

func TestEmptyBank(t *testing.T) {
	c := New(bank.New(nil))

	c.Advance()
	c.Retreat()
	assert.False(t, c.JumpTo(0))
	_, ok := c.Current()
	assert.False(t, ok)

	_, _, ok = c.BeginSubmit("anything")
	assert.False(t, ok)
}

func TestSessionIDStable(t *testing.T) {
	c := New(testBank(1))
	id := c.SessionID()
	require.NotEmpty(t, id)
	c.Advance()
	assert.Equal(t, id, c.SessionID())
	assert.Equal(t, 4, strings.Count(id, "-"))
}
