package card

import (
	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/session"
)

// JudgedMsg carries the judge's answer for a submission. It is addressed to
// the card even while an overlay is open.
type JudgedMsg struct {
	Ticket session.Ticket
	Result feedback.Result
}

// SpeechDoneMsg is sent when an utterance ends.
type SpeechDoneMsg struct{}
