// Package card is the flashcard screen: the question, the chat with the judge
// and the flipped solution side.
package card

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/llm"
	"github.com/abhisek/quantsim/internal/router"
	"github.com/abhisek/quantsim/internal/screen"
	"github.com/abhisek/quantsim/internal/screens/menu"
	"github.com/abhisek/quantsim/internal/session"
	"github.com/abhisek/quantsim/internal/speech"
	"github.com/abhisek/quantsim/internal/ui/components"
	"github.com/abhisek/quantsim/internal/ui/layout"
	"github.com/abhisek/quantsim/internal/ui/theme"
)

// Speaker reads text aloud. *speech.Speaker implements it.
type Speaker interface {
	Toggle(ctx context.Context, text string, done func()) (bool, error)
	Stop()
	Speaking() bool
}

// Screen is the card screen.
type Screen struct {
	ctx     context.Context
	ctrl    *session.Controller
	judge   feedback.Judge
	speaker Speaker

	input   components.TextInput
	spinner spinner.Model
	status  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)
var _ Speaker = (*speech.Speaker)(nil)

// New creates the card screen. speaker may be nil to disable read-aloud.
func New(ctx context.Context, ctrl *session.Controller, judge feedback.Judge, speaker Speaker) *Screen {
	return &Screen{
		ctx:     ctx,
		ctrl:    ctrl,
		judge:   judge,
		speaker: speaker,
		input:   components.NewTextInput("Explain your reasoning...", 0),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	if s.ctrl.Flipped() {
		return "Solution"
	}
	if q, ok := s.ctrl.Current(); ok {
		return q.Chapter
	}
	return "Quiz"
}

func (s *Screen) Status() string {
	if s.ctrl.Len() == 0 {
		return ""
	}
	return statusLine(s.ctrl.Index()+1, s.ctrl.Len(), s.ctrl.CompletedCount())
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.ctrl.Flipped() {
		return []layout.KeyHint{
			{Key: "^F/Esc", Description: "Front"},
			{Key: "^N/^P", Description: "Next/Prev"},
			{Key: "^O", Description: "Menu"},
			{Key: "^C", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "^N/^P", Description: "Next/Prev"},
		{Key: "^F", Description: "Flip"},
	}
	if q, ok := s.ctrl.Current(); ok && q.HasHint() {
		hints = append(hints, layout.KeyHint{Key: "^G", Description: "Hint"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "^L", Description: "Clear"},
		layout.KeyHint{Key: "^O", Description: "Menu"},
	)
	if s.speaker != nil {
		hints = append(hints, layout.KeyHint{Key: "^R", Description: "Read"})
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case JudgedMsg:
		s.ctrl.Complete(msg.Ticket, msg.Result)
		return s, nil

	case menu.SelectedMsg:
		if s.ctrl.JumpTo(msg.Index) {
			s.questionChanged()
		}
		return s, nil

	case SpeechDoneMsg:
		return s, nil

	case spinner.TickMsg:
		if !s.ctrl.InFlight() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s.forwardToInput(msg)
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+n":
		s.ctrl.Advance()
		s.questionChanged()
		return s, nil
	case "ctrl+p":
		s.ctrl.Retreat()
		s.questionChanged()
		return s, nil
	case "ctrl+f":
		s.ctrl.SetFlipped(!s.ctrl.Flipped())
		return s, nil
	case "esc":
		if s.ctrl.Flipped() {
			s.ctrl.SetFlipped(false)
		}
		return s, nil
	case "ctrl+o":
		m := menu.New(s.ctrl.Questions(), s.ctrl.Completed, s.ctrl.Index())
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: m} }
	case "ctrl+r":
		return s, s.toggleSpeech()
	}

	if s.ctrl.Flipped() {
		return s, nil
	}

	switch msg.String() {
	case "enter":
		return s, s.submit()
	case "ctrl+g":
		if q, ok := s.ctrl.Current(); ok && q.HasHint() {
			s.ctrl.ToggleHint()
		}
		return s, nil
	case "ctrl+s":
		s.ctrl.ToggleAnswer()
		return s, nil
	case "ctrl+l":
		s.ctrl.ClearTranscript()
		s.input.Reset()
		s.status = ""
		return s, nil
	}

	return s.forwardToInput(msg)
}

func (s *Screen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.ctrl.Flipped() {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.ctrl.SetPending(s.input.Value())
	return s, cmd
}

// submit sends the typed reasoning to the judge. Submission is refused while
// a previous one is still in flight.
func (s *Screen) submit() tea.Cmd {
	if s.ctrl.InFlight() {
		return nil
	}
	ticket, req, ok := s.ctrl.BeginSubmit(s.input.Value())
	if !ok {
		return nil
	}
	s.input.Reset()
	s.status = ""

	ctx := llm.WithSessionID(s.ctx, s.ctrl.SessionID())
	judge := s.judge
	return tea.Batch(
		func() tea.Msg {
			return JudgedMsg{Ticket: ticket, Result: judge.Judge(ctx, req)}
		},
		s.spinner.Tick,
	)
}

// questionChanged resets view-only state after the controller moved.
func (s *Screen) questionChanged() {
	s.input.SetValue(s.ctrl.Pending())
	s.status = ""
	if s.speaker != nil {
		s.speaker.Stop()
	}
}

func (s *Screen) toggleSpeech() tea.Cmd {
	if s.speaker == nil {
		s.status = "Read-aloud is unavailable."
		return nil
	}
	q, ok := s.ctrl.Current()
	if !ok {
		return nil
	}

	done := make(chan struct{})
	started, err := s.speaker.Toggle(s.ctx, speech.ReadAloudText(q.Title, q.ProblemText), func() { close(done) })
	if err != nil {
		s.status = "Read-aloud failed: " + err.Error()
		return nil
	}
	if !started {
		return nil
	}
	return func() tea.Msg {
		<-done
		return SpeechDoneMsg{}
	}
}
