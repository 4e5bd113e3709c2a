// Package app is the root Bubble Tea model for the terminal quiz.
package app

import (
	"context"
	"fmt"
	"os"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/router"
	"github.com/abhisek/quantsim/internal/screen"
	"github.com/abhisek/quantsim/internal/screens/card"
	"github.com/abhisek/quantsim/internal/session"
	"github.com/abhisek/quantsim/internal/ui/layout"
)

// Options are the collaborators of a quiz run.
type Options struct {
	Controller *session.Controller
	Judge      feedback.Judge
	Speaker    card.Speaker // nil disables read-aloud
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	speaker card.Speaker
	width   int
	height  int
}

func newAppModel(ctx context.Context, opts Options) AppModel {
	return AppModel{
		router:  router.New(card.New(ctx, opts.Controller, opts.Judge, opts.Speaker)),
		speaker: opts.Speaker,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.speaker != nil {
				m.speaker.Stop()
			}
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}

	// Results of background work belong to the card, not to an overlay.
	case card.JudgedMsg, card.SpeechDoneMsg, spinner.TickMsg:
		return m, m.router.UpdateRoot(msg)
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var status string
	if sp, ok := m.router.Root().(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(active.Title(), status, m.width)

	hints := []layout.KeyHint{{Key: "^C", Description: "Quit"}}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
