// Package screen defines what the app frame needs from a full-screen view.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quantsim/internal/ui/layout"
)

// Screen is one full-screen view managed by the router.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens that supply footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status, such as the
// card position, at the right of the header.
type StatusProvider interface {
	Status() string
}
