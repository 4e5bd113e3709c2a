// Package menu is the question picker overlay.
package menu

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quantsim/internal/bank"
	"github.com/abhisek/quantsim/internal/router"
	"github.com/abhisek/quantsim/internal/screen"
	"github.com/abhisek/quantsim/internal/ui/components"
	"github.com/abhisek/quantsim/internal/ui/layout"
)

// SelectedMsg is delivered to the card when a question is picked.
type SelectedMsg struct {
	Index int
}

// Screen lists every question with a mark on those already attempted.
type Screen struct {
	menu     components.Menu
	progress components.ProgressBar
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New builds the picker with the cursor on current.
func New(questions []bank.Question, completed func(int) bool, current int) *Screen {
	items := make([]components.MenuItem, len(questions))
	done := 0
	for i, q := range questions {
		marked := completed != nil && completed(i)
		if marked {
			done++
		}
		items[i] = components.MenuItem{
			Label:  fmt.Sprintf("%-6s %s", q.ID, q.Title),
			Marked: marked,
			Action: selectCmd(i),
		}
	}
	return &Screen{
		menu:     components.NewMenu(items, current),
		progress: components.NewProgressBar(done, len(questions), 0),
	}
}

func selectCmd(i int) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return router.PopScreenMsg{Result: SelectedMsg{Index: i}} }
	}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Questions" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

// Selected is the index under the cursor.
func (s *Screen) Selected() int { return s.menu.Selected }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	if len(s.menu.Items) == 0 {
		return "\n  No questions loaded."
	}
	s.progress.Width = width - 4

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(s.progress.View())
	b.WriteString("\n\n")
	b.WriteString(s.menu.View(height - 4))
	return b.String()
}
