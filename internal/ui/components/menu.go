package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantsim/internal/ui/theme"
)

// MenuItem is one selectable row.
type MenuItem struct {
	Label  string
	Marked bool // rendered with a check mark
	Action func() tea.Cmd
}

// Menu is a vertical, scrollable selection list.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the cursor on selected.
func NewMenu(items []MenuItem, selected int) Menu {
	if selected < 0 || selected >= len(items) {
		selected = 0
	}
	return Menu{Items: items, Selected: selected}
}

// Update handles keyboard navigation. Enter runs the selected item's action.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	case "home", "g":
		m.Selected = 0
	case "end", "G":
		m.Selected = len(m.Items) - 1
	case "enter":
		if item := m.Items[m.Selected]; item.Action != nil {
			return m, item.Action()
		}
	}
	return m, nil
}

// View renders at most height rows, keeping the selection visible.
func (m Menu) View(height int) string {
	if height <= 0 || height > len(m.Items) {
		height = len(m.Items)
	}
	start := 0
	if m.Selected >= height {
		start = m.Selected - height + 1
	}

	var b strings.Builder
	for i := start; i < start+height; i++ {
		item := m.Items[i]
		mark := "  "
		if item.Marked {
			mark = theme.Completed.Render("✓ ")
		}
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ ") + mark + theme.Selected.Render(item.Label))
		} else {
			b.WriteString("    " + mark + theme.Unselected.Render(item.Label))
		}
		b.WriteString("\n")
	}
	if hidden := len(m.Items) - (start + height); hidden > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("    … %d more", hidden)))
	}
	return b.String()
}
