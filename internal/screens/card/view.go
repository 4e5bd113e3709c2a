package card

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantsim/internal/bank"
	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/llm"
	"github.com/abhisek/quantsim/internal/ui/layout"
	"github.com/abhisek/quantsim/internal/ui/theme"
)

const analyzingText = "Analyzing reasoning..."

func statusLine(pos, total, done int) string {
	return fmt.Sprintf("%d / %d  ✓ %d", pos, total, done)
}

func (s *Screen) View(width, height int) string {
	q, ok := s.ctrl.Current()
	if !ok {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nNo questions loaded.")
	}

	inner := width - 6
	if inner < 20 {
		inner = 20
	}

	if s.ctrl.Flipped() {
		return theme.CardBack.Width(width - 2).Render(renderBack(q, inner))
	}
	return theme.Card.Width(width - 2).Render(s.renderFront(q, inner, height-4))
}

func (s *Screen) renderFront(q bank.Question, width, height int) string {
	var top strings.Builder
	top.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s · %s", q.Chapter, q.ID)))
	top.WriteString("\n")
	top.WriteString(theme.Title.Render(q.Title))
	top.WriteString("\n\n")
	top.WriteString(theme.Body.Render(layout.Wrap(q.ProblemText, width)))
	top.WriteString("\n")

	if s.ctrl.HintVisible() && q.HasHint() {
		top.WriteString("\n")
		top.WriteString(theme.Hint.Render(layout.Wrap("Hint: "+q.Hint, width)))
		top.WriteString("\n")
	}
	if s.ctrl.AnswerShown() {
		top.WriteString("\n")
		if q.HasSolution() {
			top.WriteString(theme.Completed.Render("Answer: "))
			top.WriteString(theme.Body.Render(layout.Wrap(q.Solution, width)))
		} else {
			top.WriteString(theme.Subtitle.Render("No official solution for this question."))
		}
		top.WriteString("\n")
	}

	var bottom strings.Builder
	if s.ctrl.InFlight() {
		bottom.WriteString(s.spinner.View() + " " + theme.Hint.Render(analyzingText))
		bottom.WriteString("\n")
	}
	s.input.SetWidth(width - 4)
	bottom.WriteString(s.input.View())
	if s.status != "" {
		bottom.WriteString("\n")
		bottom.WriteString(theme.SystemError.Render(s.status))
	}
	if s.speaker != nil && s.speaker.Speaking() {
		bottom.WriteString("\n")
		bottom.WriteString(theme.Subtitle.Render("Reading aloud. Ctrl+R to stop."))
	}

	topStr, bottomStr := top.String(), bottom.String()
	room := height - lipgloss.Height(topStr) - lipgloss.Height(bottomStr) - 1
	chat := renderTranscript(s.ctrl.Transcript(), width, room)

	parts := []string{topStr}
	if chat != "" {
		parts = append(parts, chat)
	}
	parts = append(parts, bottomStr)
	return strings.Join(parts, "\n")
}

// renderTranscript renders the newest turns that fit in maxLines. A
// non-positive maxLines renders everything.
func renderTranscript(msgs []llm.Message, width, maxLines int) string {
	if len(msgs) == 0 {
		return ""
	}
	var lines []string
	for _, m := range msgs {
		lines = append(lines, strings.Split(renderTurn(m, width), "\n")...)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "\n")
}

func renderTurn(m llm.Message, width int) string {
	if m.Role == llm.RoleUser {
		return theme.UserTurn.Render("You: ") + theme.Body.Render(layout.Wrap(m.Content, width-5))
	}
	body := theme.Body
	if isFailureText(m.Content) {
		body = theme.SystemError
	}
	return theme.JudgeTurn.Render("Judge: ") + body.Render(layout.Wrap(m.Content, width-7))
}

func isFailureText(text string) bool {
	return strings.HasPrefix(text, "System Error: ") ||
		text == (feedback.Failure{Kind: feedback.FailureShape}).Text() ||
		text == (feedback.Failure{Kind: feedback.FailureTransport}).Text()
}

func renderBack(q bank.Question, width int) string {
	var b strings.Builder
	b.WriteString(theme.JudgeTurn.Render("Official Solution"))
	b.WriteString("\n\n")
	if q.HasSolution() {
		b.WriteString(theme.Body.Render(layout.Wrap(q.Solution, width)))
	} else {
		b.WriteString(theme.Subtitle.Render("No official solution for this question."))
	}
	if q.GraphURL != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render("Diagram: " + q.GraphURL))
	}
	return b.String()
}
