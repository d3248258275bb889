package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	prac "github.com/luoyeETH/gogov/internal/practice"
	"github.com/luoyeETH/gogov/internal/ui/components"
	"github.com/luoyeETH/gogov/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.showConfirm {
		return renderQuitConfirm(width)
	}
	if s.engine.Status() == prac.StatusLoading {
		return renderLoading(width)
	}
	if s.feedback != nil {
		return s.renderFeedback(width)
	}
	return s.renderQuestionView(width)
}

// renderQuestionView renders the active question display.
func (s *PracticeScreen) renderQuestionView(width int) string {
	q := s.engine.Current()
	if q == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Fetching questions...")
	}

	var b strings.Builder

	// Progress line.
	total := len(s.engine.Questions())
	done := s.engine.AnsweredCount()
	bar := components.NewProgressBar("", float64(done)/float64(total), false, min(width-8, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// Prompt (centered).
	promptStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(promptStyle.Render(q.Prompt))
	b.WriteString("\n\n")

	// Input area.
	if q.MultipleChoice() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Select (1-4) or use arrows + Enter"))
	} else {
		answerLine := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + s.input.View())
		b.WriteString(answerLine)
	}

	return b.String()
}

// renderFeedback renders the drill feedback panel for the last answer.
func (s *PracticeScreen) renderFeedback(width int) string {
	q := s.engine.Current()
	fb := s.feedback

	var b strings.Builder
	b.WriteString("\n\n")

	if fb.eval.Correct {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite"))
		if q != nil {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("Correct answer: %s", q.Answer)))
		}
		if fb.eval.Numeric && fb.eval.ErrorPercent != nil {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("Off by %.2f%%", *fb.eval.ErrorPercent*100)))
		}
	}

	b.WriteString("\n\n")

	if q != nil && q.Explanation != "" {
		expStyle := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text)
		exp := expStyle.Render(q.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n\n")
	}
	if q != nil && q.Shortcut != "" {
		scStyle := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Accent).
			Italic(true)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			scStyle.Render("速算: "+q.Shortcut)))
		b.WriteString("\n\n")
	}

	if fb.retryQueued {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render("This one comes back at the end of the run."))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("End this run early?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Answered questions will still be scored."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, end run"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Fetching questions...")
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
