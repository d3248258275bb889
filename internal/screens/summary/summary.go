package summary

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/luoyeETH/gogov/internal/practice"
	"github.com/luoyeETH/gogov/internal/router"
	"github.com/luoyeETH/gogov/internal/screen"
	"github.com/luoyeETH/gogov/internal/store"
	"github.com/luoyeETH/gogov/internal/ui/layout"
	"github.com/luoyeETH/gogov/internal/ui/theme"
)

// uploadState tracks the result submission lifecycle.
type uploadState int

const (
	uploadPending uploadState = iota
	uploadDone
	uploadSkipped
	uploadFailed
)

// uploadDoneMsg reports the outcome of a submission attempt.
type uploadDoneMsg struct {
	Skipped bool
	Err     error
}

// SummaryScreen displays the run's aggregate results and drives the
// one-shot result submission.
type SummaryScreen struct {
	engine *practice.Engine
	repo   store.SubmissionRepo

	results []practice.Result
	summary practice.Summary

	upload    uploadState
	uploadErr string
	selected  int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen over a completed engine.
func New(engine *practice.Engine, repo store.SubmissionRepo) *SummaryScreen {
	return &SummaryScreen{
		engine:  engine,
		repo:    repo,
		results: engine.Results(),
		summary: engine.Summary(),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return s.uploadCmd()
}

// uploadCmd takes the submission payload from the engine and stores it.
// The engine guards against double submission; a nil payload means there
// is nothing to report.
func (s *SummaryScreen) uploadCmd() tea.Cmd {
	engine := s.engine
	repo := s.repo
	summary := s.summary
	return func() tea.Msg {
		payload := engine.TakeSubmission()
		if payload == nil {
			return uploadDoneMsg{Skipped: true}
		}
		if err := repo.Submit(context.Background(), payload, summary); err != nil {
			engine.SubmissionFailed()
			return uploadDoneMsg{Err: err}
		}
		return uploadDoneMsg{}
	}
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Review"},
		{Key: "Enter", Description: "Home"},
	}
	if s.upload == uploadFailed {
		hints = append(hints, layout.KeyHint{Key: "u", Description: "Retry save"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadDoneMsg:
		switch {
		case msg.Err != nil:
			s.upload = uploadFailed
			s.uploadErr = msg.Err.Error()
		case msg.Skipped:
			s.upload = uploadSkipped
		default:
			s.upload = uploadDone
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "u":
			if s.upload == uploadFailed {
				s.upload = uploadPending
				s.uploadErr = ""
				return s, s.uploadCmd()
			}
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Run complete!"))
	b.WriteString("\n\n")

	// Stats line.
	sum := s.summary
	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %.1f%%        Time: %s",
		sum.Total, sum.Correct, sum.Accuracy, layout.FormatClock(sum.ElapsedSeconds))
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n")
	if sum.Total > 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("%.1fs per question", sum.AverageSeconds)))
		b.WriteString("\n")
	}

	// Upload status.
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderUploadStatus()))
	b.WriteString("\n\n")

	// Per-question review.
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Review")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	b.WriteString(s.renderReview(width, height))

	return b.String()
}

func (s *SummaryScreen) renderUploadStatus() string {
	switch s.upload {
	case uploadDone:
		return lipgloss.NewStyle().Foreground(theme.Success).Render("Result saved to history")
	case uploadSkipped:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("Nothing answered — not saved")
	case uploadFailed:
		return lipgloss.NewStyle().Foreground(theme.Error).
			Render(fmt.Sprintf("Save failed: %s  (press u to retry)", s.uploadErr))
	default:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("Saving result...")
	}
}

func (s *SummaryScreen) renderReview(width, height int) string {
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No questions in this run.")
	}

	// Keep the selected row in a window that fits the remaining height.
	window := height - 12
	if window < 3 {
		window = 3
	}
	start := 0
	if s.selected >= window {
		start = s.selected - window + 1
	}
	end := start + window
	if end > len(s.results) {
		end = len(s.results)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		r := s.results[i]

		mark := lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		if r.Correct {
			mark = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		}
		answer := r.UserAnswer
		if !r.Answered {
			answer = "—"
			mark = lipgloss.NewStyle().Foreground(theme.TextDim).Render("·")
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s", prefix, mark,
			truncate(r.Question.Prompt, min(width-30, 44)))
		detail := fmt.Sprintf("  %s → %s", answer, r.Question.Answer)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line+detail)))
		b.WriteString("\n")
	}
	return b.String()
}

// truncate shortens a prompt for single-line display.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
