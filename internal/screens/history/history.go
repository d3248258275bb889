package history

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

const historyLimit = 50

type historyLoadedMsg struct {
	Records []store.SessionRecord
	Err     error
}

// HistoryScreen lists past completed runs, newest first.
type HistoryScreen struct {
	repo     store.SubmissionRepo
	records  []store.SessionRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.SubmissionRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		records, err := s.repo.Recent(context.Background(), historyLimit)
		return historyLoadedMsg{Records: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No runs yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		dateStr := rec.EndedAt.Format("Jan 02, 2006")
		durationStr := layout.FormatClock(rec.DurationSecs)

		modeStr := "drill"
		if rec.Mode == practice.ModeQuiz {
			modeStr = "quiz"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s  %s  %s  %d/%d  %.1f%%",
			prefix, dateStr, durationStr, rec.CategoryID, modeStr,
			rec.Correct, rec.Total, rec.Accuracy)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderItems(rec.Items, width))
		}
	}

	return b.String()
}

// renderItems shows the per-question detail of an expanded run.
func (s *HistoryScreen) renderItems(items []practice.SubmissionItem, width int) string {
	if len(items) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("    No answered questions recorded")) + "\n"
	}

	var b strings.Builder
	for _, item := range items {
		mark := lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		if item.Correct {
			mark = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		}
		line := fmt.Sprintf("    %s %s  %s → %s",
			mark, truncate(item.Prompt, 36), item.UserAnswer, item.Answer)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

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
