package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/luoyeETH/gogov/internal/bank"
	"github.com/luoyeETH/gogov/internal/router"
	"github.com/luoyeETH/gogov/internal/screen"
	"github.com/luoyeETH/gogov/internal/screens/history"
	"github.com/luoyeETH/gogov/internal/screens/setup"
	"github.com/luoyeETH/gogov/internal/store"
	"github.com/luoyeETH/gogov/internal/ui/components"
	"github.com/luoyeETH/gogov/internal/ui/theme"
)

// statsLoadedMsg delivers the home-screen counters.
type statsLoadedMsg struct {
	Questions int
	Runs      int
}

// HomeScreen is the main entry screen of the application.
type HomeScreen struct {
	qbank *bank.Bank
	repo  store.SubmissionRepo

	menu          components.Menu
	questionCount int
	runCount      int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(qbank *bank.Bank, repo store.SubmissionRepo) *HomeScreen {
	h := &HomeScreen{
		qbank: qbank,
		repo:  repo,
	}

	items := []components.MenuItem{
		{Label: "START PRACTICE", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: setup.New(qbank, repo)}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(repo)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg statsLoadedMsg
		msg.Questions, _ = h.qbank.QuestionCount(ctx)
		if records, err := h.repo.Recent(ctx, 1000); err == nil {
			msg.Runs = len(records)
		}
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		h.questionCount = msg.Questions
		h.runCount = msg.Runs
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("GoGov · 行测速算练习"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Quick practice for civil-service math"))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("%d questions in bank    %d runs completed",
		h.questionCount, h.runCount)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}
