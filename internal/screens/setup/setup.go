package setup

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/luoyeETH/gogov/internal/bank"
	"github.com/luoyeETH/gogov/internal/practice"
	"github.com/luoyeETH/gogov/internal/router"
	"github.com/luoyeETH/gogov/internal/screen"
	practicescreen "github.com/luoyeETH/gogov/internal/screens/practice"
	"github.com/luoyeETH/gogov/internal/store"
	"github.com/luoyeETH/gogov/internal/ui/components"
	"github.com/luoyeETH/gogov/internal/ui/layout"
	"github.com/luoyeETH/gogov/internal/ui/theme"
)

// stage is the setup wizard step.
type stage int

const (
	stageCategory stage = iota
	stageSize
	stageMode
)

const defaultBatchSize = 10

// categoriesLoadedMsg delivers the category list from the question bank.
type categoriesLoadedMsg struct {
	Categories []practice.Category
	Err        error
}

// SetupScreen walks the learner through category, batch size and mode
// before starting a practice run.
type SetupScreen struct {
	source bank.Source
	repo   store.SubmissionRepo

	stage      stage
	categories []practice.Category
	catMenu    components.Menu
	catIndex   int
	sizeInput  components.TextInput
	modeMenu   components.Menu
	autoNext   bool
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a new SetupScreen.
func New(source bank.Source, repo store.SubmissionRepo) *SetupScreen {
	sizeInput := components.NewTextInput(strconv.Itoa(defaultBatchSize), true, 3)
	return &SetupScreen{
		source:    source,
		repo:      repo,
		sizeInput: sizeInput,
		autoNext:  true,
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return func() tea.Msg {
		cats, err := s.source.Categories(context.Background())
		return categoriesLoadedMsg{Categories: cats, Err: err}
	}
}

func (s *SetupScreen) Title() string {
	return "New Practice"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	switch s.stage {
	case stageSize:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Back"},
		}
	case stageMode:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "a", Description: "Toggle auto-next"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.loaded = true
			return s, nil
		}
		s.categories = sortedByGroup(msg.Categories)
		s.catMenu = s.buildCategoryMenu()
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.stage == stageSize {
		var cmd tea.Cmd
		s.sizeInput, cmd = s.sizeInput.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SetupScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if key == "esc" {
		switch s.stage {
		case stageCategory:
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case stageSize:
			s.stage = stageCategory
			return s, nil
		case stageMode:
			s.stage = stageSize
			return s, s.sizeInput.Init()
		}
	}

	switch s.stage {
	case stageCategory:
		var cmd tea.Cmd
		s.catMenu, cmd = s.catMenu.Update(msg)
		return s, cmd

	case stageSize:
		if key == "enter" {
			s.stage = stageMode
			s.modeMenu = s.buildModeMenu()
			return s, nil
		}
		var cmd tea.Cmd
		s.sizeInput, cmd = s.sizeInput.Update(msg)
		return s, cmd

	case stageMode:
		if key == "a" {
			s.autoNext = !s.autoNext
			s.modeMenu = s.buildModeMenu()
			return s, nil
		}
		var cmd tea.Cmd
		s.modeMenu, cmd = s.modeMenu.Update(msg)
		return s, cmd
	}

	return s, nil
}

func (s *SetupScreen) buildCategoryMenu() components.Menu {
	items := make([]components.MenuItem, 0, len(s.categories))
	for i, cat := range s.categories {
		i := i
		items = append(items, components.MenuItem{
			Label: fmt.Sprintf("%s · %s", cat.Group, cat.ID),
			Action: func() tea.Cmd {
				s.catIndex = i
				s.stage = stageSize
				return s.sizeInput.Init()
			},
		})
	}
	return components.NewMenu(items)
}

func (s *SetupScreen) buildModeMenu() components.Menu {
	start := func(mode practice.Mode) func() tea.Cmd {
		return func() tea.Cmd {
			category := s.categories[s.catIndex]
			size := s.batchSize()
			autoNext := s.autoNext
			return func() tea.Msg {
				return router.ReplaceScreenMsg{
					Screen: practicescreen.New(s.source, s.repo, s.categories, category, size, mode, autoNext),
				}
			}
		}
	}
	return components.NewMenu([]components.MenuItem{
		{Label: "DRILL — feedback after every answer", Action: start(practice.ModeDrill)},
		{Label: "QUIZ — grade everything at the end", Action: start(practice.ModeQuiz)},
	})
}

// batchSize parses the size input, falling back to the default. The
// engine clamps it again, so out-of-range values are safe either way.
func (s *SetupScreen) batchSize() int {
	n, err := strconv.Atoi(strings.TrimSpace(s.sizeInput.Value()))
	if err != nil || n <= 0 {
		return defaultBatchSize
	}
	return n
}

func (s *SetupScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s\n\nPress any key to go back.", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading categories...")
	}
	if len(s.categories) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Question bank is empty. Import questions first.")
	}

	var b strings.Builder
	b.WriteString("\n")

	switch s.stage {
	case stageCategory:
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
			Render("Pick a category"))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.catMenu.View()))

	case stageSize:
		cat := s.categories[s.catIndex]
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("%s · %s", cat.Group, cat.ID)))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
			Render(fmt.Sprintf("How many questions? (%d–%d)", practice.MinBatchSize, practice.MaxBatchSize)))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.sizeInput.View()))

	case stageMode:
		cat := s.categories[s.catIndex]
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("%s · %s · %d questions", cat.Group, cat.ID, s.batchSize())))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
			Render("Pick a mode"))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.modeMenu.View()))
		b.WriteString("\n")
		toggle := "[ ] auto-next after correct answers"
		if s.autoNext {
			toggle = "[x] auto-next after correct answers"
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(toggle))
	}

	return b.String()
}

// sortedByGroup orders categories by group label then id, keeping the
// analysis group together in the picker.
func sortedByGroup(cats []practice.Category) []practice.Category {
	out := append([]practice.Category(nil), cats...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].ID < out[j].ID
	})
	return out
}
