package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/luoyeETH/gogov/internal/ui/theme"
)

var choiceLabels = []string{"A", "B", "C", "D", "E", "F"}

// ChoiceList is a selector over a question's answer choices. Correctness is
// decided elsewhere; Mark reveals the result after submission.
type ChoiceList struct {
	Options      []string
	Selected     int
	Submitted    bool
	ChosenIndex  int
	CorrectIndex int
}

// NewChoiceList creates a choice list for the given options.
func NewChoiceList(options []string) ChoiceList {
	return ChoiceList{
		Options:      options,
		Selected:     0,
		ChosenIndex:  -1,
		CorrectIndex: -1,
	}
}

// Init returns nil.
func (c ChoiceList) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	if c.Submitted {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	}

	return c, nil
}

// Choose locks in the current selection and returns its text.
func (c *ChoiceList) Choose() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	c.Submitted = true
	c.ChosenIndex = c.Selected
	return c.Options[c.Selected]
}

// Mark reveals which option was correct after the answer was evaluated.
func (c *ChoiceList) Mark(correctAnswer string) {
	for i, opt := range c.Options {
		if opt == correctAnswer {
			c.CorrectIndex = i
			return
		}
	}
}

// View renders the choice list.
func (c ChoiceList) View() string {
	var s string
	for i, opt := range c.Options {
		label := "?"
		if i < len(choiceLabels) {
			label = choiceLabels[i]
		}
		prefix := "  "
		if i == c.Selected && !c.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		if c.Submitted {
			if i == c.CorrectIndex {
				s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
			} else if i == c.ChosenIndex {
				s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line) + "\n"
			} else {
				s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
			}
		} else {
			if i == c.Selected {
				s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
			} else {
				s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
			}
		}
	}
	return s
}
