package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/luoyeETH/gogov/internal/ui/theme"
)

// answerRunes are the characters accepted by answer-mode inputs: digits,
// sign, decimal point, percent and their full-width variants.
const answerRunes = "0123456789.-%,０１２３４５６７８９．－％，"

// TextInput wraps bubbles/textinput with GoGov styling.
type TextInput struct {
	Model      textinput.Model
	AnswerMode bool
	MaxWidth   int
	submitted  bool
	valid      bool
}

// NewTextInput creates a new styled text input. In answer mode only
// characters that can appear in a numeric answer are accepted.
func NewTextInput(placeholder string, answerMode bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:      ti,
		AnswerMode: answerMode,
		MaxWidth:   maxWidth,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.AnswerMode {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len([]rune(key)) == 1 && !strings.ContainsRune(answerRunes, []rune(key)[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input contents, moving the cursor to the end.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
	t.Model.CursorEnd()
}

// Submit marks the input as submitted with a validation result.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
}

// ClearMark resets the submitted marker without touching the value.
func (t *TextInput) ClearMark() {
	t.submitted = false
	t.valid = false
}
