package setup

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/luoyeETH/gogov/internal/practice"
	"github.com/luoyeETH/gogov/internal/router"
	"github.com/luoyeETH/gogov/internal/store"
)

type mockSource struct {
	categories []practice.Category
	err        error
}

func (m *mockSource) Categories(_ context.Context) ([]practice.Category, error) {
	return m.categories, m.err
}

func (m *mockSource) QuestionBatch(_ context.Context, _ string, _ int) ([]practice.Question, error) {
	return nil, nil
}

type mockRepo struct{}

func (m *mockRepo) Submit(_ context.Context, _ *practice.SubmissionPayload, _ practice.Summary) error {
	return nil
}
func (m *mockRepo) Recent(_ context.Context, _ int) ([]store.SessionRecord, error) {
	return nil, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func loadedSetup(t *testing.T) *SetupScreen {
	t.Helper()
	source := &mockSource{categories: []practice.Category{
		practice.NewCategory("speed-add", "基础速算"),
		practice.NewCategory("growth-rate", "资料分析专项"),
	}}
	s := New(source, &mockRepo{})
	s.Update(s.Init()())
	if !s.loaded {
		t.Fatal("expected categories loaded")
	}
	return s
}

func TestSetupScreen_LoadFailure(t *testing.T) {
	source := &mockSource{err: errors.New("no bank")}
	s := New(source, &mockRepo{})
	s.Update(s.Init()())

	if s.errMsg == "" {
		t.Error("expected error message after load failure")
	}
}

func TestSetupScreen_CategorySelectionAdvances(t *testing.T) {
	s := loadedSetup(t)

	s.Update(specialKey(tea.KeyEnter))
	if s.stage != stageSize {
		t.Errorf("stage = %d, want stageSize", s.stage)
	}
}

func TestSetupScreen_SizeDefaultsWhenBlank(t *testing.T) {
	s := loadedSetup(t)
	if got := s.batchSize(); got != defaultBatchSize {
		t.Errorf("batchSize = %d, want %d", got, defaultBatchSize)
	}
}

func TestSetupScreen_ModeStartProducesReplace(t *testing.T) {
	s := loadedSetup(t)

	s.Update(specialKey(tea.KeyEnter)) // pick category
	s.Update(specialKey(tea.KeyEnter)) // confirm size
	if s.stage != stageMode {
		t.Fatalf("stage = %d, want stageMode", s.stage)
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter)) // pick drill
	if cmd == nil {
		t.Fatal("expected start command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg to the practice screen")
	}
}

func TestSetupScreen_AutoNextToggle(t *testing.T) {
	s := loadedSetup(t)
	s.Update(specialKey(tea.KeyEnter))
	s.Update(specialKey(tea.KeyEnter))

	if !s.autoNext {
		t.Fatal("auto-next should default on")
	}
	s.Update(keyPress('a'))
	if s.autoNext {
		t.Error("expected auto-next toggled off")
	}
}

func TestSetupScreen_EscWalksBack(t *testing.T) {
	s := loadedSetup(t)
	s.Update(specialKey(tea.KeyEnter))
	s.Update(specialKey(tea.KeyEnter))

	s.Update(specialKey(tea.KeyEscape))
	if s.stage != stageSize {
		t.Errorf("stage = %d, want stageSize after esc", s.stage)
	}
	s.Update(specialKey(tea.KeyEscape))
	if s.stage != stageCategory {
		t.Errorf("stage = %d, want stageCategory after esc", s.stage)
	}
}
