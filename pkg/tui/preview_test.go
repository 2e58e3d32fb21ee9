package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/cc-pulse/pkg/config"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/hook"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/module"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/statusline"
)

func newTestModel() Model {
	cfg := config.DefaultConfig()
	cfg.General.Color = false
	orch := statusline.New(module.NewRegistry(), cfg, nil)
	return New(orch, hook.Payload{})
}

func TestLineMsgMarksReady(t *testing.T) {
	m := newTestModel()
	if m.ready {
		t.Fatal("model ready before first render")
	}

	updated, cmd := m.Update(lineMsg("the line"))
	got := updated.(Model)
	if !got.ready {
		t.Error("model not ready after lineMsg")
	}
	if got.line != "the line" {
		t.Errorf("line = %q, want %q", got.line, "the line")
	}
	if cmd == nil {
		t.Error("no follow-up tick scheduled after lineMsg")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		m := newTestModel()
		_, cmd := m.Update(keyMsg(key))
		if cmd == nil {
			t.Errorf("key %q produced no command, want quit", key)
			continue
		}
		if msg := cmd(); msg == nil {
			t.Errorf("key %q command returned nil msg, want tea.QuitMsg", key)
		} else if _, ok := msg.(tea.QuitMsg); !ok {
			t.Errorf("key %q produced %T, want tea.QuitMsg", key, msg)
		}
	}
}

// keyMsg builds a tea.KeyMsg for a named key.
func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
}

func TestViewBeforeReadyShowsSpinner(t *testing.T) {
	m := newTestModel()
	view := m.View()
	if view == "" {
		t.Error("View() empty before first render, want spinner line")
	}
}
