// Package tui provides a live preview of the composed status line: a small
// bubbletea program that re-renders the line on the widgets' advisory
// polling cadence. It is a development aid; the host normally invokes
// cc-pulse once per render pass.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/cc-pulse/pkg/hook"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/statusline"
)

// tickMsg drives the periodic re-render cycle.
type tickMsg time.Time

// lineMsg delivers a freshly composed line from the render goroutine.
type lineMsg string

// Model is the bubbletea model for the preview loop.
type Model struct {
	orch    *statusline.Orchestrator
	payload hook.Payload

	line    string
	ready   bool
	spinner spinner.Model
}

// New creates a preview model. The payload is replayed on every render
// pass, matching how the host supplies context each invocation.
func New(orch *statusline.Orchestrator, payload hook.Payload) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	return Model{
		orch:    orch,
		payload: payload,
		spinner: sp,
	}
}

// Init starts the spinner and kicks off the first render.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.renderCmd())
}

// renderCmd composes the line off the update loop. The first render may
// block briefly on the external probe; the spinner covers that window.
func (m Model) renderCmd() tea.Cmd {
	orch, payload := m.orch, m.payload
	return func() tea.Msg {
		return lineMsg(orch.Render(payload))
	}
}

// tickCmd schedules the next render after the widgets' poll interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.orch.PollInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages from the bubbletea loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case lineMsg:
		m.line = string(msg)
		m.ready = true
		return m, m.tickCmd()

	case tickMsg:
		return m, m.renderCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current line, or the spinner until the first render
// completes.
func (m Model) View() string {
	if !m.ready {
		return m.spinner.View() + " collecting widget data..."
	}
	help := lipgloss.NewStyle().Faint(true).Render("q to quit")
	return m.line + "\n\n" + help + "\n"
}

// Run launches the preview program and blocks until it exits.
func Run(orch *statusline.Orchestrator, payload hook.Payload) error {
	p := tea.NewProgram(New(orch, payload))
	_, err := p.Run()
	return err
}
