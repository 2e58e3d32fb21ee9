// Package sessiontime implements the elapsed session time widget. The
// preferred source is the authoritative duration the host supplies in the
// hook payload for the current render; without it the widget falls back to
// wall-clock time since a persisted session start.
package sessiontime

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tinyland/lab/cc-pulse/pkg/hook"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/module"
)

// Display formats for the elapsed time.
const (
	// FormatShort renders the coarsest two units, e.g. "2h 15m" or "45s".
	FormatShort = "short"

	// FormatLong renders zero-padded H:MM:SS with unbounded hours.
	FormatLong = "long"
)

// refreshInterval is the advisory polling cadence; elapsed time moves every
// second.
const refreshInterval = time.Second

// Duration color bands. Status stays SUCCESS throughout; color alone
// signals how long the session has been running.
const (
	greenThreshold  = 2 * time.Hour
	yellowThreshold = time.Hour
)

// state is the persisted JSON document.
type state struct {
	StartTime string `json:"start_time"`
	Format    string `json:"format"`
}

// Module is the session time widget. It owns the persisted start time, the
// display format preference, and the per-render authoritative override.
type Module struct {
	startTime   time.Time
	lastElapsed time.Duration
	hasElapsed  bool
	format      string

	// overrideMS is the host-supplied authoritative duration for the
	// current render pass; <0 means none was supplied.
	overrideMS int64

	statePath string
	now       func() time.Time
}

// New creates the widget. State is not touched until Initialize.
func New() *Module {
	return &Module{
		format:     FormatShort,
		overrideMS: -1,
		now:        time.Now,
	}
}

// Metadata returns the widget's static description.
func (m *Module) Metadata() module.Metadata {
	return module.Metadata{
		Name:        "session_time",
		Description: "elapsed time of the current session",
		Version:     "1.0.0",
		Author:      "tinyland",
		Enabled:     true,
	}
}

// Initialize resolves the state file path and loads any persisted start
// time and format preference. When no start time was persisted, now is
// adopted; it is written out on the next Reset or Cleanup, not here.
func (m *Module) Initialize() error {
	if m.statePath == "" {
		home, _ := os.UserHomeDir()
		cwd, _ := os.Getwd()
		m.statePath = resolveStatePath(home, cwd)
	}

	m.loadState()
	if m.startTime.IsZero() {
		m.startTime = m.now()
	}
	return nil
}

// SetContext records the host hook payload for the current render pass.
// An authoritative duration in the payload overrides local elapsed
// computation until the next SetContext call.
func (m *Module) SetContext(p hook.Payload) {
	if p.Cost.HasDuration() {
		m.overrideMS = p.Cost.TotalDurationMS
	} else {
		m.overrideMS = -1
	}
}

// Refresh recomputes the cached elapsed duration.
func (m *Module) Refresh() {
	m.computeElapsed()
}

// computeElapsed returns the current elapsed duration and whether one is
// known. The authoritative override always wins when present.
func (m *Module) computeElapsed() (time.Duration, bool) {
	if m.overrideMS >= 0 {
		m.lastElapsed = time.Duration(m.overrideMS) * time.Millisecond
		m.hasElapsed = true
		return m.lastElapsed, true
	}
	if m.startTime.IsZero() {
		return 0, false
	}
	m.lastElapsed = m.now().Sub(m.startTime)
	m.hasElapsed = true
	return m.lastElapsed, true
}

// Output renders the elapsed time. With no start time and no authoritative
// override it returns the neutral "--:--" placeholder rather than failing.
func (m *Module) Output() module.Output {
	elapsed, ok := m.computeElapsed()
	if !ok {
		return module.Output{
			Text:   "--:--",
			Icon:   "⏱️",
			Color:  "gray",
			Status: module.StatusSuccess,
		}
	}

	var color string
	switch {
	case elapsed >= greenThreshold:
		color = "green"
	case elapsed >= yellowThreshold:
		color = "yellow"
	default:
		color = "blue"
	}

	out := module.Output{
		Text:   formatElapsed(elapsed, m.format),
		Icon:   "⏱️",
		Color:  color,
		Status: module.StatusSuccess,
	}
	if !m.startTime.IsZero() {
		out.Tooltip = "session started " + m.startTime.Format("15:04:05")
	}
	return out
}

// Available reports whether the widget can run. The local clock is always
// available.
func (m *Module) Available() bool {
	return true
}

// RefreshInterval returns the advisory polling cadence.
func (m *Module) RefreshInterval() time.Duration {
	return refreshInterval
}

// Cleanup persists the current start time and format preference.
func (m *Module) Cleanup() error {
	return m.saveState()
}

// SetFormat switches the display format and persists immediately. Anything
// other than FormatShort or FormatLong leaves state and file untouched.
func (m *Module) SetFormat(format string) error {
	if format != FormatShort && format != FormatLong {
		return fmt.Errorf("invalid format %q (want %q or %q)", format, FormatShort, FormatLong)
	}
	m.format = format
	return m.saveState()
}

// Format returns the current display format.
func (m *Module) Format() string {
	return m.format
}

// Reset restarts the session clock at now, clears the cached elapsed value,
// and persists immediately.
func (m *Module) Reset() error {
	m.startTime = m.now()
	m.lastElapsed = 0
	m.hasElapsed = false
	return m.saveState()
}

// StartTime returns the session start, zero when unknown.
func (m *Module) StartTime() time.Time {
	return m.startTime
}

// Elapsed returns the last computed elapsed duration.
func (m *Module) Elapsed() (time.Duration, bool) {
	return m.lastElapsed, m.hasElapsed
}

// --- state persistence ---

// loadState reads the persisted state file. A missing or corrupt file, or
// an unparseable timestamp, leaves the defaults in place.
func (m *Module) loadState() {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		return
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return
	}

	if st.StartTime != "" {
		if t, err := time.Parse(time.RFC3339Nano, st.StartTime); err == nil {
			m.startTime = t
		}
	}
	if st.Format == FormatShort || st.Format == FormatLong {
		m.format = st.Format
	}
}

// saveState writes the state file atomically (temp file then rename).
// Persistence failures are surfaced but tolerated by callers on the render
// path.
func (m *Module) saveState() error {
	st := state{Format: m.format}
	if !m.startTime.IsZero() {
		st.StartTime = m.startTime.Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("sessiontime: marshal state: %w", err)
	}

	dir := filepath.Dir(m.statePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("sessiontime: create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("sessiontime: temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sessiontime: write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("sessiontime: close state: %w", err)
	}
	if err := os.Rename(tmpName, m.statePath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("sessiontime: rename state: %w", err)
	}
	return nil
}

// --- formatting ---

// formatElapsed renders a duration in the given display format.
func formatElapsed(elapsed time.Duration, format string) string {
	total := int64(elapsed.Seconds())
	if total < 0 {
		total = 0
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if format == FormatLong {
		// Hours are unbounded: a 30-hour session renders as "30:00:00".
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}

	// Short format keeps the coarsest two units.
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// ensure Module satisfies the widget contract at compile time.
var _ module.Module = (*Module)(nil)
