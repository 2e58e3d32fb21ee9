// Package module defines the status widget contract for cc-pulse and the
// registry that manages widget lifecycles. Each widget produces a small
// Output record on demand; the statusline package composes those records
// into the rendered line.
//
// Widgets own their caching: Output() is expected to be cheap most of the
// time and only re-fetch external facts when the widget's own cache window
// has elapsed. RefreshInterval is merely a polling hint for external
// schedulers such as the TUI preview.
package module

import "time"

// Status classifies a widget's current health. It is recomputed on every
// refresh; there is no transition tracking.
type Status int

const (
	// StatusSuccess means the widget's data source is healthy.
	StatusSuccess Status = iota

	// StatusWarning means the widget is degraded but functional.
	StatusWarning

	// StatusError means the widget's data source reported failures.
	StatusError
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Output is one widget's rendered state for a single render pass. It is
// produced fresh on every Output() call and never mutated afterwards.
type Output struct {
	// Text is the display text, without icon or color escapes.
	Text string

	// Icon is an emoji or nerd-font glyph shown before the text.
	Icon string

	// Color is a named color ("green", "yellow", "red", "blue", "gray")
	// resolved to a concrete style by the renderer.
	Color string

	// Status is the health classification backing the color choice.
	Status Status

	// Tooltip is optional hover/detail text; empty when not applicable.
	Tooltip string
}

// Metadata describes a widget. One value per widget implementation,
// constant for the process lifetime.
type Metadata struct {
	// Name is the unique registry key.
	Name string

	// Description is a one-line human-readable summary.
	Description string

	// Version is the widget's semantic version.
	Version string

	// Author identifies the widget's maintainer.
	Author string

	// Enabled declares whether the widget participates in output
	// composition by default. Registry entries start enabled; callers
	// apply configuration overrides after registration.
	Enabled bool
}

// Module is the capability contract every status widget implements.
//
// Output must never panic or propagate internal fetch errors; a widget that
// cannot fetch its data returns a neutral "no data" Output instead.
type Module interface {
	// Metadata returns the widget's static description.
	Metadata() Metadata

	// Initialize prepares internal state. It must be cheap: no subprocess
	// invocation and no expensive I/O. Expensive work is deferred to the
	// first Output() call or an explicit Refresh().
	Initialize() error

	// Refresh forces recomputation of cached facts from the external
	// source. Idempotent and safe to call repeatedly.
	Refresh()

	// Output produces the widget's current display record, refreshing
	// first if the widget's own cache window has elapsed.
	Output() Output

	// Available is a cheap capability probe, independent of cache state.
	Available() bool

	// RefreshInterval is the advisory polling cadence for schedulers.
	// The widget's own Output caching remains authoritative.
	RefreshInterval() time.Duration

	// Cleanup releases or persists state. Called at most once, at process
	// shutdown, and must be safe even if Initialize was never called.
	Cleanup() error
}

// Factory constructs a widget instance. The registry invokes it lazily on
// first Resolve, never at registration time.
type Factory func() Module
