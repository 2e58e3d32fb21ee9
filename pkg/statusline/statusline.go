// Package statusline composes widget outputs into the single rendered
// status line. The orchestrator walks the enabled widgets in order, feeds
// them the host hook payload, collects their Output records, and hands the
// ordered segments to the line formatter.
package statusline

import (
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/cc-pulse/pkg/config"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/hook"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/module"
)

// ContextAware is implemented by widgets that consume the host hook
// payload, such as the session time widget's authoritative duration
// override. The orchestrator calls SetContext once per render pass, before
// Output.
type ContextAware interface {
	SetContext(hook.Payload)
}

// NamedOutput pairs a widget name with its output for one render pass.
type NamedOutput struct {
	Name   string
	Output module.Output
}

// Orchestrator drives one render pass over the registry's enabled widgets.
type Orchestrator struct {
	registry *module.Registry
	cfg      *config.Config
	log      *slog.Logger
}

// New creates an orchestrator over the given registry and configuration.
// A nil logger disables orchestrator logging.
func New(registry *module.Registry, cfg *config.Config, log *slog.Logger) *Orchestrator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{
		registry: registry,
		cfg:      cfg,
		log:      log,
	}
}

// Outputs performs one render pass: resolve each enabled widget, pass the
// payload to context-aware ones, and collect their outputs in display
// order.
//
// A widget that fails to resolve contributes a clearly distinguishable
// neutral segment instead of aborting the pass; one widget's failure never
// blocks another's rendering.
func (o *Orchestrator) Outputs(p hook.Payload) []NamedOutput {
	names := o.displayOrder()

	var outputs []NamedOutput
	for _, name := range names {
		m, err := o.registry.Resolve(name)
		if err != nil {
			o.log.Warn("widget failed to load", "module", name, "error", err)
			outputs = append(outputs, NamedOutput{
				Name: name,
				Output: module.Output{
					Text:   name + " unavailable",
					Icon:   "❔",
					Color:  "gray",
					Status: module.StatusError,
				},
			})
			continue
		}

		if !m.Available() {
			o.log.Debug("widget unavailable, skipping", "module", name)
			continue
		}

		if ca, ok := m.(ContextAware); ok {
			ca.SetContext(p)
		}

		outputs = append(outputs, NamedOutput{Name: name, Output: m.Output()})
	}
	return outputs
}

// Render performs one render pass and formats the composed line.
func (o *Orchestrator) Render(p hook.Payload) string {
	outputs := o.Outputs(p)

	segments := make([]Segment, 0, len(outputs))
	for _, out := range outputs {
		segments = append(segments, Segment{
			Icon:  out.Output.Icon,
			Text:  out.Output.Text,
			Color: out.Output.Color,
		})
	}

	f := NewFormatter(FormatterConfig{
		MaxWidth:  o.cfg.General.MaxWidth,
		Separator: o.cfg.General.Separator,
		Color:     o.cfg.General.Color,
	})
	return f.FormatLine(segments)
}

// PollInterval returns the smallest advisory refresh interval across the
// enabled widgets, for schedulers that re-render periodically. Widget
// caches remain the correctness mechanism; this only tunes polling. With
// no resolvable widgets it falls back to one second.
func (o *Orchestrator) PollInterval() time.Duration {
	min := time.Duration(0)
	for _, name := range o.registry.EnabledNames() {
		m, err := o.registry.Resolve(name)
		if err != nil {
			continue
		}
		if iv := m.RefreshInterval(); iv > 0 && (min == 0 || iv < min) {
			min = iv
		}
	}
	if min == 0 {
		min = time.Second
	}
	return min
}

// Cleanup releases all instantiated widgets.
func (o *Orchestrator) Cleanup() error {
	return o.registry.CleanupAll()
}

// displayOrder applies the configured order override on top of the
// registry's enabled set. Configured names come first, in configured
// order; remaining enabled names keep registration order.
func (o *Orchestrator) displayOrder() []string {
	enabled := o.registry.EnabledNames()
	if len(o.cfg.Modules.Order) == 0 {
		return enabled
	}

	inEnabled := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		inEnabled[name] = true
	}

	var ordered []string
	seen := make(map[string]bool)
	for _, name := range o.cfg.Modules.Order {
		if inEnabled[name] && !seen[name] {
			ordered = append(ordered, name)
			seen[name] = true
		}
	}
	for _, name := range enabled {
		if !seen[name] {
			ordered = append(ordered, name)
		}
	}
	return ordered
}
