// Package sysmetrics implements the host CPU/RAM widget using gopsutil, so
// the line works the same on Darwin and Linux without /proc parsing.
package sysmetrics

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"gitlab.com/tinyland/lab/cc-pulse/pkg/module"
)

// Timing constants for caching and polling.
const (
	// cacheTimeout is how long a metrics sample stays fresh.
	cacheTimeout = 2 * time.Second

	// refreshInterval is the advisory polling cadence.
	refreshInterval = 2 * time.Second

	// sampleTimeout bounds a single gopsutil collection.
	sampleTimeout = 2 * time.Second
)

// Utilization thresholds, applied to the higher of CPU and RAM usage.
const (
	errorThreshold   = 80.0
	warningThreshold = 50.0
)

// Sample is one CPU/RAM measurement.
type Sample struct {
	CPUPercent float64
	RAMPercent float64
}

// SampleFunc collects one measurement. The real implementation calls
// gopsutil; tests substitute canned values.
type SampleFunc func(ctx context.Context) (Sample, error)

// Module is the system metrics widget. It caches the last sample so a
// render burst does not hammer the host.
type Module struct {
	sample     Sample
	haveSample bool
	lastUpdate time.Time

	collect SampleFunc
	now     func() time.Time
}

// New creates the widget with the real gopsutil sampler. Nothing is
// collected until the first Output or Refresh call.
func New() *Module {
	return &Module{
		collect: collectSample,
		now:     time.Now,
	}
}

// Metadata returns the widget's static description.
func (m *Module) Metadata() module.Metadata {
	return module.Metadata{
		Name:        "sys_metrics",
		Description: "host CPU and memory utilization",
		Version:     "1.0.0",
		Author:      "tinyland",
		Enabled:     true,
	}
}

// Initialize prepares internal state; sampling is deferred.
func (m *Module) Initialize() error {
	return nil
}

// Refresh collects a fresh sample. A collection failure keeps the previous
// sample, to be retried on the next cache expiry.
func (m *Module) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), sampleTimeout)
	defer cancel()

	s, err := m.collect(ctx)
	m.lastUpdate = m.now()
	if err != nil {
		return
	}
	m.sample = s
	m.haveSample = true
}

// Output renders the CPU/RAM summary, refreshing first when the cache
// window has elapsed. Without any successful sample it degrades to a
// neutral "no data" record.
func (m *Module) Output() module.Output {
	if m.lastUpdate.IsZero() || m.now().Sub(m.lastUpdate) > cacheTimeout {
		m.Refresh()
	}

	if !m.haveSample {
		return module.Output{
			Text:   "no data",
			Icon:   "💻",
			Color:  "gray",
			Status: module.StatusSuccess,
		}
	}

	highest := m.sample.CPUPercent
	if m.sample.RAMPercent > highest {
		highest = m.sample.RAMPercent
	}

	var color string
	var status module.Status
	switch {
	case highest >= errorThreshold:
		color, status = "red", module.StatusError
	case highest >= warningThreshold:
		color, status = "yellow", module.StatusWarning
	default:
		color, status = "green", module.StatusSuccess
	}

	return module.Output{
		Text:   formatSample(m.sample),
		Icon:   "💻",
		Color:  color,
		Status: status,
	}
}

// Available reports whether metrics can be collected on this host.
func (m *Module) Available() bool {
	_, err := cpu.Counts(true)
	return err == nil
}

// RefreshInterval returns the advisory polling cadence.
func (m *Module) RefreshInterval() time.Duration {
	return refreshInterval
}

// Cleanup discards the cached sample.
func (m *Module) Cleanup() error {
	m.haveSample = false
	return nil
}

// formatSample renders a sample as "CPU:45% RAM:62%".
func formatSample(s Sample) string {
	return fmt.Sprintf("CPU:%d%% RAM:%d%%", int(s.CPUPercent), int(s.RAMPercent))
}

// collectSample gathers one CPU/RAM measurement via gopsutil. The zero
// interval asks for utilization since the previous call, which keeps the
// render path from sleeping.
func collectSample(ctx context.Context) (Sample, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return Sample{}, err
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Sample{}, err
	}

	var cpuPct float64
	if len(percents) > 0 {
		cpuPct = percents[0]
	}
	return Sample{CPUPercent: cpuPct, RAMPercent: vm.UsedPercent}, nil
}

// ensure Module satisfies the widget contract at compile time.
var _ module.Module = (*Module)(nil)
