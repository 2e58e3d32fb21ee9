// Package mcp implements the MCP server connectivity widget. It reports
// aggregate health of the configured MCP servers by merging two sources:
// the live `claude mcp list` probe and the local mcp.json configuration
// file, keyed by server name.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/cc-pulse/pkg/module"
)

// Server status values.
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
	StatusError   = "error"
	StatusUnknown = "unknown"
)

// Timing constants for probing and caching.
const (
	// probeTimeout bounds the `claude mcp list` invocation.
	probeTimeout = 10 * time.Second

	// cacheTimeout is how long a merged server snapshot stays fresh.
	cacheTimeout = 5 * time.Second

	// refreshInterval is the advisory polling cadence; MCP connectivity
	// changes slowly.
	refreshInterval = 10 * time.Second
)

// connectedMarker identifies a healthy server line in probe output.
// Line shape: "server-name: command - ✓ Connected".
const connectedMarker = " - ✓ Connected"

// ServerInfo describes a single MCP server from either source.
type ServerInfo struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Command string `json:"command,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ProbeFunc runs the external status probe and returns its stdout. The
// real implementation shells out to the claude CLI; tests substitute a
// canned function.
type ProbeFunc func(ctx context.Context) (string, error)

// Module is the MCP connectivity widget. It owns a cache of merged server
// records plus the timestamp of the last refresh; no other component reads
// or writes that state.
type Module struct {
	servers    map[string]ServerInfo
	lastUpdate time.Time

	probe ProbeFunc
	now   func() time.Time
}

// New creates the widget with the real CLI probe. Nothing is fetched until
// the first Output or Refresh call.
func New() *Module {
	return &Module{
		probe: runCLIProbe,
		now:   time.Now,
	}
}

// Metadata returns the widget's static description.
func (m *Module) Metadata() module.Metadata {
	return module.Metadata{
		Name:        "mcp_status",
		Description: "MCP server connectivity summary",
		Version:     "1.0.0",
		Author:      "tinyland",
		Enabled:     true,
	}
}

// Initialize prepares internal state. The first probe is deferred to the
// first Output call so that registration stays cheap.
func (m *Module) Initialize() error {
	return nil
}

// Refresh re-fetches server state from both sources and rebuilds the cache.
func (m *Module) Refresh() {
	merged := make(map[string]ServerInfo)

	// Config source first, probe second: a live probe result overrides a
	// stale config entry for the same name.
	for _, s := range m.fromConfig() {
		merged[s.Name] = s
	}
	for _, s := range m.fromProbe() {
		merged[s.Name] = s
	}

	m.servers = merged
	m.lastUpdate = m.now()
}

// Output returns the connectivity summary, refreshing first when the cache
// window has elapsed. It never fails: every fetch problem degrades to an
// empty source, and an empty merged set renders as a neutral placeholder.
func (m *Module) Output() module.Output {
	if m.lastUpdate.IsZero() || m.now().Sub(m.lastUpdate) > cacheTimeout {
		m.Refresh()
	}

	if len(m.servers) == 0 {
		return module.Output{
			Text:   "no servers",
			Icon:   "🔌",
			Color:  "gray",
			Status: module.StatusSuccess,
		}
	}

	var running, errors int
	names := make([]string, 0, len(m.servers))
	for name, s := range m.servers {
		names = append(names, name)
		switch s.Status {
		case StatusRunning:
			running++
		case StatusError:
			errors++
		}
	}
	sort.Strings(names)
	total := len(m.servers)

	var out module.Output
	switch {
	case errors > 0:
		out = module.Output{
			Text:   fmt.Sprintf("%d errors", errors),
			Icon:   "🔴",
			Color:  "red",
			Status: module.StatusError,
		}
	case running < total:
		out = module.Output{
			Text:   fmt.Sprintf("%d/%d running", running, total),
			Icon:   "🟡",
			Color:  "yellow",
			Status: module.StatusWarning,
		}
	default:
		out = module.Output{
			Text:   fmt.Sprintf("%d/%d running", running, total),
			Icon:   "🟢",
			Color:  "green",
			Status: module.StatusSuccess,
		}
	}

	out.Tooltip = "MCP servers: " + strings.Join(names, ", ")
	return out
}

// Available reports whether the widget can run. The probe and config file
// are both optional, so the widget is always available.
func (m *Module) Available() bool {
	return true
}

// RefreshInterval returns the advisory polling cadence.
func (m *Module) RefreshInterval() time.Duration {
	return refreshInterval
}

// Cleanup discards the cached server snapshot.
func (m *Module) Cleanup() error {
	m.servers = nil
	return nil
}

// Servers returns the cached server records for detail views.
func (m *Module) Servers() []ServerInfo {
	out := make([]ServerInfo, 0, len(m.servers))
	for _, s := range m.servers {
		out = append(out, s)
	}
	return out
}

// --- probe source ---

// runCLIProbe executes `claude mcp list` with a bounded timeout and returns
// its stdout.
func runCLIProbe(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "claude", "mcp", "list")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// fromProbe runs the status probe and parses connected-server lines. A
// missing binary, non-zero exit, or timeout yields an empty result; probe
// problems never abort the refresh.
func (m *Module) fromProbe() []ServerInfo {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := m.probe(ctx)
	if err != nil {
		return nil
	}
	return parseProbeOutput(out)
}

// parseProbeOutput extracts running servers from probe output. Lines that
// do not match the connected format are ignored.
func parseProbeOutput(out string) []ServerInfo {
	var servers []ServerInfo
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Checking") {
			continue
		}
		if !strings.Contains(line, connectedMarker) {
			continue
		}

		name, _, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		servers = append(servers, ServerInfo{Name: name, Status: StatusRunning})
	}
	return servers
}

// --- config source ---

// mcpConfig models the mcp.json document. Only the mcpServers mapping is
// consumed.
type mcpConfig struct {
	MCPServers map[string]mcpServerEntry `json:"mcpServers"`
}

type mcpServerEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// configSearchPaths returns the ordered candidate locations for mcp.json.
// The first existing file wins.
func configSearchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".claude", "mcp.json"),
			filepath.Join(home, ".config", "claude", "mcp.json"),
		)
	}
	if dir := os.Getenv("CLAUDE_CONFIG_DIR"); dir != "" {
		paths = append(paths, filepath.Join(dir, "mcp.json"))
	}
	return paths
}

// fromConfig reads server definitions from the first existing config file.
// A missing or malformed file yields an empty result.
func (m *Module) fromConfig() []ServerInfo {
	for _, path := range configSearchPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return parseConfigFile(path)
	}
	return nil
}

// parseConfigFile parses one mcp.json file into server records with status
// "unknown" (config declares the server; it says nothing about liveness).
func parseConfigFile(path string) []ServerInfo {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var cfg mcpConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil
	}

	var servers []ServerInfo
	for name, entry := range cfg.MCPServers {
		command := entry.Command
		if command != "" && len(entry.Args) > 0 {
			command += " " + strings.Join(entry.Args, " ")
		}
		servers = append(servers, ServerInfo{
			Name:    name,
			Status:  StatusUnknown,
			Command: command,
		})
	}
	return servers
}

// ensure Module satisfies the widget contract at compile time.
var _ module.Module = (*Module)(nil)
