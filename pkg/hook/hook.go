// Package hook parses the statusLine hook payload that Claude Code writes
// to stdin on each render pass. Only the fields cc-pulse consumes are
// modeled; unknown fields are ignored.
package hook

import (
	"encoding/json"
	"io"
)

// Payload is the subset of the host hook payload cc-pulse consumes.
type Payload struct {
	// SessionID identifies the current interactive session.
	SessionID string `json:"session_id"`

	// CWD is the working directory the session was started in.
	CWD string `json:"cwd"`

	// Model describes the active model.
	Model ModelInfo `json:"model"`

	// Workspace describes the current workspace directories.
	Workspace WorkspaceInfo `json:"workspace"`

	// Cost carries the host's authoritative session accounting.
	Cost CostInfo `json:"cost"`
}

// ModelInfo identifies the active model.
type ModelInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// WorkspaceInfo describes workspace directories supplied by the host.
type WorkspaceInfo struct {
	CurrentDir string `json:"current_dir"`
	ProjectDir string `json:"project_dir"`
}

// CostInfo carries session accounting from the host. TotalDurationMS is the
// authoritative elapsed session duration; when present it overrides any
// locally tracked wall-clock elapsed time.
type CostInfo struct {
	TotalCostUSD    float64 `json:"total_cost_usd"`
	TotalDurationMS int64   `json:"total_duration_ms"`
}

// HasDuration reports whether the host supplied an authoritative duration.
func (c CostInfo) HasDuration() bool {
	return c.TotalDurationMS > 0
}

// Parse decodes a hook payload from raw JSON. Malformed input yields a zero
// payload rather than an error: a broken payload must never break the
// render pass.
func Parse(raw []byte) Payload {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}
	}
	return p
}

// Read consumes all of r and parses it as a hook payload. Read errors, like
// malformed JSON, degrade to a zero payload.
func Read(r io.Reader) Payload {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Payload{}
	}
	return Parse(raw)
}
