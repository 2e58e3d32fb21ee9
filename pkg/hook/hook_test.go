package hook

import (
	"strings"
	"testing"
)

func TestParseFullPayload(t *testing.T) {
	raw := `{
		"session_id": "abc-123",
		"cwd": "/home/dev/project",
		"model": {"id": "claude-sonnet-4-5", "display_name": "Sonnet"},
		"workspace": {"current_dir": "/home/dev/project", "project_dir": "/home/dev/project"},
		"cost": {"total_cost_usd": 1.25, "total_duration_ms": 7500000}
	}`

	p := Parse([]byte(raw))
	if p.SessionID != "abc-123" {
		t.Errorf("SessionID = %q, want %q", p.SessionID, "abc-123")
	}
	if p.CWD != "/home/dev/project" {
		t.Errorf("CWD = %q, want /home/dev/project", p.CWD)
	}
	if p.Model.DisplayName != "Sonnet" {
		t.Errorf("Model.DisplayName = %q, want Sonnet", p.Model.DisplayName)
	}
	if p.Cost.TotalDurationMS != 7500000 {
		t.Errorf("Cost.TotalDurationMS = %d, want 7500000", p.Cost.TotalDurationMS)
	}
	if !p.Cost.HasDuration() {
		t.Error("HasDuration() = false with duration present")
	}
}

func TestParseIgnoresUnknownFields(t *testing.T) {
	raw := `{"session_id": "x", "exceeds_200k_tokens": false, "output_style": {"name": "default"}}`
	p := Parse([]byte(raw))
	if p.SessionID != "x" {
		t.Errorf("SessionID = %q, want %q", p.SessionID, "x")
	}
}

func TestParseMalformedYieldsZeroPayload(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"cost": "wrong type"}`} {
		p := Parse([]byte(raw))
		if p != (Payload{}) {
			t.Errorf("Parse(%q) = %+v, want zero payload", raw, p)
		}
	}
}

func TestHasDurationZero(t *testing.T) {
	p := Parse([]byte(`{"cost": {"total_duration_ms": 0}}`))
	if p.Cost.HasDuration() {
		t.Error("HasDuration() = true for zero duration")
	}
}

func TestReadFromReader(t *testing.T) {
	p := Read(strings.NewReader(`{"session_id": "r1"}`))
	if p.SessionID != "r1" {
		t.Errorf("SessionID = %q, want %q", p.SessionID, "r1")
	}
}
