package sessiontime

import (
	"os"
	"path/filepath"
	"strings"
)

// statePathStrategy is one candidate way to locate the session state file.
// Strategies are tried in order; the first that succeeds wins.
type statePathStrategy func(home, cwd string) (string, bool)

// statePathStrategies is the ordered resolution chain: a per-session file
// keyed by the detected session id, then the shared fallback file.
var statePathStrategies = []statePathStrategy{
	sessionStatePath,
	fallbackStatePath,
}

// resolveStatePath returns the state file path for this session.
func resolveStatePath(home, cwd string) string {
	for _, strategy := range statePathStrategies {
		if path, ok := strategy(home, cwd); ok {
			return path
		}
	}
	// fallbackStatePath only fails without a home directory; keep the file
	// local in that case so state still round-trips.
	return "session_time.json"
}

// sessionStatePath derives a per-session state file from the detected
// session id: ~/.claude/session_time/<id>.json.
func sessionStatePath(home, cwd string) (string, bool) {
	if home == "" {
		return "", false
	}
	id, ok := detectSessionID(home, cwd)
	if !ok {
		return "", false
	}
	return filepath.Join(home, ".claude", "session_time", id+".json"), true
}

// fallbackStatePath is the fixed shared state file used when session
// detection fails: ~/.claude/session_time.json.
func fallbackStatePath(home, _ string) (string, bool) {
	if home == "" {
		return "", false
	}
	return filepath.Join(home, ".claude", "session_time.json"), true
}

// detectSessionID finds the current session's identifier by locating the
// session-log directory for cwd under ~/.claude/projects and taking the
// most recently modified log file's base name.
func detectSessionID(home, cwd string) (string, bool) {
	if cwd == "" {
		return "", false
	}

	logDir := filepath.Join(home, ".claude", "projects", projectKey(cwd))
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return "", false
	}

	var newest string
	var newestMod int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = e.Name()
			newestMod = mod
		}
	}

	if newest == "" {
		return "", false
	}
	return strings.TrimSuffix(newest, ".jsonl"), true
}

// projectKey converts a working directory into the filesystem-safe key the
// host uses for its per-project log directories: every character outside
// [A-Za-z0-9] becomes '-'.
func projectKey(cwd string) string {
	var b strings.Builder
	b.Grow(len(cwd))
	for _, r := range cwd {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
