// cc-pulse renders a live status line for interactive Claude Code sessions.
//
// The host invokes it once per render pass, writing the statusLine hook
// payload to stdin; cc-pulse composes the enabled widgets (MCP server
// connectivity, elapsed session time, host CPU/RAM) into a single line on
// stdout.
//
// Usage:
//
//	cc-pulse [flags] < hook-payload.json
//
// Flags:
//
//	-tui               Run a live preview that re-renders periodically
//	-list              List registered widgets and their enabled state
//	-set-format string Persist the session time format (short|long)
//	-reset             Restart the session clock
//	-config string     Path to configuration file
//	-width int         Visible width budget override (0 = autodetect)
//	-no-color          Disable ANSI colors
//	-verbose           Enable debug logging
//	-version           Print version and exit
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/cc-pulse/pkg/config"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/hook"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/module"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/modules/mcp"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/modules/sessiontime"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/modules/sysmetrics"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/statusline"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		runTUI      = flag.Bool("tui", false, "Run a live preview that re-renders periodically")
		listModules = flag.Bool("list", false, "List registered widgets and their enabled state")
		setFormat   = flag.String("set-format", "", "Persist the session time format (short|long)")
		resetClock  = flag.Bool("reset", false, "Restart the session clock")
		width       = flag.Int("width", 0, "Visible width budget override (0 = autodetect)")
		noColor     = flag.Bool("no-color", false, "Disable ANSI colors")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("cc-pulse %s (%s)\n", version, commit)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cc-pulse: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *width, *noColor)

	// Logs go to stderr only; stdout must carry nothing but the line.
	log := newLogger(cfg.General.LogLevel, *verbose)

	registry := buildRegistry(cfg)
	orch := statusline.New(registry, cfg, log)

	switch {
	case *listModules:
		printModuleList(registry)

	case *setFormat != "":
		if err := withSessionTime(registry, func(st *sessiontime.Module) error {
			return st.SetFormat(*setFormat)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "cc-pulse: %v\n", err)
			os.Exit(1)
		}

	case *resetClock:
		if err := withSessionTime(registry, (*sessiontime.Module).Reset); err != nil {
			fmt.Fprintf(os.Stderr, "cc-pulse: %v\n", err)
			os.Exit(1)
		}

	case *runTUI:
		if err := tui.Run(orch, readPayload()); err != nil {
			fmt.Fprintf(os.Stderr, "cc-pulse: tui: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Println(orch.Render(readPayload()))
	}

	if err := orch.Cleanup(); err != nil {
		log.Warn("cleanup", "error", err)
	}
}

// buildRegistry registers the built-in widgets in display order and applies
// the configured enable overrides. Registration is explicit and happens
// before any render pass, so no widget work runs at startup.
func buildRegistry(cfg *config.Config) *module.Registry {
	registry := module.NewRegistry()
	registry.Register("mcp_status", func() module.Module { return mcp.New() })
	registry.Register("session_time", func() module.Module { return sessiontime.New() })
	registry.Register("sys_metrics", func() module.Module { return sysmetrics.New() })

	for name, enabled := range cfg.Modules.Enabled {
		if enabled {
			registry.Enable(name)
		} else {
			registry.Disable(name)
		}
	}
	return registry
}

// loadConfig loads from the explicit path when given, otherwise from the
// standard search paths.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// applyFlags layers command-line overrides on top of the loaded config.
// When no width is configured and stdout is a terminal, the terminal width
// is adopted.
func applyFlags(cfg *config.Config, width int, noColor bool) {
	if width > 0 {
		cfg.General.MaxWidth = width
	}
	if noColor {
		cfg.General.Color = false
	}
	if cfg.General.MaxWidth == 0 && isatty.IsTerminal(os.Stdout.Fd()) {
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
			cfg.General.MaxWidth = w
		}
	}
}

// readPayload consumes the hook payload from stdin. When stdin is a
// terminal (manual invocation) there is no payload to read.
func readPayload() hook.Payload {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return hook.Payload{}
	}
	return hook.Read(os.Stdin)
}

// newLogger builds the stderr slog logger with the configured level.
func newLogger(level string, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// withSessionTime resolves the session time widget and applies fn to it.
func withSessionTime(registry *module.Registry, fn func(*sessiontime.Module) error) error {
	m, err := registry.Resolve("session_time")
	if err != nil {
		return err
	}
	st, ok := m.(*sessiontime.Module)
	if !ok {
		return fmt.Errorf("session_time widget has unexpected type %T", m)
	}
	return fn(st)
}

// printModuleList writes one line per registered widget with its metadata
// and enabled state.
func printModuleList(registry *module.Registry) {
	for _, name := range registry.Names() {
		state := "disabled"
		if registry.Enabled(name) {
			state = "enabled"
		}

		m, err := registry.Resolve(name)
		if err != nil {
			fmt.Printf("%-14s %-9s (load error: %v)\n", name, state, err)
			continue
		}
		md := m.Metadata()
		fmt.Printf("%-14s %-9s v%-7s %s\n", md.Name, state, md.Version, md.Description)
	}
}
