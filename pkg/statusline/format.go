package statusline

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// defaultMaxWidth is the visible-width budget when none is configured and
// the terminal width is unknown.
const defaultMaxWidth = 80

// defaultSeparator is placed between segments when none is configured.
const defaultSeparator = "│"

// Segment is a single widget's contribution to the line.
type Segment struct {
	Icon  string // emoji or nerd font icon
	Text  string // the actual content
	Color string // named color resolved by the formatter
}

// FormatterConfig controls line composition.
type FormatterConfig struct {
	// MaxWidth is the visible-width budget; <=0 means defaultMaxWidth.
	MaxWidth int

	// Separator is the glyph placed between segments, rendered faint.
	Separator string

	// Color enables ANSI styling. When false, segments render as plain
	// text.
	Color bool
}

// Formatter joins styled segments into a single line, dropping rightmost
// segments that would push the visible width past the budget.
type Formatter struct {
	cfg    FormatterConfig
	styles map[string]lipgloss.Style
	sep    string
}

// ansiColors maps the named widget colors onto the basic ANSI palette. The
// basic palette keeps the line legible on any terminal theme.
var ansiColors = map[string]lipgloss.Color{
	"red":    lipgloss.Color("1"),
	"green":  lipgloss.Color("2"),
	"yellow": lipgloss.Color("3"),
	"blue":   lipgloss.Color("4"),
	"gray":   lipgloss.Color("8"),
}

// NewFormatter builds a formatter with styles for each named color. The
// lipgloss renderer is pinned to a fixed profile so output is deterministic
// regardless of the environment the host invokes us from.
func NewFormatter(cfg FormatterConfig) *Formatter {
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = defaultMaxWidth
	}
	if cfg.Separator == "" {
		cfg.Separator = defaultSeparator
	}

	r := lipgloss.NewRenderer(io.Discard)
	if cfg.Color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	styles := make(map[string]lipgloss.Style, len(ansiColors))
	for name, color := range ansiColors {
		styles[name] = r.NewStyle().Foreground(color)
	}

	return &Formatter{
		cfg:    cfg,
		styles: styles,
		sep:    r.NewStyle().Faint(true).Render(cfg.Separator),
	}
}

// FormatLine joins the segments with faint separators, applies each
// segment's color, and drops rightmost segments once the visible width
// budget is exceeded. Returns an empty string for no segments.
func (f *Formatter) FormatLine(segments []Segment) string {
	if len(segments) == 0 {
		return ""
	}

	type rendered struct {
		text  string
		width int
	}

	parts := make([]rendered, 0, len(segments))
	for _, seg := range segments {
		full := seg.Text
		if seg.Icon != "" {
			full = seg.Icon + " " + seg.Text
		}
		if style, ok := f.styles[seg.Color]; ok {
			full = style.Render(full)
		}
		parts = append(parts, rendered{text: full, width: ansi.StringWidth(full)})
	}

	sepWidth := ansi.StringWidth(f.sep)

	// Greedily include segments left-to-right until the budget is hit.
	var included []rendered
	total := 0
	for i, p := range parts {
		needed := p.width
		if i > 0 {
			needed += sepWidth + 2 // separator plus surrounding spaces
		}
		if total+needed > f.cfg.MaxWidth {
			break
		}
		included = append(included, p)
		total += needed
	}

	if len(included) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range included {
		if i > 0 {
			b.WriteString(" " + f.sep + " ")
		}
		b.WriteString(p.text)
	}
	return b.String()
}
