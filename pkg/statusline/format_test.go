package statusline

import (
	"strings"
	"testing"
)

func TestFormatLineEmpty(t *testing.T) {
	f := NewFormatter(FormatterConfig{})
	if got := f.FormatLine(nil); got != "" {
		t.Errorf("FormatLine(nil) = %q, want empty", got)
	}
}

func TestFormatLinePlain(t *testing.T) {
	f := NewFormatter(FormatterConfig{MaxWidth: 80, Color: false})
	segments := []Segment{
		{Icon: "🟢", Text: "3/3 running", Color: "green"},
		{Icon: "⏱️", Text: "2h 5m", Color: "green"},
	}

	got := f.FormatLine(segments)
	want := "🟢 3/3 running │ ⏱️ 2h 5m"
	if got != want {
		t.Errorf("FormatLine() = %q, want %q", got, want)
	}
}

func TestFormatLineColor(t *testing.T) {
	f := NewFormatter(FormatterConfig{MaxWidth: 80, Color: true})
	got := f.FormatLine([]Segment{{Icon: "🟢", Text: "ok", Color: "green"}})

	if !strings.Contains(got, "\x1b[") {
		t.Errorf("FormatLine() = %q, want ANSI escapes with color enabled", got)
	}
	if !strings.Contains(got, "ok") {
		t.Errorf("FormatLine() = %q, want text content preserved", got)
	}
}

func TestFormatLineUnknownColorPassesThrough(t *testing.T) {
	f := NewFormatter(FormatterConfig{MaxWidth: 80, Color: true})
	got := f.FormatLine([]Segment{{Text: "plain", Color: "chartreuse"}})
	if got != "plain" {
		t.Errorf("FormatLine() = %q, want unstyled %q", got, "plain")
	}
}

func TestFormatLineDropsRightmostOverBudget(t *testing.T) {
	f := NewFormatter(FormatterConfig{MaxWidth: 13, Color: false})
	segments := []Segment{
		{Text: "first"},  // width 5
		{Text: "second"}, // +3 separator and spaces +6 exceeds 13
	}

	got := f.FormatLine(segments)
	if got != "first" {
		t.Errorf("FormatLine() = %q, want rightmost segment dropped", got)
	}
}

func TestFormatLineCustomSeparator(t *testing.T) {
	f := NewFormatter(FormatterConfig{MaxWidth: 80, Separator: "•", Color: false})
	got := f.FormatLine([]Segment{{Text: "a"}, {Text: "b"}})
	if got != "a • b" {
		t.Errorf("FormatLine() = %q, want %q", got, "a • b")
	}
}

func TestFormatLineNothingFits(t *testing.T) {
	f := NewFormatter(FormatterConfig{MaxWidth: 2, Color: false})
	got := f.FormatLine([]Segment{{Text: "too wide to fit"}})
	if got != "" {
		t.Errorf("FormatLine() = %q, want empty when nothing fits", got)
	}
}
