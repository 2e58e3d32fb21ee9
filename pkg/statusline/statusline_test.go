package statusline

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/cc-pulse/pkg/config"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/hook"
	"gitlab.com/tinyland/lab/cc-pulse/pkg/module"
)

// stubWidget is a fixed-output widget for orchestrator tests.
type stubWidget struct {
	name      string
	text      string
	available bool
	interval  time.Duration
	initErr   error

	gotContext *hook.Payload
}

func (s *stubWidget) Metadata() module.Metadata {
	return module.Metadata{Name: s.name, Enabled: true}
}

func (s *stubWidget) Initialize() error { return s.initErr }

func (s *stubWidget) Refresh() {}

func (s *stubWidget) Output() module.Output {
	return module.Output{Text: s.text, Status: module.StatusSuccess, Color: "green"}
}

func (s *stubWidget) Available() bool { return s.available }

func (s *stubWidget) RefreshInterval() time.Duration { return s.interval }

func (s *stubWidget) Cleanup() error { return nil }

func (s *stubWidget) SetContext(p hook.Payload) { s.gotContext = &p }

// plainConfig disables color so rendered lines compare as plain strings.
func plainConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.General.Color = false
	cfg.General.MaxWidth = 200
	return cfg
}

// registerStub registers w under its own name.
func registerStub(r *module.Registry, w *stubWidget) {
	r.Register(w.name, func() module.Module { return w })
}

func TestOutputsRegistrationOrder(t *testing.T) {
	r := module.NewRegistry()
	registerStub(r, &stubWidget{name: "b", text: "B", available: true})
	registerStub(r, &stubWidget{name: "a", text: "A", available: true})

	o := New(r, plainConfig(), nil)
	outs := o.Outputs(hook.Payload{})
	if len(outs) != 2 {
		t.Fatalf("Outputs() returned %d records, want 2", len(outs))
	}
	if outs[0].Name != "b" || outs[1].Name != "a" {
		t.Errorf("order = [%s %s], want [b a]", outs[0].Name, outs[1].Name)
	}
}

func TestOutputsConfiguredOrderOverride(t *testing.T) {
	r := module.NewRegistry()
	registerStub(r, &stubWidget{name: "x", text: "X", available: true})
	registerStub(r, &stubWidget{name: "y", text: "Y", available: true})
	registerStub(r, &stubWidget{name: "z", text: "Z", available: true})

	cfg := plainConfig()
	cfg.Modules.Order = []string{"z", "x"}

	o := New(r, cfg, nil)
	outs := o.Outputs(hook.Payload{})
	got := make([]string, len(outs))
	for i, out := range outs {
		got[i] = out.Name
	}
	want := "z x y" // configured first, remainder keeps registration order
	if strings.Join(got, " ") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
}

func TestOutputsFailureIsolation(t *testing.T) {
	r := module.NewRegistry()
	registerStub(r, &stubWidget{name: "good", text: "G", available: true})
	registerStub(r, &stubWidget{name: "bad", initErr: fmt.Errorf("broken"), available: true})

	o := New(r, plainConfig(), nil)
	outs := o.Outputs(hook.Payload{})
	if len(outs) != 2 {
		t.Fatalf("Outputs() returned %d records, want 2 (failure renders neutral)", len(outs))
	}

	var badOut module.Output
	for _, out := range outs {
		if out.Name == "bad" {
			badOut = out.Output
		}
	}
	if badOut.Color != "gray" {
		t.Errorf("failed widget color = %q, want gray neutral", badOut.Color)
	}
	if !strings.Contains(badOut.Text, "unavailable") {
		t.Errorf("failed widget text = %q, want unavailable marker", badOut.Text)
	}
}

func TestOutputsSkipsUnavailable(t *testing.T) {
	r := module.NewRegistry()
	registerStub(r, &stubWidget{name: "gone", text: "X", available: false})
	registerStub(r, &stubWidget{name: "here", text: "Y", available: true})

	o := New(r, plainConfig(), nil)
	outs := o.Outputs(hook.Payload{})
	if len(outs) != 1 || outs[0].Name != "here" {
		t.Errorf("Outputs() = %+v, want only the available widget", outs)
	}
}

func TestOutputsPassesContext(t *testing.T) {
	w := &stubWidget{name: "ctx", text: "C", available: true}
	r := module.NewRegistry()
	registerStub(r, w)

	p := hook.Payload{Cost: hook.CostInfo{TotalDurationMS: 1234}}
	New(r, plainConfig(), nil).Outputs(p)

	if w.gotContext == nil {
		t.Fatal("SetContext was not called on a context-aware widget")
	}
	if w.gotContext.Cost.TotalDurationMS != 1234 {
		t.Errorf("SetContext payload duration = %d, want 1234", w.gotContext.Cost.TotalDurationMS)
	}
}

func TestRenderComposesLine(t *testing.T) {
	r := module.NewRegistry()
	registerStub(r, &stubWidget{name: "one", text: "first", available: true})
	registerStub(r, &stubWidget{name: "two", text: "second", available: true})

	got := New(r, plainConfig(), nil).Render(hook.Payload{})
	want := "first │ second"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderDisabledWidgetExcluded(t *testing.T) {
	r := module.NewRegistry()
	registerStub(r, &stubWidget{name: "keep", text: "K", available: true})
	registerStub(r, &stubWidget{name: "drop", text: "D", available: true})
	r.Disable("drop")

	got := New(r, plainConfig(), nil).Render(hook.Payload{})
	if got != "K" {
		t.Errorf("Render() = %q, want %q", got, "K")
	}
}

func TestPollIntervalMinimum(t *testing.T) {
	r := module.NewRegistry()
	registerStub(r, &stubWidget{name: "slow", available: true, interval: 10 * time.Second})
	registerStub(r, &stubWidget{name: "fast", available: true, interval: 2 * time.Second})

	o := New(r, plainConfig(), nil)
	if got := o.PollInterval(); got != 2*time.Second {
		t.Errorf("PollInterval() = %v, want 2s", got)
	}
}

func TestPollIntervalEmptyRegistry(t *testing.T) {
	o := New(module.NewRegistry(), plainConfig(), nil)
	if got := o.PollInterval(); got != time.Second {
		t.Errorf("PollInterval() = %v, want 1s fallback", got)
	}
}
