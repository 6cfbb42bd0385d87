package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

type fakeSampler struct {
	sample *collector.BatterySample
	err    error
}

func (f *fakeSampler) Collect(context.Context) (*collector.BatterySample, error) {
	return f.sample, f.err
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	sim.SetSize(80, 24)
	t.Cleanup(sim.Fini)
	return sim
}

func screenText(sim tcell.SimulationScreen) string {
	cells, width, height := sim.GetContents()
	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			runes := cells[y*width+x].Runes
			if len(runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(runes[0])
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func TestWatch_DrawSample(t *testing.T) {
	sim := newSimScreen(t)
	w := NewWatch(&fakeSampler{sample: &collector.BatterySample{
		CurrentCapacity: 3005, MaxCapacity: 3531, DesignCapacity: 4790, ChargePct: 85, HealthPct: 73,
	}}, time.Second)

	w.Update(context.Background())
	w.Draw(sim)
	sim.Show()

	text := screenText(sim)
	for _, want := range []string{"Charge  85%", "Health  73%", "Current 3005 mAh", "Design 4790 mAh", "█"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q:\n%s", want, text)
		}
	}
}

func TestWatch_DrawError(t *testing.T) {
	sim := newSimScreen(t)
	w := NewWatch(&fakeSampler{err: collector.ErrUnsupportedPlatform}, time.Second)

	w.Update(context.Background())
	w.Draw(sim)
	sim.Show()

	text := screenText(sim)
	if !strings.Contains(text, "waiting for first sample") {
		t.Errorf("screen missing placeholder:\n%s", text)
	}
	if !strings.Contains(text, "unsupported_platform") {
		t.Errorf("screen missing error code:\n%s", text)
	}
}

func TestWatch_ErrorKeepsLastSample(t *testing.T) {
	f := &fakeSampler{sample: &collector.BatterySample{ChargePct: 50}}
	w := NewWatch(f, time.Second)

	w.Update(context.Background())
	f.sample, f.err = nil, errors.New("boom")
	w.Update(context.Background())

	if w.last == nil || w.last.ChargePct != 50 {
		t.Fatalf("last = %+v, want previous sample kept", w.last)
	}
	if len(w.history) != 1 {
		t.Fatalf("history len = %d, want 1", len(w.history))
	}
}

func TestWatch_RunQuitsOnKey(t *testing.T) {
	sim := newSimScreen(t)
	w := NewWatch(&fakeSampler{sample: &collector.BatterySample{ChargePct: 10}}, time.Hour)

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background(), sim) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after q")
	}
}

func TestDrawSparkline_ClipsToWidth(t *testing.T) {
	sim := newSimScreen(t)
	DrawSparkline(sim, 0, 0, 3, []float64{0, 100, 0, 50, 100}, 0, 100, tcell.ColorGreen)
	sim.Show()

	line := strings.SplitN(screenText(sim), "\n", 2)[0]
	if !strings.HasPrefix(line, "▁▄█ ") {
		t.Fatalf("sparkline = %q, want last three values", line[:12])
	}
}

func TestChargeColor(t *testing.T) {
	if ChargeColor(10) != tcell.ColorRed || ChargeColor(30) != tcell.ColorYellow || ChargeColor(90) != tcell.ColorGreen {
		t.Fatal("ChargeColor thresholds wrong")
	}
}
