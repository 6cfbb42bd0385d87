package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

// historyLen caps the sparkline history.
const historyLen = 512

// Sampler is satisfied by *collector.Collector.
type Sampler interface {
	Collect(ctx context.Context) (*collector.BatterySample, error)
}

// Watch is a live battery view refreshed on a ticker.
type Watch struct {
	sampler  Sampler
	interval time.Duration

	last    *collector.BatterySample
	lastErr error
	updated time.Time
	history []float64
}

func NewWatch(s Sampler, interval time.Duration) *Watch {
	return &Watch{sampler: s, interval: interval}
}

// Update collects one sample. A failure keeps the previous sample on screen.
func (w *Watch) Update(ctx context.Context) {
	s, err := w.sampler.Collect(ctx)
	w.updated = time.Now()
	if err != nil {
		w.lastErr = err
		return
	}
	w.last = s
	w.lastErr = nil
	w.history = append(w.history, float64(s.ChargePct))
	if len(w.history) > historyLen {
		w.history = w.history[len(w.history)-historyLen:]
	}
}

// Draw renders the current state. The caller shows the screen.
func (w *Watch) Draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()

	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	DrawText(screen, 1, 0, "abat watch", bold)
	DrawText(screen, 12, 0, fmt.Sprintf("every %v  q to quit", w.interval), dim)

	barWidth := max(width-20, 10)
	y := 2
	if s := w.last; s != nil {
		DrawText(screen, 1, y, fmt.Sprintf("Charge %3d%%", s.ChargePct), tcell.StyleDefault)
		DrawBar(screen, 14, y, barWidth, float64(s.ChargePct), 100, ChargeColor(s.ChargePct))
		y++
		DrawText(screen, 1, y, fmt.Sprintf("Health %3d%%", s.HealthPct), tcell.StyleDefault)
		DrawBar(screen, 14, y, barWidth, float64(s.HealthPct), 100, HealthColor(s.HealthPct))
		y += 2
		DrawText(screen, 1, y, fmt.Sprintf("Current %d mAh   Max %d mAh   Design %d mAh",
			s.CurrentCapacity, s.MaxCapacity, s.DesignCapacity), tcell.StyleDefault)
		y += 2
		DrawText(screen, 1, y, "Charge history", dim)
		y++
		DrawSparkline(screen, 1, y, width-2, w.history, 0, 100, ChargeColor(s.ChargePct))
		y += 2
	} else {
		DrawText(screen, 1, y, "waiting for first sample...", dim)
		y += 2
	}

	if w.lastErr != nil {
		DrawText(screen, 1, y, fmt.Sprintf("error (%s): %v", collector.Classify(w.lastErr), w.lastErr),
			tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
	if !w.updated.IsZero() {
		DrawText(screen, 1, height-1, "updated "+w.updated.Format("15:04:05"), dim)
	}
}

// Run draws and refreshes until ctx is done or the user quits with q, Esc
// or Ctrl-C.
func (w *Watch) Run(ctx context.Context, screen tcell.Screen) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	w.Update(ctx)
	w.Draw(screen)
	screen.Show()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' || ev.Rune() == 'Q' {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				w.Draw(screen)
				screen.Show()
			}
		case <-ticker.C:
			w.Update(ctx)
			w.Draw(screen)
			screen.Show()
		}
	}
}
