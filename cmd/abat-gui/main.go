// Command abat-gui shows the battery history recorded by 'abat monitor',
// read over D-Bus.
package main

import (
	"log"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	dbussvc "github.com/cptspacemanspiff/abat/internal/dbus"
)

const refreshInterval = 5 * time.Second

type gui struct {
	client   *dbussvc.Client
	stats    *statsBar
	graph    *chargeGraph
	ranges   *timeRangeBar
	selected atomic.Int32
}

func main() {
	client, err := dbussvc.NewClient()
	if err != nil {
		log.Fatalf("Failed to connect to D-Bus: %v", err)
	}
	defer client.Close()

	a := app.NewWithID("io.github.cptspacemanspiff.abat")
	win := a.NewWindow("Battery")
	win.Resize(fyne.NewSize(900, 500))

	g := &gui{
		client: client,
		stats:  newStatsBar(),
		graph:  newChargeGraph(),
	}
	g.selected.Store(3) // 24h
	g.ranges = newTimeRangeBar(3, func(idx int) {
		g.selected.Store(int32(idx))
		go g.refresh()
	})

	win.SetContent(container.NewBorder(
		container.NewVBox(g.stats.container, g.ranges.container),
		nil, nil, nil,
		g.graph,
	))

	go func() {
		g.refresh()
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			g.refresh()
		}
	}()

	win.ShowAndRun()
}

// refresh fetches over D-Bus off the UI goroutine and applies the result
// with fyne.Do.
func (g *gui) refresh() {
	to := time.Now()
	from := to.Add(-timeRanges[g.selected.Load()].Duration)

	current, curErr := g.client.GetCurrentBattery()
	history, histErr := g.client.GetHistory(from, to)

	fyne.Do(func() {
		if curErr != nil {
			g.stats.SetError(curErr)
		} else {
			g.stats.Update(current.Battery)
		}
		if histErr == nil {
			g.graph.SetData(history.Battery, from, to)
		}
	})
}
