package main

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

type timeRange struct {
	Label    string
	Duration time.Duration
}

var timeRanges = []timeRange{
	{"1h", time.Hour},
	{"3h", 3 * time.Hour},
	{"12h", 12 * time.Hour},
	{"24h", 24 * time.Hour},
	{"7d", 7 * 24 * time.Hour},
	{"30d", 30 * 24 * time.Hour},
	{"90d", 90 * 24 * time.Hour},
}

type timeRangeBar struct {
	buttons   []*widget.Button
	container fyne.CanvasObject
}

func newTimeRangeBar(selected int, onSelect func(int)) *timeRangeBar {
	b := &timeRangeBar{buttons: make([]*widget.Button, len(timeRanges))}
	objs := make([]fyne.CanvasObject, len(timeRanges))
	for i, tr := range timeRanges {
		b.buttons[i] = widget.NewButton(tr.Label, func() {
			b.Select(i)
			onSelect(i)
		})
		objs[i] = b.buttons[i]
	}
	b.Select(selected)

	row := container.New(layout.NewHBoxLayout(), objs...)
	bg := canvas.NewRectangle(color.NRGBA{R: 30, G: 30, B: 30, A: 230})
	b.container = container.NewStack(bg, container.NewPadded(row))
	return b
}

// Select highlights the button at idx.
func (b *timeRangeBar) Select(idx int) {
	for i, btn := range b.buttons {
		if i == idx {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}
