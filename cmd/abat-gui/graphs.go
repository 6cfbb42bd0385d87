package main

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

var (
	colGraphBg   = color.NRGBA{R: 31, G: 31, B: 31, A: 230}
	colGrid      = color.NRGBA{R: 255, G: 255, B: 255, A: 20}
	colLabel     = color.NRGBA{R: 255, G: 255, B: 255, A: 128}
	colTitle     = color.NRGBA{R: 255, G: 255, B: 255, A: 179}
	colGreenLine = color.NRGBA{R: 77, G: 191, B: 102, A: 255}
	colBlueLine  = color.NRGBA{R: 89, G: 140, B: 230, A: 255}
)

const (
	padLeft   = 50
	padRight  = 15
	padTop    = 30
	padBottom = 30
	gapThresh = 300 // seconds without a sample before the line breaks
)

// plotRect is the drawable area inside the axis padding.
type plotRect struct {
	x, y, w, h float32
}

func plotArea(size fyne.Size) (plotRect, bool) {
	r := plotRect{
		x: padLeft,
		y: padTop,
		w: size.Width - padLeft - padRight,
		h: size.Height - padTop - padBottom,
	}
	return r, r.w >= 10 && r.h >= 10
}

// point maps a timestamp and a 0-100 percentage into the plot.
func (r plotRect) point(ts, fromUnix int64, span float64, pct int) fyne.Position {
	return fyne.NewPos(
		r.x+float32(float64(ts-fromUnix)/span)*r.w,
		r.y+r.h-r.h*float32(pct)/100,
	)
}

type segment struct {
	from, to fyne.Position
}

// lineSegments joins consecutive samples, skipping pairs further apart
// than gapThresh.
func lineSegments(samples []collector.BatterySample, from, to time.Time, r plotRect, pct func(collector.BatterySample) int) []segment {
	fromUnix := from.Unix()
	span := float64(to.Unix() - fromUnix)
	if span <= 0 {
		return nil
	}
	var segs []segment
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if cur.Timestamp-prev.Timestamp > gapThresh {
			continue
		}
		segs = append(segs, segment{
			from: r.point(prev.Timestamp, fromUnix, span, pct(prev)),
			to:   r.point(cur.Timestamp, fromUnix, span, pct(cur)),
		})
	}
	return segs
}

func timeLabel(t time.Time, span time.Duration) string {
	if span > 24*time.Hour {
		return t.Format("Jan 2")
	}
	return t.Format("15:04")
}

// chargeGraph plots charge (green) and health (blue) over time.
type chargeGraph struct {
	widget.BaseWidget
	samples []collector.BatterySample
	from    time.Time
	to      time.Time
}

func newChargeGraph() *chargeGraph {
	g := &chargeGraph{}
	g.ExtendBaseWidget(g)
	return g
}

func (g *chargeGraph) SetData(samples []collector.BatterySample, from, to time.Time) {
	g.samples = samples
	g.from = from
	g.to = to
	g.Refresh()
}

func (g *chargeGraph) CreateRenderer() fyne.WidgetRenderer {
	title := canvas.NewText("Charge and health", colTitle)
	title.TextSize = 11
	r := &chargeGraphRenderer{
		graph: g,
		bg:    canvas.NewRectangle(colGraphBg),
		title: title,
	}
	r.build()
	return r
}

type chargeGraphRenderer struct {
	graph   *chargeGraph
	bg      *canvas.Rectangle
	title   *canvas.Text
	size    fyne.Size
	objects []fyne.CanvasObject
}

func (r *chargeGraphRenderer) Layout(size fyne.Size) {
	r.size = size
	r.build()
}

func (r *chargeGraphRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 200)
}

func (r *chargeGraphRenderer) Refresh() {
	r.build()
	canvas.Refresh(r.graph)
}

func (r *chargeGraphRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *chargeGraphRenderer) Destroy() {}

func (r *chargeGraphRenderer) build() {
	r.bg.Resize(r.size)
	r.title.Move(fyne.NewPos(padLeft, 8))
	objs := []fyne.CanvasObject{r.bg, r.title}

	area, ok := plotArea(r.size)
	if !ok {
		r.objects = objs
		return
	}

	// Y-axis grid (0%, 25%, 50%, 75%, 100%)
	for pct := 0; pct <= 100; pct += 25 {
		y := area.y + area.h - area.h*float32(pct)/100
		line := canvas.NewLine(colGrid)
		line.Position1 = fyne.NewPos(area.x, y)
		line.Position2 = fyne.NewPos(area.x+area.w, y)
		objs = append(objs, line, newAxisLabel(fmt.Sprintf("%d%%", pct), fyne.NewPos(5, y-7)))
	}

	g := r.graph
	if !g.from.IsZero() {
		span := g.to.Sub(g.from)
		objs = append(objs,
			newAxisLabel(timeLabel(g.from, span), fyne.NewPos(area.x, area.y+area.h+6)),
			newAxisLabel(timeLabel(g.to, span), fyne.NewPos(area.x+area.w-30, area.y+area.h+6)),
		)
	}

	series := []struct {
		color color.Color
		pct   func(collector.BatterySample) int
	}{
		{colBlueLine, func(s collector.BatterySample) int { return s.HealthPct }},
		{colGreenLine, func(s collector.BatterySample) int { return s.ChargePct }},
	}
	for _, s := range series {
		for _, seg := range lineSegments(g.samples, g.from, g.to, area, s.pct) {
			line := canvas.NewLine(s.color)
			line.StrokeWidth = 2
			line.Position1 = seg.from
			line.Position2 = seg.to
			objs = append(objs, line)
		}
	}
	r.objects = objs
}

func newAxisLabel(text string, pos fyne.Position) *canvas.Text {
	t := canvas.NewText(text, colLabel)
	t.TextSize = 9
	t.Move(pos)
	return t
}
