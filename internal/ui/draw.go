// Package ui draws the terminal battery view.
package ui

import (
	"github.com/gdamore/tcell/v2"
)

// DrawBar draws a horizontal bar chart
func DrawBar(screen tcell.Screen, x, y, width int, value, max float64, color tcell.Color) {
	if max <= 0 || width <= 0 {
		return
	}

	percentage := value / max
	if percentage > 1 {
		percentage = 1
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage)

	for i := 0; i < filled && i < width; i++ {
		screen.SetContent(x+i, y, '█', nil, tcell.StyleDefault.Foreground(color))
	}
	for i := filled; i < width; i++ {
		screen.SetContent(x+i, y, '░', nil, tcell.StyleDefault.Foreground(tcell.ColorGray))
	}
}

var ticks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// DrawSparkline draws data scaled to [lo, hi], showing the most recent
// width values.
func DrawSparkline(screen tcell.Screen, x, y, width int, data []float64, lo, hi float64, color tcell.Color) {
	if len(data) == 0 || width <= 0 {
		return
	}
	if hi <= lo {
		hi = lo + 1
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	style := tcell.StyleDefault.Foreground(color)
	for i, v := range data {
		level := int((v - lo) / (hi - lo) * float64(len(ticks)-1))
		level = max(0, min(level, len(ticks)-1))
		screen.SetContent(x+i, y, ticks[level], nil, style)
	}
}

// DrawText draws text at the specified position
func DrawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}

// ChargeColor is red below 20%, yellow below 50%, green otherwise.
func ChargeColor(pct int) tcell.Color {
	switch {
	case pct < 20:
		return tcell.ColorRed
	case pct < 50:
		return tcell.ColorYellow
	default:
		return tcell.ColorGreen
	}
}

// HealthColor is red below 60%, yellow below 80%, green otherwise.
func HealthColor(pct int) tcell.Color {
	switch {
	case pct < 60:
		return tcell.ColorRed
	case pct < 80:
		return tcell.ColorYellow
	default:
		return tcell.ColorGreen
	}
}
