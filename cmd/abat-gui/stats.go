package main

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

var (
	colorGreenAccent = color.NRGBA{R: 77, G: 191, B: 102, A: 255}
	colorWhiteLabel  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	colorErrorLabel  = color.NRGBA{R: 230, G: 90, B: 80, A: 255}
	colorStatsBg     = color.NRGBA{R: 77, G: 191, B: 102, A: 38}
)

type statsBar struct {
	chargeLabel   *canvas.Text
	healthLabel   *canvas.Text
	capacityLabel *canvas.Text
	designLabel   *canvas.Text
	statusLabel   *canvas.Text
	container     fyne.CanvasObject
}

func newStatsBar() *statsBar {
	s := &statsBar{
		chargeLabel:   newStatText("--%"),
		healthLabel:   newStatText("--%"),
		capacityLabel: newStatText("-- mAh"),
		designLabel:   newStatText("-- mAh"),
		statusLabel:   newLabelText(""),
	}

	row := container.New(layout.NewHBoxLayout(),
		container.NewVBox(newLabelText("Charge"), s.chargeLabel),
		layout.NewSpacer(),
		container.NewVBox(newLabelText("Health"), s.healthLabel),
		layout.NewSpacer(),
		container.NewVBox(newLabelText("Capacity"), s.capacityLabel),
		layout.NewSpacer(),
		container.NewVBox(newLabelText("Design"), s.designLabel),
	)

	bg := canvas.NewRectangle(colorStatsBg)
	bg.CornerRadius = theme.InputRadiusSize()
	s.container = container.NewStack(bg, container.NewPadded(container.NewVBox(row, s.statusLabel)))
	return s
}

// Update shows b, or a placeholder when the daemon has no sample yet.
func (s *statsBar) Update(b *collector.BatterySample) {
	if b == nil {
		s.setStatus("No samples recorded yet", colorWhiteLabel)
		return
	}
	s.chargeLabel.Text = fmt.Sprintf("%d%%", b.ChargePct)
	s.healthLabel.Text = fmt.Sprintf("%d%%", b.HealthPct)
	s.capacityLabel.Text = fmt.Sprintf("%d / %d mAh", b.CurrentCapacity, b.MaxCapacity)
	s.designLabel.Text = fmt.Sprintf("%d mAh", b.DesignCapacity)
	s.chargeLabel.Refresh()
	s.healthLabel.Refresh()
	s.capacityLabel.Refresh()
	s.designLabel.Refresh()
	s.setStatus("", colorWhiteLabel)
}

func (s *statsBar) SetError(err error) {
	s.setStatus("Daemon unavailable: "+err.Error(), colorErrorLabel)
}

func (s *statsBar) setStatus(text string, c color.Color) {
	s.statusLabel.Text = text
	s.statusLabel.Color = c
	s.statusLabel.Refresh()
}

func newStatText(text string) *canvas.Text {
	t := canvas.NewText(text, colorGreenAccent)
	t.TextSize = 18
	t.TextStyle = fyne.TextStyle{Bold: true}
	return t
}

func newLabelText(text string) *canvas.Text {
	t := canvas.NewText(text, colorWhiteLabel)
	t.TextSize = 12
	return t
}
