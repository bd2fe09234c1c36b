package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"emojiforge/internal/palette"
	"emojiforge/internal/state"
)

// colorSwatch is a tappable square of one color.
type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(palette.MustParse(s.Hex))
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

var toolIcons = map[state.Tool]fyne.Resource{
	state.ToolSelect:    theme.ViewFullScreenIcon(),
	state.ToolBrush:     theme.DocumentCreateIcon(),
	state.ToolCircle:    theme.RadioButtonIcon(),
	state.ToolRectangle: theme.CheckButtonIcon(),
	state.ToolLine:      theme.ContentRemoveIcon(),
	state.ToolText:      theme.FileTextIcon(),
	state.ToolEraser:    theme.DeleteIcon(),
}

// ToolPanel holds the tool buttons, the color picker and the brush size.
type ToolPanel struct {
	editor *state.Editor
	recent *palette.Recent

	container  *fyne.Container
	buttons    map[state.Tool]*widget.Button
	current    *canvas.Rectangle
	currentHex *widget.Label
	recentBox  *fyne.Container
	brush      *widget.Slider
	brushLabel *widget.Label

	hue, sat, light *widget.Slider
	custom          *canvas.Rectangle
}

func NewToolPanel(e *state.Editor, recent *palette.Recent) *ToolPanel {
	p := &ToolPanel{editor: e, recent: recent, buttons: map[state.Tool]*widget.Button{}}
	p.build()
	p.Refresh()
	return p
}

func (p *ToolPanel) build() {
	tools := container.NewGridWithColumns(2)
	for _, t := range state.Tools {
		btn := widget.NewButtonWithIcon(toolLabel(t), toolIcons[t], func() {
			p.editor.SelectTool(t)
		})
		btn.Alignment = widget.ButtonAlignLeading
		p.buttons[t] = btn
		tools.Add(btn)
	}

	swatches := container.NewGridWrap(fyne.NewSize(24, 24))
	for _, hex := range palette.Presets {
		swatches.Add(newColorSwatch(hex, p.pickColor))
	}

	p.current = canvas.NewRectangle(color.Transparent)
	p.current.SetMinSize(fyne.NewSize(32, 32))
	p.currentHex = widget.NewLabel("")
	p.recentBox = container.NewGridWrap(fyne.NewSize(24, 24))

	p.custom = canvas.NewRectangle(color.Transparent)
	p.custom.SetMinSize(fyne.NewSize(32, 32))
	p.hue = widget.NewSlider(0, 360)
	p.sat = widget.NewSlider(0, 100)
	p.light = widget.NewSlider(0, 100)
	p.sat.SetValue(100)
	p.light.SetValue(50)
	for _, s := range []*widget.Slider{p.hue, p.sat, p.light} {
		s.OnChanged = func(float64) { p.updateCustom() }
	}
	p.updateCustom()
	apply := widget.NewButton("Use", func() { p.pickColor(p.customHex()) })

	p.brush = widget.NewSlider(state.MinBrushSize, state.MaxBrushSize)
	p.brush.Step = 1
	p.brush.OnChanged = func(v float64) {
		p.editor.SetBrushSize(int(v))
	}
	p.brushLabel = widget.NewLabel("")

	p.container = container.NewVBox(
		widget.NewLabel("Tools"),
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color"),
		container.NewHBox(p.current, p.currentHex),
		swatches,
		widget.NewLabel("Recent"),
		p.recentBox,
		widget.NewLabel("Custom (H / S / L)"),
		p.hue, p.sat, p.light,
		container.NewHBox(p.custom, layout.NewSpacer(), apply),
		widget.NewSeparator(),
		p.brushLabel,
		p.brush,
	)
}

func (p *ToolPanel) Container() *fyne.Container {
	return p.container
}

func toolLabel(t state.Tool) string {
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// pickColor makes hex the paint color and remembers it as recent.
func (p *ToolPanel) pickColor(hex string) {
	p.editor.SetColor(hex)
	p.recent.Push(p.editor.Color())
	p.Refresh()
}

func (p *ToolPanel) customHex() string {
	return palette.FromHSL(p.hue.Value, p.sat.Value, p.light.Value)
}

func (p *ToolPanel) updateCustom() {
	p.custom.FillColor = palette.MustParse(p.customHex())
	p.custom.Refresh()
}

// Refresh mirrors the editor's tool, color and brush size.
func (p *ToolPanel) Refresh() {
	for t, btn := range p.buttons {
		imp := widget.MediumImportance
		if t == p.editor.Tool() {
			imp = widget.HighImportance
		}
		if btn.Importance != imp {
			btn.Importance = imp
			btn.Refresh()
		}
	}

	p.current.FillColor = palette.MustParse(p.editor.Color())
	p.current.Refresh()
	p.currentHex.SetText(p.editor.Color())

	p.recentBox.RemoveAll()
	for _, hex := range p.recent.Colors() {
		p.recentBox.Add(newColorSwatch(hex, p.pickColor))
	}

	size := p.editor.BrushSize()
	if p.brush.Value != float64(size) {
		p.brush.SetValue(float64(size))
	}
	p.brushLabel.SetText(fmt.Sprintf("Brush size: %d px", size))
}
