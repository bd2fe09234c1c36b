package ui

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"emojiforge/internal/palette"
	"emojiforge/internal/state"
)

var (
	workspaceColor = color.NRGBA{R: 245, G: 246, B: 248, A: 255}
	gridColor      = color.NRGBA{R: 120, G: 120, B: 120, A: 60}
	borderColor    = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
	hintColor      = color.NRGBA{R: 130, G: 130, B: 130, A: 255}
)

const emptyHint = "Pick a template or start a new emoji"

type boardRenderer struct {
	board     *BoardWidget
	workspace *canvas.Rectangle
	objects   []fyne.CanvasObject
}

func newBoardRenderer(b *BoardWidget) *boardRenderer {
	r := &boardRenderer{board: b, workspace: canvas.NewRectangle(workspaceColor)}
	r.rebuild()
	return r
}

func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *boardRenderer) Layout(size fyne.Size) {
	r.workspace.Resize(size)
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.board)
}

func (r *boardRenderer) Destroy() {}

// rebuild regenerates the scene from the editor: page, grid, visible layers
// bottom to top, then the gesture in progress.
func (r *boardRenderer) rebuild() {
	ed := r.board.editor
	r.workspace.Resize(r.board.Size())
	objects := []fyne.CanvasObject{r.workspace}

	doc, ok := ed.Document()
	if !ok {
		hint := canvas.NewText(emptyHint, hintColor)
		hint.Alignment = fyne.TextAlignCenter
		hint.Move(fyne.NewPos(0, r.board.Size().Height/2-hint.MinSize().Height/2))
		hint.Resize(fyne.NewSize(r.board.Size().Width, hint.MinSize().Height))
		r.objects = append(objects, hint)
		return
	}

	topLeft := ed.ToScreen(state.Point{})
	bottomRight := ed.ToScreen(state.Point{X: float64(doc.Width), Y: float64(doc.Height)})
	page := canvas.NewRectangle(palette.MustParse(doc.BackgroundColor))
	page.StrokeColor = borderColor
	page.StrokeWidth = 1
	page.Move(toPos(topLeft))
	page.Resize(fyne.NewSize(float32(bottomRight.X-topLeft.X), float32(bottomRight.Y-topLeft.Y)))
	objects = append(objects, page)

	if r.board.showGrid {
		objects = append(objects, r.grid(doc)...)
	}
	for _, l := range doc.Layers {
		if !l.Visible {
			continue
		}
		for _, el := range l.Elements {
			objects = append(objects, r.element(el, l.Transform, l.Opacity)...)
		}
	}
	if el, ok := ed.Pending(); ok {
		objects = append(objects, r.element(el, state.IdentityTransform(), 1)...)
	}
	r.objects = objects
}

func (r *boardRenderer) grid(doc state.Document) []fyne.CanvasObject {
	ed := r.board.editor
	step := r.board.gridSize
	w, h := float64(doc.Width), float64(doc.Height)
	var lines []fyne.CanvasObject
	for x := step; x < w; x += step {
		lines = append(lines, r.line(gridColor, 0.5, ed.ToScreen(state.Point{X: x}), ed.ToScreen(state.Point{X: x, Y: h})))
	}
	for y := step; y < h; y += step {
		lines = append(lines, r.line(gridColor, 0.5, ed.ToScreen(state.Point{Y: y}), ed.ToScreen(state.Point{X: w, Y: y})))
	}
	return lines
}

func (r *boardRenderer) line(c color.Color, width float32, a, b state.Point) *canvas.Line {
	l := canvas.NewLine(c)
	l.StrokeWidth = width
	l.Position1 = toPos(a)
	l.Position2 = toPos(b)
	return l
}

// element converts one drawable into canvas objects in screen space.
// Rectangles are drawn axis aligned around their transformed corners.
func (r *boardRenderer) element(el state.Element, t state.Transform, opacity float64) []fyne.CanvasObject {
	ed := r.board.editor
	scale := ed.Viewport().Scale * t.LinearScale()
	at := func(p state.Point) state.Point { return ed.ToScreen(t.Apply(p)) }

	switch v := el.(type) {
	case state.Circle:
		c := at(v.Center)
		rad := v.Radius * scale
		circle := canvas.NewCircle(tint(v.Fill, opacity))
		circle.StrokeColor = tint(v.Stroke, opacity)
		circle.StrokeWidth = float32(v.StrokeWidth * scale)
		circle.Move(toPos(state.Point{X: c.X - rad, Y: c.Y - rad}))
		circle.Resize(fyne.NewSize(float32(2*rad), float32(2*rad)))
		return []fyne.CanvasObject{circle}

	case state.Rectangle:
		corners := []state.Point{
			at(v.Origin),
			at(state.Point{X: v.Origin.X + v.Width, Y: v.Origin.Y}),
			at(state.Point{X: v.Origin.X + v.Width, Y: v.Origin.Y + v.Height}),
			at(state.Point{X: v.Origin.X, Y: v.Origin.Y + v.Height}),
		}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, c := range corners {
			minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
			minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
		}
		rect := canvas.NewRectangle(tint(v.Fill, opacity))
		rect.StrokeColor = tint(v.Stroke, opacity)
		rect.StrokeWidth = float32(v.StrokeWidth * scale)
		rect.Move(toPos(state.Point{X: minX, Y: minY}))
		rect.Resize(fyne.NewSize(float32(maxX-minX), float32(maxY-minY)))
		return []fyne.CanvasObject{rect}

	case state.FreehandPath:
		stroke := tint(v.Stroke, opacity)
		width := float32(v.StrokeWidth * scale)
		if v.Degenerate() {
			return nil
		}
		segments := make([]fyne.CanvasObject, 0, len(v.Points))
		for i := 1; i < len(v.Points); i++ {
			segments = append(segments, r.line(stroke, width, at(v.Points[i-1]), at(v.Points[i])))
		}
		return segments
	}
	return nil
}

func tint(hex string, opacity float64) color.Color {
	return palette.WithOpacity(palette.MustParse(hex), opacity)
}
