package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"emojiforge/internal/state"
)

// BoardWidget is the drawing surface. Pointer input becomes Editor gestures,
// and the document is drawn through the editor's viewport.
type BoardWidget struct {
	widget.BaseWidget
	editor *state.Editor

	showGrid bool
	gridSize float64

	// panning is set while a select-tool drag moves the view.
	panning bool
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(e *state.Editor, showGrid bool, gridSize float64) *BoardWidget {
	if gridSize <= 0 {
		gridSize = 20
	}
	b := &BoardWidget{editor: e, showGrid: showGrid, gridSize: gridSize}
	b.ExtendBaseWidget(b)
	return b
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func toPos(p state.Point) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}

// Resize keeps the editor's idea of the canvas size in step with the widget.
func (b *BoardWidget) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	b.editor.SetCanvasSize(float64(size.Width), float64(size.Height))
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	switch e.Button {
	case desktop.MouseButtonSecondary:
		b.editor.CancelGesture()
	case desktop.MouseButtonPrimary:
		if b.editor.Tool() == state.ToolSelect {
			b.panning = true
			return
		}
		b.editor.OnPointerDown(toPoint(e.Position))
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.release()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.panning {
		b.editor.Pan(state.Point{X: float64(e.Dragged.DX), Y: float64(e.Dragged.DY)})
		return
	}
	if b.editor.Gesture() == state.Accumulating {
		b.editor.OnPointerMove(toPoint(e.Position))
	}
}

// DragEnd also fires when the button is released outside the widget, where
// MouseUp is not delivered.
func (b *BoardWidget) DragEnd() {
	b.release()
}

func (b *BoardWidget) release() {
	b.panning = false
	b.editor.OnPointerUp()
}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	b.editor.WheelZoom(float64(e.Scrolled.DY), toPoint(e.Position))
}

func (b *BoardWidget) ToggleGrid() {
	b.showGrid = !b.showGrid
	b.Refresh()
}

func (b *BoardWidget) ShowsGrid() bool { return b.showGrid }

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return newBoardRenderer(b)
}
