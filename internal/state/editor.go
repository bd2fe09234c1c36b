package state

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"emojiforge/internal/palette"
)

const (
	MinBrushSize     = 1
	MaxBrushSize     = 50
	DefaultBrushSize = 10
	DefaultColor     = "#FF6B6B"

	DefaultCanvasSize    = 400
	DefaultZoomStep      = 1.2
	DefaultWheelZoomStep = 1.05

	// HitTolerance widens eraser targets, in document units.
	HitTolerance = 2.0
)

// Options configures an Editor. Zero values select the defaults above.
type Options struct {
	Logger *zap.Logger

	Color            string
	BrushSize        int
	CanvasWidth      float64
	CanvasHeight     float64
	DocumentWidth    int
	DocumentHeight   int
	Background       string
	ZoomStep         float64
	WheelZoomStep    float64
	MinPointDistance float64

	// OnDiscard is called when a finished gesture could not be committed
	// because no layer was active.
	OnDiscard func(tool Tool)
}

// Editor owns the document being edited and all editing state around it:
// active tool, layer, color, brush size, the viewport and the gesture in
// progress. It is driven from a single goroutine; only BeginLoad and BeginSave
// may be called from elsewhere.
type Editor struct {
	log *zap.Logger

	doc       *Document
	tool      Tool
	layerID   string
	color     string
	brushSize int
	view      Viewport
	session   Session

	canvasW, canvasH float64
	docW, docH       int
	background       string
	zoomStep         float64
	wheelStep        float64

	loads     RequestClock
	saves     RequestClock
	discarded int
	onDiscard func(Tool)
	listeners []func()
}

func NewEditor(opts Options) *Editor {
	e := &Editor{
		log:        opts.Logger,
		tool:       ToolSelect,
		color:      DefaultColor,
		brushSize:  DefaultBrushSize,
		view:       NewViewport(),
		canvasW:    orDefault(opts.CanvasWidth, DefaultCanvasSize),
		canvasH:    orDefault(opts.CanvasHeight, DefaultCanvasSize),
		docW:       DefaultDocumentSize,
		docH:       DefaultDocumentSize,
		background: DefaultBackgroundColor,
		zoomStep:   orDefault(opts.ZoomStep, DefaultZoomStep),
		wheelStep:  orDefault(opts.WheelZoomStep, DefaultWheelZoomStep),
		onDiscard:  opts.OnDiscard,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if opts.DocumentWidth > 0 && opts.DocumentHeight > 0 {
		e.docW, e.docH = opts.DocumentWidth, opts.DocumentHeight
	}
	if bg, err := palette.Normalize(opts.Background); err == nil && opts.Background != "" {
		e.background = bg
	}
	if opts.Color != "" {
		e.SetColor(opts.Color)
	}
	if opts.BrushSize != 0 {
		e.SetBrushSize(opts.BrushSize)
	}
	e.session.MinDistance = math.Max(0, opts.MinPointDistance)
	return e
}

// Subscribe registers fn to run after every change of the document or of
// anything that affects how it is shown.
func (e *Editor) Subscribe(fn func()) {
	e.listeners = append(e.listeners, fn)
}

func (e *Editor) changed() {
	for _, fn := range e.listeners {
		fn()
	}
}

// Document returns a copy of the active document.
func (e *Editor) Document() (Document, bool) {
	if e.doc == nil {
		return Document{}, false
	}
	return e.doc.Clone(), true
}

func (e *Editor) HasDocument() bool { return e.doc != nil }

func (e *Editor) Tool() Tool            { return e.tool }
func (e *Editor) Color() string         { return e.color }
func (e *Editor) BrushSize() int        { return e.brushSize }
func (e *Editor) Viewport() Viewport    { return e.view }
func (e *Editor) Gesture() SessionState { return e.session.State() }
func (e *Editor) DiscardedCommits() int { return e.discarded }

func (e *Editor) CanvasSize() (w, h float64) { return e.canvasW, e.canvasH }

// ActiveLayer returns the id of the layer that receives new elements.
func (e *Editor) ActiveLayer() (string, bool) {
	return e.layerID, e.layerID != ""
}

func (e *Editor) paint() Paint {
	return Paint{Color: e.color, Width: float64(e.brushSize)}
}

// SelectTool switches tools. A gesture in progress is cancelled. Unknown
// tools are ignored.
func (e *Editor) SelectTool(t Tool) {
	if _, ok := ParseTool(string(t)); !ok || t == e.tool {
		return
	}
	e.session.Cancel()
	e.tool = t
	e.changed()
}

// SelectLayer makes the layer with id active. An empty id clears the
// selection; ids not in the document are ignored.
func (e *Editor) SelectLayer(id string) {
	if id != "" {
		if e.doc == nil {
			return
		}
		if _, ok := e.doc.Layer(id); !ok {
			return
		}
	}
	if id == e.layerID {
		return
	}
	e.layerID = id
	e.changed()
}

// SetColor sets the paint color. Values that are not valid colors are ignored.
func (e *Editor) SetColor(c string) {
	n, err := palette.Normalize(c)
	if err != nil {
		e.log.Debug("ignoring color", zap.String("color", c), zap.Error(err))
		return
	}
	e.color = n
	e.changed()
}

// SetBrushSize sets the stroke width, clamped to [MinBrushSize, MaxBrushSize].
func (e *Editor) SetBrushSize(n int) {
	if n < MinBrushSize {
		n = MinBrushSize
	}
	if n > MaxBrushSize {
		n = MaxBrushSize
	}
	e.brushSize = n
	e.changed()
}

// SetCanvasSize records the on-screen size of the drawing surface.
func (e *Editor) SetCanvasSize(w, h float64) {
	if w <= 0 || h <= 0 || (w == e.canvasW && h == e.canvasH) {
		return
	}
	e.canvasW, e.canvasH = w, h
	e.changed()
}

// CanvasCenter is the screen position of the document origin before pan and zoom.
func (e *Editor) CanvasCenter() Point {
	w, h := e.docW, e.docH
	if e.doc != nil {
		w, h = e.doc.Width, e.doc.Height
	}
	return CanvasCenter(e.canvasW, e.canvasH, float64(w), float64(h))
}

func (e *Editor) ToDocument(screen Point) Point {
	return e.view.ToDocumentSpace(screen, e.CanvasCenter())
}

func (e *Editor) ToScreen(doc Point) Point {
	return e.view.ToScreenSpace(doc, e.CanvasCenter())
}

// OnPointerDown starts a gesture at a screen position. With the eraser it
// removes the topmost element of the active layer under the pointer instead.
func (e *Editor) OnPointerDown(screen Point) {
	if e.session.Cancel() {
		e.log.Debug("gesture restarted before pointer up")
	}
	if e.doc == nil {
		return
	}
	p := e.ToDocument(screen)
	if e.tool == ToolEraser {
		e.erase(p)
		return
	}
	if e.session.Begin(e.tool, p) {
		e.changed()
	}
}

func (e *Editor) OnPointerMove(screen Point) {
	if e.session.State() != Accumulating {
		return
	}
	e.session.Move(e.ToDocument(screen))
	e.changed()
}

// OnPointerUp commits the gesture into the active layer. Without an active
// layer the element is discarded.
func (e *Editor) OnPointerUp() {
	tool := e.session.Tool()
	el, ok := e.session.End(e.paint())
	if !ok {
		return
	}
	defer e.changed()
	if e.doc != nil && e.layerID != "" {
		if doc, ok := AppendElement(*e.doc, e.layerID, el); ok {
			e.doc = &doc
			e.log.Debug("element committed",
				zap.String("layer", e.layerID),
				zap.String("tool", string(tool)),
				zap.String("kind", string(el.Kind())))
			return
		}
	}
	e.discarded++
	e.log.Debug("commit discarded, no active layer", zap.String("tool", string(tool)))
	if e.onDiscard != nil {
		e.onDiscard(tool)
	}
}

// CancelGesture drops the gesture in progress without touching the document.
func (e *Editor) CancelGesture() {
	if e.session.Cancel() {
		e.changed()
	}
}

// Pending is the element the gesture in progress would commit.
func (e *Editor) Pending() (Element, bool) {
	return e.session.Pending(e.paint())
}

func (e *Editor) erase(p Point) {
	if e.layerID == "" {
		return
	}
	l, ok := e.doc.Layer(e.layerID)
	if !ok || !l.Visible {
		return
	}
	i := l.HitElement(p, HitTolerance/e.view.normalized().Scale)
	if i < 0 {
		return
	}
	doc := RemoveElement(*e.doc, e.layerID, i)
	e.doc = &doc
	e.log.Debug("element erased", zap.String("layer", e.layerID), zap.Int("index", i))
	e.changed()
}

// ApplyLayerOp runs op against the document and returns the result. The
// active layer follows the op: an added layer becomes active, and when the
// active layer disappears the bottom-most remaining layer takes over.
func (e *Editor) ApplyLayerOp(op LayerOp) (Document, bool) {
	if e.doc == nil || op == nil {
		return Document{}, false
	}
	if add, ok := op.(AddLayerOp); ok && add.Layer.Name == "" {
		add.Layer.Name = fmt.Sprintf(LayerNameFormat, len(e.doc.Layers)+1)
		op = add
	}
	doc := op.apply(*e.doc)
	e.doc = &doc

	if _, ok := op.(AddLayerOp); ok && len(doc.Layers) > 0 {
		e.layerID = doc.Layers[len(doc.Layers)-1].ID
	} else if _, ok := doc.Layer(e.layerID); !ok {
		e.layerID = ""
		if len(doc.Layers) > 0 {
			e.layerID = doc.Layers[0].ID
		}
	}
	e.changed()
	return doc.Clone(), true
}

// NewDocument replaces the document with an empty one.
func (e *Editor) NewDocument() {
	doc := NewDocument()
	doc.Width, doc.Height = e.docW, e.docH
	doc.BackgroundColor = e.background
	e.replace(doc)
}

// LoadDocument replaces the document wholesale with a copy of doc and makes
// its first layer active. An invalid document leaves the editor unchanged.
func (e *Editor) LoadDocument(doc Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("load document %q: %w", doc.ID, err)
	}
	e.replace(doc.Clone())
	return nil
}

// ApplyTemplate loads base, or starts a new document when base is nil.
func (e *Editor) ApplyTemplate(base *Document) error {
	if base == nil {
		e.NewDocument()
		return nil
	}
	return e.LoadDocument(*base)
}

func (e *Editor) replace(doc Document) {
	e.session.Cancel()
	// a save still in flight belongs to the document being replaced
	e.saves.Next()
	if doc.Layers == nil {
		doc.Layers = []Layer{}
	}
	e.doc = &doc
	e.layerID = ""
	if len(doc.Layers) > 0 {
		e.layerID = doc.Layers[0].ID
	}
	e.changed()
}

// Rename sets the document name.
func (e *Editor) Rename(name string) {
	if e.doc == nil || name == e.doc.Name {
		return
	}
	e.doc.Name = name
	e.changed()
}

// SetDocumentID records the id a persistence service assigned.
func (e *Editor) SetDocumentID(id string) {
	if e.doc == nil || id == "" {
		return
	}
	e.doc.ID = id
}

// BeginLoad numbers an asynchronous load whose result will be handed to
// ApplyResult. Issuing a new number makes all earlier loads stale.
func (e *Editor) BeginLoad() uint64 {
	return e.loads.Next()
}

// LoadCurrent reports whether seq is the latest load.
func (e *Editor) LoadCurrent(seq uint64) bool {
	return e.loads.Current(seq)
}

// BeginSave numbers an asynchronous save whose result will be handed to
// ApplySaved. Saves and loads are numbered independently.
func (e *Editor) BeginSave() uint64 {
	return e.saves.Next()
}

// ApplyResult applies the outcome of load seq. Results of superseded loads
// and failed loads leave the editor unchanged. It reports whether doc was
// loaded.
func (e *Editor) ApplyResult(seq uint64, doc *Document, err error) bool {
	if !e.loads.Current(seq) {
		e.log.Debug("dropping stale result", zap.Uint64("seq", seq))
		return false
	}
	if err != nil {
		e.log.Warn("request failed", zap.Uint64("seq", seq), zap.Error(err))
		return false
	}
	if doc == nil {
		return false
	}
	if err := e.LoadDocument(*doc); err != nil {
		e.log.Warn("rejecting loaded document", zap.Uint64("seq", seq), zap.Error(err))
		return false
	}
	return true
}

// ApplySaved records the id save seq was stored under. Stale or failed saves
// leave the editor unchanged. Replacing the document makes pending saves stale.
func (e *Editor) ApplySaved(seq uint64, id string, err error) bool {
	if !e.saves.Current(seq) {
		e.log.Debug("dropping stale save", zap.Uint64("seq", seq), zap.String("id", id))
		return false
	}
	if err != nil {
		e.log.Warn("save failed", zap.Uint64("seq", seq), zap.Error(err))
		return false
	}
	if e.doc == nil || id == "" {
		return false
	}
	e.SetDocumentID(id)
	return true
}

// ZoomIn and ZoomOut zoom around the middle of the canvas.
func (e *Editor) ZoomIn()  { e.zoom(e.zoomStep, e.screenMiddle()) }
func (e *Editor) ZoomOut() { e.zoom(1/e.zoomStep, e.screenMiddle()) }

// WheelZoom zooms around pivot, in for positive steps and out for negative.
func (e *Editor) WheelZoom(steps float64, pivot Point) {
	switch {
	case steps > 0:
		e.zoom(e.wheelStep, pivot)
	case steps < 0:
		e.zoom(1/e.wheelStep, pivot)
	}
}

func (e *Editor) Pan(delta Point) {
	e.view = e.view.Pan(delta)
	e.changed()
}

func (e *Editor) ResetView() {
	e.view = e.view.Reset()
	e.changed()
}

func (e *Editor) zoom(factor float64, pivot Point) {
	e.view = e.view.Zoom(factor, pivot, e.CanvasCenter())
	e.changed()
}

func (e *Editor) screenMiddle() Point {
	return Point{X: e.canvasW / 2, Y: e.canvasH / 2}
}

func orDefault(v, def float64) float64 {
	if v > 0 && !math.IsInf(v, 0) {
		return v
	}
	return def
}
