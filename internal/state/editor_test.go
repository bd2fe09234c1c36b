package state

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// With a 400x400 canvas and a 128x128 document the document origin sits at
// screen (136,136) until the view is panned or zoomed.
var origin = Point{136, 136}

func newTestEditor(t *testing.T, opts Options) *Editor {
	t.Helper()
	opts.Logger = zaptest.NewLogger(t)
	opts.CanvasWidth, opts.CanvasHeight = 400, 400
	return NewEditor(opts)
}

func screen(p Point) Point { return origin.Add(p) }

func TestEditorBrushCommit(t *testing.T) {
	ed := newTestEditor(t, Options{Color: "#4ecdc4", BrushSize: 6})
	require.NoError(t, ed.LoadDocument(sampleDocument()))
	ed.SelectLayer("mouth")
	ed.SelectTool(ToolBrush)

	ed.OnPointerDown(screen(Point{10, 20}))
	ed.OnPointerMove(screen(Point{30, 40}))
	assert.Equal(t, Accumulating, ed.Gesture())
	ed.OnPointerUp()
	assert.Equal(t, Idle, ed.Gesture())

	doc, ok := ed.Document()
	require.True(t, ok)
	mouth, _ := doc.Layer("mouth")
	require.Len(t, mouth.Elements, 2)
	assert.Equal(t, NewFreehandPath([]Point{{10, 20}, {30, 40}}, "#4ECDC4", 6), mouth.Elements[1])
}

func TestEditorCircleCommitUnderZoom(t *testing.T) {
	ed := newTestEditor(t, Options{})
	require.NoError(t, ed.LoadDocument(sampleDocument()))
	ed.SelectTool(ToolCircle)
	ed.ZoomIn()
	ed.Pan(Point{15, -8})

	ed.OnPointerDown(ed.ToScreen(Point{0, 0}))
	ed.OnPointerMove(ed.ToScreen(Point{3, 4}))
	ed.OnPointerUp()

	doc, _ := ed.Document()
	face, _ := doc.Layer("face")
	require.Len(t, face.Elements, 2)
	c := face.Elements[1].(Circle)
	assertPointNear(t, Point{0, 0}, c.Center, 1e-9)
	assert.InDelta(t, 5.0, c.Radius, 1e-9)
}

func TestEditorCommitWithoutLayerIsDiscarded(t *testing.T) {
	var discarded []Tool
	ed := newTestEditor(t, Options{OnDiscard: func(tool Tool) { discarded = append(discarded, tool) }})
	require.NoError(t, ed.LoadDocument(sampleDocument()))
	ed.SelectLayer("")
	before, _ := ed.Document()

	ed.SelectTool(ToolRectangle)
	ed.OnPointerDown(screen(Point{1, 1}))
	ed.OnPointerMove(screen(Point{20, 20}))
	ed.OnPointerUp()

	after, _ := ed.Document()
	assert.Empty(t, cmp.Diff(before, after))
	assert.Equal(t, Idle, ed.Gesture())
	assert.Equal(t, []Tool{ToolRectangle}, discarded)
	assert.Equal(t, 1, ed.DiscardedCommits())
}

func TestEditorWithoutDocumentIgnoresPointer(t *testing.T) {
	ed := newTestEditor(t, Options{})
	ed.SelectTool(ToolBrush)
	ed.OnPointerDown(screen(Point{}))
	assert.Equal(t, Idle, ed.Gesture())
	ed.OnPointerUp()
	assert.Equal(t, 0, ed.DiscardedCommits())
	_, ok := ed.ApplyLayerOp(AddLayerOp{Layer: NewLayer("x")})
	assert.False(t, ok)
}

func TestEditorSelectToolCancelsGesture(t *testing.T) {
	ed := newTestEditor(t, Options{})
	ed.NewDocument()
	ed.ApplyLayerOp(AddLayerOp{Layer: NewLayer("")})
	ed.SelectTool(ToolBrush)
	ed.OnPointerDown(screen(Point{}))
	ed.SelectTool(ToolSelect)
	assert.Equal(t, Idle, ed.Gesture())
	ed.OnPointerUp()

	doc, _ := ed.Document()
	assert.Empty(t, doc.Layers[0].Elements)
}

func TestEditorCancelGesture(t *testing.T) {
	ed := newTestEditor(t, Options{})
	require.NoError(t, ed.LoadDocument(sampleDocument()))
	before, _ := ed.Document()
	ed.SelectTool(ToolLine)
	ed.OnPointerDown(screen(Point{}))
	ed.OnPointerMove(screen(Point{5, 5}))
	_, pending := ed.Pending()
	assert.True(t, pending)
	ed.CancelGesture()
	ed.OnPointerUp()

	after, _ := ed.Document()
	assert.Empty(t, cmp.Diff(before, after))
}

func TestEditorClampsInput(t *testing.T) {
	ed := newTestEditor(t, Options{})
	for _, tt := range []struct{ in, want int }{{0, 1}, {-4, 1}, {51, 50}, {25, 25}} {
		ed.SetBrushSize(tt.in)
		assert.Equal(t, tt.want, ed.BrushSize())
	}

	ed.SetColor("#abc")
	assert.Equal(t, "#AABBCC", ed.Color())
	ed.SetColor("tomato")
	assert.Equal(t, "#AABBCC", ed.Color())

	ed.SelectTool(Tool("lasso"))
	assert.Equal(t, ToolSelect, ed.Tool())

	for i := 0; i < 50; i++ {
		ed.ZoomIn()
	}
	assert.Equal(t, MaxScale, ed.Viewport().Scale)
	for i := 0; i < 100; i++ {
		ed.WheelZoom(-1, Point{3, 3})
	}
	assert.Equal(t, MinScale, ed.Viewport().Scale)
	ed.ResetView()
	assert.Equal(t, NewViewport(), ed.Viewport())
}

func TestEditorSelectLayerIgnoresUnknown(t *testing.T) {
	ed := newTestEditor(t, Options{})
	require.NoError(t, ed.LoadDocument(sampleDocument()))
	id, ok := ed.ActiveLayer()
	require.True(t, ok)
	assert.Equal(t, "face", id)

	ed.SelectLayer("ghost")
	id, _ = ed.ActiveLayer()
	assert.Equal(t, "face", id)

	ed.SelectLayer("")
	_, ok = ed.ActiveLayer()
	assert.False(t, ok)
}

func TestEditorLayerOpsMoveSelection(t *testing.T) {
	ed := newTestEditor(t, Options{})
	ed.NewDocument()
	_, ok := ed.ActiveLayer()
	assert.False(t, ok)

	doc, ok := ed.ApplyLayerOp(AddLayerOp{Layer: NewLayer("")})
	require.True(t, ok)
	require.Len(t, doc.Layers, 1)
	assert.Equal(t, "Layer 1", doc.Layers[0].Name)
	first := doc.Layers[0].ID

	doc, _ = ed.ApplyLayerOp(AddLayerOp{Layer: NewLayer("")})
	second := doc.Layers[1].ID
	assert.Equal(t, "Layer 2", doc.Layers[1].Name)
	active, _ := ed.ActiveLayer()
	assert.Equal(t, second, active)

	doc, _ = ed.ApplyLayerOp(SetOpacityOp{LayerID: second, Opacity: 1.5})
	assert.Equal(t, 1.0, doc.Layers[1].Opacity)
	doc, _ = ed.ApplyLayerOp(SetOpacityOp{LayerID: second, Opacity: -0.2})
	assert.Equal(t, 0.0, doc.Layers[1].Opacity)
	doc, _ = ed.ApplyLayerOp(SetVisibilityOp{LayerID: first, Visible: false})
	assert.False(t, doc.Layers[0].Visible)

	ed.ApplyLayerOp(RemoveLayerOp{LayerID: second})
	active, _ = ed.ActiveLayer()
	assert.Equal(t, first, active)

	ed.ApplyLayerOp(ReorderLayersOp{LayerIDs: nil})
	_, ok = ed.ActiveLayer()
	assert.False(t, ok)
}

func TestEditorEraser(t *testing.T) {
	ed := newTestEditor(t, Options{})
	require.NoError(t, ed.LoadDocument(sampleDocument()))
	ed.SelectLayer("eyes")
	ed.SelectTool(ToolEraser)

	ed.OnPointerDown(screen(Point{120, 120}))
	doc, _ := ed.Document()
	eyes, _ := doc.Layer("eyes")
	assert.Len(t, eyes.Elements, 2, "no target, nothing erased")

	ed.OnPointerDown(screen(Point{84, 52}))
	ed.OnPointerUp()
	doc, _ = ed.Document()
	eyes, _ = doc.Layer("eyes")
	require.Len(t, eyes.Elements, 1)
	assert.Equal(t, Point{44, 50}, eyes.Elements[0].(Circle).Center)
	assert.Equal(t, Idle, ed.Gesture())
}

func TestEditorDocumentIsACopy(t *testing.T) {
	ed := newTestEditor(t, Options{})
	src := sampleDocument()
	require.NoError(t, ed.LoadDocument(src))
	src.Layers[0].Name = "changed"

	doc, _ := ed.Document()
	assert.Equal(t, "Face", doc.Layers[0].Name)
	doc.Layers[0].Name = "changed again"
	again, _ := ed.Document()
	assert.Equal(t, "Face", again.Layers[0].Name)
}

func TestEditorApplyTemplate(t *testing.T) {
	ed := newTestEditor(t, Options{Background: "#4ECDC4"})
	require.NoError(t, ed.ApplyTemplate(nil))
	doc, _ := ed.Document()
	assert.Equal(t, "New Emoji", doc.Name)
	assert.Equal(t, "#4ECDC4", doc.BackgroundColor)
	assert.Empty(t, doc.Layers)

	base := sampleDocument()
	require.NoError(t, ed.ApplyTemplate(&base))
	active, _ := ed.ActiveLayer()
	assert.Equal(t, "face", active)

	bad := sampleDocument()
	bad.Height = 0
	assert.Error(t, ed.ApplyTemplate(&bad))
	doc, _ = ed.Document()
	assert.Equal(t, "smiley", doc.ID)
}

func TestEditorDropsStaleResults(t *testing.T) {
	ed := newTestEditor(t, Options{})
	older := ed.BeginLoad()
	newer := ed.BeginLoad()

	stale := sampleDocument()
	stale.ID = "stale"
	fresh := sampleDocument()
	fresh.ID = "fresh"

	assert.True(t, ed.ApplyResult(newer, &fresh, nil))
	assert.False(t, ed.ApplyResult(older, &stale, nil))
	doc, _ := ed.Document()
	assert.Equal(t, "fresh", doc.ID)

	failed := ed.BeginLoad()
	assert.False(t, ed.ApplyResult(failed, nil, errors.New("boom")))
	doc, _ = ed.Document()
	assert.Equal(t, "fresh", doc.ID)
}

func TestEditorApplySaved(t *testing.T) {
	ed := newTestEditor(t, Options{})
	assert.False(t, ed.ApplySaved(ed.BeginSave(), "x", nil), "no document")

	ed.NewDocument()
	save := ed.BeginSave()
	assert.False(t, ed.ApplySaved(save, "", errors.New("disk full")))
	assert.True(t, ed.ApplySaved(save, "saved-1", nil))
	doc, _ := ed.Document()
	assert.Equal(t, "saved-1", doc.ID)

	stale := ed.BeginSave()
	ed.BeginSave()
	assert.False(t, ed.ApplySaved(stale, "saved-2", nil))
	doc, _ = ed.Document()
	assert.Equal(t, "saved-1", doc.ID)
}

func TestEditorLoadsAndSavesAreNumberedIndependently(t *testing.T) {
	ed := newTestEditor(t, Options{})
	ed.NewDocument()

	save := ed.BeginSave()
	load := ed.BeginLoad()
	assert.True(t, ed.ApplySaved(save, "saved-1", nil), "starting a load keeps the save current")
	other := sampleDocument()
	other.ID = "other"
	assert.True(t, ed.ApplyResult(load, &other, nil))
	doc, _ := ed.Document()
	assert.Equal(t, "other", doc.ID)

	load = ed.BeginLoad()
	save = ed.BeginSave()
	opened := sampleDocument()
	opened.ID = "opened"
	assert.True(t, ed.ApplyResult(load, &opened, nil), "starting a save keeps the load current")
	assert.False(t, ed.ApplySaved(save, "saved-2", nil), "the saved document was replaced")
	doc, _ = ed.Document()
	assert.Equal(t, "opened", doc.ID)
}

func TestRequestClockConcurrent(t *testing.T) {
	var (
		c  RequestClock
		wg sync.WaitGroup
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Next()
		}()
	}
	wg.Wait()
	assert.True(t, c.Current(64))
	assert.False(t, c.Current(63))
	assert.False(t, c.Current(0))
}

func TestEditorNotifiesSubscribers(t *testing.T) {
	ed := newTestEditor(t, Options{})
	calls := 0
	ed.Subscribe(func() { calls++ })
	ed.NewDocument()
	ed.SetBrushSize(3)
	assert.Equal(t, 2, calls)
}
