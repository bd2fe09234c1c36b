package ui

import (
	"bytes"
	"context"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emojiforge/internal/export"
	"emojiforge/internal/palette"
	"emojiforge/internal/state"
	"emojiforge/internal/store"
)

func syncRunner(fn func()) { fn() }

func TestToolPanel(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ed := newInkEditor(t)
	recent := palette.NewRecent(palette.DefaultRecentSize)
	p := NewToolPanel(ed, recent)
	ed.Subscribe(p.Refresh)

	test.Tap(p.buttons[state.ToolCircle])
	assert.Equal(t, state.ToolCircle, ed.Tool())
	assert.Equal(t, widget.HighImportance, p.buttons[state.ToolCircle].Importance)
	assert.Equal(t, widget.MediumImportance, p.buttons[state.ToolSelect].Importance)

	test.Tap(newColorSwatch("#4ecdc4", p.pickColor))
	assert.Equal(t, "#4ECDC4", ed.Color())
	assert.Equal(t, []string{"#4ECDC4"}, recent.Colors())
	assert.Len(t, p.recentBox.Objects, 1)

	p.hue.SetValue(120)
	assert.Equal(t, "#00FF00", p.customHex())

	p.brush.OnChanged(20)
	assert.Equal(t, 20, ed.BrushSize())
	ed.SetBrushSize(99)
	assert.Equal(t, float64(state.MaxBrushSize), p.brush.Value)
}

func TestToolLabel(t *testing.T) {
	assert.Equal(t, "Rectangle", toolLabel(state.ToolRectangle))
}

func TestLayerPanel(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ed := state.NewEditor(state.Options{})
	p := NewLayerPanel(ed, nil)
	ed.Subscribe(p.Refresh)
	assert.True(t, p.addBtn.Disabled())

	ed.NewDocument()
	assert.False(t, p.addBtn.Disabled())

	test.Tap(p.addBtn)
	test.Tap(p.addBtn)
	doc, _ := ed.Document()
	require.Len(t, doc.Layers, 2)
	assert.Equal(t, "Layer 1", doc.Layers[0].Name)
	assert.Equal(t, "Layer 2", doc.Layers[1].Name)
	active, _ := ed.ActiveLayer()
	assert.Equal(t, doc.Layers[1].ID, active)
	assert.Len(t, p.rows.Objects, 2)

	ed.ApplyLayerOp(state.RemoveLayerOp{LayerID: active})
	assert.Len(t, p.rows.Objects, 1)
}

func TestTemplateGallery(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	catalog, err := store.NewCatalog()
	require.NoError(t, err)
	g := NewTemplateGallery(catalog)
	assert.Len(t, g.Results(), len(catalog.List()))
	assert.Len(t, g.featured.Objects, len(catalog.Featured()))

	g.category.SetSelected("animals")
	g.Refresh()
	assert.Equal(t, []string{"cat"}, templateIDs(g.Results()))
	assert.Len(t, g.results.Objects, 1)

	g.category.SetSelected(store.CategoryAll)
	g.search.SetText("WINK")
	assert.Equal(t, []string{"wink"}, templateIDs(g.Results()))

	g.search.SetText("nothing like this")
	g.Refresh()
	assert.Empty(t, g.Results())
	assert.Equal(t, "No templates match", g.count.Text)

	var picked string
	g.OnSelect = func(tpl store.Template) { picked = tpl.ID }
	g.search.SetText("")
	g.category.SetSelected("objects")
	require.NotEmpty(t, g.Results())
	g.OnSelect(g.Results()[0])
	assert.Equal(t, g.Results()[0].ID, picked)
}

func templateIDs(ts []store.Template) []string {
	ids := make([]string, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}

func TestPreviewPanel(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ed := state.NewEditor(state.Options{})
	p := NewPreviewPanel(ed, nil, []int{32, 16}, []int{64, 128})
	p.background, p.apply = syncRunner, syncRunner
	ed.Subscribe(p.Refresh)
	assert.True(t, p.exportBtn.Disabled())
	assert.Empty(t, p.images.Objects)

	ed.NewDocument()
	assert.False(t, p.exportBtn.Disabled())
	assert.Len(t, p.images.Objects, 2)

	size, ok := p.SelectedSize()
	assert.True(t, ok)
	assert.Equal(t, 128, size)

	var exported int
	p.OnExport = func(s int) { exported = s }
	p.sizeSelect.SetSelectedIndex(0)
	test.Tap(p.exportBtn)
	assert.Equal(t, 64, exported)
}

func TestPreviewPanelDropsStaleRenders(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ed := state.NewEditor(state.Options{})
	p := NewPreviewPanel(ed, nil, []int{16}, []int{16})
	var queued []func()
	p.background = func(fn func()) { queued = append(queued, fn) }
	p.apply = syncRunner

	ed.NewDocument()
	p.Refresh()
	p.Refresh()
	require.Len(t, queued, 2)
	queued[0]()
	assert.Empty(t, p.images.Objects, "superseded render is dropped")
	queued[1]()
	assert.Len(t, p.images.Objects, 1)
}

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closingBuffer) Close() error {
	b.closed = true
	return nil
}

func TestExportPDF(t *testing.T) {
	var buf closingBuffer
	doc := state.NewDocument()
	require.NoError(t, ExportPDF(context.Background(), export.NewPDFExporter(nil), &buf, doc, 32))
	assert.True(t, buf.closed)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	var bad closingBuffer
	assert.ErrorIs(t, ExportPDF(context.Background(), export.NewPDFExporter(nil), &bad, doc, 0), export.ErrInvalidSize)
	assert.True(t, bad.closed)
}
