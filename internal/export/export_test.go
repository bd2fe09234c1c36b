package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"emojiforge/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func redDot(opacity float64, visible bool) state.Document {
	doc := state.NewDocument()
	doc.ID = "dot"
	doc.Name = "Red Dot"
	l := state.NewLayer("dot")
	l.ID = "dot"
	l.Opacity = opacity
	l.Visible = visible
	l.Elements = state.Elements{state.NewCircle(state.Point{X: 64, Y: 64}, 32, "#FF0000", "none", 0)}
	doc.Layers = []state.Layer{l}
	return doc
}

func assertColorNear(t *testing.T, want color.NRGBA, img image.Image, x, y int) {
	t.Helper()
	got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	assert.InDelta(t, want.R, got.R, 3, "R at %d,%d", x, y)
	assert.InDelta(t, want.G, got.G, 3, "G at %d,%d", x, y)
	assert.InDelta(t, want.B, got.B, 3, "B at %d,%d", x, y)
	assert.InDelta(t, want.A, got.A, 3, "A at %d,%d", x, y)
}

var (
	yellow = color.NRGBA{0xFF, 0xE6, 0x6D, 0xFF}
	red    = color.NRGBA{0xFF, 0x00, 0x00, 0xFF}
)

func TestRasterizeComposites(t *testing.T) {
	tests := []struct {
		name    string
		doc     state.Document
		wantMid color.NRGBA
	}{
		{"opaque", redDot(1, true), red},
		{"half", redDot(0.5, true), color.NRGBA{0xFF, 0x73, 0x37, 0xFF}},
		{"hidden", redDot(1, false), yellow},
		{"transparent", redDot(0, true), yellow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Rasterize(tt.doc, 64)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
			assertColorNear(t, tt.wantMid, img, 32, 32)
			assertColorNear(t, yellow, img, 2, 2)
		})
	}
}

func TestRasterizeStrokesPaths(t *testing.T) {
	doc := state.NewDocument()
	l := state.NewLayer("line")
	l.Elements = state.Elements{
		state.NewFreehandPath([]state.Point{{X: 0, Y: 64}, {X: 128, Y: 64}}, "#000000", 8),
		state.NewFreehandPath([]state.Point{{X: 10, Y: 10}}, "#000000", 8),
	}
	doc.Layers = []state.Layer{l}

	img, err := Rasterize(doc, 128)
	require.NoError(t, err)
	assertColorNear(t, color.NRGBA{A: 0xFF}, img, 64, 64)
	assertColorNear(t, yellow, img, 64, 20)
	assertColorNear(t, yellow, img, 10, 10)
}

func TestRasterizeRejectsBadInput(t *testing.T) {
	_, err := Rasterize(redDot(1, true), 0)
	assert.True(t, errors.Is(err, ErrInvalidSize))

	_, err = Rasterize(redDot(1, true), MaxSize+1)
	assert.True(t, errors.Is(err, ErrInvalidSize))

	doc := redDot(1, true)
	doc.Width = 0
	_, err = Rasterize(doc, 32)
	assert.True(t, errors.Is(err, state.ErrInvalidDocument))
}

func TestPreviews(t *testing.T) {
	imgs, err := Previews(context.Background(), redDot(1, true), PreviewSizes)
	require.NoError(t, err)
	require.Len(t, imgs, len(PreviewSizes))
	for _, s := range PreviewSizes {
		assert.Equal(t, image.Rect(0, 0, s, s), imgs[s].Bounds())
		assertColorNear(t, red, imgs[s], s/2, s/2)
	}

	_, err = Previews(context.Background(), redDot(1, true), []int{16, -1})
	assert.True(t, errors.Is(err, ErrInvalidSize))

	imgs, err = Previews(context.Background(), redDot(1, true), nil)
	require.NoError(t, err)
	assert.Empty(t, imgs)
}

func TestPDFRender(t *testing.T) {
	e := NewPDFExporter(zaptest.NewLogger(t))
	doc := redDot(0.5, true)
	doc.Layers[0].Elements = append(doc.Layers[0].Elements,
		state.NewRectangle(state.Point{X: 10, Y: 10}, 20, 30, "none", "#000000", 2),
		state.NewFreehandPath([]state.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 9, Y: 2}}, "#4ECDC4", 3),
	)

	out, err := e.Render(context.Background(), doc, 64)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	_, err = e.Render(context.Background(), doc, -4)
	assert.True(t, errors.Is(err, ErrInvalidSize))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Render(ctx, doc, 64)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPDFWriteFile(t *testing.T) {
	e := NewPDFExporter(nil)
	path := filepath.Join(t.TempDir(), Filename("Red Dot", 32))

	require.NoError(t, e.WriteFile(context.Background(), path, redDot(1, true), 32))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Happy Face-128x128.pdf", Filename("Happy Face", 128))
	assert.Equal(t, "emoji-16x16.pdf", Filename("  ", 16))
	assert.Equal(t, "a-b-32x32.pdf", Filename("a/b", 32))
}
