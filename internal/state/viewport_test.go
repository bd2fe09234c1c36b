package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func assertPointNear(t *testing.T, want, got Point, tol float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
}

func TestViewportRoundTrip(t *testing.T) {
	center := Point{136, 136}
	screens := []Point{{0, 0}, {136, 136}, {399.5, 12.25}, {-50, 1e4}}
	for _, scale := range []float64{MinScale, 0.37, 1, 2.5, MaxScale} {
		v := Viewport{Scale: scale, Offset: Point{-17.5, 42}}
		for _, s := range screens {
			doc := v.ToDocumentSpace(s, center)
			assertPointNear(t, s, v.ToScreenSpace(doc, center), 1e-6)
		}
	}
}

func TestToDocumentSpace(t *testing.T) {
	v := Viewport{Scale: 2, Offset: Point{10, 20}}
	got := v.ToDocumentSpace(Point{146, 156}, Point{100, 100})
	assertPointNear(t, Point{18, 18}, got, eps)
}

func TestZoomClamps(t *testing.T) {
	tests := []struct {
		name   string
		start  float64
		factor float64
		want   float64
	}{
		{"in", 1, 1.2, 1.2},
		{"out", 1, 0.5, 0.5},
		{"past max", 4, 10, MaxScale},
		{"past min", 0.2, 0.01, MinScale},
		{"at max", MaxScale, 1.2, MaxScale},
		{"at min", MinScale, 1 / 1.2, MinScale},
		{"zero factor", 2, 0, 2},
		{"negative factor", 2, -3, 2},
		{"nan factor", 2, math.NaN(), 2},
		{"inf factor", 2, math.Inf(1), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Viewport{Scale: tt.start}.Zoom(tt.factor, Point{200, 200}, Point{136, 136})
			assert.InDelta(t, tt.want, v.Scale, eps)
			assert.False(t, math.IsNaN(v.Offset.X) || math.IsNaN(v.Offset.Y))
		})
	}
}

func TestZoomKeepsPivot(t *testing.T) {
	center := Point{136, 136}
	pivot := Point{250, 90}
	v := Viewport{Scale: 1.3, Offset: Point{12, -7}}
	before := v.ToDocumentSpace(pivot, center)
	for _, f := range []float64{1.2, 1 / 1.2, 3, 100, 0.001} {
		v = v.Zoom(f, pivot, center)
		assertPointNear(t, before, v.ToDocumentSpace(pivot, center), 1e-9)
	}
}

func TestZoomInOutRestoresScale(t *testing.T) {
	center := Point{136, 136}
	v := NewViewport()
	for i := 0; i < 5; i++ {
		v = v.Zoom(1.2, Point{10, 300}, center)
	}
	for i := 0; i < 5; i++ {
		v = v.Zoom(1/1.2, Point{10, 300}, center)
	}
	assert.InDelta(t, 1.0, v.Scale, 1e-9)
	assertPointNear(t, Point{}, v.Offset, 1e-9)
}

func TestZeroViewportIsUsable(t *testing.T) {
	var v Viewport
	got := v.ToDocumentSpace(Point{10, 10}, Point{})
	assertPointNear(t, Point{10, 10}, got, eps)
	assert.Equal(t, 100, v.Percent())
}

func TestPanAndReset(t *testing.T) {
	v := Viewport{Scale: 2, Offset: Point{1, 1}}.Pan(Point{-1e6, 5})
	assertPointNear(t, Point{-1e6 + 1, 6}, v.Offset, eps)
	assert.Equal(t, NewViewport(), v.Reset())
}

func TestCanvasCenter(t *testing.T) {
	assert.Equal(t, Point{136, 136}, CanvasCenter(400, 400, 128, 128))
}
