package state

import "math"

// Zoom limits for Viewport.Scale.
const (
	MinScale = 0.1
	MaxScale = 5.0
)

// Viewport is the pan/zoom transform between document and screen space:
//
//	screen = offset + canvasCenter + scale*document
//
// canvasCenter is the screen position of the document origin at scale 1 with
// no pan. Viewport is a value; every operation returns a new one.
type Viewport struct {
	Scale  float64 `json:"scale"`
	Offset Point   `json:"offset"`
}

// NewViewport returns the identity view.
func NewViewport() Viewport {
	return Viewport{Scale: 1}
}

// CanvasCenter returns the screen position that centers a document of size
// docW x docH on a canvas of size canvasW x canvasH.
func CanvasCenter(canvasW, canvasH, docW, docH float64) Point {
	return Point{X: (canvasW - docW) / 2, Y: (canvasH - docH) / 2}
}

// ToDocumentSpace maps a screen position to document coordinates.
func (v Viewport) ToDocumentSpace(screen, canvasCenter Point) Point {
	v = v.normalized()
	return screen.Sub(v.Offset).Sub(canvasCenter).Scale(1 / v.Scale)
}

// ToScreenSpace maps a document position to screen coordinates.
func (v Viewport) ToScreenSpace(doc, canvasCenter Point) Point {
	v = v.normalized()
	return v.Offset.Add(canvasCenter).Add(doc.Scale(v.Scale))
}

// Zoom multiplies the scale by factor, clamped to [MinScale, MaxScale], and
// moves the offset so that pivot shows the same document point before and
// after. Factors that are not positive finite numbers leave the view as is.
func (v Viewport) Zoom(factor float64, pivot, canvasCenter Point) Viewport {
	v = v.normalized()
	if !(factor > 0) || math.IsInf(factor, 0) {
		return v
	}
	anchor := v.ToDocumentSpace(pivot, canvasCenter)
	scale := clampScale(v.Scale * factor)
	return Viewport{
		Scale:  scale,
		Offset: pivot.Sub(canvasCenter).Sub(anchor.Scale(scale)),
	}
}

// Pan moves the view by delta screen units.
func (v Viewport) Pan(delta Point) Viewport {
	v = v.normalized()
	v.Offset = v.Offset.Add(delta)
	return v
}

func (v Viewport) Reset() Viewport {
	return NewViewport()
}

// Percent is the zoom level rounded to whole percent.
func (v Viewport) Percent() int {
	return int(math.Round(v.normalized().Scale * 100))
}

// normalized repairs a zero or corrupt scale so the transform stays invertible.
func (v Viewport) normalized() Viewport {
	if !(v.Scale > 0) || math.IsInf(v.Scale, 0) {
		v.Scale = 1
	}
	v.Scale = clampScale(v.Scale)
	return v
}

func clampScale(s float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, s))
}
