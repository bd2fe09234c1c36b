package state

import (
	"encoding/json"
	"fmt"
	"math"
)

// ElementKind tags the concrete shape held by an Element.
type ElementKind string

const (
	KindCircle    ElementKind = "circle"
	KindRectangle ElementKind = "rect"
	KindPath      ElementKind = "path"
)

// Element is one drawable shape. The concrete type is one of Circle, Rectangle
// or FreehandPath.
type Element interface {
	Kind() ElementKind
	// Bounds returns the painted area including half the stroke width.
	// Paths with fewer than two points paint nothing and report false.
	Bounds() (Rect, bool)
	// HitTest reports whether p lies on the painted area, widened by tolerance.
	HitTest(p Point, tolerance float64) bool

	element()
}

// Circle is a filled, stroked circle.
type Circle struct {
	Center      Point   `json:"center"`
	Radius      float64 `json:"radius"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Rectangle is an axis-aligned rectangle anchored at its top-left corner.
type Rectangle struct {
	Origin      Point   `json:"origin"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// FreehandPath is an open polyline through Points.
type FreehandPath struct {
	Points      []Point `json:"points"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth"`
}

func (Circle) element()       {}
func (Rectangle) element()    {}
func (FreehandPath) element() {}

func (Circle) Kind() ElementKind       { return KindCircle }
func (Rectangle) Kind() ElementKind    { return KindRectangle }
func (FreehandPath) Kind() ElementKind { return KindPath }

// NewCircle builds a circle, clamping negative sizes to zero.
func NewCircle(center Point, radius float64, fill, stroke string, strokeWidth float64) Circle {
	return Circle{
		Center:      center,
		Radius:      nonNegative(radius),
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: nonNegative(strokeWidth),
	}
}

// NewRectangle builds a rectangle, clamping negative sizes to zero.
func NewRectangle(origin Point, width, height float64, fill, stroke string, strokeWidth float64) Rectangle {
	return Rectangle{
		Origin:      origin,
		Width:       nonNegative(width),
		Height:      nonNegative(height),
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: nonNegative(strokeWidth),
	}
}

// NewFreehandPath builds a path over a private copy of points.
func NewFreehandPath(points []Point, stroke string, strokeWidth float64) FreehandPath {
	return FreehandPath{
		Points:      append([]Point{}, points...),
		Stroke:      stroke,
		StrokeWidth: nonNegative(strokeWidth),
	}
}

// RectFromCorners returns the rectangle spanned by two opposite corners.
func RectFromCorners(a, b Point, fill, stroke string, strokeWidth float64) Rectangle {
	r := NewRect(a.X, a.Y, b.X, b.Y)
	return NewRectangle(Point{r.X, r.Y}, r.Width, r.Height, fill, stroke, strokeWidth)
}

func (c Circle) Bounds() (Rect, bool) {
	r := c.Radius + c.StrokeWidth/2
	return Rect{X: c.Center.X - r, Y: c.Center.Y - r, Width: 2 * r, Height: 2 * r}, true
}

func (c Circle) HitTest(p Point, tolerance float64) bool {
	return distance(c.Center, p) <= c.Radius+c.StrokeWidth/2+tolerance
}

func (r Rectangle) Bounds() (Rect, bool) {
	return Rect{X: r.Origin.X, Y: r.Origin.Y, Width: r.Width, Height: r.Height}.Inset(-r.StrokeWidth / 2), true
}

func (r Rectangle) HitTest(p Point, tolerance float64) bool {
	b, _ := r.Bounds()
	return b.Inset(-tolerance).Contains(p)
}

// Degenerate reports whether the path paints nothing.
func (f FreehandPath) Degenerate() bool { return len(f.Points) < 2 }

func (f FreehandPath) Bounds() (Rect, bool) {
	if f.Degenerate() {
		return Rect{}, false
	}
	return BoundingRect(f.Points).Inset(-f.StrokeWidth / 2), true
}

func (f FreehandPath) HitTest(p Point, tolerance float64) bool {
	if f.Degenerate() {
		return false
	}
	reach := f.StrokeWidth/2 + tolerance
	for i := 1; i < len(f.Points); i++ {
		if segmentDistance(p, f.Points[i-1], f.Points[i]) <= reach {
			return true
		}
	}
	return false
}

func cloneElement(e Element) Element {
	if f, ok := e.(FreehandPath); ok {
		f.Points = append([]Point{}, f.Points...)
		return f
	}
	return e
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func segmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return distance(p, a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return distance(p, a.Add(ab.Scale(t)))
}

// Elements is an ordered element list with a type-tagged JSON form.
type Elements []Element

type elementEnvelope struct {
	Type ElementKind `json:"type"`
}

func (es Elements) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(es))
	for i, e := range es {
		raw, err := marshalElement(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

func (es *Elements) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	decoded := make(Elements, 0, len(raws))
	for i, raw := range raws {
		e, err := unmarshalElement(raw)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		decoded = append(decoded, e)
	}
	*es = decoded
	return nil
}

func marshalElement(e Element) ([]byte, error) {
	switch v := e.(type) {
	case Circle:
		return json.Marshal(struct {
			Type ElementKind `json:"type"`
			Circle
		}{KindCircle, v})
	case Rectangle:
		return json.Marshal(struct {
			Type ElementKind `json:"type"`
			Rectangle
		}{KindRectangle, v})
	case FreehandPath:
		if v.Points == nil {
			v.Points = []Point{}
		}
		return json.Marshal(struct {
			Type ElementKind `json:"type"`
			FreehandPath
		}{KindPath, v})
	default:
		return nil, fmt.Errorf("unsupported element %T", e)
	}
}

func unmarshalElement(raw json.RawMessage) (Element, error) {
	var env elementEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Type {
	case KindCircle:
		var c Circle
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return NewCircle(c.Center, c.Radius, c.Fill, c.Stroke, c.StrokeWidth), nil
	case KindRectangle:
		var r Rectangle
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, err
		}
		return NewRectangle(r.Origin, r.Width, r.Height, r.Fill, r.Stroke, r.StrokeWidth), nil
	case KindPath:
		var f FreehandPath
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return NewFreehandPath(f.Points, f.Stroke, f.StrokeWidth), nil
	default:
		return nil, fmt.Errorf("unknown element type %q", env.Type)
	}
}
