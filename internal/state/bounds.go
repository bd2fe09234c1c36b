package state

import "math"

// Rect is an axis-aligned area in document coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRect returns the rectangle spanned by two opposite corners.
func NewRect(x1, y1, x2, y2 float64) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// BoundingRect returns the smallest rectangle containing every point.
func BoundingRect(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return NewRect(minX, minY, maxX, maxY)
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

func (r Rect) Overlaps(o Rect) bool {
	return !(r.X+r.Width < o.X || o.X+o.Width < r.X ||
		r.Y+r.Height < o.Y || o.Y+o.Height < r.Y)
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return NewRect(
		math.Min(r.X, o.X), math.Min(r.Y, o.Y),
		math.Max(r.X+r.Width, o.X+o.Width), math.Max(r.Y+r.Height, o.Y+o.Height),
	)
}

// Inset shrinks the rectangle by d on every side. A negative d grows it.
// The result never has a negative size.
func (r Rect) Inset(d float64) Rect {
	w, h := r.Width-2*d, r.Height-2*d
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: r.X + (r.Width-w)/2, Y: r.Y + (r.Height-h)/2, Width: w, Height: h}
}

// Bounds returns the union of the painted areas of every element in the layer.
func (l Layer) Bounds() (Rect, bool) {
	var (
		out   Rect
		found bool
	)
	for _, e := range l.Elements {
		b, ok := e.Bounds()
		if !ok {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// HitElement returns the index of the topmost element under p, or -1.
func (l Layer) HitElement(p Point, tolerance float64) int {
	for i := len(l.Elements) - 1; i >= 0; i-- {
		if l.Elements[i].HitTest(p, tolerance) {
			return i
		}
	}
	return -1
}
