package state

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Point is a position in document-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Tool identifies what a pointer gesture does on the canvas.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolBrush     Tool = "brush"
	ToolCircle    Tool = "circle"
	ToolRectangle Tool = "rectangle"
	ToolLine      Tool = "line"
	ToolText      Tool = "text"
	ToolEraser    Tool = "eraser"
)

// Tools lists every tool in palette order.
var Tools = []Tool{ToolSelect, ToolBrush, ToolCircle, ToolRectangle, ToolLine, ToolText, ToolEraser}

// Draws reports whether a gesture with this tool produces a new element.
func (t Tool) Draws() bool {
	switch t {
	case ToolBrush, ToolCircle, ToolRectangle, ToolLine:
		return true
	}
	return false
}

// ParseTool maps a tool name to a Tool. Unknown names map to ToolSelect.
func ParseTool(name string) (Tool, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range Tools {
		if string(t) == name {
			return t, true
		}
	}
	return ToolSelect, false
}

// Transform is the layer placement applied when rendering.
type Transform struct {
	TranslateX float64 `json:"x"`
	TranslateY float64 `json:"y"`
	Rotation   float64 `json:"rotation"`
	ScaleX     float64 `json:"scaleX"`
	ScaleY     float64 `json:"scaleY"`
}

// IdentityTransform places a layer at the document origin without rotation or scaling.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Apply maps a layer-local point into document space: scale, then rotate
// (degrees, clockwise on screen) and translate. A zero scale component is
// read as 1 so documents saved without a transform still render.
func (t Transform) Apply(p Point) Point {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	x, y := p.X*sx, p.Y*sy
	if t.Rotation != 0 {
		sin, cos := math.Sincos(t.Rotation * math.Pi / 180)
		x, y = x*cos-y*sin, x*sin+y*cos
	}
	return Point{X: x + t.TranslateX, Y: y + t.TranslateY}
}

// LinearScale is the factor lengths such as radii and stroke widths grow by.
func (t Transform) LinearScale() float64 {
	sx, sy := math.Abs(t.ScaleX), math.Abs(t.ScaleY)
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return math.Sqrt(sx * sy)
}

// Layer is a named group of elements. Elements are in paint order: later is on top.
type Layer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Visible   bool      `json:"visible"`
	Opacity   float64   `json:"opacity"`
	Elements  Elements  `json:"elements"`
	Transform Transform `json:"transform"`
}

// NewLayer returns a visible, fully opaque, empty layer with a fresh id.
func NewLayer(name string) Layer {
	return Layer{
		ID:        NewID(),
		Name:      name,
		Visible:   true,
		Opacity:   1,
		Elements:  Elements{},
		Transform: IdentityTransform(),
	}
}

// Clone returns a copy of the layer that shares no mutable memory with l.
func (l Layer) Clone() Layer {
	c := l
	c.Elements = make(Elements, len(l.Elements))
	for i, e := range l.Elements {
		c.Elements[i] = cloneElement(e)
	}
	return c
}

// Document is a complete emoji. Layers are in z-order, back to front.
type Document struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	BackgroundColor string  `json:"backgroundColor"`
	Layers          []Layer `json:"layers"`
}

const (
	DefaultDocumentSize    = 128
	DefaultBackgroundColor = "#FFE66D"
	DefaultDocumentName    = "New Emoji"
	DefaultDocumentID      = "new"
	LayerNameFormat        = "Layer %d"
)

// NewDocument returns an empty document with the editor defaults.
func NewDocument() Document {
	return Document{
		ID:              DefaultDocumentID,
		Name:            DefaultDocumentName,
		Width:           DefaultDocumentSize,
		Height:          DefaultDocumentSize,
		BackgroundColor: DefaultBackgroundColor,
		Layers:          []Layer{},
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	c := d
	c.Layers = make([]Layer, len(d.Layers))
	for i, l := range d.Layers {
		c.Layers[i] = l.Clone()
	}
	return c
}

// Layer returns the layer with the given id.
func (d Document) Layer(id string) (Layer, bool) {
	if i := d.layerIndex(id); i >= 0 {
		return d.Layers[i], true
	}
	return Layer{}, false
}

// LayerIDs returns the layer ids in z-order.
func (d Document) LayerIDs() []string {
	ids := make([]string, len(d.Layers))
	for i, l := range d.Layers {
		ids[i] = l.ID
	}
	return ids
}

func (d Document) layerIndex(id string) int {
	for i, l := range d.Layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// NewID returns a fresh unique identifier for layers and documents.
func NewID() string {
	return uuid.NewString()
}
