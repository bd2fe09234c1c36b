// Package export renders Document snapshots for output: vector PDF files and
// raster previews. Rendering only reads the document it is given.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"emojiforge/internal/palette"
	"emojiforge/internal/state"
)

// MaxSize bounds the pixel size of a single render.
const MaxSize = 4096

var ErrInvalidSize = errors.New("invalid export size")

// Sizes are the pixel sizes offered for export.
var Sizes = []int{16, 32, 64, 128, 256}

// PreviewSizes are the sizes shown in the preview panel.
var PreviewSizes = []int{16, 32, 64, 128}

// Filename is the suggested file name for doc exported at size pixels.
func Filename(name string, size int) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if base == "" {
		base = "emoji"
	}
	return fmt.Sprintf("%s-%dx%d.pdf", base, size, size)
}

// shape is one element projected into output space.
type shape struct {
	kind   state.ElementKind
	points []state.Point
	radius float64
	fill   color.NRGBA
	stroke color.NRGBA
	width  float64
}

type layerShapes struct {
	opacity float64
	shapes  []shape
}

type scene struct {
	size       int
	background color.NRGBA
	layers     []layerShapes
}

func checkSize(size int) error {
	if size <= 0 || size > MaxSize {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}

// project flattens doc into shapes in a size×size output space, bottom layer
// first. Hidden and fully transparent layers and degenerate paths are dropped.
func project(doc state.Document, size int) (scene, error) {
	if err := checkSize(size); err != nil {
		return scene{}, err
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return scene{}, fmt.Errorf("%w: document is %dx%d", state.ErrInvalidDocument, doc.Width, doc.Height)
	}
	sx := float64(size) / float64(doc.Width)
	sy := float64(size) / float64(doc.Height)
	out := func(p state.Point) state.Point { return state.Point{X: p.X * sx, Y: p.Y * sy} }
	lin := math.Sqrt(sx * sy)

	sc := scene{size: size, background: palette.MustParse(doc.BackgroundColor)}
	for _, l := range doc.Layers {
		if !l.Visible || l.Opacity <= 0 {
			continue
		}
		ls := layerShapes{opacity: state.ClampOpacity(l.Opacity)}
		tl := l.Transform.LinearScale() * lin
		for _, e := range l.Elements {
			switch el := e.(type) {
			case state.Circle:
				ls.shapes = append(ls.shapes, shape{
					kind:   state.KindCircle,
					points: []state.Point{out(l.Transform.Apply(el.Center))},
					radius: el.Radius * tl,
					fill:   palette.MustParse(el.Fill),
					stroke: palette.MustParse(el.Stroke),
					width:  el.StrokeWidth * tl,
				})
			case state.Rectangle:
				corners := []state.Point{
					el.Origin,
					{X: el.Origin.X + el.Width, Y: el.Origin.Y},
					{X: el.Origin.X + el.Width, Y: el.Origin.Y + el.Height},
					{X: el.Origin.X, Y: el.Origin.Y + el.Height},
				}
				for i, c := range corners {
					corners[i] = out(l.Transform.Apply(c))
				}
				ls.shapes = append(ls.shapes, shape{
					kind:   state.KindRectangle,
					points: corners,
					fill:   palette.MustParse(el.Fill),
					stroke: palette.MustParse(el.Stroke),
					width:  el.StrokeWidth * tl,
				})
			case state.FreehandPath:
				if el.Degenerate() {
					continue
				}
				pts := make([]state.Point, len(el.Points))
				for i, p := range el.Points {
					pts[i] = out(l.Transform.Apply(p))
				}
				ls.shapes = append(ls.shapes, shape{
					kind:   state.KindPath,
					points: pts,
					stroke: palette.MustParse(el.Stroke),
					width:  el.StrokeWidth * tl,
				})
			}
		}
		sc.layers = append(sc.layers, ls)
	}
	return sc, nil
}

func (s shape) filled() bool  { return s.kind != state.KindPath && s.fill.A > 0 }
func (s shape) stroked() bool { return s.stroke.A > 0 && s.width > 0 }
