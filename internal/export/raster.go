package export

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"emojiforge/internal/state"

	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"
)

// Rasterize paints doc onto a new size×size image. Each layer is rendered on
// its own and composited with its opacity, so overlapping shapes inside a
// layer do not show through each other.
func Rasterize(doc state.Document, size int) (*image.RGBA, error) {
	sc, err := project(doc, size)
	if err != nil {
		return nil, err
	}
	bounds := image.Rect(0, 0, size, size)
	dst := image.NewRGBA(bounds)
	if sc.background.A > 0 {
		draw.Draw(dst, bounds, image.NewUniform(sc.background), image.Point{}, draw.Src)
	}

	layer := image.NewRGBA(bounds)
	scanner := rasterx.NewScannerGV(size, size, layer, bounds)
	dasher := rasterx.NewDasher(size, size, scanner)
	for _, l := range sc.layers {
		draw.Draw(layer, bounds, image.Transparent, image.Point{}, draw.Src)
		for _, s := range l.shapes {
			rasterShape(dasher, s)
		}
		mask := image.NewUniform(color.Alpha{A: uint8(l.opacity*255 + 0.5)})
		draw.DrawMask(dst, bounds, layer, image.Point{}, mask, image.Point{}, draw.Over)
	}
	return dst, nil
}

func rasterShape(d *rasterx.Dasher, s shape) {
	if s.filled() {
		f := &d.Filler
		f.SetWinding(true)
		addOutline(f, s)
		f.SetColor(s.fill)
		f.Draw()
		f.Clear()
	}
	if s.stroked() {
		d.SetStroke(fixed.Int26_6(s.width*64), 4*64, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)
		addOutline(d, s)
		d.SetColor(s.stroke)
		d.Draw()
		d.Clear()
	}
}

func addOutline(a rasterx.Adder, s shape) {
	switch s.kind {
	case state.KindCircle:
		rasterx.AddCircle(s.points[0].X, s.points[0].Y, s.radius, a)
	case state.KindRectangle:
		a.Start(rasterx.ToFixedP(s.points[0].X, s.points[0].Y))
		for _, p := range s.points[1:] {
			a.Line(rasterx.ToFixedP(p.X, p.Y))
		}
		a.Stop(true)
	case state.KindPath:
		a.Start(rasterx.ToFixedP(s.points[0].X, s.points[0].Y))
		for _, p := range s.points[1:] {
			a.Line(rasterx.ToFixedP(p.X, p.Y))
		}
		a.Stop(false)
	}
}

// Previews renders doc once at the largest requested size and scales it down
// to every other size concurrently.
func Previews(ctx context.Context, doc state.Document, sizes []int) (map[int]image.Image, error) {
	largest := 0
	for _, s := range sizes {
		if err := checkSize(s); err != nil {
			return nil, err
		}
		largest = max(largest, s)
	}
	out := make(map[int]image.Image, len(sizes))
	if largest == 0 {
		return out, nil
	}
	master, err := Rasterize(doc, largest)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var img image.Image = master
			if s != largest {
				scaled := image.NewRGBA(image.Rect(0, 0, s, s))
				xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), master, master.Bounds(), xdraw.Src, nil)
				img = scaled
			}
			mu.Lock()
			out[s] = img
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
