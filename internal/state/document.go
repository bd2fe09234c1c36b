package state

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// The layer operations below never modify their input. Each returns a document
// whose Layers slice is freshly allocated, so edits to the result are never
// visible through the argument.

// AddLayer appends layer on top of the stack. An empty or already used id is
// replaced with a fresh one.
func AddLayer(doc Document, layer Layer) Document {
	layer = layer.Clone()
	if layer.ID == "" || doc.layerIndex(layer.ID) >= 0 {
		layer.ID = NewID()
	}
	layer.Opacity = ClampOpacity(layer.Opacity)
	out := doc
	out.Layers = make([]Layer, 0, len(doc.Layers)+1)
	out.Layers = append(out.Layers, doc.Layers...)
	out.Layers = append(out.Layers, layer)
	return out
}

// RemoveLayer drops the layer with the given id. Unknown ids leave doc as is.
func RemoveLayer(doc Document, layerID string) Document {
	i := doc.layerIndex(layerID)
	if i < 0 {
		return doc
	}
	out := doc
	out.Layers = make([]Layer, 0, len(doc.Layers)-1)
	out.Layers = append(out.Layers, doc.Layers[:i]...)
	out.Layers = append(out.Layers, doc.Layers[i+1:]...)
	return out
}

func SetLayerVisibility(doc Document, layerID string, visible bool) Document {
	return updateLayer(doc, layerID, func(l *Layer) { l.Visible = visible })
}

// SetLayerOpacity sets the opacity, clamped to [0,1].
func SetLayerOpacity(doc Document, layerID string, opacity float64) Document {
	opacity = ClampOpacity(opacity)
	return updateLayer(doc, layerID, func(l *Layer) { l.Opacity = opacity })
}

func RenameLayer(doc Document, layerID, name string) Document {
	return updateLayer(doc, layerID, func(l *Layer) { l.Name = name })
}

// ReorderLayers re-sequences the layers to follow orderedIDs. Layers missing
// from orderedIDs are dropped. Ids that match no layer, and repeated ids, are
// ignored.
func ReorderLayers(doc Document, orderedIDs []string) Document {
	out := doc
	out.Layers = make([]Layer, 0, len(orderedIDs))
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			continue
		}
		if i := doc.layerIndex(id); i >= 0 {
			seen[id] = true
			out.Layers = append(out.Layers, doc.Layers[i])
		}
	}
	return out
}

// MoveLayer shifts a layer by delta positions in z-order, stopping at either end.
func MoveLayer(doc Document, layerID string, delta int) Document {
	i := doc.layerIndex(layerID)
	if i < 0 || delta == 0 {
		return doc
	}
	j := i + delta
	if j < 0 {
		j = 0
	}
	if j > len(doc.Layers)-1 {
		j = len(doc.Layers) - 1
	}
	ids := doc.LayerIDs()
	id := ids[i]
	ids = append(ids[:i], ids[i+1:]...)
	ids = append(ids[:j], append([]string{id}, ids[j:]...)...)
	return ReorderLayers(doc, ids)
}

// AppendElement puts e on top of the layer's paint order. It reports false,
// and returns doc unchanged, when no layer has the given id.
func AppendElement(doc Document, layerID string, e Element) (Document, bool) {
	if doc.layerIndex(layerID) < 0 {
		return doc, false
	}
	e = cloneElement(e)
	return updateLayer(doc, layerID, func(l *Layer) {
		elems := make(Elements, 0, len(l.Elements)+1)
		elems = append(elems, l.Elements...)
		l.Elements = append(elems, e)
	}), true
}

// RemoveElement drops the element at index from the layer. Out of range
// indexes and unknown layers leave doc as is.
func RemoveElement(doc Document, layerID string, index int) Document {
	l, ok := doc.Layer(layerID)
	if !ok || index < 0 || index >= len(l.Elements) {
		return doc
	}
	return updateLayer(doc, layerID, func(l *Layer) {
		elems := make(Elements, 0, len(l.Elements)-1)
		elems = append(elems, l.Elements[:index]...)
		l.Elements = append(elems, l.Elements[index+1:]...)
	})
}

func updateLayer(doc Document, layerID string, fn func(*Layer)) Document {
	i := doc.layerIndex(layerID)
	if i < 0 {
		return doc
	}
	out := doc
	out.Layers = make([]Layer, len(doc.Layers))
	copy(out.Layers, doc.Layers)
	fn(&out.Layers[i])
	return out
}

// ClampOpacity limits v to [0,1]. NaN maps to 0.
func ClampOpacity(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var ErrInvalidDocument = errors.New("invalid document")

// Validate reports every structural invariant the document breaks.
func (d Document) Validate() error {
	var err error
	if d.Width <= 0 || d.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidDocument, d.Width, d.Height))
	}
	seen := make(map[string]bool, len(d.Layers))
	for i, l := range d.Layers {
		if l.ID == "" {
			err = multierr.Append(err, fmt.Errorf("%w: layer %d has no id", ErrInvalidDocument, i))
		} else if seen[l.ID] {
			err = multierr.Append(err, fmt.Errorf("%w: duplicate layer id %q", ErrInvalidDocument, l.ID))
		}
		seen[l.ID] = true
		if l.Opacity < 0 || l.Opacity > 1 || math.IsNaN(l.Opacity) {
			err = multierr.Append(err, fmt.Errorf("%w: layer %q opacity %v outside [0,1]", ErrInvalidDocument, l.ID, l.Opacity))
		}
		for j, e := range l.Elements {
			if !sizesValid(e) {
				err = multierr.Append(err, fmt.Errorf("%w: layer %q element %d has a negative size", ErrInvalidDocument, l.ID, j))
			}
		}
	}
	return err
}

func sizesValid(e Element) bool {
	switch v := e.(type) {
	case Circle:
		return v.Radius >= 0 && v.StrokeWidth >= 0
	case Rectangle:
		return v.Width >= 0 && v.Height >= 0 && v.StrokeWidth >= 0
	case FreehandPath:
		return v.StrokeWidth >= 0
	}
	return false
}
