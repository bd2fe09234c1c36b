package state

// LayerOp is a layer edit the Editor can apply to its document.
type LayerOp interface {
	apply(Document) Document
}

type AddLayerOp struct{ Layer Layer }

type RemoveLayerOp struct{ LayerID string }

type SetVisibilityOp struct {
	LayerID string
	Visible bool
}

type SetOpacityOp struct {
	LayerID string
	Opacity float64
}

type RenameLayerOp struct {
	LayerID string
	Name    string
}

type ReorderLayersOp struct{ LayerIDs []string }

// MoveLayerOp moves a layer Delta places towards the top (positive) or the
// bottom (negative) of the stack.
type MoveLayerOp struct {
	LayerID string
	Delta   int
}

func (op AddLayerOp) apply(d Document) Document {
	return AddLayer(d, op.Layer)
}

func (op RemoveLayerOp) apply(d Document) Document {
	return RemoveLayer(d, op.LayerID)
}

func (op SetVisibilityOp) apply(d Document) Document {
	return SetLayerVisibility(d, op.LayerID, op.Visible)
}

func (op SetOpacityOp) apply(d Document) Document {
	return SetLayerOpacity(d, op.LayerID, op.Opacity)
}

func (op RenameLayerOp) apply(d Document) Document {
	return RenameLayer(d, op.LayerID, op.Name)
}

func (op ReorderLayersOp) apply(d Document) Document {
	return ReorderLayers(d, op.LayerIDs)
}

func (op MoveLayerOp) apply(d Document) Document {
	return MoveLayer(d, op.LayerID, op.Delta)
}
