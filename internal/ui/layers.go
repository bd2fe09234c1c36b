package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"emojiforge/internal/state"
)

// LayerPanel lists the document's layers, topmost first, with controls for
// visibility, opacity, order, renaming and removal.
type LayerPanel struct {
	editor *state.Editor
	window fyne.Window

	container *fyne.Container
	rows      *fyne.Container
	addBtn    *widget.Button
}

func NewLayerPanel(e *state.Editor, w fyne.Window) *LayerPanel {
	p := &LayerPanel{editor: e, window: w}
	p.rows = container.NewVBox()
	p.addBtn = widget.NewButtonWithIcon("Add layer", theme.ContentAddIcon(), func() {
		p.editor.ApplyLayerOp(state.AddLayerOp{Layer: state.NewLayer("")})
	})
	p.container = container.NewBorder(
		container.NewHBox(widget.NewLabel("Layers")),
		p.addBtn, nil, nil,
		p.rows,
	)
	p.Refresh()
	return p
}

func (p *LayerPanel) Container() *fyne.Container {
	return p.container
}

// Refresh rebuilds the rows from the editor's document.
func (p *LayerPanel) Refresh() {
	p.rows.RemoveAll()
	doc, ok := p.editor.Document()
	if !ok {
		p.addBtn.Disable()
		p.rows.Add(widget.NewLabel("No document"))
		return
	}
	p.addBtn.Enable()
	if len(doc.Layers) == 0 {
		p.rows.Add(widget.NewLabel("No layers yet"))
		return
	}
	active, _ := p.editor.ActiveLayer()
	for i := len(doc.Layers) - 1; i >= 0; i-- {
		l := doc.Layers[i]
		p.rows.Add(p.row(l, l.ID == active, i == len(doc.Layers)-1, i == 0))
	}
}

func (p *LayerPanel) row(l state.Layer, active, top, bottom bool) fyne.CanvasObject {
	id := l.ID

	visible := widget.NewCheck("", nil)
	visible.SetChecked(l.Visible)
	visible.OnChanged = func(on bool) {
		p.editor.ApplyLayerOp(state.SetVisibilityOp{LayerID: id, Visible: on})
	}

	name := widget.NewButton(fmt.Sprintf("%s (%d)", l.Name, len(l.Elements)), func() {
		p.editor.SelectLayer(id)
	})
	name.Alignment = widget.ButtonAlignLeading
	if active {
		name.Importance = widget.HighImportance
	}

	opacity := widget.NewSlider(0, 1)
	opacity.Step = 0.05
	opacity.SetValue(l.Opacity)
	// Applied on release; each apply rebuilds the rows.
	opacity.OnChangeEnded = func(v float64) {
		p.editor.ApplyLayerOp(state.SetOpacityOp{LayerID: id, Opacity: v})
	}

	up := widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
		p.editor.ApplyLayerOp(state.MoveLayerOp{LayerID: id, Delta: 1})
	})
	down := widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() {
		p.editor.ApplyLayerOp(state.MoveLayerOp{LayerID: id, Delta: -1})
	})
	if top {
		up.Disable()
	}
	if bottom {
		down.Disable()
	}
	rename := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
		p.rename(id, l.Name)
	})
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		p.editor.ApplyLayerOp(state.RemoveLayerOp{LayerID: id})
	})

	return container.NewVBox(
		container.NewBorder(nil, nil, visible, container.NewHBox(up, down, rename, remove), name),
		opacity,
	)
}

func (p *LayerPanel) rename(id, current string) {
	if p.window == nil {
		return
	}
	entry := widget.NewEntry()
	entry.SetText(current)
	dialog.ShowForm("Rename layer", "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(ok bool) {
			if ok && entry.Text != "" {
				p.editor.ApplyLayerOp(state.RenameLayerOp{LayerID: id, Name: entry.Text})
			}
		}, p.window)
}
