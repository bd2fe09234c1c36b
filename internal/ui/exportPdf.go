package ui

import (
	"context"
	"fmt"
	"image"
	"io"
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"emojiforge/internal/export"
	"emojiforge/internal/state"
)

// ExportPDF renders doc at size pixels and writes it to w, closing w.
func ExportPDF(ctx context.Context, e *export.PDFExporter, w io.WriteCloser, doc state.Document, size int) error {
	data, err := e.Render(ctx, doc, size)
	if err != nil {
		w.Close()
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write pdf: %w", err)
	}
	return w.Close()
}

// PreviewPanel shows the document at its real output sizes and starts
// exports. Previews render off the UI goroutine; only the newest render is
// shown.
type PreviewPanel struct {
	editor      *state.Editor
	log         *zap.Logger
	sizes       []int
	exportSizes []int

	// OnExport is called with the chosen export size.
	OnExport func(size int)

	container  *fyne.Container
	images     *fyne.Container
	sizeSelect *widget.Select
	exportBtn  *widget.Button

	renders state.RequestClock
	// background runs render work; apply brings results back to the UI.
	background func(func())
	apply      func(func())
}

func NewPreviewPanel(e *state.Editor, log *zap.Logger, previewSizes, exportSizes []int) *PreviewPanel {
	if log == nil {
		log = zap.NewNop()
	}
	p := &PreviewPanel{
		editor:      e,
		log:         log,
		sizes:       append([]int(nil), previewSizes...),
		exportSizes: append([]int(nil), exportSizes...),
		background:  func(fn func()) { go fn() },
		apply:       fyne.Do,
	}
	sort.Ints(p.sizes)

	options := make([]string, len(p.exportSizes))
	for i, s := range p.exportSizes {
		options[i] = sizeOption(s)
	}
	p.sizeSelect = widget.NewSelect(options, nil)
	if len(options) > 0 {
		p.sizeSelect.SetSelectedIndex(len(options) - 1)
	}
	p.exportBtn = widget.NewButtonWithIcon("Export PDF", theme.DocumentSaveIcon(), func() {
		if size, ok := p.SelectedSize(); ok && p.OnExport != nil {
			p.OnExport(size)
		}
	})
	p.images = container.NewHBox()
	p.container = container.NewVBox(
		widget.NewLabel("Preview"),
		p.images,
		container.NewBorder(nil, nil, nil, p.exportBtn, p.sizeSelect),
	)
	p.Refresh()
	return p
}

func (p *PreviewPanel) Container() *fyne.Container {
	return p.container
}

func sizeOption(s int) string {
	return strconv.Itoa(s) + "×" + strconv.Itoa(s)
}

// SelectedSize is the export size picked in the size list.
func (p *PreviewPanel) SelectedSize() (int, bool) {
	i := p.sizeSelect.SelectedIndex()
	if i < 0 || i >= len(p.exportSizes) {
		return 0, false
	}
	return p.exportSizes[i], true
}

// Refresh re-renders the previews. It does nothing mid-gesture so a drag
// does not queue a render per pointer move.
func (p *PreviewPanel) Refresh() {
	if p.editor.Gesture() == state.Accumulating {
		return
	}
	doc, ok := p.editor.Document()
	if !ok {
		p.renders.Next()
		p.exportBtn.Disable()
		p.images.RemoveAll()
		return
	}
	p.exportBtn.Enable()
	seq := p.renders.Next()
	sizes := p.sizes
	p.background(func() {
		imgs, err := export.Previews(context.Background(), doc, sizes)
		p.apply(func() { p.show(seq, imgs, err) })
	})
}

func (p *PreviewPanel) show(seq uint64, imgs map[int]image.Image, err error) {
	if !p.renders.Current(seq) {
		return
	}
	if err != nil {
		p.log.Warn("preview render failed", zap.Error(err))
		return
	}
	p.images.RemoveAll()
	for _, s := range p.sizes {
		img, ok := imgs[s]
		if !ok {
			continue
		}
		c := canvas.NewImageFromImage(img)
		c.FillMode = canvas.ImageFillOriginal
		c.ScaleMode = canvas.ImageScalePixels
		c.SetMinSize(fyne.NewSize(float32(s), float32(s)))
		label := widget.NewLabelWithStyle(strconv.Itoa(s)+"px", fyne.TextAlignCenter, fyne.TextStyle{})
		p.images.Add(container.NewVBox(container.NewCenter(c), label))
	}
}
