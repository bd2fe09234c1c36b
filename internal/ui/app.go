package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"emojiforge/internal/config"
	"emojiforge/internal/export"
	"emojiforge/internal/palette"
	"emojiforge/internal/state"
	"emojiforge/internal/store"
)

const appID = "dev.emojiforge.editor"

// serviceTimeout bounds every persistence and export call.
const serviceTimeout = 10 * time.Second

// Services are the collaborators the editor talks to.
type Services struct {
	Store    *store.EmojiStore
	Catalog  *store.Catalog
	Exporter *export.PDFExporter
}

// App wires the editor to its window.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	log     *zap.Logger
	cfg     config.Config
	svc     Services

	editor  *state.Editor
	board   *BoardWidget
	tools   *ToolPanel
	layers  *LayerPanel
	preview *PreviewPanel
	toolbar *Toolbar
	status  *StatusBar

	// background runs service calls; apply brings results back to the UI.
	background func(func())
	apply      func(func())
}

// NewApp builds the main window on fyneApp.
func NewApp(fyneApp fyne.App, cfg config.Config, log *zap.Logger, svc Services) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		fyneApp:    fyneApp,
		log:        log,
		cfg:        cfg,
		svc:        svc,
		background: func(fn func()) { go fn() },
		apply:      fyne.Do,
	}
	a.window = fyneApp.NewWindow("Emoji Forge")
	a.window.Resize(fyne.NewSize(1200, 800))

	opts := cfg.EditorOptions()
	opts.Logger = log.Named("editor")
	opts.OnDiscard = func(t state.Tool) {
		a.status.SetStatus("Add or select a layer to draw with the " + string(t) + " tool")
	}
	a.editor = state.NewEditor(opts)

	a.buildUI()
	a.editor.Subscribe(a.refresh)
	a.refresh()
	return a
}

// RunApp opens the editor window and blocks until it is closed.
func RunApp(cfg config.Config, log *zap.Logger, svc Services) {
	NewApp(app.NewWithID(appID), cfg, log, svc).Run()
}

func (a *App) Run() {
	a.window.ShowAndRun()
}

func (a *App) Editor() *state.Editor { return a.editor }

func (a *App) buildUI() {
	a.status = NewStatusBar()
	a.board = NewBoardWidget(a.editor, a.cfg.ShowGrid, a.cfg.GridSize)
	a.tools = NewToolPanel(a.editor, palette.NewRecent(palette.DefaultRecentSize, a.editor.Color()))
	a.layers = NewLayerPanel(a.editor, a.window)
	a.preview = NewPreviewPanel(a.editor, a.log.Named("preview"), a.cfg.PreviewSizes, a.cfg.ExportSizes)
	a.preview.OnExport = a.exportPDF

	a.toolbar = NewToolbar()
	a.toolbar.OnNew = a.newDocument
	a.toolbar.OnTemplates = a.showTemplates
	a.toolbar.OnOpen = a.showSaved
	a.toolbar.OnSave = a.save
	a.toolbar.OnRename = a.editor.Rename
	a.toolbar.OnZoomIn = a.editor.ZoomIn
	a.toolbar.OnZoomOut = a.editor.ZoomOut
	a.toolbar.OnResetView = a.editor.ResetView
	a.toolbar.OnToggleGrid = a.board.ToggleGrid

	side := container.NewVBox(a.layers.Container(), widget.NewSeparator(), a.preview.Container())
	content := container.NewBorder(
		container.NewPadded(a.toolbar.Container()),
		a.status.Container(),
		container.NewVScroll(a.tools.Container()),
		container.NewVScroll(side),
		a.board,
	)
	a.window.SetContent(content)
	a.window.Canvas().SetOnTypedKey(a.handleKey)
}

func (a *App) handleKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyEscape:
		a.editor.CancelGesture()
	case fyne.KeyPlus, fyne.KeyEqual:
		a.editor.ZoomIn()
	case fyne.KeyMinus:
		a.editor.ZoomOut()
	case fyne.Key0:
		a.editor.ResetView()
	}
}

// refresh pushes editor state into every view.
func (a *App) refresh() {
	a.board.Refresh()
	a.tools.Refresh()
	a.layers.Refresh()
	a.preview.Refresh()

	doc, open := a.editor.Document()
	a.toolbar.SetDocument(doc.Name, open)
	a.toolbar.SetZoom(a.editor.Viewport().Percent())

	detail := "Tool: " + string(a.editor.Tool())
	if id, ok := a.editor.ActiveLayer(); ok {
		if l, ok := doc.Layer(id); ok {
			detail += " · Layer: " + l.Name
		}
	}
	a.status.SetDetail(detail)
	if open {
		a.window.SetTitle("Emoji Forge - " + doc.Name)
	} else {
		a.window.SetTitle("Emoji Forge")
	}
}

func (a *App) newDocument() {
	a.editor.BeginLoad()
	a.editor.NewDocument()
	a.status.SetStatus("New emoji")
}

func (a *App) showTemplates() {
	ShowTemplateDialog(a.svc.Catalog, a.window, a.selectTemplate)
}

// selectTemplate loads t. It supersedes any load still in flight.
func (a *App) selectTemplate(t store.Template) {
	a.editor.BeginLoad()
	if err := a.editor.ApplyTemplate(t.BaseDocument); err != nil {
		a.log.Warn("template rejected", zap.String("template", t.ID), zap.Error(err))
		a.status.SetStatus("Template " + t.Name + " could not be loaded")
		return
	}
	a.log.Info("template applied", zap.String("template", t.ID))
	a.status.SetStatus("Started from " + t.Name)
}

// save stores a snapshot of the document. The editor keeps working while
// the store is busy; the assigned id is recorded only if no newer save was
// started and the document was not replaced meanwhile.
func (a *App) save() {
	doc, ok := a.editor.Document()
	if !ok {
		return
	}
	seq := a.editor.BeginSave()
	a.status.SetStatus("Saving…")
	a.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
		defer cancel()
		saved, err := a.svc.Store.Save(ctx, doc)
		a.apply(func() {
			a.editor.ApplySaved(seq, saved.ID, err)
			if err != nil {
				a.status.SetStatus("Save failed: " + err.Error())
				return
			}
			a.status.SetStatus("Saved " + saved.Name)
		})
	})
}

// showSaved lists stored emojis and loads the one picked.
func (a *App) showSaved() {
	a.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
		defer cancel()
		entries, err := a.svc.Store.List(ctx)
		a.apply(func() {
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if len(entries) == 0 {
				dialog.ShowInformation("Open", "No saved emojis yet", a.window)
				return
			}
			var d dialog.Dialog
			list := widget.NewList(
				func() int { return len(entries) },
				func() fyne.CanvasObject { return widget.NewLabel("") },
				func(i widget.ListItemID, o fyne.CanvasObject) {
					e := entries[i]
					o.(*widget.Label).SetText(fmt.Sprintf("%s  (%s)", e.Document.Name, e.UpdatedAt.Format("2006-01-02 15:04")))
				},
			)
			list.OnSelected = func(i widget.ListItemID) {
				d.Hide()
				a.load(entries[i].Document.ID)
			}
			d = dialog.NewCustom("Open emoji", "Cancel", list, a.window)
			d.Resize(fyne.NewSize(400, 360))
			d.Show()
		})
	})
}

// load fetches id from the store. Only the latest load is applied; a
// superseded load leaves the status to whatever replaced it.
func (a *App) load(id string) {
	seq := a.editor.BeginLoad()
	a.status.SetStatus("Loading…")
	a.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
		defer cancel()
		doc, found, err := a.svc.Store.Get(ctx, id)
		if err == nil && !found {
			err = fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		a.apply(func() {
			switch {
			case a.editor.ApplyResult(seq, &doc, err):
				a.status.SetStatus("Opened " + doc.Name)
			case !a.editor.LoadCurrent(seq):
				// superseded
			case err != nil:
				a.status.SetStatus("Open failed: " + err.Error())
			default:
				a.status.SetStatus("Open failed: " + doc.Name + " is not a valid emoji")
			}
		})
	})
}

// exportPDF asks where to write the document at size pixels and writes it.
func (a *App) exportPDF(size int) {
	doc, ok := a.editor.Document()
	if !ok {
		return
	}
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if w == nil {
			return
		}
		a.status.SetStatus("Exporting…")
		a.background(func() {
			ctx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
			defer cancel()
			err := ExportPDF(ctx, a.svc.Exporter, w, doc, size)
			a.apply(func() {
				if err != nil {
					a.log.Warn("export failed", zap.String("id", doc.ID), zap.Error(err))
					a.status.SetStatus("Export failed: " + err.Error())
					return
				}
				a.status.SetStatus("Exported " + w.URI().Name())
			})
		})
	}, a.window)
	d.SetFileName(export.Filename(doc.Name, size))
	d.Show()
}
