package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the document and view actions above the canvas.
type Toolbar struct {
	container *fyne.Container

	// Callbacks
	OnNew        func()
	OnTemplates  func()
	OnOpen       func()
	OnSave       func()
	OnRename     func(name string)
	OnZoomIn     func()
	OnZoomOut    func()
	OnResetView  func()
	OnToggleGrid func()

	nameEntry *widget.Entry
	zoomLabel *widget.Label
	saveBtn   *widget.Button
}

func NewToolbar() *Toolbar {
	t := &Toolbar{}
	t.build()
	return t
}

func call(fn *func()) func() {
	return func() {
		if *fn != nil {
			(*fn)()
		}
	}
}

func (t *Toolbar) build() {
	newBtn := widget.NewButtonWithIcon("New", theme.DocumentIcon(), call(&t.OnNew))
	templatesBtn := widget.NewButtonWithIcon("Templates", theme.GridIcon(), call(&t.OnTemplates))
	openBtn := widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), call(&t.OnOpen))
	t.saveBtn = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), call(&t.OnSave))

	t.nameEntry = widget.NewEntry()
	t.nameEntry.SetPlaceHolder("Emoji name")
	t.nameEntry.OnSubmitted = func(name string) {
		if t.OnRename != nil {
			t.OnRename(name)
		}
	}

	zoomOutBtn := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), call(&t.OnZoomOut))
	zoomInBtn := widget.NewButtonWithIcon("", theme.ZoomInIcon(), call(&t.OnZoomIn))
	resetBtn := widget.NewButtonWithIcon("", theme.ZoomFitIcon(), call(&t.OnResetView))
	gridBtn := widget.NewButtonWithIcon("Grid", theme.ViewRestoreIcon(), call(&t.OnToggleGrid))
	t.zoomLabel = widget.NewLabel("100%")

	t.container = container.NewHBox(
		newBtn,
		templatesBtn,
		openBtn,
		t.saveBtn,
		widget.NewSeparator(),
		container.New(layout.NewGridWrapLayout(fyne.NewSize(200, t.nameEntry.MinSize().Height)), t.nameEntry),
		layout.NewSpacer(),
		zoomOutBtn,
		t.zoomLabel,
		zoomInBtn,
		resetBtn,
		widget.NewSeparator(),
		gridBtn,
	)
}

func (t *Toolbar) Container() *fyne.Container {
	return t.container
}

// SetDocument shows the document name and enables saving, or disables
// document actions when nothing is open.
func (t *Toolbar) SetDocument(name string, open bool) {
	if t.nameEntry.Text != name {
		t.nameEntry.SetText(name)
	}
	if open {
		t.saveBtn.Enable()
		t.nameEntry.Enable()
	} else {
		t.saveBtn.Disable()
		t.nameEntry.Disable()
	}
}

func (t *Toolbar) SetZoom(percent int) {
	t.zoomLabel.SetText(strconv.Itoa(percent) + "%")
}

// StatusBar shows the last action's outcome and the active tool and layer.
type StatusBar struct {
	container *fyne.Container
	label     *widget.Label
	detail    *widget.Label
}

func NewStatusBar() *StatusBar {
	s := &StatusBar{
		label:  widget.NewLabel("Ready"),
		detail: widget.NewLabel(""),
	}
	s.container = container.NewHBox(s.label, layout.NewSpacer(), s.detail)
	return s
}

func (s *StatusBar) Container() *fyne.Container {
	return s.container
}

func (s *StatusBar) SetStatus(msg string) {
	s.label.SetText(msg)
}

func (s *StatusBar) SetDetail(msg string) {
	s.detail.SetText(msg)
}
