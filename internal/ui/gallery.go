package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"emojiforge/internal/export"
	"emojiforge/internal/palette"
	"emojiforge/internal/state"
	"emojiforge/internal/store"
)

const thumbnailSize = 48

// TemplateGallery lets the user search the catalog by name or tag and narrow
// it by category.
type TemplateGallery struct {
	catalog *store.Catalog

	// OnSelect receives the chosen template.
	OnSelect func(store.Template)

	container *fyne.Container
	search    *widget.Entry
	category  *widget.Select
	featured  *fyne.Container
	results   *fyne.Container
	count     *widget.Label
}

func NewTemplateGallery(c *store.Catalog) *TemplateGallery {
	g := &TemplateGallery{catalog: c}
	g.search = widget.NewEntry()
	g.search.SetPlaceHolder("Search templates")
	g.search.ActionItem = widget.NewIcon(theme.SearchIcon())
	g.search.OnChanged = func(string) { g.Refresh() }

	g.category = widget.NewSelect(store.Categories, func(string) { g.Refresh() })
	g.category.SetSelected(store.CategoryAll)

	g.featured = container.NewGridWrap(fyne.NewSize(120, 90))
	g.results = container.NewGridWrap(fyne.NewSize(120, 90))
	g.count = widget.NewLabel("")

	g.container = container.NewBorder(
		container.NewBorder(nil, nil, nil, g.category, g.search),
		g.count, nil, nil,
		container.NewVScroll(container.NewVBox(
			widget.NewLabelWithStyle("Featured", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			g.featured,
			widget.NewSeparator(),
			g.results,
		)),
	)
	for _, t := range c.Featured() {
		g.featured.Add(g.tile(t))
	}
	g.Refresh()
	return g
}

func (g *TemplateGallery) Container() *fyne.Container {
	return g.container
}

// Results is what the current search and category select.
func (g *TemplateGallery) Results() []store.Template {
	return g.catalog.Filter(g.category.Selected, g.search.Text)
}

func (g *TemplateGallery) Refresh() {
	if g.results == nil {
		return
	}
	g.results.RemoveAll()
	res := g.Results()
	for _, t := range res {
		g.results.Add(g.tile(t))
	}
	switch len(res) {
	case 0:
		g.count.SetText("No templates match")
	case 1:
		g.count.SetText("1 template")
	default:
		g.count.SetText(strconv.Itoa(len(res)) + " templates")
	}
}

func (g *TemplateGallery) tile(t store.Template) fyne.CanvasObject {
	btn := widget.NewButton(t.Name, func() {
		if g.OnSelect != nil {
			g.OnSelect(t)
		}
	})
	return container.NewBorder(nil, btn, nil, nil, container.NewCenter(thumbnail(t.BaseDocument)))
}

// thumbnail renders base small, or shows a blank page for templates that
// start from an empty document.
func thumbnail(base *state.Document) fyne.CanvasObject {
	if base != nil {
		if img, err := export.Rasterize(*base, thumbnailSize); err == nil {
			c := canvas.NewImageFromImage(img)
			c.FillMode = canvas.ImageFillContain
			c.SetMinSize(fyne.NewSize(thumbnailSize, thumbnailSize))
			return c
		}
	}
	blank := canvas.NewRectangle(palette.MustParse(state.DefaultBackgroundColor))
	blank.StrokeColor = color.Gray{Y: 180}
	blank.StrokeWidth = 1
	blank.SetMinSize(fyne.NewSize(thumbnailSize, thumbnailSize))
	return blank
}

// ShowTemplateDialog opens the gallery; picking a template closes it and
// hands the template to onSelect.
func ShowTemplateDialog(c *store.Catalog, w fyne.Window, onSelect func(store.Template)) *TemplateGallery {
	g := NewTemplateGallery(c)
	d := dialog.NewCustom("Templates", "Close", g.Container(), w)
	g.OnSelect = func(t store.Template) {
		d.Hide()
		onSelect(t)
	}
	d.Resize(fyne.NewSize(560, 480))
	d.Show()
	return g
}
