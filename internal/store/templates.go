package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"emojiforge/internal/state"
)

// CategoryAll matches every template in Filter.
const CategoryAll = "all"

// Categories are the gallery tabs, in display order.
var Categories = []string{CategoryAll, "faces", "animals", "objects", "gestures"}

//go:embed templates.yaml
var builtinTemplates []byte

// Template is a gallery entry. Selecting one with a BaseDocument replaces the
// document being edited.
type Template struct {
	ID           string
	Name         string
	Category     string
	Tags         []string
	Featured     bool
	BaseDocument *state.Document
}

func (t Template) clone() Template {
	t.Tags = append([]string(nil), t.Tags...)
	if t.BaseDocument != nil {
		doc := t.BaseDocument.Clone()
		t.BaseDocument = &doc
	}
	return t
}

type templateEntry struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Category     string         `yaml:"category"`
	Tags         []string       `yaml:"tags"`
	Featured     bool           `yaml:"featured"`
	BaseDocument map[string]any `yaml:"baseDocument"`
}

// Catalog is a read-only template collection.
type Catalog struct {
	templates []Template
}

// NewCatalog returns the catalog shipped with the editor.
func NewCatalog() (*Catalog, error) {
	return ParseCatalog(builtinTemplates)
}

// ParseCatalog reads templates from YAML. Base documents use the same field
// names as the document JSON form.
func ParseCatalog(data []byte) (*Catalog, error) {
	var entries []templateEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	c := &Catalog{templates: make([]Template, 0, len(entries))}
	for _, e := range entries {
		t := Template{ID: e.ID, Name: e.Name, Category: e.Category, Tags: e.Tags, Featured: e.Featured}
		if e.BaseDocument != nil {
			doc, err := decodeBase(e.BaseDocument)
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", e.ID, err)
			}
			t.BaseDocument = &doc
		}
		c.templates = append(c.templates, t)
	}
	return c, nil
}

func decodeBase(m map[string]any) (state.Document, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return state.Document{}, err
	}
	var doc state.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return state.Document{}, err
	}
	if err := doc.Validate(); err != nil {
		return state.Document{}, err
	}
	return doc, nil
}

func (c *Catalog) List() []Template {
	return c.filter(func(Template) bool { return true })
}

func (c *Catalog) Get(id string) (Template, bool) {
	for _, t := range c.templates {
		if t.ID == id {
			return t.clone(), true
		}
	}
	return Template{}, false
}

func (c *Catalog) ByCategory(category string) []Template {
	return c.Filter(category, "")
}

// Search matches query against names and tags, ignoring case.
func (c *Catalog) Search(query string) []Template {
	return c.Filter(CategoryAll, query)
}

func (c *Catalog) Featured() []Template {
	return c.filter(func(t Template) bool { return t.Featured })
}

// Filter narrows the catalog to a category (CategoryAll or "" for any) and to
// templates whose name or a tag contains query. A blank query matches all.
func (c *Catalog) Filter(category, query string) []Template {
	query = strings.ToLower(strings.TrimSpace(query))
	return c.filter(func(t Template) bool {
		if category != "" && category != CategoryAll && t.Category != category {
			return false
		}
		return query == "" || matches(t, query)
	})
}

func (c *Catalog) filter(keep func(Template) bool) []Template {
	out := []Template{}
	for _, t := range c.templates {
		if keep(t) {
			out = append(out, t.clone())
		}
	}
	return out
}

func matches(t Template, query string) bool {
	if strings.Contains(strings.ToLower(t.Name), query) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
