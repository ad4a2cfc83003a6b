// Package layout reads menu trees from YAML layout files and serves them as a
// flatmenu source, reloading when the file changes.
//
// A layout file holds any number of named menus:
//
//	menus:
//	  main:
//	    - label: File
//	      children:
//	        - label: Open
//	          action: app.open
//	        - label: Quit
//	          action: app.quit
//	          enabled: false
//
// Entries without an id get one derived from their labels ("File/Open"), so
// a reload can tell retained entries from new ones.
package layout

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/phroun/flatmenu/menutree"
)

// Layout errors
var (
	// ErrMenuNotFound indicates that the document has no menu of that name.
	ErrMenuNotFound = errors.New("menu not found in layout")

	// ErrDuplicateID indicates two entries of one menu share an explicit id.
	ErrDuplicateID = errors.New("duplicate entry id in layout")

	// ErrInvalidLayout indicates that the document could not be decoded.
	ErrInvalidLayout = errors.New("invalid layout document")
)

// Entry is one menu entry as written in a layout file.
type Entry struct {
	ID         string         `yaml:"id,omitempty"`
	Label      string         `yaml:"label,omitempty"`
	Action     string         `yaml:"action,omitempty"`
	Icon       string         `yaml:"icon,omitempty"`
	Enabled    *bool          `yaml:"enabled,omitempty"`
	Visible    *bool          `yaml:"visible,omitempty"`
	Attributes map[string]any `yaml:"attributes,omitempty"`
	Children   []Entry        `yaml:"children,omitempty"`
}

// Document is a decoded layout file.
type Document struct {
	Menus map[string][]Entry `yaml:"menus"`
}

// Decode reads a layout document from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{Menus: map[string][]Entry{}}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if doc.Menus == nil {
		doc.Menus = map[string][]Entry{}
	}
	for name, entries := range doc.Menus {
		if err := checkIDs(entries, map[string]bool{}); err != nil {
			return nil, fmt.Errorf("menu %q: %w", name, err)
		}
	}
	return &doc, nil
}

// LoadFile decodes the layout file at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// Encode writes doc to w as YAML.
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return enc.Close()
}

func checkIDs(entries []Entry, seen map[string]bool) error {
	for _, e := range entries {
		if e.ID != "" {
			if seen[e.ID] {
				return fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
			}
			seen[e.ID] = true
		}
		if err := checkIDs(e.Children, seen); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the menu names in the document, sorted.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Menus))
	for name := range d.Menus {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Menu builds fresh, detached items for the named menu.
func (d *Document) Menu(name string) ([]*menutree.Item, error) {
	entries, ok := d.Menus[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMenuNotFound, name)
	}
	used := make(map[string]bool)
	for _, e := range entries {
		collectIDs(e, used)
	}
	return buildItems(entries, "", used), nil
}

func collectIDs(e Entry, used map[string]bool) {
	if e.ID != "" {
		used[e.ID] = true
	}
	for _, c := range e.Children {
		collectIDs(c, used)
	}
}

func buildItems(entries []Entry, parentID string, used map[string]bool) []*menutree.Item {
	items := make([]*menutree.Item, 0, len(entries))
	for _, e := range entries {
		it := &menutree.Item{
			ID:      e.ID,
			Label:   e.Label,
			Action:  e.Action,
			Icon:    e.Icon,
			Enabled: e.Enabled == nil || *e.Enabled,
			Visible: e.Visible == nil || *e.Visible,
			Extra:   maps.Clone(e.Attributes),
		}
		if it.ID == "" {
			it.ID = derivedID(parentID, e.Label, used)
		}
		it.Add(buildItems(e.Children, it.ID, used)...)
		items = append(items, it)
	}
	return items
}

// derivedID names an entry after its label path, suffixing "~n" on clashes.
func derivedID(parentID, label string, used map[string]bool) string {
	base := label
	if parentID != "" {
		base = parentID + "/" + label
	}
	id := base
	for n := 2; used[id]; n++ {
		id = base + "~" + strconv.Itoa(n)
	}
	used[id] = true
	return id
}
