package notebook

import "slices"

// CellSpec describes a cell to add to a notebook.
// An empty Name gives the cell a synthesized placeholder name; an empty Kind
// means [KindJS].
type CellSpec struct {
	Name       string
	Source     string
	SourceName string
	Kind       Kind
}

// Notebook is an ordered collection of cells.
//
// Cells are owned by the notebook and appended with [Notebook.AddCell].
// Every derived view (Cells, Defined, Imported, Dependencies) is computed
// from scratch on first read after a change and then memoized.
//
// The zero value is an empty notebook using [DefaultSymbols].
// Notebook is not safe for concurrent use without external synchronization.
type Notebook struct {
	ID   string            // Canonical identifier, e.g. "@user/name@12" or "0123456789abcdef@3"
	Meta map[string]string // Header comments of the export (url, title, author, version)

	symbols *Symbols
	cells   []*Cell
	dirty   bool
	view    *views
}

// views holds the memoized derived state of a notebook.
type views struct {
	ordered      []*Cell
	defined      []*Cell
	imported     map[string][]*Cell
	sources      []string
	dependencies map[string][]*Cell
}

// New creates an empty notebook with the given id and default symbols.
func New(id string) *Notebook {
	return &Notebook{ID: id, Meta: map[string]string{}}
}

// NewWithSymbols creates an empty notebook that resolves inputs against s.
func NewWithSymbols(id string, s Symbols) *Notebook {
	nb := New(id)
	nb.symbols = &s
	return nb
}

// Symbols returns the symbols used to resolve cell inputs.
func (nb *Notebook) Symbols() Symbols {
	if nb.symbols == nil {
		return DefaultSymbols()
	}
	return *nb.symbols
}

// AddCell appends a new cell built from spec and returns it. The cell's
// Index is its position in the notebook. AddCell does not check for an
// existing cell with the same name: a later cell shadows an earlier one.
func (nb *Notebook) AddCell(spec CellSpec) *Cell {
	index := len(nb.cells)
	name := spec.Name
	if name == "" {
		name = anonymousName(index)
	}
	kind := spec.Kind
	if kind == "" {
		kind = KindJS
	}
	c := &Cell{
		Name:       name,
		Source:     spec.Source,
		SourceName: spec.SourceName,
		Kind:       kind,
		Index:      index,
	}
	nb.cells = append(nb.cells, c)
	nb.dirty = true
	return c
}

// Last returns the most recently added cell, or nil for an empty notebook.
func (nb *Notebook) Last() *Cell {
	if len(nb.cells) == 0 {
		return nil
	}
	return nb.cells[len(nb.cells)-1]
}

// Len returns the number of cells added, including shadowed duplicates.
func (nb *Notebook) Len() int { return len(nb.cells) }

// IsPrivate reports whether the notebook id is a private hash id.
func (nb *Notebook) IsPrivate() bool { return IsPrivate(nb.ID) }

// Cells returns the cells in dependency order. Shadowed duplicates are not
// included. The returned slice must not be modified.
func (nb *Notebook) Cells() []*Cell { return nb.views().ordered }

// Cell returns the cell with the given name.
func (nb *Notebook) Cell(name string) (*Cell, bool) {
	for _, c := range nb.Cells() {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Defined returns the cells that belong to this notebook, are resolved and
// have a body, in dependency order.
func (nb *Notebook) Defined() []*Cell { return nb.views().defined }

// Imported returns the cells imported from other notebooks, grouped by
// source notebook id.
func (nb *Notebook) Imported() map[string][]*Cell { return nb.views().imported }

// ImportedSources returns the keys of [Notebook.Imported] in the order the
// sources were first seen.
func (nb *Notebook) ImportedSources() []string { return nb.views().sources }

// Dependencies returns the subset of [Notebook.Imported] that defined cells
// read directly. Sources with no such cell map to an empty slice.
func (nb *Notebook) Dependencies() map[string][]*Cell { return nb.views().dependencies }

// Filter returns a new notebook holding copies of the ordered cells for which
// keep returns true. The copies keep their Index; the receiver is unchanged.
func (nb *Notebook) Filter(keep func(*Cell) bool) *Notebook {
	out := &Notebook{ID: nb.ID, Meta: make(map[string]string, len(nb.Meta)), symbols: nb.symbols}
	for k, v := range nb.Meta {
		out.Meta[k] = v
	}
	for _, c := range nb.Cells() {
		if keep(c) {
			out.cells = append(out.cells, c.clone())
		}
	}
	slices.SortFunc(out.cells, func(a, b *Cell) int { return a.Index - b.Index })
	out.dirty = true
	return out
}

func (nb *Notebook) views() *views {
	if nb.view != nil && !nb.dirty {
		return nb.view
	}
	v := &views{
		ordered:  Normalize(nb.cells, nb.Symbols()),
		imported: make(map[string][]*Cell),
	}

	for _, c := range v.ordered {
		if !c.IsImported(nb.ID) && c.Resolved && !c.IsEmpty() {
			v.defined = append(v.defined, c)
		}
	}

	for _, c := range v.ordered {
		if !c.IsImported(nb.ID) {
			continue
		}
		group, ok := v.imported[c.Source]
		if !ok {
			v.sources = append(v.sources, c.Source)
		}
		if !slices.Contains(group, c) {
			v.imported[c.Source] = append(group, c)
		}
	}

	read := make(map[string]bool)
	for _, c := range v.defined {
		for _, in := range c.Inputs {
			read[in] = true
		}
	}
	v.dependencies = make(map[string][]*Cell, len(v.imported))
	for _, src := range v.sources {
		deps := []*Cell{}
		for _, c := range v.imported[src] {
			if read[c.Name] {
				deps = append(deps, c)
			}
		}
		v.dependencies[src] = deps
	}

	nb.view = v
	nb.dirty = false
	return v
}
