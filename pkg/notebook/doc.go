// Package notebook models an exported ObservableHQ notebook as a set of cells
// and orders them by their declared dependencies.
//
// # Overview
//
// A [Notebook] owns an ordered list of [Cell] values. Each cell has a name,
// the names of the cells it reads (its inputs), the raw source lines of its
// value, and the notebook it was imported from, if any. Cells are appended
// with [Notebook.AddCell] while an export is being scanned; the notebook is
// never edited in place afterwards.
//
// # Ordering
//
// Reading [Notebook.Cells] normalizes the cell list with [Normalize]: every
// cell gets an Order (its rank in a topological sort over input edges, ties
// broken by original position), a Depth (longest path from a root), and a
// Resolved flag telling whether all of its inputs are satisfiable. Inputs
// that name neither a cell nor a symbol listed in [Symbols] leave the cell
// unresolved. Unresolved cells are kept, they are only excluded from
// [Notebook.Defined].
//
// The normalized view is memoized and invalidated by every AddCell.
//
// # Cycles
//
// Notebooks exported by the hosting service are acyclic. If a cycle is
// present anyway, the cells on it are appended after the acyclic part in
// their original order. The result is not meaningful but no cell is lost.
//
// # Names
//
// [ParseName] recognizes the two notebook identifier forms accepted by the
// API: "@user/notebook[@rev]" for public notebooks and a 16-digit hex id
// "[@rev]" for private ones.
package notebook
