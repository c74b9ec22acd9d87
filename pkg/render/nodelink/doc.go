// Package nodelink renders the cell dependency graph of a notebook as a
// node-link diagram.
//
// # Overview
//
// Every cell of the ordered view becomes a box, and every input that names
// another cell becomes an arrow from the reading cell to the cell it reads.
// Cells imported from other notebooks are grouped in one cluster per source
// notebook. Unresolved cells (reading a name nothing provides) are drawn
// dashed, and template cells (md, html) are drawn as notes.
//
// # Usage
//
//	dot := nodelink.ToDOT(nb, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include kind, order and depth
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
package nodelink
