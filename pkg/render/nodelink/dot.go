package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/obsexport/pkg/notebook"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes kind, order and depth in node labels.
	// When false, only the cell name is shown.
	Detailed bool
}

// ToDOT converts the cell graph of nb to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(nb *notebook.Notebook, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	cells := nb.Cells()
	for _, c := range cells {
		if c.IsImported(nb.ID) {
			continue
		}
		writeNode(&buf, "  ", c, opts.Detailed)
	}

	imported := nb.Imported()
	for i, src := range nb.ImportedSources() {
		fmt.Fprintf(&buf, "\n  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", src)
		buf.WriteString("    style=\"rounded,dashed\";\n")
		for _, c := range imported[src] {
			writeNode(&buf, "    ", c, opts.Detailed)
		}
		buf.WriteString("  }\n")
	}

	known := make(map[string]bool, len(cells))
	for _, c := range cells {
		known[c.Name] = true
	}
	buf.WriteString("\n")
	for _, c := range cells {
		for _, in := range c.Inputs {
			if in == c.Name || !known[in] {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.Name, in)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, indent string, c *notebook.Cell, detailed bool) {
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, c.Name, strings.Join(fmtAttrs(c, fmtLabel(c, detailed)), ", "))
}

func fmtLabel(c *notebook.Cell, detailed bool) string {
	label := c.Name
	if c.SourceName != "" {
		label = c.SourceName + " as " + c.Name
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nkind: %s\norder: %d\ndepth: %d", label, c.Kind, c.Order, c.Depth)
}

func fmtAttrs(c *notebook.Cell, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if c.IsPreprocessed() {
		attrs = append(attrs, "shape=note")
	}
	if !c.Resolved {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root element so the SVG scales to its
// container with an origin at zero.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
