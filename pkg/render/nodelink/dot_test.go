package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/obsexport/pkg/notebook"
)

func graph() *notebook.Notebook {
	nb := notebook.New("@me/demo")
	a := nb.AddCell(notebook.CellSpec{Name: "a"})
	a.SetInputs([]string{"b", "lib", "missing"})
	a.AddLine("b + lib\n")
	nb.AddCell(notebook.CellSpec{Name: "b"}).AddLine("1\n")
	nb.AddCell(notebook.CellSpec{Name: "lib", Source: "@user/lib", SourceName: "helpers"})
	nb.AddCell(notebook.CellSpec{Kind: notebook.KindMarkdown}).AddLine("md`# Hi`\n")
	return nb
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(graph(), Options{})

	wants := []string{
		"digraph G {\n",
		`  "b" [label="b"];`,
		`  "a" [label="a", style="rounded,filled,dashed", fillcolor=lightgrey, fontcolor=black];`,
		`  "__CELL_3__" [label="__CELL_3__", shape=note];`,
		`  subgraph "cluster_0" {`,
		`    label="@user/lib";`,
		`    "lib" [label="helpers as lib"];`,
		`  "a" -> "b";`,
		`  "a" -> "lib";`,
	}
	for _, w := range wants {
		if !strings.Contains(dot, w) {
			t.Errorf("DOT missing %q:\n%s", w, dot)
		}
	}
	if strings.Contains(dot, `"missing"`) {
		t.Errorf("edge to unknown input emitted:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(graph(), Options{Detailed: true})
	if !strings.Contains(dot, `label="a\nkind: js\norder: 2\ndepth: 1"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(graph(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("unexpected SVG root: %.200s", svg)
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected error for malformed DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if out := normalizeViewBox([]byte("<svg>")); string(out) != "<svg>" {
		t.Errorf("svg without viewBox changed: %s", out)
	}
}
