package cli

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/obsexport/pkg/extract"
	"github.com/matzehuels/obsexport/pkg/notebook"
)

func demoNotebook(t *testing.T) *notebook.Notebook {
	t.Helper()
	res, err := extract.Parse(demoExport)
	if err != nil {
		t.Fatal(err)
	}
	return res.Notebook
}

func TestCellsPlain(t *testing.T) {
	srv, _ := apiServer(t)
	out, err := runCLI(t, srv.URL, "cells", "@me/demo", "--plain")
	if err != nil {
		t.Fatalf("cells: %v", err)
	}
	for _, want := range []string{"abc@1", "viewof_slider", "__CELL_3__", "4 cells, 0 imported"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCellsIgnore(t *testing.T) {
	srv, _ := apiServer(t)
	out, err := runCLI(t, srv.URL, "cells", "@me/demo", "-i", "viewof_*")
	if err != nil {
		t.Fatalf("cells: %v", err)
	}
	if strings.Contains(out, "viewof_slider") {
		t.Errorf("ignored cell listed:\n%s", out)
	}
}

func TestCellRow(t *testing.T) {
	nb := notebook.New("@me/demo")
	local := nb.AddCell(notebook.CellSpec{Name: "chart"})
	local.SetInputs([]string{"helper", "width"})
	nb.AddCell(notebook.CellSpec{Name: "helper", Source: "@user/lib", SourceName: "makeHelper"})
	nb.Cells()

	row := cellRow(nb, local)
	if row[1] != "chart" || row[3] != "—" || row[4] != "helper, width" {
		t.Errorf("cellRow(chart) = %q", row)
	}
	imported, _ := nb.Cell("helper")
	row = cellRow(nb, imported)
	if row[1] != "makeHelper as helper" || row[3] != "@user/lib" || row[4] != "—" {
		t.Errorf("cellRow(helper) = %q", row)
	}
}

func TestCellListModelNavigation(t *testing.T) {
	m := NewCellListModel(demoNotebook(t))
	m.Height = 2

	press := func(key string) {
		var msg tea.KeyMsg
		switch key {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		next, _ := m.Update(msg)
		m = next.(CellListModel)
	}

	press("up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first cell: %d", m.Cursor)
	}
	press("down")
	press("down")
	if m.Cursor != 2 || m.Offset != 1 {
		t.Errorf("cursor = %d offset = %d, want 2 and 1", m.Cursor, m.Offset)
	}
	press("G")
	if m.Cursor != len(m.Cells)-1 {
		t.Errorf("G should jump to the last cell, cursor = %d", m.Cursor)
	}
	press("down")
	if m.Cursor != len(m.Cells)-1 {
		t.Error("cursor moved past the last cell")
	}
	press("g")
	if m.Cursor != 0 || m.Offset != 0 {
		t.Error("g should jump to the first cell")
	}

	press("enter")
	if !m.Expanded {
		t.Fatal("enter should expand the cell")
	}
	if !strings.Contains(m.View(), "export const b") {
		t.Errorf("expanded view should show the first cell:\n%s", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestPrintCellsEmpty(t *testing.T) {
	var out bytes.Buffer
	c := New(&bytes.Buffer{}, LogInfo)
	c.SetOutput(&out)
	if err := c.printCells(notebook.New("@me/empty")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "0 cells, 0 imported") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
