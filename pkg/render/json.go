package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/obsexport/pkg/notebook"
)

// CellJSON is the serialized form of a cell. Optional attributes are omitted
// when empty.
type CellJSON struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Source     string   `json:"source,omitempty"`
	SourceName string   `json:"sourceName,omitempty"`
	Inputs     []string `json:"inputs"`
	Value      string   `json:"value,omitempty"`
	Index      int      `json:"index"`
	Order      int      `json:"order"`
	Key        int      `json:"key"`
}

// NewCellJSON converts c. When full is false the source and value are left
// out, which is the form used by [Manifest].
func NewCellJSON(c *notebook.Cell, full bool) CellJSON {
	out := CellJSON{
		Name:       c.Name,
		Type:       string(c.Kind),
		SourceName: c.SourceName,
		Inputs:     c.Inputs,
		Index:      c.Index,
		Order:      c.Order,
		Key:        c.Depth,
	}
	if out.Inputs == nil {
		out.Inputs = []string{}
	}
	if full {
		out.Source = c.Source
		out.Value = strings.Join(c.Body, "")
	}
	return out
}

// JSON renders nb as an object mapping each cell name to its attributes.
func JSON(nb *notebook.Notebook) ([]byte, error) {
	return marshalCells(nb, true)
}

// Manifest renders the attributes of every cell without source and value.
func Manifest(nb *notebook.Notebook) ([]byte, error) {
	return marshalCells(nb, false)
}

func marshalCells(nb *notebook.Notebook, full bool) ([]byte, error) {
	cells := nb.Cells()
	m := make(map[string]CellJSON, len(cells))
	for _, c := range cells {
		m[c.Name] = NewCellJSON(c, full)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal cells: %w", err)
	}
	return data, nil
}
