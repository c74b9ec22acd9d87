package notebook

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind tells how a cell's body is to be read.
type Kind string

const (
	// KindJS is a plain JavaScript expression.
	KindJS Kind = "js"
	// KindMarkdown is an md`...` tagged template.
	KindMarkdown Kind = "md"
	// KindHTML is an html`...` tagged template.
	KindHTML Kind = "html"
)

// State is the extraction lifecycle of a cell. The extractor uses it to tell
// a fresh cell from one that already received its inputs or value.
type State int

const (
	// StateEmpty is a cell that was just opened.
	StateEmpty State = iota
	// StateInputsSet is a cell whose inputs line has been read.
	StateInputsSet
	// StateValueCapturing is a cell whose value lines are being read.
	StateValueCapturing
	// StateClosed is a cell whose end marker has been read.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateInputsSet:
		return "inputs-set"
	case StateValueCapturing:
		return "value-capturing"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	anonymousRe    = regexp.MustCompile(`^__CELL_\d+__$`)
	preprocessedRe = regexp.MustCompile("^\\w+`")
)

// anonymousName returns the placeholder name of an unnamed cell at index.
func anonymousName(index int) string {
	return fmt.Sprintf("__CELL_%d__", index)
}

// Cell is one computation unit of a notebook.
//
// Name is set once by [Notebook.AddCell] and never changes. Inputs and Body
// are filled in by the extractor; Order, Depth and Resolved are written by
// normalization and only meaningful after reading [Notebook.Cells].
type Cell struct {
	Name       string   // Unique within a notebook, __CELL_<n>__ when anonymous
	Source     string   // Notebook the cell was imported from ("" when local)
	SourceName string   // Remote name when imported under an alias
	Kind       Kind     // js, md or html
	Inputs     []string // Names this cell reads
	Body       []string // Raw value lines, newline-terminated
	Index      int      // Position in the export
	Order      int      // Topological rank
	Depth      int      // Longest path from a cell without cell inputs
	Resolved   bool     // All inputs are satisfiable
	State      State    // Extraction lifecycle
}

// AddLine appends a raw line to the cell's body.
func (c *Cell) AddLine(line string) *Cell {
	c.Body = append(c.Body, line)
	return c
}

// SetInputs records the cell's inputs and advances its state.
func (c *Cell) SetInputs(inputs []string) {
	c.Inputs = inputs
	if c.State < StateInputsSet {
		c.State = StateInputsSet
	}
}

// HasInputs reports whether an inputs line was already read for this cell.
func (c *Cell) HasInputs() bool { return c.State >= StateInputsSet }

// IsEmpty reports whether no body line has been captured.
func (c *Cell) IsEmpty() bool { return len(c.Body) == 0 }

// IsAnonymous reports whether the cell name was synthesized.
func (c *Cell) IsAnonymous() bool { return anonymousRe.MatchString(c.Name) }

// IsImported reports whether the cell comes from a notebook other than id.
func (c *Cell) IsImported(id string) bool { return c.Source != "" && c.Source != id }

// IsPreprocessed reports whether the cell's content is a tagged template
// literal (md`...`, html`...`) rather than plain script.
func (c *Cell) IsPreprocessed() bool {
	if c.Kind == KindMarkdown || c.Kind == KindHTML {
		return true
	}
	return len(c.Body) > 0 && preprocessedRe.MatchString(c.Body[0])
}

// Text returns the cell content. Markdown and HTML cells yield the template
// literal's content with escaped backticks restored; JavaScript cells yield an
// annotated export declaration.
func (c *Cell) Text() string {
	body := strings.Join(c.Body, "")
	switch c.Kind {
	case KindMarkdown, KindHTML:
		text := strings.TrimRight(body, "`\n")
		text = strings.TrimPrefix(text, string(c.Kind)+"`")
		return strings.ReplaceAll(text, "\\`", "`")
	default:
		return fmt.Sprintf("// @cell('%s', %s)\nexport const %s = %s", c.Name, formatInputs(c.Inputs), c.Name, body)
	}
}

// formatInputs renders inputs as a JS array literal of single-quoted strings.
func formatInputs(inputs []string) string {
	quoted := make([]string, len(inputs))
	for i, in := range inputs {
		quoted[i] = "'" + in + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// clone returns a deep copy of c.
func (c *Cell) clone() *Cell {
	cp := *c
	cp.Inputs = append([]string(nil), c.Inputs...)
	cp.Body = append([]string(nil), c.Body...)
	return &cp
}

func (c *Cell) String() string {
	s := fmt.Sprintf("(Cell %s@%s", c.Name, c.Source)
	if c.SourceName != "" {
		s += ":" + c.SourceName
	}
	return fmt.Sprintf("%s %s %v)", s, c.Kind, c.Inputs)
}
