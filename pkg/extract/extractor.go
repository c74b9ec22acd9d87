package extract

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/obsexport/pkg/errors"
	"github.com/matzehuels/obsexport/pkg/notebook"
)

// maxLineSize bounds a single line of input. Cells embedding data URLs can
// produce very long lines.
const maxLineSize = 64 << 20

const (
	valuePrefix = "      value: "
	// endFunction ends a cell whose value is a function wrapper.
	endFunction = ")})"
	// endValue ends any other cell (plain values, imports, mutables).
	endValue = "    },"
)

// The fixed indentations keep body lines from matching by accident.
var (
	notebookRe = regexp.MustCompile(`^  id: "([^"]+)",?`)
	nameRe     = regexp.MustCompile(`^      name: ("(?:[^"\\]|\\.)*"),?$`)
	fromRe     = regexp.MustCompile(`^      from: ("(?:[^"\\]|\\.)*"),?$`)
	remoteRe   = regexp.MustCompile(`^      remote: "([^"]+)"`)
	inputsRe   = regexp.MustCompile(`^      inputs: (\[.*\]),?$`)
	wrapperRe  = regexp.MustCompile(`^\(function\([^\)]*\)\{return\(`)
	metaRe     = regexp.MustCompile(`^// ([\w ]+): (.*)$`)
)

// scaffolding matches the template lines that carry no cell data.
var scaffolding = []*regexp.Regexp{
	regexp.MustCompile(`^\s*$`),
	regexp.MustCompile(`^const \w+ = \{$`),
	regexp.MustCompile(`^  variables: \[$`),
	regexp.MustCompile(`^  \],?$`),
	regexp.MustCompile(`^\};?$`),
	regexp.MustCompile(`^    \{$`),
	regexp.MustCompile(`^    \},?$`),
	regexp.MustCompile(`^  modules: \[[^\]]*\],?$`),
	regexp.MustCompile(`^export default \w+;$`),
	regexp.MustCompile(`^import .*;$`),
	regexp.MustCompile(`^//`),
}

// rule is one entry of the line classification table. match returns the
// captured groups and whether the line belongs to the rule; handle consumes
// them. The first matching rule wins.
type rule struct {
	name   string
	match  func(e *Extractor, line string) ([]string, bool)
	handle func(e *Extractor, m []string) error
}

// rules is the classification table, in priority order.
var rules = []rule{
	{"notebook", matchNotebook, (*Extractor).onNotebook},
	{"name", matchField(nameRe), (*Extractor).onName},
	{"from", matchField(fromRe), (*Extractor).onFrom},
	{"remote", matchField(remoteRe), (*Extractor).onRemote},
	{"inputs", matchField(inputsRe), (*Extractor).onInputs},
	{"value", matchValue, (*Extractor).onValue},
	{"end", matchEnd, (*Extractor).onEnd},
	{"body", matchBody, (*Extractor).onBody},
	{"meta", matchMeta, (*Extractor).onMeta},
	{"scaffolding", matchScaffolding, func(*Extractor, []string) error { return nil }},
	{"ignored", matchIgnored, func(*Extractor, []string) error { return nil }},
}

// matchField matches a cell field line. Field lines are never recognized
// while a value body is being captured.
func matchField(re *regexp.Regexp) func(*Extractor, string) ([]string, bool) {
	return func(e *Extractor, line string) ([]string, bool) {
		if e.capturing {
			return nil, false
		}
		m := re.FindStringSubmatch(line)
		return m, m != nil
	}
}

func matchNotebook(e *Extractor, line string) ([]string, bool) {
	if e.capturing {
		return nil, false
	}
	m := notebookRe.FindStringSubmatch(line)
	return m, m != nil
}

func matchValue(e *Extractor, line string) ([]string, bool) {
	if e.capturing || !strings.HasPrefix(line, valuePrefix) {
		return nil, false
	}
	return []string{line, line[len(valuePrefix):]}, true
}

func matchEnd(e *Extractor, line string) ([]string, bool) {
	if e.wrapped {
		return nil, strings.HasPrefix(line, endFunction)
	}
	return nil, strings.HasPrefix(line, endValue)
}

func matchBody(e *Extractor, line string) ([]string, bool) {
	return []string{line}, e.capturing
}

func matchMeta(e *Extractor, line string) ([]string, bool) {
	if e.cell != nil {
		return nil, false
	}
	m := metaRe.FindStringSubmatch(line)
	return m, m != nil
}

func matchScaffolding(_ *Extractor, line string) ([]string, bool) {
	for _, re := range scaffolding {
		if re.MatchString(line) {
			return nil, true
		}
	}
	return nil, false
}

// matchIgnored accepts any line while a cell is open but not capturing,
// e.g. the tail of a single-line value or the closing brace of the last
// import in a module.
func matchIgnored(e *Extractor, _ string) ([]string, bool) {
	return nil, e.cell != nil
}

// Option configures an [Extractor].
type Option func(*Extractor)

// WithSymbols makes every extracted notebook resolve inputs against s.
func WithSymbols(s notebook.Symbols) Option {
	return func(e *Extractor) { e.symbols = &s }
}

// WithLogger sets the logger receiving debug events about recovered
// ambiguities. The default discards them.
func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// Extractor is the line-based state machine that turns an export into
// notebooks. Feed it every line in order, then call [Extractor.Result].
//
// An Extractor is single-use and not safe for concurrent use.
type Extractor struct {
	logger  *log.Logger
	symbols *notebook.Symbols

	line      int                           // 1-based number of the last fed line
	source    string                        // id of the last notebook marker
	notebooks map[string]*notebook.Notebook // one per marker id
	ids       []string                      // marker ids in first-seen order
	meta      map[string]string             // header comments

	nb        *notebook.Notebook // notebook of the current marker
	cell      *notebook.Cell     // open cell
	from      string             // pending remote notebook
	remote    string             // pending remote name
	capturing bool               // body lines go to cell
	wrapped   bool               // cell value is a function wrapper
}

// New returns an Extractor ready for its first line.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger:    log.New(io.Discard),
		notebooks: make(map[string]*notebook.Notebook),
		meta:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Feed processes one line of the export. The line must not include its
// trailing newline. A returned error is a format violation; the Extractor
// must not be used afterwards.
func (e *Extractor) Feed(line string) error {
	e.line++
	line = strings.TrimSuffix(line, "\r")
	for _, r := range rules {
		m, ok := r.match(e, line)
		if !ok {
			continue
		}
		if err := r.handle(e, m); err != nil {
			return err
		}
		return nil
	}
	return e.violation(line, "unexpected line outside of a cell")
}

func (e *Extractor) violation(line, reason string) error {
	return &errors.FormatError{Line: e.line, Text: line, Reason: reason}
}

// requireNotebook reports a violation for cell fields seen before any
// notebook marker.
func (e *Extractor) requireNotebook(m []string) error {
	if e.nb == nil {
		return e.violation(m[0], "cell definition before notebook id")
	}
	return nil
}

// reset clears the per-cell state. The notebook marker is kept.
func (e *Extractor) reset() {
	if e.cell != nil {
		e.cell.State = notebook.StateClosed
	}
	e.cell = nil
	e.from = ""
	e.remote = ""
	e.capturing = false
	e.wrapped = false
}

// open appends a cell attributed to the pending annotations.
func (e *Extractor) open(name string, kind notebook.Kind) *notebook.Cell {
	if e.cell != nil {
		e.cell.State = notebook.StateClosed
	}
	source := e.from
	if source == "" {
		source = e.source
	}
	e.cell = e.nb.AddCell(notebook.CellSpec{
		Name:       name,
		Source:     source,
		SourceName: e.remote,
		Kind:       kind,
	})
	return e.cell
}

func (e *Extractor) onNotebook(m []string) error {
	id := m[1]
	e.reset()
	e.source = id
	nb, ok := e.notebooks[id]
	if !ok {
		if e.symbols != nil {
			nb = notebook.NewWithSymbols(id, *e.symbols)
		} else {
			nb = notebook.New(id)
		}
		for k, v := range e.meta {
			nb.Meta[k] = v
		}
		e.notebooks[id] = nb
		e.ids = append(e.ids, id)
	}
	e.nb = nb
	return nil
}

func (e *Extractor) onName(m []string) error {
	if err := e.requireNotebook(m); err != nil {
		return err
	}
	var name string
	if err := json.Unmarshal([]byte(m[1]), &name); err != nil {
		return e.violation(m[0], fmt.Sprintf("undecodable cell name: %v", err))
	}
	e.open(normalizeName(name), notebook.KindJS)
	e.capturing = false
	return nil
}

func (e *Extractor) onFrom(m []string) error {
	var from string
	if err := json.Unmarshal([]byte(m[1]), &from); err != nil {
		return e.violation(m[0], fmt.Sprintf("undecodable import source: %v", err))
	}
	e.from = from
	return nil
}

func (e *Extractor) onRemote(m []string) error {
	e.remote = normalizeName(m[1])
	// remote: usually follows name:, so the open cell is patched here.
	if e.cell != nil && e.cell.Name != e.remote {
		e.cell.SourceName = e.remote
	}
	return nil
}

func (e *Extractor) onInputs(m []string) error {
	if err := e.requireNotebook(m); err != nil {
		return err
	}
	var inputs []string
	if err := json.Unmarshal([]byte(m[1]), &inputs); err != nil {
		return e.violation(m[0], fmt.Sprintf("undecodable inputs: %v", err))
	}
	for i, in := range inputs {
		inputs[i] = normalizeName(in)
	}

	if e.cell == nil || e.cell.HasInputs() {
		if e.cell != nil {
			e.logger.Debug("inputs repeated, starting anonymous cell", "line", e.line, "previous", e.cell.Name)
		}
		kind := inferKind(inputs)
		if kind != notebook.KindJS {
			inputs = []string{}
		}
		e.open("", kind)
		e.capturing = false
		e.wrapped = false
	}
	e.cell.SetInputs(inputs)
	return nil
}

func (e *Extractor) onValue(m []string) error {
	if err := e.requireNotebook(m); err != nil {
		return err
	}
	rest := m[1]
	if wrapperRe.MatchString(rest) {
		e.wrapped = true
		if e.cell == nil {
			e.logger.Debug("function value without name or inputs, starting anonymous cell", "line", e.line)
			e.open("", notebook.KindJS)
		}
	} else if e.cell != nil {
		e.cell.AddLine(rest + "\n")
		e.wrapped = false
	}
	e.capturing = e.cell != nil && e.cell.IsEmpty()
	if e.capturing {
		e.cell.State = notebook.StateValueCapturing
	}
	return nil
}

func (e *Extractor) onEnd([]string) error {
	e.reset()
	return nil
}

func (e *Extractor) onBody(m []string) error {
	e.cell.AddLine(m[0] + "\n")
	return nil
}

func (e *Extractor) onMeta(m []string) error {
	key := strings.ToLower(strings.TrimSpace(m[1]))
	value := strings.TrimSpace(m[2])
	e.meta[key] = value
	if e.nb != nil {
		e.nb.Meta[key] = value
	}
	return nil
}

// Result is the outcome of a complete parse.
type Result struct {
	// Notebook is the notebook named by the last id marker of the export.
	Notebook *notebook.Notebook
	// Notebooks holds one notebook per module id found in the export,
	// including Notebook itself.
	Notebooks map[string]*notebook.Notebook
	// IDs lists the keys of Notebooks in the order they first appeared.
	IDs []string
}

// Result returns the parsed notebooks. It fails when no notebook marker was
// seen.
func (e *Extractor) Result() (*Result, error) {
	if e.nb == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no notebook id found in %d lines", e.line)
	}
	return &Result{
		Notebook:  e.notebooks[e.source],
		Notebooks: e.notebooks,
		IDs:       e.ids,
	}, nil
}

// Parse extracts the notebooks of a complete export.
func Parse(text string, opts ...Option) (*Result, error) {
	e := New(opts...)
	for _, line := range strings.Split(text, "\n") {
		if err := e.Feed(line); err != nil {
			return nil, err
		}
	}
	return e.Result()
}

// ParseReader is like [Parse] but reads the export from r.
func ParseReader(r io.Reader, opts ...Option) (*Result, error) {
	e := New(opts...)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	for sc.Scan() {
		if err := e.Feed(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return e.Result()
}

// normalizeName replaces spaces, which the export uses for special cells
// such as "viewof x" or "mutable x", with underscores.
func normalizeName(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}

// inferKind returns the kind of an anonymous cell from its inputs: a cell
// reading only md or html is a tagged template.
func inferKind(inputs []string) notebook.Kind {
	if len(inputs) == 1 {
		switch inputs[0] {
		case "md":
			return notebook.KindMarkdown
		case "html":
			return notebook.KindHTML
		}
	}
	return notebook.KindJS
}
