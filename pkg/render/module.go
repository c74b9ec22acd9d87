package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/obsexport/pkg/notebook"
)

// Options configures [Module].
type Options struct {
	// TransitiveExports imports every dependency under a private "__" name
	// and re-exports it under its local name, so the module exposes the
	// same names as the notebook does inside Observable.
	TransitiveExports bool

	// Manifest appends an "export const __manifest__" describing every cell.
	Manifest bool
}

// ViewStatePrefixes lists the prefixes of cells that hold Observable view or
// mutable state and have no meaning outside the runtime.
var ViewStatePrefixes = []string{"viewof_", "initial_", "mutable_"}

// Module renders nb as a standalone JavaScript module.
func Module(nb *notebook.Notebook, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	defined := make(map[string]bool)
	for _, c := range nb.Defined() {
		defined[c.Name] = true
	}

	deps := nb.Dependencies()
	imported := make(map[string]bool)
	var reexports []string
	for _, src := range nb.ImportedSources() {
		var names []string
		for _, c := range deps[src] {
			if imported[c.Name] || defined[c.Name] {
				continue
			}
			imported[c.Name] = true
			names = append(names, importSpec(c, opts.TransitiveExports))
			reexports = append(reexports, c.Name)
		}
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "import {%s} from '%s%s.js'\n", strings.Join(names, ", "), importPrefix(src), src)
	}

	if opts.TransitiveExports {
		for _, name := range reexports {
			fmt.Fprintf(&buf, "export const %s = __%s;\n", name, name)
		}
	}

	for _, c := range nb.Defined() {
		if !exported(c) {
			continue
		}
		buf.WriteString(c.Text())
	}
	buf.WriteString("// EOF\n")

	if opts.Manifest {
		m, err := Manifest(nb)
		if err != nil {
			return nil, err
		}
		buf.WriteString("export const __manifest__ = (")
		buf.Write(m)
		buf.WriteString(");\n")
	}
	return buf.Bytes(), nil
}

func importSpec(c *notebook.Cell, transitive bool) string {
	remote := c.SourceName
	switch {
	case transitive:
		if remote == "" {
			remote = c.Name
		}
		return remote + " as __" + c.Name
	case remote != "":
		return remote + " as " + c.Name
	default:
		return c.Name
	}
}

// importPrefix returns the relative directory of an imported notebook:
// private notebooks are siblings, public ones live under their user.
func importPrefix(source string) string {
	if notebook.IsPrivate(source) {
		return "./"
	}
	return "../"
}

func exported(c *notebook.Cell) bool {
	for _, p := range ViewStatePrefixes {
		if strings.HasPrefix(c.Name, p) {
			return false
		}
	}
	return !c.IsPreprocessed()
}
