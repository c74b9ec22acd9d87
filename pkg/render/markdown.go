package render

import (
	"bytes"
	"strings"

	"github.com/matzehuels/obsexport/pkg/notebook"
)

// Markdown renders nb as a Markdown document. Markdown cells are written as
// prose; every other cell becomes a fenced block labelled with its kind.
func Markdown(nb *notebook.Notebook) []byte {
	var buf bytes.Buffer
	for _, c := range nb.Cells() {
		if c.Kind == notebook.KindMarkdown {
			buf.WriteString(c.Text())
			buf.WriteString("\n\n")
			continue
		}
		buf.WriteString("```" + string(c.Kind) + "\n")
		if c.Name != "" {
			buf.WriteString("const " + c.Name + " = ")
		}
		buf.WriteString(strings.Join(c.Body, ""))
		buf.WriteString("```\n\n")
	}
	return buf.Bytes()
}
