package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/obsexport/pkg/extract"
	"github.com/matzehuels/obsexport/pkg/notebook"
)

// Parse extracts the notebook from an export and drops the cells matching
// opts.Ignore. The returned count is the number of cells dropped.
func Parse(text []byte, opts Options, logger *log.Logger) (*notebook.Notebook, int, error) {
	extractOpts := []extract.Option{}
	if logger != nil {
		extractOpts = append(extractOpts, extract.WithLogger(logger))
	}
	if opts.Symbols != nil {
		extractOpts = append(extractOpts, extract.WithSymbols(*opts.Symbols))
	}

	res, err := extract.Parse(string(text), extractOpts...)
	if err != nil {
		return nil, 0, err
	}
	nb := res.Notebook
	if len(opts.Ignore) == 0 {
		return nb, 0, nil
	}

	kept := nb.Filter(func(c *notebook.Cell) bool { return !opts.Ignores(c.Name) })
	return kept, len(nb.Cells()) - len(kept.Cells()), nil
}
