package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/obsexport/pkg/errors"
	"github.com/matzehuels/obsexport/pkg/notebook"
	"github.com/matzehuels/obsexport/pkg/pipeline"
)

type cellsOptions struct {
	ignore  []string
	apiKey  string
	file    string
	refresh bool
	plain   bool
}

// cellsCommand creates the cells command.
func (c *CLI) cellsCommand() *cobra.Command {
	var opts cellsOptions

	cmd := &cobra.Command{
		Use:   "cells [notebook]",
		Short: "List the cells of a notebook in dependency order",
		Long: `Cells lists every cell of a notebook in the order a module export defines
them, with its inputs, the notebook it is imported from and its depth in the
dependency graph.

On a terminal the list is an interactive browser; --plain prints a table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.file == "" {
				return errors.New(errors.ErrCodeInvalidInput, "a notebook name or --file is required")
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return c.runCells(cmd.Context(), name, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.ignore, "ignore", "i", nil, "leave out cells with this name or glob (repeatable)")
	f.StringVarP(&opts.apiKey, "api-key", "k", "", "API key for private notebooks (default $"+envAPIKey+")")
	f.StringVarP(&opts.file, "file", "f", "", "read the export from a file instead of downloading it (- for stdin)")
	f.BoolVar(&opts.refresh, "refresh", false, "bypass the cache")
	f.BoolVar(&opts.plain, "plain", false, "print a table instead of the interactive browser")
	registerNotebookCompletions(cmd)

	return cmd
}

func (c *CLI) runCells(ctx context.Context, name string, opts cellsOptions) error {
	popts := pipeline.Options{Notebook: name, Ignore: opts.ignore, Refresh: opts.refresh}
	if opts.file != "" {
		text, err := readInput(opts.file, c.stdin)
		if err != nil {
			return err
		}
		popts.Text = text
	}
	if err := popts.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.apiKey, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	text, err := runner.Fetch(ctx, popts)
	if err != nil {
		return err
	}
	nb, ignored, err := pipeline.Parse(text, popts, c.Logger)
	if err != nil {
		return err
	}
	c.Logger.Debug("parsed cells", "notebook", nb.ID, "cells", len(nb.Cells()), "ignored", ignored)

	if opts.plain || !isTerminal(c.stdout) {
		return c.printCells(nb)
	}
	_, err = tea.NewProgram(NewCellListModel(nb), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// printCells writes the cell table of nb to the command output.
func (c *CLI) printCells(nb *notebook.Notebook) error {
	cells := nb.Cells()
	_, err := fmt.Fprintf(c.stdout, "%s\n%s\n%s\n",
		StyleTitle.Render(nb.ID),
		cellTable(nb, cells, -1).Render(),
		StyleDim.Render(fmt.Sprintf("%d cells, %d imported", len(cells), len(cells)-len(nb.Defined()))))
	return err
}
