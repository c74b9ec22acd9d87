package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/obsexport/pkg/errors"
	"github.com/matzehuels/obsexport/pkg/pipeline"
	"github.com/matzehuels/obsexport/pkg/render"
)

// exportOptions holds the flags of the export command.
type exportOptions struct {
	ignore            []string
	output            string
	append            bool
	apiKey            string
	manifest          bool
	format            string
	transitiveExports bool
	detailed          bool
	refresh           bool
	noCache           bool
	file              string
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export [notebook]",
		Short: "Export a notebook as a module, Markdown, JSON or cell graph",
		Long: `Export downloads a notebook and writes it in the requested format.

The notebook is named as on observablehq.com, e.g. @user/notebook, with an
optional @revision, or by the 16-digit id of a private notebook (which needs
an API key). The format comes from --type, else from the extension of
--output, else js.

Formats: js (standalone module), md, json, dot, svg (cell graph) and raw
(the export as downloaded).`,
		Example: `  # Write a notebook as a module
  obsexport export @sebastien/boilerplate -o boilerplate.js

  # Leave out view cells and print Markdown
  obsexport export @sebastien/boilerplate -t md -i 'viewof_*'

  # Convert an export that was already downloaded
  obsexport export -f notebook.js -t json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.file == "" {
				return errors.New(errors.ErrCodeInvalidInput, "a notebook name or --file is required")
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			c.applyExportConfig(cmd, &opts)
			return c.runExport(cmd.Context(), name, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.ignore, "ignore", "i", nil, "leave out cells with this name or glob (repeatable)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	f.BoolVarP(&opts.append, "append", "a", false, "append to the output file")
	f.StringVarP(&opts.apiKey, "api-key", "k", "", "API key for private notebooks (default $"+envAPIKey+")")
	f.BoolVarP(&opts.manifest, "manifest", "m", false, "append a manifest of every cell (js only)")
	f.StringVarP(&opts.format, "type", "t", "", "output format: js, md, json, dot, svg or raw")
	f.BoolVar(&opts.transitiveExports, "transitive-exports", false, "re-export imported cells (js only)")
	f.BoolVar(&opts.detailed, "detailed", false, "show kind, order and depth in graph nodes (dot and svg)")
	f.BoolVar(&opts.refresh, "refresh", false, "bypass the cache")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.StringVarP(&opts.file, "file", "f", "", "read the export from a file instead of downloading it (- for stdin)")

	registerNotebookCompletions(cmd)
	_ = cmd.RegisterFlagCompletionFunc("type", completeFormats)
	_ = cmd.MarkFlagFilename("output", "js", "md", "json", "dot", "svg", "ojs")

	return cmd
}

// applyExportConfig fills flags the user did not set from the config file.
func (c *CLI) applyExportConfig(cmd *cobra.Command, opts *exportOptions) {
	cfg := c.Config.Export
	opts.ignore = append(opts.ignore, cfg.Ignore...)
	if !cmd.Flags().Changed("transitive-exports") {
		opts.transitiveExports = cfg.TransitiveExports
	}
	if !cmd.Flags().Changed("manifest") {
		opts.manifest = cfg.Manifest
	}
}

// resolveFormat picks the format from --type, the output extension or the
// default, in that order.
func resolveFormat(typ, output string) (render.Format, error) {
	if typ != "" {
		return render.ParseFormat(typ)
	}
	if f, ok := render.FormatFromPath(output); ok {
		return f, nil
	}
	return pipeline.DefaultFormat, nil
}

func (c *CLI) runExport(ctx context.Context, name string, opts exportOptions) error {
	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	// Options that only apply to js output are dropped for other formats,
	// so config defaults do not break md or json exports.
	if format != render.FormatJS {
		opts.manifest = false
		opts.transitiveExports = false
	}

	popts := pipeline.Options{
		Notebook:          name,
		Format:            format,
		Ignore:            opts.ignore,
		TransitiveExports: opts.transitiveExports,
		Manifest:          opts.manifest,
		Detailed:          opts.detailed,
		Refresh:           opts.refresh,
	}
	if opts.file != "" {
		text, err := readInput(opts.file, c.stdin)
		if err != nil {
			return err
		}
		popts.Text = text
		if popts.Notebook == "" {
			popts.Notebook = opts.file
		}
	}

	runner, err := c.newRunner(ctx, opts.apiKey, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	var spinner *Spinner
	if opts.output != "" && isTerminal(os.Stderr) {
		spinner = newSpinner(ctx, os.Stderr, "Exporting "+popts.Notebook)
		spinner.Start()
	}
	result, err := runner.Execute(ctx, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if err := c.writeOutput(opts.output, opts.append, result.Output); err != nil {
		return err
	}
	prog.done("Exported " + popts.Notebook)

	if opts.output != "" {
		st := c.status()
		st.success("Exported %s as %s", popts.Notebook, result.Format)
		st.written(opts.output, len(result.Output), opts.append)
		st.stats(result.Stats, result.CacheHit)
		if n := unresolved(result); n > 0 {
			st.warn("%d cells read names the notebook does not define", n)
		}
		if result.Format == render.FormatJS && opts.file == "" {
			st.nextStep("Browse the cells", appName+" cells "+popts.Notebook)
		}
	}
	return nil
}

func unresolved(r *pipeline.Result) int {
	if r.Notebook == nil {
		return 0
	}
	n := 0
	for _, c := range r.Notebook.Defined() {
		if !c.Resolved {
			n++
		}
	}
	return n
}

// writeOutput writes data to path, or to the command output when path is empty.
func (c *CLI) writeOutput(path string, appendTo bool, data []byte) error {
	if path == "" {
		_, err := c.stdout.Write(data)
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendTo {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read export %s", path)
	}
	return data, nil
}
