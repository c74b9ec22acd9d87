// Package pipeline provides the export pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: download the notebook export, or take the text given in Options
//  2. Parse: extract the cells and drop those matching the ignore patterns
//  3. Render: produce the requested output format
//
// Rendered outputs are cached by the content hash of the export text and
// every option that changes the output, so a refreshed notebook whose text
// did not change is not rendered twice.
//
// # Usage
//
//	runner := pipeline.NewRunner(client, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Notebook: "@user/notebook",
//	    Format:   render.FormatJS,
//	    Ignore:   []string{"viewof_*"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Output)
package pipeline

import (
	"path"
	"time"

	"github.com/matzehuels/obsexport/pkg/cache"
	"github.com/matzehuels/obsexport/pkg/errors"
	"github.com/matzehuels/obsexport/pkg/notebook"
	"github.com/matzehuels/obsexport/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultFormat is the output format used when none is given.
const DefaultFormat = render.FormatJS

// TTLExport is how long a rendered export stays cached. Exports are keyed by
// the hash of their source text, so they never go stale.
const TTLExport = 7 * 24 * time.Hour

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one export.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Notebook is the notebook name, e.g. "@user/notebook" or a private id.
	Notebook string `json:"notebook,omitempty"`
	// Text is an export that is already available. When set, nothing is
	// fetched and Notebook is only used for messages.
	Text []byte `json:"-"`

	Format            render.Format `json:"format,omitempty"`
	Ignore            []string      `json:"ignore,omitempty"` // Cell names or globs to leave out
	TransitiveExports bool          `json:"transitive_exports,omitempty"`
	Manifest          bool          `json:"manifest,omitempty"`
	Detailed          bool          `json:"detailed,omitempty"` // dot and svg only
	Refresh           bool          `json:"refresh,omitempty"`

	// Symbols overrides the globals every cell may read.
	Symbols *notebook.Symbols `json:"-"`

	// validated tracks whether Validate has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Notebook is the filtered notebook. It is nil for raw output and for
	// renders served from the cache.
	Notebook *notebook.Notebook

	// SourceHash is the content hash of the export text.
	SourceHash string

	// Format is the format of Output.
	Format render.Format

	// Output is the rendered export.
	Output []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Output came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SourceBytes int
	CellCount   int // Cells kept after filtering
	Ignored     int // Cells dropped by the ignore patterns
	FetchTime   time.Duration
	ParseTime   time.Duration
	RenderTime  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// Validate checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) Validate() error {
	if o.validated {
		return nil
	}
	if o.Notebook == "" && o.Text == nil {
		return errors.New(errors.ErrCodeInvalidInput, "notebook name is required")
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	f, err := render.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f
	for _, p := range o.Ignore {
		if err := errors.ValidateCellPattern(p); err != nil {
			return err
		}
	}
	if o.TransitiveExports && o.Format != render.FormatJS {
		return errors.New(errors.ErrCodeInvalidInput, "transitive exports only apply to js output, not %s", o.Format)
	}
	if o.Manifest && o.Format != render.FormatJS {
		return errors.New(errors.ErrCodeInvalidInput, "a manifest only applies to js output, not %s", o.Format)
	}
	o.validated = true
	return nil
}

// Ignores reports whether the cell called name matches an ignore pattern.
// Patterns match whole names, either literally or as a glob.
func (o *Options) Ignores(name string) bool {
	for _, p := range o.Ignore {
		if p == name {
			return true
		}
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

// ExportKeyOpts returns cache key options for the rendered export.
func (o *Options) ExportKeyOpts() cache.ExportKeyOpts {
	return cache.ExportKeyOpts{
		Format:            string(o.Format),
		Ignore:            o.Ignore,
		TransitiveExports: o.TransitiveExports,
		Manifest:          o.Manifest,
		Detailed:          o.Detailed,
	}
}
