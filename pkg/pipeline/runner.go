package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/obsexport/pkg/cache"
	"github.com/matzehuels/obsexport/pkg/errors"
	"github.com/matzehuels/obsexport/pkg/observability"
	"github.com/matzehuels/obsexport/pkg/render"
)

// Fetcher downloads notebook exports. [observable.Client] implements it.
type Fetcher interface {
	FetchNotebook(ctx context.Context, name string, refresh bool) ([]byte, error)
}

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP server use it.
//
// The Runner is stateless except for its fetcher, cache and logger, so
// multiple goroutines can safely use the same Runner with different options.
type Runner struct {
	Fetcher Fetcher
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(f Fetcher, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Fetcher: f,
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
	}
}

// WithKeyer returns a copy of r that names cache entries with keyer.
func (r *Runner) WithKeyer(keyer cache.Keyer) *Runner {
	cp := *r
	cp.Keyer = keyer
	return &cp
}

// Execute runs the complete fetch → parse → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	result := &Result{Format: opts.Format}

	// Stage 1: Fetch
	fetchStart := time.Now()
	text, err := r.Fetch(ctx, opts)
	result.Stats.FetchTime = time.Since(fetchStart)
	if err != nil {
		return nil, err
	}
	result.SourceHash = cache.Hash(text)
	result.Stats.SourceBytes = len(text)

	// Raw output needs neither parsing nor caching.
	if opts.Format == render.FormatRaw {
		result.Output = text
		return result, nil
	}

	// Custom symbols change resolution, which the export key does not cover.
	cacheable := opts.Symbols == nil
	cacheKey := r.Keyer.ExportKey(result.SourceHash, opts.ExportKeyOpts())
	if cacheable {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "export")
			r.Logger.Info("export served from cache", "notebook", opts.Notebook, "format", opts.Format)
			result.Output = data
			result.CacheHit = true
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "export")
	}

	// Stage 2: Parse
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Notebook)
	parseStart := time.Now()
	nb, ignored, err := Parse(text, opts, r.Logger)
	result.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		hooks.OnParseComplete(ctx, opts.Notebook, 0, result.Stats.ParseTime, err)
		return nil, fmt.Errorf("parse %s: %w", opts.Notebook, err)
	}
	result.Notebook = nb
	result.Stats.CellCount = len(nb.Cells())
	result.Stats.Ignored = ignored
	hooks.OnParseComplete(ctx, opts.Notebook, result.Stats.CellCount, result.Stats.ParseTime, nil)

	r.Logger.Info("parsed notebook",
		"id", nb.ID,
		"cells", result.Stats.CellCount,
		"ignored", ignored,
		"duration", result.Stats.ParseTime)

	// Stage 3: Render
	hooks.OnRenderStart(ctx, string(opts.Format))
	renderStart := time.Now()
	out, err := Render(ctx, nb, text, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, string(opts.Format), len(out), result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	result.Output = out

	r.Logger.Info("rendered export",
		"format", opts.Format,
		"bytes", len(out),
		"duration", result.Stats.RenderTime)

	if cacheable {
		if err := r.Cache.Set(ctx, cacheKey, out, TTLExport); err == nil {
			observability.Cache().OnCacheSet(ctx, "export", len(out))
		}
	}
	return result, nil
}

// Fetch returns opts.Text when set, or downloads opts.Notebook.
func (r *Runner) Fetch(ctx context.Context, opts Options) ([]byte, error) {
	if opts.Text != nil {
		return opts.Text, nil
	}
	if r.Fetcher == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no fetcher configured to download %s", opts.Notebook)
	}

	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, opts.Notebook)
	start := time.Now()
	text, err := r.Fetcher.FetchNotebook(ctx, opts.Notebook, opts.Refresh)
	elapsed := time.Since(start)
	hooks.OnFetchComplete(ctx, opts.Notebook, len(text), elapsed, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("fetched notebook",
		"notebook", opts.Notebook,
		"bytes", len(text),
		"duration", elapsed)
	return text, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
