// Package pkg provides the libraries behind obsexport, a tool that turns
// ObservableHQ notebooks into standalone artifacts.
//
// # Overview
//
// An ObservableHQ notebook export is a JavaScript module that declares every
// cell as a variable definition with a name, its inputs and a value function.
// obsexport reads that module line by line, rebuilds the cells, orders them
// so that every cell follows the cells it reads, and writes the result in one
// of several formats.
//
// # Architecture
//
// The typical data flow:
//
//	api.observablehq.com (or a local export)
//	         ↓
//	    [observable] package (fetch with retries + cache)
//	         ↓
//	    [extract] package (line-based cell extraction)
//	         ↓
//	    [notebook] package (cells, dependency ordering)
//	         ↓
//	    [render] package (JS module, Markdown, JSON, DOT, SVG)
//
// [pipeline] ties these stages together and is shared by the CLI and the
// HTTP server in internal/cli.
//
// # Quick Start
//
// Fetch a notebook and write it as an ES module:
//
//	import (
//	    "context"
//	    "os"
//	    "github.com/matzehuels/obsexport/pkg/cache"
//	    "github.com/matzehuels/obsexport/pkg/observable"
//	    "github.com/matzehuels/obsexport/pkg/pipeline"
//	)
//
//	c, _ := cache.NewFileCache("/tmp/obsexport")
//	client := observable.NewClient(c, observable.Config{})
//	runner := pipeline.NewRunner(client, c, nil, nil)
//	res, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Notebook: "@d3/bar-chart",
//	    Ignore:   []string{"viewof_*"},
//	})
//	os.Stdout.Write(res.Output)
//
// Parse an export that is already on disk:
//
//	res, _ := extract.Parse(string(data))
//	for _, cell := range res.Notebook.Cells() {
//	    fmt.Println(cell.Name, cell.Inputs)
//	}
//
// # Main Packages
//
// [notebook] - Cells, notebook names and the ordering of cells by their
// inputs. Cells reading names nothing defines are kept and marked unresolved.
//
// [extract] - A line-oriented state machine over export text. Imported
// notebooks become cells tagged with their source.
//
// [render] - Output formats. [render/nodelink] draws the cell graph with
// Graphviz.
//
// [observable] - HTTP client for the export API, including private
// notebooks addressed by hash id and an API key.
//
// [cache] - File, Redis and no-op caches for fetched exports and rendered
// output, plus the retry helpers used by the client.
//
// [observability] - Hooks for fetch, parse, render, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/extract/...            # Specific package
//	go test -run Example                 # Examples only
//
// Redis tests run when OBSEXPORT_TEST_REDIS_ADDR names a server.
//
// [notebook]: https://pkg.go.dev/github.com/matzehuels/obsexport/pkg/notebook
// [extract]: https://pkg.go.dev/github.com/matzehuels/obsexport/pkg/extract
// [render]: https://pkg.go.dev/github.com/matzehuels/obsexport/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/obsexport/pkg/render/nodelink
// [observable]: https://pkg.go.dev/github.com/matzehuels/obsexport/pkg/observable
// [cache]: https://pkg.go.dev/github.com/matzehuels/obsexport/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/obsexport/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/obsexport/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/obsexport/pkg/pipeline
package pkg
