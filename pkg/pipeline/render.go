package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/obsexport/pkg/errors"
	"github.com/matzehuels/obsexport/pkg/notebook"
	"github.com/matzehuels/obsexport/pkg/render"
	"github.com/matzehuels/obsexport/pkg/render/nodelink"
)

// Render generates the output of nb in opts.Format. Raw output is the
// export text itself, so nb may be nil for it.
func Render(ctx context.Context, nb *notebook.Notebook, text []byte, opts Options) ([]byte, error) {
	if opts.Format == render.FormatRaw {
		return text, nil
	}
	if nb == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no notebook to render as %s", opts.Format)
	}

	switch opts.Format {
	case render.FormatJS:
		return render.Module(nb, render.Options{
			TransitiveExports: opts.TransitiveExports,
			Manifest:          opts.Manifest,
		})
	case render.FormatMarkdown:
		return render.Markdown(nb), nil
	case render.FormatJSON:
		return render.JSON(nb)
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(nb, nodelink.Options{Detailed: opts.Detailed})), nil
	case render.FormatSVG:
		dot := nodelink.ToDOT(nb, nodelink.Options{Detailed: opts.Detailed})
		data, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported output format %q", opts.Format)
	}
}
