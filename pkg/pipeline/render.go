package pipeline

import (
	"fmt"

	"github.com/arbor-viz/arbor/pkg/layout"
	"github.com/arbor-viz/arbor/pkg/render"
	"github.com/arbor-viz/arbor/pkg/render/dot"
	"github.com/arbor-viz/arbor/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(l layout.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		data, err := renderFormat(l, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(l layout.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		if opts.Engine == EngineGraphviz {
			return dot.RenderSVG(dot.ToDOT(l))
		}
		return sink.RenderSVG(l, svgOptions(opts)...), nil

	case FormatPNG:
		if opts.Engine == EngineGraphviz {
			return dot.RenderPNG(dot.ToDOT(l))
		}
		return render.ToPNG(sink.RenderSVG(l, svgOptions(opts)...), opts.PNGScale)

	case FormatPDF:
		return render.ToPDF(sink.RenderSVG(l, svgOptions(opts)...))

	case FormatDOT:
		return []byte(dot.ToDOT(l)), nil

	case FormatJSON:
		return layout.Marshal(l)

	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// svgOptions maps the style name to renderer options.
func svgOptions(opts Options) []sink.SVGOption {
	if opts.Style == StyleCompact {
		return []sink.SVGOption{
			sink.WithBoxSize(120, 32),
			sink.WithFontSize(12),
			sink.WithoutBadges(),
		}
	}
	return nil
}
