package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/arbor-viz/arbor/pkg/cache"
	"github.com/arbor-viz/arbor/pkg/layout"
	"github.com/arbor-viz/arbor/pkg/tree"
)

func sampleTree() tree.Node {
	return tree.Node{
		Text: "A",
		Children: []tree.Node{
			{Text: "B"},
			{Text: "C", Children: []tree.Node{
				{Text: "D"},
				{Text: "E"},
			}},
		},
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.LevelWidth != layout.DefaultLevelWidth {
		t.Errorf("LevelWidth = %v, want %v", opts.LevelWidth, layout.DefaultLevelWidth)
	}
	if opts.NodeHeight != layout.DefaultNodeHeight {
		t.Errorf("NodeHeight = %v, want %v", opts.NodeHeight, layout.DefaultNodeHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != StyleClean {
		t.Errorf("Style = %q, want %q", opts.Style, StyleClean)
	}
	if opts.Engine != EngineNative {
		t.Errorf("Engine = %q, want %q", opts.Engine, EngineNative)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale = %v, want %v", opts.PNGScale, DefaultPNGScale)
	}

	// Idempotent: a second call must not disturb explicit values.
	opts.Style = StyleCompact
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Style != StyleCompact {
		t.Errorf("Style = %q after revalidation, want %q", opts.Style, StyleCompact)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"bad format", Options{Formats: []string{"tiff"}}},
		{"bad style", Options{Style: "baroque"}},
		{"bad engine", Options{Engine: "quantum"}},
		{"negative level width", Options{LevelWidth: -1}},
		{"negative node height", Options{NodeHeight: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("ValidateAndSetDefaults() expected error")
			}
		})
	}
}

func TestGenerateLayout(t *testing.T) {
	res, err := GenerateLayout(sampleTree(), Options{})
	if err != nil {
		t.Fatalf("GenerateLayout() error = %v", err)
	}
	if len(res.Nodes) != 5 {
		t.Errorf("node count = %d, want 5", len(res.Nodes))
	}
	if len(res.Edges) != 4 {
		t.Errorf("edge count = %d, want 4", len(res.Edges))
	}
}

func TestGenerateLayoutCollapsed(t *testing.T) {
	res, err := GenerateLayout(sampleTree(), Options{Collapsed: []string{"n0-1"}})
	if err != nil {
		t.Fatalf("GenerateLayout() error = %v", err)
	}
	if len(res.Nodes) != 3 {
		t.Errorf("node count = %d, want 3", len(res.Nodes))
	}
	if _, ok := res.Node("n0-1-0"); ok {
		t.Error("descendant of collapsed node should be hidden")
	}
}

func TestRenderFormats(t *testing.T) {
	l, err := GenerateLayout(sampleTree(), Options{})
	if err != nil {
		t.Fatalf("GenerateLayout() error = %v", err)
	}

	artifacts, err := Render(l, Options{Formats: []string{FormatSVG, FormatDOT, FormatJSON}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	svg := artifacts[FormatSVG]
	if !bytes.Contains(svg, []byte(`id="node-n0"`)) {
		t.Error("SVG output missing root node group")
	}

	dot := string(artifacts[FormatDOT])
	if !strings.Contains(dot, "digraph") {
		t.Errorf("DOT output missing digraph header: %q", dot[:min(len(dot), 40)])
	}

	parsed, err := layout.Unmarshal(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("JSON artifact does not round trip: %v", err)
	}
	if len(parsed.Nodes) != len(l.Nodes) {
		t.Errorf("JSON artifact node count = %d, want %d", len(parsed.Nodes), len(l.Nodes))
	}
}

func TestRenderCompactStyle(t *testing.T) {
	l, err := GenerateLayout(sampleTree(), Options{})
	if err != nil {
		t.Fatalf("GenerateLayout() error = %v", err)
	}

	clean, err := Render(l, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	compact, err := Render(l, Options{Formats: []string{FormatSVG}, Style: StyleCompact})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if bytes.Equal(clean[FormatSVG], compact[FormatSVG]) {
		t.Error("compact style should produce different SVG output")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(ctx, sampleTree(), Options{Formats: []string{FormatSVG, FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Stats.NodeCount != 5 || result.Stats.EdgeCount != 4 {
		t.Errorf("stats = (%d nodes, %d edges), want (5, 4)",
			result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if result.LayoutHash == "" {
		t.Error("expected non-empty layout hash")
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("artifact count = %d, want 2", len(result.Artifacts))
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("null cache should never report hits")
	}
}

func TestRunnerExecuteCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Formats: []string{FormatSVG, FormatDOT}}

	first, err := runner.Execute(ctx, sampleTree(), opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(ctx, sampleTree(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs from rendered SVG")
	}
}

func TestRunnerCacheKeyedByCollapseState(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	expanded, err := runner.Execute(ctx, sampleTree(), Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	collapsed, err := runner.Execute(ctx, sampleTree(), Options{Collapsed: []string{"n0-1"}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if collapsed.CacheInfo.LayoutHit {
		t.Error("changed collapse state must not reuse the cached layout")
	}
	if len(collapsed.Layout.Nodes) == len(expanded.Layout.Nodes) {
		t.Error("collapsed run should hide nodes")
	}
}
