package pipeline

import (
	"github.com/arbor-viz/arbor/pkg/layout"
	"github.com/arbor-viz/arbor/pkg/tree"
	"github.com/arbor-viz/arbor/pkg/tree/collapse"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes the layout for the visible portion of the tree
// under the collapse set in opts. This is the unified entry point used by
// the CLI, the server, and the explorer; all of them see identical
// positions for identical inputs.
func GenerateLayout(root tree.Node, opts Options) (layout.Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, err
	}
	return layout.Compute(root, collapse.FromIDs(opts.Collapsed...), opts.LayoutOptions())
}
