package engine

import (
	"github.com/go-drift/arbor/pkg/graphics"
	"github.com/go-drift/arbor/pkg/layout"
)

// HitTest returns the render path under point, deepest node first. point is
// in root coordinates. The result is empty when point misses the root or the
// tree has never been laid out.
func HitTest(root layout.RenderNode, point graphics.Offset) []layout.RenderNode {
	if root == nil || root.Size() == (graphics.Size{}) {
		return nil
	}
	return layout.HitTest(root, point)
}

// HitTestFirst returns the deepest render node under point that satisfies
// match, or nil.
func HitTestFirst(root layout.RenderNode, point graphics.Offset, match func(layout.RenderNode) bool) layout.RenderNode {
	for _, entry := range HitTest(root, point) {
		if match == nil || match(entry) {
			return entry
		}
	}
	return nil
}
