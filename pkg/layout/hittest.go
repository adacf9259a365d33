package layout

import "github.com/go-drift/arbor/pkg/graphics"

// HitTestResult collects hit test entries, deepest first.
type HitTestResult struct {
	Entries []RenderNode
}

// Add appends a render node to the hit test result list.
func (h *HitTestResult) Add(target RenderNode) {
	h.Entries = append(h.Entries, target)
}

// HitTest returns the render path under position (in root coordinates),
// deepest node first. The result is empty when the point misses the root.
func HitTest(root RenderNode, position graphics.Offset) []RenderNode {
	if root == nil {
		return nil
	}
	result := &HitTestResult{}
	root.HitTest(position, result)
	return result.Entries
}

// GlobalOffset returns the position of node in root coordinates by summing
// offsets up the parent chain.
func GlobalOffset(node RenderNode) graphics.Offset {
	var total graphics.Offset
	for current := node; current != nil; current = current.Parent() {
		if current.Parent() == nil {
			break
		}
		total = total.Add(current.Offset())
	}
	return total
}
