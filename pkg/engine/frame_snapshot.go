package engine

import (
	"github.com/go-drift/arbor/pkg/graphics"
	"github.com/go-drift/arbor/pkg/layout"
)

// Frame captures the resolved geometry of one tick. It is what the paint
// backend receives; Nodes is serialized as JSON by tooling.
type Frame struct {
	ID    uint64         `json:"frameId"`
	Size  graphics.Size  `json:"size"`
	Nodes []NodeGeometry `json:"nodes"`
	// Root is the laid-out render tree. Valid until the next Tick.
	Root layout.RenderNode `json:"-"`

	index map[layout.RenderNode]int
}

// NodeGeometry holds the resolved geometry for one render node, in
// pre-order.
type NodeGeometry struct {
	Node  string        `json:"node"`
	Depth int           `json:"depth"`
	Rect  graphics.Rect `json:"rect"`
}

// RectOf returns the absolute rectangle of node in this frame.
func (f *Frame) RectOf(node layout.RenderNode) (graphics.Rect, bool) {
	if f == nil {
		return graphics.Rect{}, false
	}
	i, ok := f.index[node]
	if !ok {
		return graphics.Rect{}, false
	}
	return f.Nodes[i].Rect, true
}

// snapshotFrame walks the render tree depth-first and records every node's
// rectangle in root coordinates.
func snapshotFrame(id uint64, root layout.RenderNode) *Frame {
	f := &Frame{
		ID:    id,
		Size:  root.Size(),
		Root:  root,
		index: make(map[layout.RenderNode]int),
	}
	var visit func(node layout.RenderNode, origin graphics.Offset, depth int)
	visit = func(node layout.RenderNode, origin graphics.Offset, depth int) {
		f.index[node] = len(f.Nodes)
		f.Nodes = append(f.Nodes, NodeGeometry{
			Node:  node.Describe(),
			Depth: depth,
			Rect:  graphics.RectFromOffsetSize(origin, node.Size()),
		})
		for _, child := range node.Children() {
			visit(child, origin.Add(child.Offset()), depth+1)
		}
	}
	visit(root, graphics.Offset{}, 0)
	return f
}
