package widgets

import (
	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/layout"
)

func createFlex(direction layout.Axis) func(*core.Node) layout.RenderNode {
	return func(n *core.Node) layout.RenderNode {
		r := layout.NewRenderFlex(direction)
		updateFlex(n, r)
		return r
	}
}

func updateFlex(n *core.Node, render layout.RenderNode) {
	r := render.(*layout.RenderFlex)
	p := n.Props
	changed := false
	assign(&r.MainAxisSize, enumProp(p, PropMainAxisSize, mainAxisSizes, layout.MainAxisSizeMin), &changed)
	assign(&r.MainAxisAlignment, enumProp(p, PropMainAxisAlignment, mainAxisAlignments, layout.MainAxisAlignmentStart), &changed)
	assign(&r.CrossAxisAlignment, enumProp(p, PropCrossAxisAlignment, crossAxisAlignments, layout.CrossAxisAlignmentStart), &changed)
	assign(&r.Spacing, p.Float(PropSpacing, 0), &changed)
	if changed {
		r.MarkNeedsLayout()
	}
	r.SetParentData(flexData(p, 0))
}

// RowOf lays children out horizontally.
func (k *Kinds) RowOf(props core.Props, children ...*core.Node) *core.Node {
	return core.New(k.Row, props, children...)
}

// ColumnOf lays children out vertically.
func (k *Kinds) ColumnOf(props core.Props, children ...*core.Node) *core.Node {
	return core.New(k.Column, props, children...)
}

// ExpandedOf makes child take a share of the free main-axis space of its
// row or column proportional to flex.
func (k *Kinds) ExpandedOf(flex int, child *core.Node) *core.Node {
	return core.New(k.Expanded, core.Props{PropFlex: flex}, child)
}

func createExpanded(n *core.Node) layout.RenderNode {
	r := layout.NewRenderProxy()
	updateExpanded(n, r)
	return r
}

func updateExpanded(n *core.Node, r layout.RenderNode) {
	r.SetParentData(flexData(n.Props, 1))
}
