package widgets

import (
	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/layout"
)

func createStack(n *core.Node) layout.RenderNode {
	r := layout.NewRenderStack()
	updateStack(n, r)
	return r
}

func updateStack(n *core.Node, render layout.RenderNode) {
	r := render.(*layout.RenderStack)
	p := n.Props
	changed := false
	assign(&r.Fit, enumProp(p, PropFit, stackFits, layout.StackFitLoose), &changed)
	assign(&r.Alignment, enumProp(p, PropAlignment, alignments, layout.AlignTopLeft), &changed)
	if changed {
		r.MarkNeedsLayout()
	}
	r.SetParentData(flexData(p, 0))
}

func createPositioned(n *core.Node) layout.RenderNode {
	r := layout.NewRenderProxy()
	updatePositioned(n, r)
	return r
}

// updatePositioned copies the set offsets and dimensions into the parent
// data read by a stack.
func updatePositioned(n *core.Node, r layout.RenderNode) {
	p := n.Props
	data := flexData(p, 0)
	if p.Has(PropLeft) {
		data = data.WithLeft(p.Float(PropLeft, 0))
	}
	if p.Has(PropTop) {
		data = data.WithTop(p.Float(PropTop, 0))
	}
	if p.Has(PropWidth) {
		data = data.WithWidth(p.Float(PropWidth, 0))
	}
	if p.Has(PropHeight) {
		data = data.WithHeight(p.Float(PropHeight, 0))
	}
	r.SetParentData(data)
}

// StackOf layers children on top of each other.
func (k *Kinds) StackOf(props core.Props, children ...*core.Node) *core.Node {
	return core.New(k.Stack, props, children...)
}

// PositionedOf places child at (left, top) inside a stack.
func (k *Kinds) PositionedOf(left, top float64, child *core.Node) *core.Node {
	return core.New(k.Positioned, core.Props{PropLeft: left, PropTop: top}, child)
}

// Centered centers child in the space available to it.
func (k *Kinds) Centered(child *core.Node) *core.Node {
	return core.New(k.Center, nil, child)
}
