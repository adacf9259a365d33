package widgets

import (
	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/graphics"
	"github.com/go-drift/arbor/pkg/layout"
)

func createSizedBox(n *core.Node) layout.RenderNode {
	r := layout.NewRenderSizedBox()
	updateSizedBox(n, r)
	return r
}

func updateSizedBox(n *core.Node, render layout.RenderNode) {
	r := render.(*layout.RenderSizedBox)
	p := n.Props
	changed := false
	assign(&r.HasWidth, p.Has(PropWidth), &changed)
	assign(&r.Width, p.Float(PropWidth, 0), &changed)
	assign(&r.HasHeight, p.Has(PropHeight), &changed)
	assign(&r.Height, p.Float(PropHeight, 0), &changed)
	if changed {
		r.MarkNeedsLayout()
	}
	r.SetParentData(flexData(p, 0))
}

func createPadding(n *core.Node) layout.RenderNode {
	r := layout.NewRenderPadding(graphics.EdgeInsets{})
	updatePadding(n, r)
	return r
}

func updatePadding(n *core.Node, render layout.RenderNode) {
	r := render.(*layout.RenderPadding)
	changed := false
	assign(&r.Padding, paddingProp(n.Props), &changed)
	if changed {
		r.MarkNeedsLayout()
	}
	r.SetParentData(flexData(n.Props, 0))
}

// SizedBoxOf forces child, if any, to width by height.
func (k *Kinds) SizedBoxOf(width, height float64, child ...*core.Node) *core.Node {
	return core.New(k.SizedBox, core.Props{PropWidth: width, PropHeight: height}, child...)
}

// VSpace creates a fixed-height vertical spacer.
func (k *Kinds) VSpace(height float64) *core.Node {
	return core.New(k.SizedBox, core.Props{PropHeight: height})
}

// HSpace creates a fixed-width horizontal spacer.
func (k *Kinds) HSpace(width float64) *core.Node {
	return core.New(k.SizedBox, core.Props{PropWidth: width})
}

// PaddingAll wraps child with uniform padding on all sides.
func (k *Kinds) PaddingAll(value float64, child *core.Node) *core.Node {
	return core.New(k.Padding, core.Props{PropPadding: value}, child)
}
