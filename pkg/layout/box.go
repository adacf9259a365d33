package layout

import (
	"fmt"

	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/graphics"
)

// RenderProxy passes its constraints through to its only child and adopts
// the child's size. Without a child it takes the smallest admissible size.
type RenderProxy struct {
	RenderBoxBase
}

// NewRenderProxy creates a proxy render node.
func NewRenderProxy() *RenderProxy {
	r := &RenderProxy{}
	r.SetSelf(r)
	return r
}

// PerformLayout lays out the child with the incoming constraints.
func (r *RenderProxy) PerformLayout() error {
	c := r.Constraints()
	child := r.FirstChild()
	if child == nil {
		r.SetSize(c.Smallest())
		return nil
	}
	if err := r.LayoutChild(child, c, true); err != nil {
		return err
	}
	child.SetOffset(graphics.Offset{})
	r.SetSize(child.Size())
	return nil
}

// RenderSizedBox requests a fixed size on the axes where HasWidth/HasHeight
// are set and passes the incoming constraints through on the others.
// A requested dimension outside the incoming constraints is a layout error.
type RenderSizedBox struct {
	RenderBoxBase
	Width     float64
	Height    float64
	HasWidth  bool
	HasHeight bool
}

// NewRenderSizedBox creates a sized box with no requested dimensions.
func NewRenderSizedBox() *RenderSizedBox {
	r := &RenderSizedBox{}
	r.SetSelf(r)
	return r
}

// PerformLayout resolves the requested dimensions and lays out the child tightly.
func (r *RenderSizedBox) PerformLayout() error {
	c := r.Constraints()
	cc := c
	if r.HasWidth {
		if !withinAxis(r.Width, c.MinWidth, c.MaxWidth) {
			return r.requestError(c, fmt.Sprintf("requested width %g", r.Width))
		}
		cc.MinWidth, cc.MaxWidth = r.Width, r.Width
	}
	if r.HasHeight {
		if !withinAxis(r.Height, c.MinHeight, c.MaxHeight) {
			return r.requestError(c, fmt.Sprintf("requested height %g", r.Height))
		}
		cc.MinHeight, cc.MaxHeight = r.Height, r.Height
	}

	child := r.FirstChild()
	if child == nil {
		r.SetSize(cc.Smallest())
		return nil
	}
	if err := r.LayoutChild(child, cc, true); err != nil {
		return err
	}
	child.SetOffset(graphics.Offset{})
	r.SetSize(child.Size())
	return nil
}

func (r *RenderSizedBox) requestError(c Constraints, detail string) error {
	return &errors.LayoutError{
		Node:        r.Describe(),
		Constraints: c.String(),
		Detail:      detail,
		Err:         errors.ErrSizeOutOfRange,
	}
}

// RenderPadding insets its child by Padding.
type RenderPadding struct {
	RenderBoxBase
	Padding graphics.EdgeInsets
}

// NewRenderPadding creates a padding render node.
func NewRenderPadding(padding graphics.EdgeInsets) *RenderPadding {
	r := &RenderPadding{Padding: padding}
	r.SetSelf(r)
	return r
}

// PerformLayout deflates the constraints, lays out the child, and adds the
// insets back to the child's size.
func (r *RenderPadding) PerformLayout() error {
	c := r.Constraints()
	inner := c.Deflate(r.Padding)
	child := r.FirstChild()
	if child == nil {
		r.SetSize(c.Constrain(graphics.Size{Width: r.Padding.Horizontal(), Height: r.Padding.Vertical()}))
		return nil
	}
	if err := r.LayoutChild(child, inner, true); err != nil {
		return err
	}
	child.SetOffset(graphics.Offset{X: r.Padding.Left, Y: r.Padding.Top})
	r.SetSize(graphics.Size{
		Width:  child.Size().Width + r.Padding.Horizontal(),
		Height: child.Size().Height + r.Padding.Vertical(),
	})
	return nil
}
