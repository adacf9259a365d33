package layout

import (
	"math"

	"github.com/go-drift/arbor/pkg/graphics"
)

// StackFit controls the constraints given to non-positioned stack children.
type StackFit int

const (
	// StackFitLoose passes the incoming maximums with zero minimums.
	StackFitLoose StackFit = iota
	// StackFitExpand forces children to the incoming maximums, which must be finite.
	StackFitExpand
)

// Alignment is a fractional position inside a box: (-1,-1) is the top-left
// corner, (0,0) the center and (1,1) the bottom-right corner.
type Alignment struct {
	X, Y float64
}

var (
	AlignTopLeft     = Alignment{X: -1, Y: -1}
	AlignCenter      = Alignment{}
	AlignBottomRight = Alignment{X: 1, Y: 1}
)

// Along returns the offset that places child inside parent.
func (a Alignment) Along(parent, child graphics.Size) graphics.Offset {
	return graphics.Offset{
		X: (parent.Width - child.Width) * (a.X + 1) / 2,
		Y: (parent.Height - child.Height) * (a.Y + 1) / 2,
	}
}

// RenderStack layers children on top of each other. Non-positioned children
// are aligned by Alignment; positioned children use the Left, Top, Width and
// Height of their ParentData.
type RenderStack struct {
	RenderBoxBase
	Fit       StackFit
	Alignment Alignment
}

// NewRenderStack creates a stack render node aligned to the top-left corner.
func NewRenderStack() *RenderStack {
	r := &RenderStack{Alignment: AlignTopLeft}
	r.SetSelf(r)
	return r
}

// PerformLayout sizes the stack from its non-positioned children and then
// places every child.
func (r *RenderStack) PerformLayout() error {
	c := r.Constraints()
	if r.Fit == StackFitExpand {
		if !c.HasBoundedWidth() {
			return r.UnboundedError("width with expand fit")
		}
		if !c.HasBoundedHeight() {
			return r.UnboundedError("height with expand fit")
		}
	}

	var childConstraints Constraints
	if r.Fit == StackFitExpand {
		childConstraints = Tight(c.Biggest())
	} else {
		childConstraints = c.Loosen()
	}

	width, height := 0.0, 0.0
	hasNonPositioned := false
	for _, child := range r.Children() {
		if child.ParentData().IsPositioned() {
			continue
		}
		hasNonPositioned = true
		if err := r.LayoutChild(child, childConstraints, true); err != nil {
			return err
		}
		width = math.Max(width, child.Size().Width)
		height = math.Max(height, child.Size().Height)
	}

	var size graphics.Size
	switch {
	case r.Fit == StackFitExpand:
		size = c.Biggest()
	case hasNonPositioned:
		size = c.Constrain(graphics.Size{Width: width, Height: height})
	default:
		// Only positioned children: take the largest finite size available.
		if !c.HasBoundedWidth() || !c.HasBoundedHeight() {
			size = c.Smallest()
		} else {
			size = c.Biggest()
		}
	}
	r.SetSize(size)

	for _, child := range r.Children() {
		pd := child.ParentData()
		if !pd.IsPositioned() {
			child.SetOffset(r.Alignment.Along(size, child.Size()))
			continue
		}
		if err := r.layoutPositioned(child, pd, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *RenderStack) layoutPositioned(child RenderNode, pd ParentData, c Constraints) error {
	left, top := 0.0, 0.0
	if pd.HasLeft {
		left = pd.Left
	}
	if pd.HasTop {
		top = pd.Top
	}
	// A negative position moves the child out of the stack but never grants
	// it more than the stack's own maximum.
	cc := Constraints{
		MaxWidth:  clamp(c.MaxWidth-left, 0, c.MaxWidth),
		MaxHeight: clamp(c.MaxHeight-top, 0, c.MaxHeight),
	}
	if pd.HasWidth {
		cc.MinWidth, cc.MaxWidth = pd.Width, pd.Width
	}
	if pd.HasHeight {
		cc.MinHeight, cc.MaxHeight = pd.Height, pd.Height
	}
	if err := r.LayoutChild(child, cc, true); err != nil {
		return err
	}
	child.SetOffset(graphics.Offset{X: left, Y: top})
	return nil
}
