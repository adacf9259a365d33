package layout

import (
	"fmt"
	"math"

	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/graphics"
)

// Axis is a layout direction.
type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

func (a Axis) String() string {
	if a == AxisVertical {
		return "vertical"
	}
	return "horizontal"
}

// MainAxisSize controls how much main-axis space a flex occupies.
type MainAxisSize int

const (
	// MainAxisSizeMin shrink-wraps the children.
	MainAxisSizeMin MainAxisSize = iota
	// MainAxisSizeMax fills the incoming maximum, which must be finite.
	MainAxisSizeMax
)

// MainAxisAlignment distributes free main-axis space.
type MainAxisAlignment int

const (
	MainAxisAlignmentStart MainAxisAlignment = iota
	MainAxisAlignmentCenter
	MainAxisAlignmentEnd
	MainAxisAlignmentSpaceBetween
)

// CrossAxisAlignment positions children on the cross axis.
type CrossAxisAlignment int

const (
	CrossAxisAlignmentStart CrossAxisAlignment = iota
	CrossAxisAlignmentCenter
	CrossAxisAlignmentEnd
	// CrossAxisAlignmentStretch forces children to the cross-axis maximum,
	// which must be finite.
	CrossAxisAlignmentStretch
)

// RenderFlex places children sequentially along an axis.
//
// Non-flexible children are laid out first with the incoming main-axis
// maximum. The remaining space is divided among flexible children by their
// flex factors, which requires a finite main-axis maximum. Children that
// need more main-axis space than the maximum fail the layout.
type RenderFlex struct {
	RenderBoxBase
	Direction          Axis
	MainAxisSize       MainAxisSize
	MainAxisAlignment  MainAxisAlignment
	CrossAxisAlignment CrossAxisAlignment
	Spacing            float64
}

// NewRenderFlex creates a flex render node.
func NewRenderFlex(direction Axis) *RenderFlex {
	r := &RenderFlex{Direction: direction}
	r.SetSelf(r)
	return r
}

// PerformLayout sizes and positions the children.
func (r *RenderFlex) PerformLayout() error {
	c := r.Constraints()
	maxMain, maxCross := r.mainCross(c.MaxWidth, c.MaxHeight)
	minMain, minCross := r.mainCross(c.MinWidth, c.MinHeight)
	mainBounded := !math.IsInf(maxMain, 1)
	crossBounded := !math.IsInf(maxCross, 1)

	if r.MainAxisSize == MainAxisSizeMax && !mainBounded {
		return r.UnboundedError(r.Direction.String() + " main axis with MainAxisSize max")
	}
	if r.CrossAxisAlignment == CrossAxisAlignmentStretch && !crossBounded {
		return r.UnboundedError(r.crossAxis().String() + " cross axis with stretch alignment")
	}

	children := r.Children()
	totalFlex := 0
	for _, child := range children {
		if child.ParentData().Flex > 0 {
			totalFlex += child.ParentData().Flex
		}
	}
	if totalFlex > 0 && !mainBounded {
		return r.UnboundedError(r.Direction.String() + " main axis with flexible children")
	}

	spacing := 0.0
	if len(children) > 1 {
		spacing = r.Spacing * float64(len(children)-1)
	}

	crossMin := 0.0
	if r.CrossAxisAlignment == CrossAxisAlignmentStretch {
		crossMin = maxCross
	}

	// Non-flexible children.
	allocated := spacing
	crossExtent := 0.0
	for _, child := range children {
		if child.ParentData().Flex > 0 {
			continue
		}
		cc := r.childConstraints(0, maxMain, crossMin, maxCross)
		if err := r.LayoutChild(child, cc, true); err != nil {
			return err
		}
		m, x := r.mainCross(child.Size().Width, child.Size().Height)
		allocated += m
		crossExtent = math.Max(crossExtent, x)
	}

	// Flexible children share what is left.
	if totalFlex > 0 {
		free := math.Max(0, maxMain-allocated)
		perFlex := free / float64(totalFlex)
		for _, child := range children {
			pd := child.ParentData()
			if pd.Flex <= 0 {
				continue
			}
			share := perFlex * float64(pd.Flex)
			minShare := share
			if pd.Fit == FlexFitLoose {
				minShare = 0
			}
			cc := r.childConstraints(minShare, share, crossMin, maxCross)
			if err := r.LayoutChild(child, cc, true); err != nil {
				return err
			}
			m, x := r.mainCross(child.Size().Width, child.Size().Height)
			allocated += m
			crossExtent = math.Max(crossExtent, x)
		}
	}

	if allocated > maxMain+floatTolerance {
		return r.layoutError(c, errors.ErrSizeOutOfRange,
			fmt.Sprintf("%s children need %g", r.Direction, allocated))
	}
	mainSize := clamp(allocated, minMain, maxMain)
	if r.MainAxisSize == MainAxisSizeMax {
		mainSize = maxMain
	}
	crossSize := clamp(crossExtent, minCross, maxCross)
	if r.CrossAxisAlignment == CrossAxisAlignmentStretch {
		crossSize = maxCross
	}
	w, h := r.fromMainCross(mainSize, crossSize)
	r.SetSize(graphics.Size{Width: w, Height: h})

	r.positionChildren(mainSize, crossSize, allocated)
	return nil
}

func (r *RenderFlex) positionChildren(mainSize, crossSize, allocated float64) {
	children := r.Children()
	free := math.Max(0, mainSize-allocated)
	leading := 0.0
	between := r.Spacing
	switch r.MainAxisAlignment {
	case MainAxisAlignmentCenter:
		leading = free / 2
	case MainAxisAlignmentEnd:
		leading = free
	case MainAxisAlignmentSpaceBetween:
		if len(children) > 1 {
			between += free / float64(len(children)-1)
		}
	}

	pos := leading
	for _, child := range children {
		m, x := r.mainCross(child.Size().Width, child.Size().Height)
		cross := 0.0
		switch r.CrossAxisAlignment {
		case CrossAxisAlignmentCenter:
			cross = (crossSize - x) / 2
		case CrossAxisAlignmentEnd:
			cross = crossSize - x
		}
		ox, oy := r.fromMainCross(pos, cross)
		child.SetOffset(graphics.Offset{X: ox, Y: oy})
		pos += m + between
	}
}

func (r *RenderFlex) childConstraints(minMain, maxMain, minCross, maxCross float64) Constraints {
	if r.Direction == AxisHorizontal {
		return Constraints{MinWidth: minMain, MaxWidth: maxMain, MinHeight: minCross, MaxHeight: maxCross}
	}
	return Constraints{MinWidth: minCross, MaxWidth: maxCross, MinHeight: minMain, MaxHeight: maxMain}
}

func (r *RenderFlex) mainCross(w, h float64) (float64, float64) {
	if r.Direction == AxisHorizontal {
		return w, h
	}
	return h, w
}

func (r *RenderFlex) fromMainCross(main, cross float64) (float64, float64) {
	if r.Direction == AxisHorizontal {
		return main, cross
	}
	return cross, main
}

func (r *RenderFlex) crossAxis() Axis {
	if r.Direction == AxisHorizontal {
		return AxisVertical
	}
	return AxisHorizontal
}
