package layout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/graphics"
)

// Infinity is the unbounded maximum for a constraint axis.
var Infinity = math.Inf(1)

// Constraints is the closed interval pair [MinWidth,MaxWidth] x [MinHeight,MaxHeight]
// a parent imposes on a child's size. Max values may be Infinity.
type Constraints struct {
	MinWidth  float64
	MaxWidth  float64
	MinHeight float64
	MaxHeight float64
}

// Tight returns constraints that only admit the given size.
func Tight(size graphics.Size) Constraints {
	return Constraints{
		MinWidth:  size.Width,
		MaxWidth:  size.Width,
		MinHeight: size.Height,
		MaxHeight: size.Height,
	}
}

// Loose returns constraints with zero minimums and the given size as maximum.
func Loose(size graphics.Size) Constraints {
	return Constraints{MaxWidth: size.Width, MaxHeight: size.Height}
}

// Unbounded returns constraints with zero minimums and infinite maximums.
func Unbounded() Constraints {
	return Constraints{MaxWidth: Infinity, MaxHeight: Infinity}
}

// IsTight reports whether exactly one size satisfies the constraints.
func (c Constraints) IsTight() bool {
	return c.MinWidth >= c.MaxWidth && c.MinHeight >= c.MaxHeight
}

// HasBoundedWidth reports whether MaxWidth is finite.
func (c Constraints) HasBoundedWidth() bool {
	return !math.IsInf(c.MaxWidth, 1)
}

// HasBoundedHeight reports whether MaxHeight is finite.
func (c Constraints) HasBoundedHeight() bool {
	return !math.IsInf(c.MaxHeight, 1)
}

// IsNormalized reports whether 0 <= min <= max holds on both axes.
func (c Constraints) IsNormalized() bool {
	return c.MinWidth >= 0 && c.MinHeight >= 0 &&
		!math.IsInf(c.MinWidth, 0) && !math.IsInf(c.MinHeight, 0) &&
		c.MinWidth <= c.MaxWidth && c.MinHeight <= c.MaxHeight &&
		!math.IsNaN(c.MaxWidth) && !math.IsNaN(c.MaxHeight)
}

// Validate returns ErrInvalidConstraints wrapped in a LayoutError when the
// constraints are not normalized.
func (c Constraints) Validate() error {
	if c.IsNormalized() {
		return nil
	}
	return &errors.LayoutError{
		Node:        "constraints",
		Constraints: c.String(),
		Err:         errors.ErrInvalidConstraints,
	}
}

// Contains reports whether size lies within the constraints on both axes,
// within floating-point tolerance.
func (c Constraints) Contains(size graphics.Size) bool {
	return withinAxis(size.Width, c.MinWidth, c.MaxWidth) &&
		withinAxis(size.Height, c.MinHeight, c.MaxHeight)
}

func withinAxis(v, lo, hi float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= lo-floatTolerance && v <= hi+floatTolerance
}

const floatTolerance = 1e-6

// Constrain returns the size closest to size that satisfies the constraints.
// Policies use this to choose their own size from a desired size; it is not
// a way to repair an unbounded axis, which has no finite closest value.
func (c Constraints) Constrain(size graphics.Size) graphics.Size {
	return graphics.Size{
		Width:  clamp(size.Width, c.MinWidth, c.MaxWidth),
		Height: clamp(size.Height, c.MinHeight, c.MaxHeight),
	}
}

// Smallest returns the smallest size that satisfies the constraints.
func (c Constraints) Smallest() graphics.Size {
	return graphics.Size{Width: c.MinWidth, Height: c.MinHeight}
}

// Biggest returns the largest size that satisfies the constraints.
// Unbounded axes yield Infinity.
func (c Constraints) Biggest() graphics.Size {
	return graphics.Size{Width: c.MaxWidth, Height: c.MaxHeight}
}

// Loosen returns constraints with the minimums removed.
func (c Constraints) Loosen() Constraints {
	return Constraints{MaxWidth: c.MaxWidth, MaxHeight: c.MaxHeight}
}

// Deflate shrinks the constraints by the given insets, flooring at zero.
func (c Constraints) Deflate(insets graphics.EdgeInsets) Constraints {
	h := insets.Horizontal()
	v := insets.Vertical()
	minW := math.Max(0, c.MinWidth-h)
	minH := math.Max(0, c.MinHeight-v)
	maxW := math.Max(minW, c.MaxWidth-h)
	maxH := math.Max(minH, c.MaxHeight-v)
	return Constraints{MinWidth: minW, MaxWidth: maxW, MinHeight: minH, MaxHeight: maxH}
}

// Within reports whether c does not exceed the maximums of parent on
// either axis. Child constraints must satisfy this against the constraints
// of the parent that produced them.
func (c Constraints) Within(parent Constraints) bool {
	return c.MaxWidth <= parent.MaxWidth+floatTolerance &&
		c.MaxHeight <= parent.MaxHeight+floatTolerance
}

func (c Constraints) String() string {
	if c.IsTight() {
		return fmt.Sprintf("BoxConstraints(w=%s, h=%s)", formatAxis(c.MinWidth), formatAxis(c.MinHeight))
	}
	return fmt.Sprintf("BoxConstraints(%s<=w<=%s, %s<=h<=%s)",
		formatAxis(c.MinWidth), formatAxis(c.MaxWidth),
		formatAxis(c.MinHeight), formatAxis(c.MaxHeight))
}

func formatAxis(v float64) string {
	if math.IsInf(v, 1) {
		return "Inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
