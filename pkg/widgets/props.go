package widgets

import (
	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/graphics"
	"github.com/go-drift/arbor/pkg/layout"
)

// Property names understood by the built-in kinds.
const (
	PropMainAxisSize       = "main_axis_size"
	PropMainAxisAlignment  = "main_axis_alignment"
	PropCrossAxisAlignment = "cross_axis_alignment"
	PropSpacing            = "spacing"

	PropFit       = "fit"
	PropAlignment = "alignment"

	PropWidth  = "width"
	PropHeight = "height"
	PropLeft   = "left"
	PropTop    = "top"

	PropPadding       = "padding"
	PropPaddingLeft   = "padding_left"
	PropPaddingTop    = "padding_top"
	PropPaddingRight  = "padding_right"
	PropPaddingBottom = "padding_bottom"

	PropText = "text"

	// PropFlex and PropFlexFit set the flex factor a child carries for a row
	// or column. Every render kind honors them.
	PropFlex    = "flex"
	PropFlexFit = "flex_fit"
)

var mainAxisSizes = map[string]layout.MainAxisSize{
	"min": layout.MainAxisSizeMin,
	"max": layout.MainAxisSizeMax,
}

var mainAxisAlignments = map[string]layout.MainAxisAlignment{
	"start":         layout.MainAxisAlignmentStart,
	"center":        layout.MainAxisAlignmentCenter,
	"end":           layout.MainAxisAlignmentEnd,
	"space_between": layout.MainAxisAlignmentSpaceBetween,
}

var crossAxisAlignments = map[string]layout.CrossAxisAlignment{
	"start":   layout.CrossAxisAlignmentStart,
	"center":  layout.CrossAxisAlignmentCenter,
	"end":     layout.CrossAxisAlignmentEnd,
	"stretch": layout.CrossAxisAlignmentStretch,
}

var stackFits = map[string]layout.StackFit{
	"loose":  layout.StackFitLoose,
	"expand": layout.StackFitExpand,
}

var flexFits = map[string]layout.FlexFit{
	"tight": layout.FlexFitTight,
	"loose": layout.FlexFitLoose,
}

var alignments = map[string]layout.Alignment{
	"top_left":      layout.AlignTopLeft,
	"top_center":    {X: 0, Y: -1},
	"top_right":     {X: 1, Y: -1},
	"center_left":   {X: -1, Y: 0},
	"center":        layout.AlignCenter,
	"center_right":  {X: 1, Y: 0},
	"bottom_left":   {X: -1, Y: 1},
	"bottom_center": {X: 0, Y: 1},
	"bottom_right":  layout.AlignBottomRight,
}

// enumProp looks a string property up in table, falling back to def when the
// property is absent or unknown.
func enumProp[T any](p core.Props, name string, table map[string]T, def T) T {
	if v, ok := table[p.Str(name, "")]; ok {
		return v
	}
	return def
}

// ValidateProps reports the first enumerated property of n whose value is
// not one of the accepted names.
func ValidateProps(n *core.Node) (string, bool) {
	checks := []struct {
		name  string
		valid func(string) bool
	}{
		{PropMainAxisSize, has(mainAxisSizes)},
		{PropMainAxisAlignment, has(mainAxisAlignments)},
		{PropCrossAxisAlignment, has(crossAxisAlignments)},
		{PropFit, has(stackFits)},
		{PropFlexFit, has(flexFits)},
		{PropAlignment, has(alignments)},
	}
	for _, c := range checks {
		if v, ok := n.Props[c.name].(string); ok && !c.valid(v) {
			return c.name, false
		}
	}
	return "", true
}

func has[T any](table map[string]T) func(string) bool {
	return func(s string) bool {
		_, ok := table[s]
		return ok
	}
}

func paddingProp(p core.Props) graphics.EdgeInsets {
	all := p.Float(PropPadding, 0)
	return graphics.EdgeInsets{
		Left:   p.Float(PropPaddingLeft, all),
		Top:    p.Float(PropPaddingTop, all),
		Right:  p.Float(PropPaddingRight, all),
		Bottom: p.Float(PropPaddingBottom, all),
	}
}

// flexData is the flex part of the parent data any render kind carries.
func flexData(p core.Props, defFlex int) layout.ParentData {
	return layout.ParentData{
		Flex: p.Int(PropFlex, defFlex),
		Fit:  enumProp(p, PropFlexFit, flexFits, layout.FlexFitTight),
	}
}

// assign stores v in dst and records whether it changed.
func assign[T comparable](dst *T, v T, changed *bool) {
	if *dst != v {
		*dst = v
		*changed = true
	}
}
