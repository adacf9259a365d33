package layout

// FlexFit controls how a flexible child fills its allotted main-axis space.
type FlexFit int

const (
	// FlexFitTight forces the child to fill its share.
	FlexFitTight FlexFit = iota
	// FlexFitLoose lets the child be smaller than its share.
	FlexFitLoose
)

// ParentData is layout information a child carries for its parent's policy.
// Flex parents read Flex and Fit; stack parents read the positioned fields.
// The zero value is a non-flexible, non-positioned child.
type ParentData struct {
	Flex int
	Fit  FlexFit

	Left, Top, Width, Height             float64
	HasLeft, HasTop, HasWidth, HasHeight bool
}

// IsPositioned reports whether any positioned field is set.
func (d ParentData) IsPositioned() bool {
	return d.HasLeft || d.HasTop || d.HasWidth || d.HasHeight
}

// WithLeft returns a copy with Left set.
func (d ParentData) WithLeft(v float64) ParentData {
	d.Left, d.HasLeft = v, true
	return d
}

// WithTop returns a copy with Top set.
func (d ParentData) WithTop(v float64) ParentData {
	d.Top, d.HasTop = v, true
	return d
}

// WithWidth returns a copy with Width set.
func (d ParentData) WithWidth(v float64) ParentData {
	d.Width, d.HasWidth = v, true
	return d
}

// WithHeight returns a copy with Height set.
func (d ParentData) WithHeight(v float64) ParentData {
	d.Height, d.HasHeight = v, true
	return d
}
