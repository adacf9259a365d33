package widgets

import (
	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/layout"
)

// Kind names as they appear in scene files and dumps.
const (
	NameRow        = "row"
	NameColumn     = "column"
	NameStack      = "stack"
	NamePositioned = "positioned"
	NameExpanded   = "expanded"
	NameSizedBox   = "sized_box"
	NamePadding    = "padding"
	NameText       = "text"
	NameCenter     = "center"
)

// Kinds holds the built-in kinds registered in one registry.
type Kinds struct {
	Registry *core.Registry

	Row        core.Kind
	Column     core.Kind
	Stack      core.Kind
	Positioned core.Kind
	Expanded   core.Kind
	SizedBox   core.Kind
	Padding    core.Kind
	Text       core.Kind
	Center     core.Kind
}

// Register adds the built-in kinds to reg.
func Register(reg *core.Registry) (*Kinds, error) {
	k := &Kinds{Registry: reg}
	specs := []struct {
		dst  *core.Kind
		spec core.KindSpec
	}{
		{&k.Row, core.RenderKind(NameRow, createFlex(layout.AxisHorizontal), updateFlex)},
		{&k.Column, core.RenderKind(NameColumn, createFlex(layout.AxisVertical), updateFlex)},
		{&k.Stack, core.RenderKind(NameStack, createStack, updateStack)},
		{&k.Positioned, core.RenderKind(NamePositioned, createPositioned, updatePositioned)},
		{&k.Expanded, core.RenderKind(NameExpanded, createExpanded, updateExpanded)},
		{&k.SizedBox, core.RenderKind(NameSizedBox, createSizedBox, updateSizedBox)},
		{&k.Padding, core.RenderKind(NamePadding, createPadding, updatePadding)},
		{&k.Text, core.RenderKind(NameText, createText, updateText)},
		{&k.Center, core.Stateless(NameCenter, k.buildCenter)},
	}
	for _, s := range specs {
		kind, err := reg.Register(s.spec)
		if err != nil {
			return nil, err
		}
		*s.dst = kind
	}
	return k, nil
}

// New creates a registry holding only the built-in kinds.
func New() *Kinds {
	k, err := Register(core.NewRegistry())
	if err != nil {
		panic(err)
	}
	return k
}

// buildCenter centers its children inside the size its parent imposes.
// Under loose constraints it shrink-wraps them.
func (k *Kinds) buildCenter(_ core.BuildContext, n *core.Node) *core.Node {
	return core.New(k.Stack, core.Props{PropAlignment: "center"}, n.Children...)
}
