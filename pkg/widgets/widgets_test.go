package widgets

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/graphics"
	"github.com/go-drift/arbor/pkg/layout"
)

// layoutScene mounts root and lays it out tightly at size.
func layoutScene(t *testing.T, k *Kinds, root *core.Node, size graphics.Size) (*core.Tree, error) {
	t.Helper()
	tree := core.NewTree(k.Registry, nil)
	if _, err := tree.Mount(root); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return tree, tree.Pipeline().FlushLayoutForRoot(tree.RenderRoot(), layout.Tight(size))
}

func rect(r layout.RenderNode) graphics.Rect {
	return graphics.RectFromOffsetSize(r.Offset(), r.Size())
}

func TestColumn_StacksChildren(t *testing.T) {
	k := New()
	tree, err := layoutScene(t, k, k.ColumnOf(nil, k.TextOf("hi"), k.TextOf("hello")), graphics.Size{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	root := tree.RenderRoot()
	if root.Size() != (graphics.Size{Width: 100, Height: 100}) {
		t.Errorf("root size = %v", root.Size())
	}
	want := []graphics.Rect{
		graphics.RectFromLTWH(0, 0, 14, 13),
		graphics.RectFromLTWH(0, 13, 35, 13),
	}
	var got []graphics.Rect
	for _, child := range root.Children() {
		got = append(got, rect(child))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rects mismatch (-want +got):\n%s", diff)
	}
}

func TestRow_ExpandedTakesFreeSpace(t *testing.T) {
	k := New()
	tree, err := layoutScene(t, k, k.RowOf(core.Props{PropMainAxisSize: "max"},
		k.SizedBoxOf(20, 10),
		k.ExpandedOf(1, k.TextOf("hi")),
		k.SizedBoxOf(10, 10),
	), graphics.Size{Width: 100, Height: 50})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	children := tree.RenderRoot().Children()
	want := []graphics.Rect{
		graphics.RectFromLTWH(0, 0, 20, 10),
		graphics.RectFromLTWH(20, 0, 70, 13),
		graphics.RectFromLTWH(90, 0, 10, 10),
	}
	for i, child := range children {
		if rect(child) != want[i] {
			t.Errorf("child %d rect = %v, want %v", i, rect(child), want[i])
		}
	}
}

func TestRow_FlexPropOnRenderKind(t *testing.T) {
	k := New()
	tree, err := layoutScene(t, k, k.RowOf(nil,
		k.VSpace(10).WithProps(core.Props{PropFlex: 1}),
		k.VSpace(10).WithProps(core.Props{PropFlex: 3}),
	), graphics.Size{Width: 80, Height: 10})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	children := tree.RenderRoot().Children()
	if w := children[0].Size().Width; w != 20 {
		t.Errorf("first width = %v, want 20", w)
	}
	if w := children[1].Size().Width; w != 60 {
		t.Errorf("second width = %v, want 60", w)
	}
}

func TestStack_PositionedChild(t *testing.T) {
	k := New()
	tree, err := layoutScene(t, k, k.StackOf(nil,
		k.SizedBoxOf(30, 30),
		k.PositionedOf(10, 5, k.SizedBoxOf(5, 5)),
	), graphics.Size{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	children := tree.RenderRoot().Children()
	if got := rect(children[0]); got != graphics.RectFromLTWH(0, 0, 30, 30) {
		t.Errorf("background rect = %v", got)
	}
	if got := rect(children[1]); got != graphics.RectFromLTWH(10, 5, 5, 5) {
		t.Errorf("positioned rect = %v", got)
	}
}

func TestCenter(t *testing.T) {
	k := New()
	tree, err := layoutScene(t, k, k.Centered(k.SizedBoxOf(20, 10)), graphics.Size{Width: 100, Height: 50})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	child := tree.RenderRoot().Children()[0]
	if got := rect(child); got != graphics.RectFromLTWH(40, 20, 20, 10) {
		t.Errorf("centered rect = %v", got)
	}
}

func TestPadding(t *testing.T) {
	k := New()
	root := k.StackOf(nil, k.PaddingAll(4, k.SizedBoxOf(10, 10)))
	tree, err := layoutScene(t, k, root, graphics.Size{Width: 50, Height: 50})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	padding := tree.RenderRoot().Children()[0]
	if padding.Size() != (graphics.Size{Width: 18, Height: 18}) {
		t.Errorf("padding size = %v", padding.Size())
	}
	if off := padding.Children()[0].Offset(); off != (graphics.Offset{X: 4, Y: 4}) {
		t.Errorf("child offset = %v", off)
	}
}

func TestColumn_MaxInUnboundedHeightFails(t *testing.T) {
	k := New()
	tree := core.NewTree(k.Registry, nil)
	if _, err := tree.Mount(k.ColumnOf(core.Props{PropMainAxisSize: "max"}, k.TextOf("x"))); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	c := layout.Constraints{MaxWidth: 100, MaxHeight: layout.Infinity}
	err := tree.Pipeline().FlushLayoutForRoot(tree.RenderRoot(), c)
	if !stderrors.Is(err, errors.ErrUnbounded) {
		t.Fatalf("err = %v, want ErrUnbounded", err)
	}
	var layoutErr *errors.LayoutError
	if !stderrors.As(err, &layoutErr) {
		t.Fatalf("err = %T, want *LayoutError", err)
	}
	if layoutErr.Node != "column#1" {
		t.Errorf("Node = %q, want column#1", layoutErr.Node)
	}
}

func TestColumn_OverflowFails(t *testing.T) {
	k := New()
	tree, err := layoutScene(t, k, k.ColumnOf(nil,
		k.SizedBoxOf(10, 60),
		k.SizedBoxOf(10, 60),
		k.SizedBoxOf(10, 60),
	), graphics.Size{Width: 100, Height: 100})
	if !stderrors.Is(err, errors.ErrSizeOutOfRange) {
		t.Fatalf("err = %v, want ErrSizeOutOfRange", err)
	}
	var layoutErr *errors.LayoutError
	if !stderrors.As(err, &layoutErr) || layoutErr.Node != "column#1" {
		t.Fatalf("err = %#v", err)
	}
	for i, child := range tree.RenderRoot().Children() {
		if got := rect(child); got != (graphics.Rect{}) {
			t.Errorf("child %d keeps geometry from a failed layout: %v", i, got)
		}
	}
}

func TestSizedBox_OutsideConstraintsFails(t *testing.T) {
	k := New()
	_, err := layoutScene(t, k, k.SizedBoxOf(200, 10), graphics.Size{Width: 100, Height: 10})
	if !stderrors.Is(err, errors.ErrSizeOutOfRange) {
		t.Fatalf("err = %v, want ErrSizeOutOfRange", err)
	}
}

func TestUpdate_RelayoutsChangedProps(t *testing.T) {
	k := New()
	size := graphics.Size{Width: 100, Height: 100}
	tree, err := layoutScene(t, k, k.ColumnOf(nil, k.TextOf("hi")), size)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	text := tree.RenderRoot().Children()[0]

	if _, err := tree.Mount(k.ColumnOf(nil, k.TextOf("hello"))); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if !text.NeedsLayout() {
		t.Fatal("changed text should need layout")
	}
	if err := tree.Pipeline().FlushLayoutForRoot(tree.RenderRoot(), layout.Tight(size)); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if got := tree.RenderRoot().Children()[0]; got != text {
		t.Error("text render node should be reused")
	}
	if text.Size().Width != 35 {
		t.Errorf("width = %v, want 35", text.Size().Width)
	}

	if _, err := tree.Mount(k.ColumnOf(nil, k.TextOf("hello"))); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if text.NeedsLayout() {
		t.Error("unchanged text should stay clean")
	}
}

func TestValidateProps(t *testing.T) {
	k := New()
	if name, ok := ValidateProps(k.RowOf(core.Props{PropMainAxisAlignment: "space_between"})); !ok {
		t.Errorf("valid props rejected at %q", name)
	}
	if name, ok := ValidateProps(k.StackOf(core.Props{PropAlignment: "middle"})); ok || name != PropAlignment {
		t.Errorf("ValidateProps = %q, %v", name, ok)
	}
}

func TestRegister_Twice(t *testing.T) {
	reg := core.NewRegistry()
	if _, err := Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := Register(reg); err == nil {
		t.Error("registering the built-in kinds twice should fail")
	}
}
