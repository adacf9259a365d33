package layout

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/graphics"
)

// attach wires children under parent and registers every node with owner.
func attach(owner *PipelineOwner, parent RenderNode, children ...RenderNode) RenderNode {
	parent.SetOwner(owner)
	for _, child := range children {
		child.SetOwner(owner)
	}
	parent.SetChildren(children)
	return parent
}

func sized(w, h float64) *RenderSizedBox {
	b := NewRenderSizedBox()
	b.Width, b.Height, b.HasWidth, b.HasHeight = w, h, true, true
	return b
}

func flexChild(flex int, fit FlexFit, child ...RenderNode) *RenderProxy {
	p := NewRenderProxy()
	p.SetChildren(child)
	p.SetParentData(ParentData{Flex: flex, Fit: fit})
	return p
}

func rectOf(n RenderNode) graphics.Rect {
	return graphics.RectFromOffsetSize(n.Offset(), n.Size())
}

func childRects(n RenderNode) []graphics.Rect {
	var out []graphics.Rect
	for _, child := range n.Children() {
		out = append(out, rectOf(child))
	}
	return out
}

// countingBox takes the smallest admissible size and counts its layouts.
type countingBox struct {
	RenderBoxBase
	layouts int
}

func newCountingBox() *countingBox {
	b := &countingBox{}
	b.SetSelf(b)
	return b
}

func (b *countingBox) PerformLayout() error {
	b.layouts++
	b.SetSize(b.Constraints().Smallest())
	return nil
}

// widener hands its child unbounded constraints.
type widener struct {
	RenderBoxBase
}

func (w *widener) PerformLayout() error {
	if err := w.LayoutChild(w.FirstChild(), Unbounded(), true); err != nil {
		return err
	}
	w.SetSize(w.Constraints().Smallest())
	return nil
}

func TestConstraints(t *testing.T) {
	tight := Tight(graphics.Size{Width: 10, Height: 5})
	if !tight.IsTight() || tight.String() != "BoxConstraints(w=10, h=5)" {
		t.Errorf("Tight = %v", tight)
	}
	loose := Constraints{MaxWidth: 100, MaxHeight: Infinity}
	if loose.String() != "BoxConstraints(0<=w<=100, 0<=h<=Inf)" {
		t.Errorf("String = %q", loose.String())
	}
	if loose.HasBoundedHeight() || !loose.HasBoundedWidth() {
		t.Error("bounded axes reported wrong")
	}
	if !loose.Contains(graphics.Size{Width: 100 + 1e-9, Height: 1e9}) {
		t.Error("Contains should allow float tolerance and large finite heights")
	}
	if loose.Contains(graphics.Size{Width: 10, Height: Infinity}) {
		t.Error("Contains must reject infinite sizes")
	}
	if err := (Constraints{MinWidth: 10, MaxWidth: 5}).Validate(); !stderrors.Is(err, errors.ErrInvalidConstraints) {
		t.Errorf("Validate = %v", err)
	}
	if err := Unbounded().Validate(); err != nil {
		t.Errorf("Validate(Unbounded) = %v", err)
	}

	deflated := Tight(graphics.Size{Width: 6, Height: 20}).Deflate(graphics.EdgeInsetsAll(4))
	want := Constraints{MinWidth: 0, MaxWidth: 0, MinHeight: 12, MaxHeight: 12}
	if deflated != want {
		t.Errorf("Deflate = %v, want %v", deflated, want)
	}
	if !Loose(graphics.Size{Width: 10, Height: 5}).Within(tight) {
		t.Error("Within should only compare maximums")
	}
	if Loose(graphics.Size{Width: 10, Height: 10}).Within(tight) {
		t.Error("taller constraints are not within a 5px-high parent")
	}
}

func TestFlex_MainAxisAlignment(t *testing.T) {
	tests := []struct {
		name    string
		align   MainAxisAlignment
		spacing float64
		want    []float64
	}{
		{name: "start", align: MainAxisAlignmentStart, want: []float64{0, 10}},
		{name: "center", align: MainAxisAlignmentCenter, want: []float64{35, 45}},
		{name: "end", align: MainAxisAlignmentEnd, want: []float64{70, 80}},
		{name: "space between", align: MainAxisAlignmentSpaceBetween, want: []float64{0, 80}},
		{name: "spacing", align: MainAxisAlignmentStart, spacing: 5, want: []float64{0, 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewRenderFlex(AxisHorizontal)
			row.MainAxisAlignment = tt.align
			row.Spacing = tt.spacing
			attach(&PipelineOwner{}, row, sized(10, 10), sized(20, 10))
			if err := row.Layout(Tight(graphics.Size{Width: 100, Height: 20}), false); err != nil {
				t.Fatalf("Layout: %v", err)
			}
			var got []float64
			for _, child := range row.Children() {
				got = append(got, child.Offset().X)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("offsets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlex_CrossAxisCenter(t *testing.T) {
	col := NewRenderFlex(AxisVertical)
	col.CrossAxisAlignment = CrossAxisAlignmentCenter
	attach(&PipelineOwner{}, col, sized(10, 10), sized(30, 10))
	if err := col.Layout(Loose(graphics.Size{Width: 100, Height: 100}), false); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if col.Size() != (graphics.Size{Width: 30, Height: 20}) {
		t.Errorf("size = %v, want shrink-wrapped 30x20", col.Size())
	}
	want := []graphics.Rect{
		graphics.RectFromLTWH(10, 0, 10, 10),
		graphics.RectFromLTWH(0, 10, 30, 10),
	}
	if diff := cmp.Diff(want, childRects(col)); diff != "" {
		t.Errorf("rects mismatch (-want +got):\n%s", diff)
	}
}

func TestFlex_FlexibleChildren(t *testing.T) {
	row := NewRenderFlex(AxisHorizontal)
	attach(&PipelineOwner{}, row,
		sized(20, 10),
		flexChild(1, FlexFitTight),
		flexChild(3, FlexFitLoose, sized(10, 10)),
	)
	if err := row.Layout(Tight(graphics.Size{Width: 100, Height: 20}), false); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	want := []graphics.Rect{
		graphics.RectFromLTWH(0, 0, 20, 10),
		graphics.RectFromLTWH(20, 0, 20, 0),
		graphics.RectFromLTWH(40, 0, 10, 10),
	}
	if diff := cmp.Diff(want, childRects(row)); diff != "" {
		t.Errorf("rects mismatch (-want +got):\n%s", diff)
	}
}

func TestFlex_MainAxisOverflow(t *testing.T) {
	tests := []struct {
		name    string
		dir     Axis
		c       Constraints
		extent  graphics.Size
		spacing float64
		wantErr bool
	}{
		{name: "column overflows", dir: AxisVertical, c: Tight(graphics.Size{Width: 100, Height: 100}), extent: graphics.Size{Width: 10, Height: 60}, wantErr: true},
		{name: "row overflows", dir: AxisHorizontal, c: Loose(graphics.Size{Width: 100, Height: 20}), extent: graphics.Size{Width: 40, Height: 10}, wantErr: true},
		{name: "spacing overflows", dir: AxisHorizontal, c: Loose(graphics.Size{Width: 100, Height: 20}), extent: graphics.Size{Width: 30, Height: 10}, spacing: 10, wantErr: true},
		{name: "exact fit", dir: AxisHorizontal, c: Loose(graphics.Size{Width: 90, Height: 20}), extent: graphics.Size{Width: 30, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flex := NewRenderFlex(tt.dir)
			flex.SetLabel("flex#1")
			flex.Spacing = tt.spacing
			w, h := tt.extent.Width, tt.extent.Height
			attach(&PipelineOwner{}, flex, sized(w, h), sized(w, h), sized(w, h))

			err := flex.Layout(tt.c, false)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Layout: %v", err)
				}
				return
			}
			if !stderrors.Is(err, errors.ErrSizeOutOfRange) {
				t.Fatalf("err = %v, want ErrSizeOutOfRange", err)
			}
			var layoutErr *errors.LayoutError
			if !stderrors.As(err, &layoutErr) || layoutErr.Node != "flex#1" {
				t.Fatalf("err = %#v", err)
			}
			if !flex.NeedsLayout() {
				t.Error("overflowing flex should still need layout")
			}
		})
	}
}

func TestFlex_UnboundedInputs(t *testing.T) {
	unboundedHeight := Constraints{MaxWidth: 100, MaxHeight: Infinity}
	tests := []struct {
		name  string
		setup func() *RenderFlex
	}{
		{name: "max main axis", setup: func() *RenderFlex {
			col := NewRenderFlex(AxisVertical)
			col.MainAxisSize = MainAxisSizeMax
			return col
		}},
		{name: "flexible child", setup: func() *RenderFlex {
			col := NewRenderFlex(AxisVertical)
			attach(&PipelineOwner{}, col, flexChild(1, FlexFitTight))
			return col
		}},
		{name: "stretch cross axis", setup: func() *RenderFlex {
			row := NewRenderFlex(AxisHorizontal)
			row.CrossAxisAlignment = CrossAxisAlignmentStretch
			return row
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flex := tt.setup()
			flex.SetLabel("flex#1")
			err := flex.Layout(unboundedHeight, false)
			if !stderrors.Is(err, errors.ErrUnbounded) {
				t.Fatalf("err = %v, want ErrUnbounded", err)
			}
			var layoutErr *errors.LayoutError
			if !stderrors.As(err, &layoutErr) || layoutErr.Node != "flex#1" {
				t.Fatalf("err = %#v", err)
			}
			if layoutErr.Constraints != unboundedHeight.String() {
				t.Errorf("Constraints = %q", layoutErr.Constraints)
			}
			if flex.LayoutState() != LayoutNeeded {
				t.Error("failed node should still need layout")
			}
		})
	}
}

func TestStack(t *testing.T) {
	t.Run("aligned", func(t *testing.T) {
		stack := NewRenderStack()
		stack.Alignment = AlignBottomRight
		attach(&PipelineOwner{}, stack, sized(20, 10))
		if err := stack.Layout(Tight(graphics.Size{Width: 100, Height: 50}), false); err != nil {
			t.Fatalf("Layout: %v", err)
		}
		if got := rectOf(stack.FirstChild()); got != graphics.RectFromLTWH(80, 40, 20, 10) {
			t.Errorf("rect = %v", got)
		}
	})

	t.Run("expand", func(t *testing.T) {
		stack := NewRenderStack()
		stack.Fit = StackFitExpand
		attach(&PipelineOwner{}, stack, NewRenderProxy())
		if err := stack.Layout(Loose(graphics.Size{Width: 60, Height: 40}), false); err != nil {
			t.Fatalf("Layout: %v", err)
		}
		if stack.Size() != (graphics.Size{Width: 60, Height: 40}) || stack.FirstChild().Size() != stack.Size() {
			t.Errorf("sizes = %v / %v", stack.Size(), stack.FirstChild().Size())
		}
		err := stack.Layout(Constraints{MaxWidth: Infinity, MaxHeight: 40}, false)
		if !stderrors.Is(err, errors.ErrUnbounded) {
			t.Errorf("err = %v, want ErrUnbounded", err)
		}
	})

	t.Run("positioned only", func(t *testing.T) {
		stack := NewRenderStack()
		positioned := NewRenderProxy()
		positioned.SetParentData(ParentData{}.WithLeft(5).WithTop(6).WithWidth(10).WithHeight(4))
		attach(&PipelineOwner{}, stack, positioned)
		if err := stack.Layout(Loose(graphics.Size{Width: 60, Height: 40}), false); err != nil {
			t.Fatalf("Layout: %v", err)
		}
		if stack.Size() != (graphics.Size{Width: 60, Height: 40}) {
			t.Errorf("stack size = %v", stack.Size())
		}
		if got := rectOf(positioned); got != graphics.RectFromLTWH(5, 6, 10, 4) {
			t.Errorf("positioned rect = %v", got)
		}
	})

	t.Run("negative position", func(t *testing.T) {
		stack := NewRenderStack()
		box := sized(20, 10)
		box.SetParentData(ParentData{}.WithLeft(-5).WithTop(-6))
		attach(&PipelineOwner{}, stack, box)
		if err := stack.Layout(Loose(graphics.Size{Width: 60, Height: 40}), false); err != nil {
			t.Fatalf("Layout: %v", err)
		}
		if c := box.Constraints(); c.MaxWidth != 60 || c.MaxHeight != 40 {
			t.Errorf("child constraints = %v, want at most the stack's", c)
		}
		if got := rectOf(box); got != graphics.RectFromLTWH(-5, -6, 20, 10) {
			t.Errorf("positioned rect = %v", got)
		}
	})
}

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		c     Constraints
		lines []string
		size  graphics.Size
	}{
		{
			name:  "wraps at spaces",
			text:  "hello world",
			c:     Loose(graphics.Size{Width: 50, Height: 100}),
			lines: []string{"hello", "world"},
			size:  graphics.Size{Width: 35, Height: 26},
		},
		{
			name:  "unbounded width keeps lines",
			text:  "a\nbb",
			c:     Unbounded(),
			lines: []string{"a", "bb"},
			size:  graphics.Size{Width: 14, Height: 26},
		},
		{
			name:  "grows to the minimum",
			text:  "a",
			c:     Tight(graphics.Size{Width: 20, Height: 13}),
			lines: []string{"a"},
			size:  graphics.Size{Width: 20, Height: 13},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := NewRenderText(tt.text)
			if err := text.Layout(tt.c, false); err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if diff := cmp.Diff(tt.lines, text.Lines()); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
			if text.Size() != tt.size {
				t.Errorf("size = %v, want %v", text.Size(), tt.size)
			}
		})
	}
}

func TestText_DoesNotFit(t *testing.T) {
	tests := []struct {
		name string
		text string
		c    Constraints
	}{
		{name: "word wider than the maximum", text: "abcdefghij", c: Loose(graphics.Size{Width: 35, Height: 100})},
		{name: "lines taller than the maximum", text: "a", c: Loose(graphics.Size{Width: 100, Height: 10})},
		{name: "wrapped lines taller than the maximum", text: "aa bb cc", c: Loose(graphics.Size{Width: 14, Height: 30})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := NewRenderText(tt.text)
			text.SetLabel("text#1")
			err := text.Layout(tt.c, false)
			if !stderrors.Is(err, errors.ErrSizeOutOfRange) {
				t.Fatalf("err = %v, want ErrSizeOutOfRange", err)
			}
			var layoutErr *errors.LayoutError
			if !stderrors.As(err, &layoutErr) || layoutErr.Node != "text#1" {
				t.Fatalf("err = %#v", err)
			}
			if !text.NeedsLayout() || text.HasLaidOut() {
				t.Error("text that does not fit should stay unlaid")
			}
		})
	}
}

func TestPadding(t *testing.T) {
	pad := NewRenderPadding(graphics.EdgeInsets{Left: 1, Top: 2, Right: 3, Bottom: 4})
	attach(&PipelineOwner{}, pad, sized(10, 10))
	if err := pad.Layout(Loose(graphics.Size{Width: 50, Height: 50}), false); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if pad.Size() != (graphics.Size{Width: 14, Height: 16}) {
		t.Errorf("size = %v", pad.Size())
	}
	if got := rectOf(pad.FirstChild()); got != graphics.RectFromLTWH(1, 2, 10, 10) {
		t.Errorf("child rect = %v", got)
	}
}

func TestLayoutChild_RejectsWidening(t *testing.T) {
	w := &widener{}
	w.SetSelf(w)
	attach(&PipelineOwner{}, w, newCountingBox())
	err := w.Layout(Loose(graphics.Size{Width: 10, Height: 10}), false)
	if !stderrors.Is(err, errors.ErrConstraintsWidened) {
		t.Fatalf("err = %v, want ErrConstraintsWidened", err)
	}
	if child := w.FirstChild().(*countingBox); child.layouts != 0 {
		t.Error("child must not be laid out with widened constraints")
	}
}

func TestLayout_SizeOutsideConstraints(t *testing.T) {
	box := sized(20, 5)
	err := box.Layout(Tight(graphics.Size{Width: 10, Height: 5}), false)
	if !stderrors.Is(err, errors.ErrSizeOutOfRange) {
		t.Fatalf("err = %v, want ErrSizeOutOfRange", err)
	}
	if box.Size() != (graphics.Size{}) {
		t.Errorf("size = %v, want the previous zero size", box.Size())
	}
	if err := box.Layout(Constraints{MinWidth: 10, MaxWidth: 5}, false); !stderrors.Is(err, errors.ErrInvalidConstraints) {
		t.Errorf("err = %v, want ErrInvalidConstraints", err)
	}
}

func TestLayoutState(t *testing.T) {
	box := newCountingBox()
	box.SetOwner(&PipelineOwner{})
	if box.LayoutState() != LayoutNeeded || box.LayoutState().String() != "needs-layout" {
		t.Errorf("new node state = %v", box.LayoutState())
	}
	if err := box.Layout(Loose(graphics.Size{Width: 5, Height: 5}), false); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if box.LayoutState() != LayoutClean || !box.HasLaidOut() {
		t.Errorf("state after layout = %v", box.LayoutState())
	}
	box.MarkNeedsLayout()
	if box.LayoutState() != LayoutNeeded {
		t.Errorf("state after mark = %v", box.LayoutState())
	}
}

func TestHitTestAndGlobalOffset(t *testing.T) {
	col := NewRenderFlex(AxisVertical)
	a, b := sized(10, 10), sized(20, 20)
	attach(&PipelineOwner{}, col, a, b)
	if err := col.Layout(Tight(graphics.Size{Width: 50, Height: 50}), false); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if got := GlobalOffset(b); got != (graphics.Offset{Y: 10}) {
		t.Errorf("GlobalOffset = %v", got)
	}
	path := HitTest(col, graphics.Offset{X: 15, Y: 25})
	if len(path) != 2 || path[0] != RenderNode(b) || path[1] != RenderNode(col) {
		t.Errorf("path = %v", path)
	}
	if got := HitTest(col, graphics.Offset{X: 45, Y: 5}); len(got) != 1 {
		t.Errorf("background hit = %v", got)
	}
	if got := HitTest(col, graphics.Offset{X: 60, Y: 5}); len(got) != 0 {
		t.Errorf("miss = %v", got)
	}
}
