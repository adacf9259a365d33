package testing

import (
	stderrors "errors"
	"testing"

	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/engine"
	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/graphics"
	"github.com/go-drift/arbor/pkg/layout"
	"github.com/go-drift/arbor/pkg/widgets"
)

const (
	// DefaultTestWidth is the default width of the test surface.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default height of the test surface.
	DefaultTestHeight = 600
	// DefaultSettleFrames bounds PumpAndSettle.
	DefaultSettleFrames = 100
)

// ErrNotSettled is returned when PumpAndSettle runs out of frames while
// work is still queued.
var ErrNotSettled = stderrors.New("PumpAndSettle: engine still has work queued")

// Tester owns an engine with the built-in kinds and a tight test surface.
// Errors reported during ticks are collected instead of logged.
type Tester struct {
	kinds     *widgets.Kinds
	engine    *engine.Engine
	collector *errors.Collector
	size      graphics.Size
}

// NewTester creates a tester with the default surface.
// Call Cleanup when done, or use NewTesterWithT instead.
func NewTester() *Tester {
	t := &Tester{
		kinds:     widgets.New(),
		collector: &errors.Collector{},
		size:      graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight},
	}
	t.engine = engine.New(t.kinds.Registry, engine.Options{Handler: t.collector})
	return t
}

// NewTesterWithT creates a tester that cleans up via t.Cleanup.
func NewTesterWithT(t *testing.T) *Tester {
	tester := NewTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree so that state disposers run.
func (t *Tester) Cleanup() {
	if t.engine.Tree().Root().IsZero() {
		return
	}
	t.engine.SetRoot(nil)
	_ = t.Pump()
}

// SetSize sets the surface size used by the following pumps.
func (t *Tester) SetSize(size graphics.Size) {
	t.size = size
}

// Kinds returns the built-in kinds. Test kinds may be registered into
// Kinds().Registry before they are pumped.
func (t *Tester) Kinds() *widgets.Kinds {
	return t.kinds
}

// Engine returns the underlying engine.
func (t *Tester) Engine() *engine.Engine {
	return t.engine
}

// Tree returns the instance tree.
func (t *Tester) Tree() *core.Tree {
	return t.engine.Tree()
}

// Errors returns everything reported since the tester was created.
func (t *Tester) Errors() *errors.Collector {
	return t.collector
}

// Frame returns the most recent frame, or nil before the first successful
// layout.
func (t *Tester) Frame() *engine.Frame {
	return t.engine.LastFrame()
}

// PumpNode sets the root configuration and runs one frame.
func (t *Tester) PumpNode(root *core.Node) error {
	t.engine.SetRoot(root)
	return t.Pump()
}

// Pump runs a single frame: posted callbacks, rebuilds and layout.
func (t *Tester) Pump() error {
	_, err := t.engine.Tick(t.size)
	return err
}

// PumpAndSettle runs frames until the engine has no queued work, at most
// maxFrames of them (DefaultSettleFrames when zero). It returns the first
// tick error, or ErrNotSettled.
func (t *Tester) PumpAndSettle(maxFrames int) error {
	if maxFrames <= 0 {
		maxFrames = DefaultSettleFrames
	}
	for range maxFrames {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.engine.NeedsFrame() {
			return nil
		}
	}
	return ErrNotSettled
}

// Post queues fn for the next frame.
func (t *Tester) Post(fn func()) {
	t.engine.Post(fn)
}

// Find evaluates a finder against the current instance tree.
func (t *Tester) Find(finder Finder) FinderResult {
	tree := t.engine.Tree()
	if tree.Root().IsZero() {
		return FinderResult{tree: tree, finder: finder}
	}
	return FinderResult{
		tree:    tree,
		handles: finder.Evaluate(tree, tree.Root()),
		finder:  finder,
	}
}

// RectOf returns the rectangle, in root coordinates, of the render node
// backing the first match. Instances without a render node of their own
// use their nearest render descendant.
func (t *Tester) RectOf(finder Finder) (graphics.Rect, bool) {
	result := t.Find(finder)
	if !result.Exists() {
		return graphics.Rect{}, false
	}
	return t.Frame().RectOf(result.RenderNode())
}

// HitTest returns the render nodes under point, deepest first.
func (t *Tester) HitTest(point graphics.Offset) []layout.RenderNode {
	return t.engine.HitTest(point)
}
