package core

import (
	stderrors "errors"
	"fmt"

	"github.com/go-drift/arbor/pkg/layout"
)

// Handle addresses an instance in a Tree. Handles of disposed instances go
// stale: their slot may be reused, but the generation no longer matches.
// The zero Handle refers to nothing.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h refers to nothing.
func (h Handle) IsZero() bool {
	return h.index == 0
}

func (h Handle) String() string {
	if h.IsZero() {
		return "#nil"
	}
	return fmt.Sprintf("#%d.%d", h.index, h.gen)
}

// instance is one slot of the arena. Children are owned through their
// handles; parent is a plain, non-owning handle.
type instance struct {
	gen      uint32
	live     bool
	node     *Node
	spec     *KindSpec
	state    State
	parent   Handle
	children []Handle
	dirty    bool
	depth    int
	render   layout.RenderNode
}

// Tree is the persistent instance tree together with the scheduler and
// pipeline that serve it. It is the explicit context passed to every
// build, reconcile and layout entry point; there is no process-wide tree.
//
// A Tree is not safe for concurrent use. Only BuildOwner.Post may be called
// from other goroutines.
type Tree struct {
	registry *Registry
	pipeline *layout.PipelineOwner
	owner    *BuildOwner

	slots []instance
	free  []uint32
	root  Handle
	live  int

	// per-operation accumulators, set by begin
	changes *Changes
	errs    []error
}

// NewTree creates an empty tree for the kinds in registry. Render nodes are
// attached to pipeline for layout scheduling; a nil pipeline gets a fresh one.
func NewTree(registry *Registry, pipeline *layout.PipelineOwner) *Tree {
	if pipeline == nil {
		pipeline = &layout.PipelineOwner{}
	}
	t := &Tree{
		registry: registry,
		pipeline: pipeline,
		slots:    make([]instance, 1), // slot 0 backs the zero Handle
	}
	t.owner = newBuildOwner(t)
	return t
}

// Registry returns the kind registry.
func (t *Tree) Registry() *Registry {
	return t.registry
}

// Pipeline returns the pipeline owner render nodes are attached to.
func (t *Tree) Pipeline() *layout.PipelineOwner {
	return t.pipeline
}

// Owner returns the dirty scheduler of this tree.
func (t *Tree) Owner() *BuildOwner {
	return t.owner
}

// Root returns the root instance, or the zero Handle for an empty tree.
func (t *Tree) Root() Handle {
	return t.root
}

// Len returns the number of live instances.
func (t *Tree) Len() int {
	return t.live
}

// IsLive reports whether h refers to an instance that has not been disposed.
func (t *Tree) IsLive(h Handle) bool {
	return t.get(h) != nil
}

// Node returns the configuration node h currently represents.
func (t *Tree) Node(h Handle) *Node {
	if inst := t.get(h); inst != nil {
		return inst.node
	}
	return nil
}

// State returns the state block of a stateful instance.
func (t *Tree) State(h Handle) State {
	if inst := t.get(h); inst != nil {
		return inst.state
	}
	return nil
}

// Parent returns the parent of h, or the zero Handle for the root.
func (t *Tree) Parent(h Handle) Handle {
	if inst := t.get(h); inst != nil {
		return inst.parent
	}
	return Handle{}
}

// Children returns a copy of the ordered children of h.
func (t *Tree) Children(h Handle) []Handle {
	if inst := t.get(h); inst != nil {
		return append([]Handle(nil), inst.children...)
	}
	return nil
}

// Depth returns the depth of h (root = 0).
func (t *Tree) Depth(h Handle) int {
	if inst := t.get(h); inst != nil {
		return inst.depth
	}
	return -1
}

// IsDirty reports whether h has a pending rebuild.
func (t *Tree) IsDirty(h Handle) bool {
	if inst := t.get(h); inst != nil {
		return inst.dirty
	}
	return false
}

// RenderNode returns the render node owned by h, if h is a render kind.
func (t *Tree) RenderNode(h Handle) layout.RenderNode {
	if inst := t.get(h); inst != nil {
		return inst.render
	}
	return nil
}

// RenderRoot returns the topmost render node of the tree: the render node
// of the root, or of its nearest render descendant.
func (t *Tree) RenderRoot() layout.RenderNode {
	return t.renderOf(t.root)
}

// Describe returns a diagnostic name for h such as "column#3 key=a".
func (t *Tree) Describe(h Handle) string {
	inst := t.get(h)
	if inst == nil {
		return "stale" + h.String()
	}
	return t.label(h, inst.node)
}

func (t *Tree) label(h Handle, node *Node) string {
	name := t.registry.Name(node.Kind)
	if node.Key != nil {
		return fmt.Sprintf("%s#%d key=%v", name, h.index, node.Key)
	}
	return fmt.Sprintf("%s#%d", name, h.index)
}

func (t *Tree) get(h Handle) *instance {
	if h.index == 0 || int(h.index) >= len(t.slots) {
		return nil
	}
	inst := &t.slots[h.index]
	if !inst.live || inst.gen != h.gen {
		return nil
	}
	return inst
}

func (t *Tree) alloc() Handle {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, instance{})
		index = uint32(len(t.slots) - 1)
	}
	inst := &t.slots[index]
	inst.live = true
	t.live++
	return Handle{index: index, gen: inst.gen}
}

func (t *Tree) release(h Handle) {
	inst := &t.slots[h.index]
	gen := inst.gen + 1
	*inst = instance{gen: gen}
	t.free = append(t.free, h.index)
	t.live--
}

// begin starts an entry point that accumulates changes and errors.
func (t *Tree) begin() {
	t.changes = &Changes{}
	t.errs = nil
}

// end finishes the entry point started by begin.
func (t *Tree) end() (*Changes, error) {
	changes, err := t.changes, stderrors.Join(t.errs...)
	t.changes = nil
	t.errs = nil
	return changes, err
}

func (t *Tree) fail(err error) {
	t.errs = append(t.errs, err)
}

func (t *Tree) record(m Mutation) {
	if t.changes != nil {
		t.changes.add(m)
	}
}
