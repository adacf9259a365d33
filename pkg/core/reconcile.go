package core

import (
	stderrors "errors"
	"time"

	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/layout"
)

// Mount reconciles the root of the tree against node. The first call creates
// the tree; later calls update it in place, preserving matched instances.
// A nil node disposes the whole tree.
//
// Structural errors leave the tree untouched. State faults dispose the
// faulting instances and are returned alongside the changes.
func (t *Tree) Mount(node *Node) (*Changes, error) {
	if err := Validate(t.registry, node); err != nil {
		var structural *errors.StructuralError
		if stderrors.As(err, &structural) {
			structural.Op = "core.Mount"
		}
		return &Changes{}, err
	}

	t.begin()
	var old []Handle
	if !t.root.IsZero() {
		old = []Handle{t.root}
	}
	var next []*Node
	if node != nil {
		next = []*Node{node}
	}
	roots := t.reconcileChildren(Handle{}, old, next)
	t.root = Handle{}
	if len(roots) > 0 {
		t.root = roots[0]
	}
	return t.end()
}

// reconcileChildren matches the previous children of parent against the new
// configuration list and returns the new ordered children.
//
// Keyed entries are matched through a map by key, unkeyed entries through a
// per-kind queue in order, so each level costs time linear in its size.
func (t *Tree) reconcileChildren(parent Handle, old []Handle, nodes []*Node) []Handle {
	keyed := make(map[Key]Handle)
	unkeyed := make(map[Kind]*handleQueue)
	oldIndex := make(map[Handle]int, len(old))
	for i, h := range old {
		inst := t.get(h)
		if inst == nil {
			continue
		}
		oldIndex[h] = i
		if inst.node.Key != nil {
			keyed[inst.node.Key] = h
			continue
		}
		q := unkeyed[inst.node.Kind]
		if q == nil {
			q = &handleQueue{}
			unkeyed[inst.node.Kind] = q
		}
		q.items = append(q.items, h)
	}

	matched := make(map[Handle]bool, len(old))
	result := make([]Handle, 0, len(nodes))
	for _, node := range nodes {
		if node == nil {
			continue
		}
		index := len(result)

		var candidate Handle
		if node.Key != nil {
			if h, ok := keyed[node.Key]; ok {
				candidate = h
				delete(keyed, node.Key)
			}
		} else if q := unkeyed[node.Kind]; q != nil {
			candidate = q.pop()
		}

		if candidate.IsZero() {
			if h, ok := t.create(parent, node, index); ok {
				result = append(result, h)
			}
			continue
		}

		matched[candidate] = true
		prev := t.get(candidate).node
		switch Resolve(prev.Key, prev.Kind, node.Key, node.Kind) {
		case DecisionMove:
			if t.update(candidate, node, OpMove, oldIndex[candidate], index) {
				result = append(result, candidate)
			}
		case DecisionUpdate:
			if t.update(candidate, node, OpUpdate, oldIndex[candidate], index) {
				result = append(result, candidate)
			}
		case DecisionReplace:
			t.dispose(candidate, oldIndex[candidate])
			if h, ok := t.create(parent, node, index); ok {
				result = append(result, h)
			}
		}
	}

	for i, h := range old {
		if !matched[h] && t.IsLive(h) {
			t.dispose(h, i)
		}
	}
	return result
}

type handleQueue struct {
	items []Handle
	next  int
}

func (q *handleQueue) pop() Handle {
	if q.next >= len(q.items) {
		return Handle{}
	}
	h := q.items[q.next]
	q.next++
	return h
}

// create instantiates node under parent. It reports false when a state
// fault prevented the instance from being created.
func (t *Tree) create(parent Handle, node *Node, index int) (Handle, bool) {
	spec, ok := t.registry.Spec(node.Kind)
	if !ok {
		t.fail(&errors.StructuralError{Op: "core.create", Path: t.registry.Name(node.Kind), Err: errors.ErrUnknownKind})
		return Handle{}, false
	}

	h := t.alloc()
	inst := t.get(h)
	inst.node = node
	inst.spec = spec
	inst.parent = parent
	if p := t.get(parent); p != nil {
		inst.depth = p.depth + 1
	}
	t.record(Mutation{Op: OpCreate, Handle: h, Parent: parent, Kind: node.Kind, Key: node.Key, OldIndex: -1, NewIndex: index})

	switch spec.Class {
	case ClassStateful:
		var state State
		if !t.guard(h, "init", func() {
			state = spec.CreateState(node)
			if m, ok := state.(interface{ mount(*Tree, Handle) }); ok {
				m.mount(t, h)
			}
			state.InitState()
		}) {
			if state != nil {
				t.get(h).state = state
			}
			t.dispose(h, -1)
			return Handle{}, false
		}
		t.get(h).state = state
		if !t.rebuild(h) {
			t.dispose(h, -1)
			return Handle{}, false
		}

	case ClassStateless:
		if !t.rebuild(h) {
			t.dispose(h, -1)
			return Handle{}, false
		}

	case ClassRender:
		var render layout.RenderNode
		if !t.guard(h, "init", func() {
			render = spec.CreateRender(node)
		}) || render == nil {
			t.dispose(h, -1)
			return Handle{}, false
		}
		render.SetOwner(t.pipeline)
		if labeled, ok := render.(interface{ SetLabel(string) }); ok {
			labeled.SetLabel(t.label(h, node))
		}
		t.get(h).render = render
		children := t.reconcileChildren(h, nil, node.Children)
		t.get(h).children = children
		t.syncRenderChildren(h)
	}
	return h, true
}

// update points an existing instance at node and brings its subtree up to
// date. It reports false when a state fault disposed the instance.
func (t *Tree) update(h Handle, node *Node, op Op, oldIndex, newIndex int) bool {
	inst := t.get(h)
	prev := inst.node
	t.record(Mutation{Op: op, Handle: h, Parent: inst.parent, Kind: node.Kind, Key: node.Key, OldIndex: oldIndex, NewIndex: newIndex})

	if prev == node && !inst.dirty {
		return true
	}
	inst.node = node

	switch inst.spec.Class {
	case ClassStateful:
		state := inst.state
		if !t.guard(h, "update", func() { state.DidUpdateConfig(prev) }) {
			t.dispose(h, oldIndex)
			return false
		}
		if !t.rebuild(h) {
			t.dispose(h, oldIndex)
			return false
		}

	case ClassStateless:
		if !t.rebuild(h) {
			t.dispose(h, oldIndex)
			return false
		}

	case ClassRender:
		if update := inst.spec.UpdateRender; update != nil {
			render := inst.render
			if !t.guard(h, "update", func() { update(node, render) }) {
				t.dispose(h, oldIndex)
				return false
			}
		}
		if labeled, ok := inst.render.(interface{ SetLabel(string) }); ok {
			labeled.SetLabel(t.label(h, node))
		}
		children := t.reconcileChildren(h, inst.children, node.Children)
		t.get(h).children = children
		t.syncRenderChildren(h)
	}
	return true
}

// rebuild runs the build function of a stateless or stateful instance and
// reconciles the result against its current child. A structural error in the
// built subtree keeps the previous child. It reports false on a state fault.
func (t *Tree) rebuild(h Handle) bool {
	inst := t.get(h)
	// Cleared first so a SetState issued during Build lands in the next tick.
	inst.dirty = false
	var built *Node
	switch inst.spec.Class {
	case ClassStateful:
		state := inst.state
		ctx := BuildContext{tree: t, handle: h}
		if !t.guard(h, "build", func() { built = state.Build(ctx) }) {
			return false
		}
	case ClassStateless:
		build := inst.spec.Build
		node := inst.node
		ctx := BuildContext{tree: t, handle: h}
		if !t.guard(h, "build", func() { built = build(ctx, node) }) {
			return false
		}
	default:
		return true
	}
	if t.changes != nil {
		t.changes.Rebuilt++
	}

	inst = t.get(h)
	if err := Validate(t.registry, built); err != nil {
		var structural *errors.StructuralError
		if stderrors.As(err, &structural) {
			structural.Op = "core.Build"
			structural.Path = t.label(h, inst.node) + "/" + structural.Path
		}
		t.fail(err)
		return true
	}

	var next []*Node
	if built != nil {
		next = []*Node{built}
	}
	children := t.reconcileChildren(h, inst.children, next)
	t.get(h).children = children
	return true
}

// dispose tears down h and its subtree, children first.
func (t *Tree) dispose(h Handle, oldIndex int) {
	inst := t.get(h)
	if inst == nil {
		return
	}
	children := inst.children
	inst.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		t.dispose(children[i], i)
	}

	inst = t.get(h)
	if state := inst.state; state != nil {
		t.guard(h, "dispose", state.Dispose)
	}
	inst = t.get(h)
	if render := inst.render; render != nil {
		render.SetChildren(nil)
		if parent := render.Parent(); parent != nil {
			parent.MarkNeedsLayout()
		}
		render.SetParent(nil)
		render.SetOwner(nil)
	}
	t.record(Mutation{Op: OpDispose, Handle: h, Parent: inst.parent, Kind: inst.node.Kind, Key: inst.node.Key, OldIndex: oldIndex, NewIndex: -1})
	if t.root == h {
		t.root = Handle{}
	}
	t.release(h)
}

// guard runs a state hook, converting a panic into a StateFaultError.
func (t *Tree) guard(h Handle, phase string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t.fail(&errors.StateFaultError{
				Node:       t.Describe(h),
				Phase:      phase,
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
			ok = false
		}
	}()
	fn()
	return true
}

// renderOf returns the render node representing h in the render tree:
// its own, or that of its nearest render descendant through composites.
func (t *Tree) renderOf(h Handle) layout.RenderNode {
	for {
		inst := t.get(h)
		if inst == nil {
			return nil
		}
		if inst.render != nil {
			return inst.render
		}
		if len(inst.children) == 0 {
			return nil
		}
		h = inst.children[0]
	}
}

// syncRenderChildren rebuilds the render child list of a render instance
// from its instance children.
func (t *Tree) syncRenderChildren(h Handle) {
	inst := t.get(h)
	if inst == nil || inst.render == nil {
		return
	}
	children := make([]layout.RenderNode, 0, len(inst.children))
	for _, child := range inst.children {
		if ro := t.renderOf(child); ro != nil {
			children = append(children, ro)
		}
	}
	inst.render.SetChildren(children)
}

// syncRenderAncestor refreshes the render children of the nearest render
// ancestor of h after h's subtree changed outside its parent's reconcile.
func (t *Tree) syncRenderAncestor(h Handle) {
	for p := t.Parent(h); !p.IsZero(); p = t.Parent(p) {
		if t.RenderNode(p) != nil {
			t.syncRenderChildren(p)
			return
		}
	}
}
