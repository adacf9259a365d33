package core

import "sync"

// State is the mutable block held by an instance of a stateful kind. It
// survives rebuilds for as long as the instance keeps its identity.
//
// A panic in any method is recovered by the tree and reported as a state
// fault; the instance is then disposed.
type State interface {
	// InitState is called once, after the state is attached to its instance.
	InitState()
	// Build returns the single child configuration (nil for none).
	Build(ctx BuildContext) *Node
	// DidUpdateConfig is called when the instance is matched against a new
	// configuration node. The current node is available from the context.
	DidUpdateConfig(old *Node)
	// Dispose is called once, after all descendants are disposed.
	Dispose()
}

// stateBase is satisfied by any struct that embeds StateBase.
// Hooks and NewManaged accept stateBase so callers can pass s directly.
type stateBase interface {
	state() *StateBase
}

func (s *StateBase) state() *StateBase { return s }

// StateBase is embedded by state structs. It supplies SetState, dispose
// callbacks and no-op lifecycle hooks:
//
//	type counterState struct {
//	    core.StateBase
//	    kinds *widgets.Kinds
//	    count int
//	}
//
//	func (s *counterState) Build(ctx core.BuildContext) *core.Node {
//	    return s.kinds.TextOf(strconv.Itoa(s.count))
//	}
type StateBase struct {
	tree   *Tree
	handle Handle

	mu       sync.Mutex
	cleanups []*cleanup
	released bool
}

type cleanup struct {
	fn      func()
	dropped bool
}

func (s *StateBase) mount(tree *Tree, h Handle) {
	s.tree, s.handle = tree, h
}

// Handle returns the instance this state belongs to.
func (s *StateBase) Handle() Handle {
	return s.handle
}

// Node returns the configuration node the instance currently represents.
func (s *StateBase) Node() *Node {
	if s.tree == nil {
		return nil
	}
	return s.tree.Node(s.handle)
}

// SetState runs fn, then asks the scheduler to rebuild the instance on the
// next tick. After disposal it does nothing.
//
// Call it only on the scheduler's thread; other goroutines go through
// BuildOwner.Post.
func (s *StateBase) SetState(fn func()) {
	if s.IsDisposed() {
		return
	}
	if fn != nil {
		fn()
	}
	if s.tree != nil {
		s.tree.owner.ScheduleBuild(s.handle)
	}
}

// OnDispose registers fn to run when the state is disposed, newest first.
// The returned func unregisters it. Registering on a disposed state runs fn
// at once.
func (s *StateBase) OnDispose(fn func()) (unregister func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		fn()
		return func() {}
	}
	c := &cleanup{fn: fn}
	s.cleanups = append(s.cleanups, c)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		c.dropped = true
		s.mu.Unlock()
	}
}

// release marks the state disposed and runs its cleanups once.
func (s *StateBase) release() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	pending := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	for i := len(pending) - 1; i >= 0; i-- {
		if c := pending[i]; !c.dropped {
			c.fn()
		}
	}
}

// Dispose runs the registered cleanups. States that override it must call
// s.StateBase.Dispose().
func (s *StateBase) Dispose() {
	s.release()
}

func (s *StateBase) InitState() {}

// Build returns no child.
func (s *StateBase) Build(ctx BuildContext) *Node {
	return nil
}

func (s *StateBase) DidUpdateConfig(old *Node) {}

// IsDisposed reports whether Dispose has run.
func (s *StateBase) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}
