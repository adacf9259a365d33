package core

import (
	"slices"
	"sync"

	"github.com/go-drift/arbor/pkg/errors"
)

// BuildOwner schedules rebuilds of dirty instances. Rebuild requests are
// messages: ScheduleBuild records the handle, and the next FlushBuild
// processes every request recorded before it started.
//
// Only Post is safe to call from other goroutines.
type BuildOwner struct {
	tree       *Tree
	pending    []Handle
	pendingSet map[Handle]bool

	mu    sync.Mutex
	inbox []func()

	// OnNeedsFrame is called when a rebuild is scheduled or a callback is
	// posted, signalling the frame driver that a tick should run. Drivers
	// that only tick on demand use it to wake up.
	OnNeedsFrame func()
}

func newBuildOwner(tree *Tree) *BuildOwner {
	return &BuildOwner{tree: tree}
}

// ScheduleBuild marks h as needing a rebuild on the next tick. Requests for
// the same instance coalesce; requests for disposed instances are dropped.
func (b *BuildOwner) ScheduleBuild(h Handle) {
	inst := b.tree.get(h)
	if inst == nil {
		return
	}
	inst.dirty = true
	if b.pendingSet[h] {
		return
	}
	if b.pendingSet == nil {
		b.pendingSet = make(map[Handle]bool)
	}
	b.pendingSet[h] = true
	b.pending = append(b.pending, h)

	if b.OnNeedsFrame != nil {
		b.OnNeedsFrame()
	}
}

// Post queues fn to run on the scheduler's thread at the start of the next
// tick. It may be called from any goroutine.
func (b *BuildOwner) Post(fn func()) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.inbox = append(b.inbox, fn)
	b.mu.Unlock()

	if b.OnNeedsFrame != nil {
		b.OnNeedsFrame()
	}
}

// Pending returns the number of rebuild requests waiting for the next tick.
func (b *BuildOwner) Pending() int {
	return len(b.pending)
}

// NeedsWork returns true if there are rebuild requests, posted callbacks or
// pending layout.
func (b *BuildOwner) NeedsWork() bool {
	b.mu.Lock()
	posted := len(b.inbox) > 0
	b.mu.Unlock()
	return posted || len(b.pending) > 0 || b.tree.pipeline.NeedsLayout()
}

// FlushBuild runs one tick of the scheduler.
//
// Posted callbacks run first, then the set of pending requests is captured
// and processed in depth order, parents first. An entry is skipped when its
// instance was disposed since the request, or when an ancestor rebuilt it
// earlier in this tick. Requests made while flushing wait for the next tick.
//
// A faulting instance is disposed and removed from its parent; the other
// requests still run. All errors are joined.
func (b *BuildOwner) FlushBuild() (*Changes, error) {
	t := b.tree
	t.begin()

	b.mu.Lock()
	posted := b.inbox
	b.inbox = nil
	b.mu.Unlock()
	for _, fn := range posted {
		b.runPosted(fn)
	}

	dirty := b.pending
	b.pending = nil
	b.pendingSet = nil
	slices.SortStableFunc(dirty, func(x, y Handle) int {
		return t.Depth(x) - t.Depth(y)
	})

	for _, h := range dirty {
		inst := t.get(h)
		if inst == nil || !inst.dirty {
			continue
		}
		parent := inst.parent
		if t.rebuild(h) {
			t.syncRenderAncestor(h)
			continue
		}
		index := t.removeFromParent(parent, h)
		t.dispose(h, index)
		t.resync(parent)
	}
	return t.end()
}

func (b *BuildOwner) runPosted(fn func()) {
	var err error
	func() {
		defer errors.RecoverInto("core.Post", &err)
		fn()
	}()
	if err != nil {
		b.tree.fail(err)
	}
}

// removeFromParent unlinks h from parent's children and returns its former
// index, or -1.
func (t *Tree) removeFromParent(parent, h Handle) int {
	p := t.get(parent)
	if p == nil {
		return -1
	}
	index := slices.Index(p.children, h)
	if index >= 0 {
		p.children = slices.Delete(slices.Clone(p.children), index, index+1)
	}
	return index
}

// resync refreshes the render children affected by a change under h.
func (t *Tree) resync(h Handle) {
	if h.IsZero() {
		return
	}
	if t.RenderNode(h) != nil {
		t.syncRenderChildren(h)
		return
	}
	t.syncRenderAncestor(h)
}
