package core

import (
	"fmt"

	"github.com/go-drift/arbor/pkg/layout"
)

// testBox is a render node taking the smallest admissible size.
type testBox struct {
	layout.RenderBoxBase
}

func newTestBox() *testBox {
	b := &testBox{}
	b.SetSelf(b)
	return b
}

// testKinds registers the kinds used across the package tests.
type testKinds struct {
	reg     *Registry
	box     Kind // render, any number of children
	leaf    Kind // render, no children
	wrap    Kind // stateless, builds a box around its children
	counter Kind // stateful, builds a box carrying its count around its children
	bomb    Kind // stateless, panics while building
	log     []string
}

func newTestKinds() *testKinds {
	k := &testKinds{reg: NewRegistry()}
	k.box = k.reg.MustRegister(RenderKind("box", func(*Node) layout.RenderNode { return newTestBox() }, nil))
	k.leaf = k.reg.MustRegister(RenderKind("leaf", func(*Node) layout.RenderNode { return newTestBox() }, nil))
	k.wrap = k.reg.MustRegister(Stateless("wrap", func(_ BuildContext, n *Node) *Node {
		return New(k.box, nil, n.Children...)
	}))
	k.counter = k.reg.MustRegister(StatefulKind("counter", func(n *Node) State {
		return &counterState{kinds: k, name: n.Props.Str("name", "")}
	}))
	k.bomb = k.reg.MustRegister(Stateless("bomb", func(BuildContext, *Node) *Node {
		panic("boom")
	}))
	return k
}

func (k *testKinds) tree() *Tree {
	return NewTree(k.reg, nil)
}

func (k *testKinds) counterNode(name string, children ...*Node) *Node {
	return New(k.counter, Props{"name": name}, children...)
}

type counterState struct {
	StateBase
	kinds *testKinds
	name  string
	count int

	panicOnBuild   bool
	dupKeys        bool
	rescheduleOnce bool
	builds         int
}

func (s *counterState) InitState() {
	s.kinds.log = append(s.kinds.log, "init "+s.name)
}

func (s *counterState) DidUpdateConfig(old *Node) {
	s.kinds.log = append(s.kinds.log, "update "+s.name)
}

func (s *counterState) Build(ctx BuildContext) *Node {
	s.builds++
	if s.panicOnBuild {
		panic("build failed: " + s.name)
	}
	if s.rescheduleOnce {
		s.rescheduleOnce = false
		s.SetState(nil)
	}
	if s.dupKeys {
		return New(s.kinds.box, nil,
			New(s.kinds.leaf, nil).WithKey("dup"),
			New(s.kinds.leaf, nil).WithKey("dup"),
		)
	}
	return New(s.kinds.box, Props{"count": s.count}, ctx.Node().Children...)
}

func (s *counterState) Dispose() {
	s.kinds.log = append(s.kinds.log, "dispose "+s.name)
	s.StateBase.Dispose()
}

func (s *counterState) String() string {
	return fmt.Sprintf("count=%d", s.count)
}

// childAt returns the i-th child of h, failing loudly when absent.
func childAt(tree *Tree, h Handle, i int) Handle {
	children := tree.Children(h)
	if i >= len(children) {
		panic(fmt.Sprintf("%s has %d children, want index %d", tree.Describe(h), len(children), i))
	}
	return children[i]
}
