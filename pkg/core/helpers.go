package core

import "github.com/go-drift/arbor/pkg/layout"

// Stateless returns the KindSpec of a stateless kind built by build.
func Stateless(name string, build func(ctx BuildContext, node *Node) *Node) KindSpec {
	return KindSpec{Name: name, Class: ClassStateless, Build: build}
}

// StatefulKind returns the KindSpec of a stateful kind whose states are created
// by create.
func StatefulKind(name string, create func(node *Node) State) KindSpec {
	return KindSpec{Name: name, Class: ClassStateful, CreateState: create}
}

// RenderKind returns the KindSpec of a render kind. update may be nil.
func RenderKind(name string, create func(node *Node) layout.RenderNode, update func(node *Node, render layout.RenderNode)) KindSpec {
	return KindSpec{Name: name, Class: ClassRender, CreateRender: create, UpdateRender: update}
}

// Stateful creates the KindSpec of an inline stateful kind using closures.
// Use this for small, self-contained fragments that need no lifecycle hooks:
//
//	counter := reg.MustRegister(core.Stateful("counter",
//	    func(*core.Node) int { return 0 },
//	    func(count int, ctx core.BuildContext, setState func(func(int) int)) *core.Node {
//	        return kinds.TextOf(strconv.Itoa(count))
//	    },
//	))
//
// setState takes a function that transforms the current value into the next
// one and schedules a rebuild. For states with several fields or disposers,
// embed StateBase in a named struct instead.
func Stateful[S any](
	name string,
	init func(node *Node) S,
	build func(state S, ctx BuildContext, setState func(func(S) S)) *Node,
) KindSpec {
	return StatefulKind(name, func(node *Node) State {
		return &inlineState[S]{initFn: init, buildFn: build, initial: node}
	})
}

type inlineState[S any] struct {
	StateBase
	value   S
	initial *Node
	initFn  func(node *Node) S
	buildFn func(state S, ctx BuildContext, setState func(func(S) S)) *Node
}

func (s *inlineState[S]) InitState() {
	s.value = s.initFn(s.initial)
	s.initial = nil
}

func (s *inlineState[S]) Build(ctx BuildContext) *Node {
	return s.buildFn(s.value, ctx, func(update func(S) S) {
		s.SetState(func() { s.value = update(s.value) })
	})
}
