// Package core reconciles immutable configuration trees into a persistent
// instance tree.
//
// # Configuration
//
// A Node describes one position of the desired UI: a registered Kind, an
// optional Key, Props and ordered Children. Nodes are produced anew on every
// rebuild and never mutated by the framework.
//
// Kinds are registered in a Registry with a KindSpec whose Class is one of
// ClassStateless (a pure build function), ClassStateful (a State whose Build
// produces the child) or ClassRender (a layout.RenderNode taking its children
// straight from the configuration).
//
// # Instances
//
// A Tree stores instances in an arena addressed by Handle. Handles of
// disposed instances go stale and are ignored everywhere, so a rebuild
// request for a node disposed in the meantime is simply dropped.
//
// Tree.Mount reconciles the root against a new configuration. At every level,
// keyed children are matched by key and kind (a Move, wherever the child now
// sits) and unkeyed children by kind in order (an Update). Everything else is
// created or disposed. Each entry point returns the Changes it made.
//
// # Rebuilds
//
// States embed StateBase and call SetState to schedule a rebuild:
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
//
// The BuildOwner collects requests and processes them, parents first, on the
// next call to FlushBuild. Callbacks from other goroutines go through
// BuildOwner.Post.
//
// # Errors
//
// Malformed configurations are rejected with an errors.StructuralError before
// anything changes. Panics in state hooks become errors.StateFaultError; the
// faulting instance is disposed and its siblings are unaffected.
package core
