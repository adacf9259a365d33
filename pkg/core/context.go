package core

// BuildContext locates the instance being built. It is only valid for the
// duration of the Build call it was passed to.
type BuildContext struct {
	tree   *Tree
	handle Handle
}

// Tree returns the tree the instance belongs to.
func (c BuildContext) Tree() *Tree {
	return c.tree
}

// Handle returns the instance being built.
func (c BuildContext) Handle() Handle {
	return c.handle
}

// Node returns the configuration node being built.
func (c BuildContext) Node() *Node {
	return c.tree.Node(c.handle)
}

// Depth returns the depth of the instance being built.
func (c BuildContext) Depth() int {
	return c.tree.Depth(c.handle)
}

// FindAncestorState walks up from the instance being built and returns the
// first ancestor state for which match reports true.
func (c BuildContext) FindAncestorState(match func(State) bool) State {
	for h := c.tree.Parent(c.handle); !h.IsZero(); h = c.tree.Parent(h) {
		if s := c.tree.State(h); s != nil && match(s) {
			return s
		}
	}
	return nil
}
