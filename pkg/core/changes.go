package core

// Op is a kind of instance tree mutation.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpMove
	OpDispose
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpMove:
		return "move"
	case OpDispose:
		return "dispose"
	default:
		return "unknown"
	}
}

// Mutation records one change the reconciler made.
// OldIndex is -1 for creations; NewIndex is -1 for disposals.
type Mutation struct {
	Op       Op
	Handle   Handle
	Parent   Handle
	Kind     Kind
	Key      Key
	OldIndex int
	NewIndex int
}

// Changes is the ordered list of mutations produced by one reconciliation
// entry point (a mount or one scheduler tick).
type Changes struct {
	Mutations []Mutation
	// Disposed lists every disposed instance, in disposal order.
	Disposed []Handle
	// Rebuilt counts the nodes whose build function ran.
	Rebuilt int
}

func (c *Changes) add(m Mutation) {
	c.Mutations = append(c.Mutations, m)
	if m.Op == OpDispose {
		c.Disposed = append(c.Disposed, m.Handle)
	}
}

// Count returns the number of mutations of the given op.
func (c *Changes) Count(op Op) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, m := range c.Mutations {
		if m.Op == op {
			n++
		}
	}
	return n
}

// Empty reports whether nothing was rebuilt or mutated.
func (c *Changes) Empty() bool {
	return c == nil || (len(c.Mutations) == 0 && c.Rebuilt == 0)
}
