package core

import (
	"fmt"
	"maps"
)

// DumpNode is a plain snapshot of one instance: everything observable about
// it except its handle. Two trees with equal dumps are indistinguishable to
// their users.
type DumpNode struct {
	Kind     string
	Key      any            `yaml:",omitempty"`
	Props    map[string]any `yaml:",omitempty"`
	State    string         `yaml:",omitempty"`
	Children []*DumpNode    `yaml:",omitempty"`
}

// Dump snapshots the instance tree, or returns nil for an empty tree.
// States implementing fmt.Stringer contribute their String value.
func (t *Tree) Dump() *DumpNode {
	return t.dump(t.root)
}

func (t *Tree) dump(h Handle) *DumpNode {
	inst := t.get(h)
	if inst == nil {
		return nil
	}
	d := &DumpNode{
		Kind: t.registry.Name(inst.node.Kind),
		Key:  inst.node.Key,
	}
	if len(inst.node.Props) > 0 {
		d.Props = maps.Clone(map[string]any(inst.node.Props))
	}
	if s, ok := inst.state.(fmt.Stringer); ok {
		d.State = s.String()
	}
	for _, child := range inst.children {
		if c := t.dump(child); c != nil {
			d.Children = append(d.Children, c)
		}
	}
	return d
}

// Walk visits h and its descendants depth-first, parents before children.
// Returning false from visit skips the children of that instance.
func (t *Tree) Walk(h Handle, visit func(h Handle, depth int) bool) {
	inst := t.get(h)
	if inst == nil {
		return
	}
	if !visit(h, inst.depth) {
		return
	}
	for _, child := range t.Children(h) {
		t.Walk(child, visit)
	}
}
