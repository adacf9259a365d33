package core

import "maps"

// Key is an identity token compared by value. Any comparable value works;
// nil means the node is unkeyed.
type Key = any

// Props holds the declared properties of a node.
type Props map[string]any

// Node is an immutable description of one position in the desired UI.
// A fresh tree of nodes is produced on every rebuild; the framework never
// mutates a node it is handed.
type Node struct {
	Kind     Kind
	Key      Key
	Props    Props
	Children []*Node
}

// New creates a node of the given kind.
func New(kind Kind, props Props, children ...*Node) *Node {
	return &Node{Kind: kind, Props: props, Children: children}
}

// WithKey returns a copy of n carrying key.
func (n *Node) WithKey(key Key) *Node {
	c := *n
	c.Key = key
	return &c
}

// WithProps returns a copy of n whose props are n's props overlaid with extra.
func (n *Node) WithProps(extra Props) *Node {
	c := *n
	merged := make(Props, len(n.Props)+len(extra))
	maps.Copy(merged, n.Props)
	maps.Copy(merged, extra)
	c.Props = merged
	return &c
}

// Has reports whether the property is declared.
func (p Props) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Float returns a numeric property as float64, or def when absent or not numeric.
func (p Props) Float(name string, def float64) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return def
	}
}

// Int returns a numeric property as int, or def when absent or not numeric.
func (p Props) Int(name string, def int) int {
	switch v := p[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Str returns a string property, or def when absent or not a string.
func (p Props) Str(name string, def string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return def
}

// Bool returns a boolean property, or def when absent or not a bool.
func (p Props) Bool(name string, def bool) bool {
	if v, ok := p[name].(bool); ok {
		return v
	}
	return def
}
