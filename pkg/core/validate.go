package core

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/arbor/pkg/errors"
)

// Validate checks a configuration subtree before it is reconciled. It
// reports, as a *errors.StructuralError, the first of:
//   - a node of an unregistered kind
//   - a key whose dynamic type is not comparable
//   - two siblings sharing a key
//   - a node that is its own ancestor
//
// Subtrees shared by several parents are checked once.
func Validate(reg *Registry, root *Node) error {
	if root == nil {
		return nil
	}
	v := &validator{
		reg:     reg,
		onStack: make(map[*Node]bool),
		done:    make(map[*Node]bool),
	}
	return v.visit(root, []string{v.segment(root, -1)})
}

type validator struct {
	reg     *Registry
	onStack map[*Node]bool
	done    map[*Node]bool
}

func (v *validator) visit(node *Node, path []string) error {
	if v.onStack[node] {
		return v.fail(path, nil, errors.ErrCycle)
	}
	if v.done[node] {
		return nil
	}
	if _, ok := v.reg.Spec(node.Kind); !ok {
		return v.fail(path, nil, errors.ErrUnknownKind)
	}
	v.onStack[node] = true

	seen := make(map[Key]int, len(node.Children))
	for i, child := range node.Children {
		if child == nil {
			continue
		}
		childPath := append(path[:len(path):len(path)], v.segment(child, i))
		if child.Key != nil {
			if !reflect.ValueOf(child.Key).Comparable() {
				return v.fail(childPath, fmt.Sprintf("%T", child.Key), errors.ErrNonComparableKey)
			}
			if _, dup := seen[child.Key]; dup {
				return v.fail(childPath, child.Key, errors.ErrDuplicateKey)
			}
			seen[child.Key] = i
		}
		if err := v.visit(child, childPath); err != nil {
			return err
		}
	}

	delete(v.onStack, node)
	v.done[node] = true
	return nil
}

func (v *validator) segment(node *Node, index int) string {
	name := v.reg.Name(node.Kind)
	if index < 0 {
		return name
	}
	return fmt.Sprintf("%s[%d]", name, index)
}

func (v *validator) fail(path []string, key any, cause error) error {
	return &errors.StructuralError{
		Op:   "core.Validate",
		Path: strings.Join(path, "/"),
		Key:  key,
		Err:  cause,
	}
}
