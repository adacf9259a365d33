package core

import (
	stderrors "errors"
	"testing"

	"github.com/go-drift/arbor/pkg/errors"
)

// taggedKey is comparable by type but not when Tag holds a slice.
type taggedKey struct {
	Tag any
}

func TestValidate(t *testing.T) {
	k := newTestKinds()

	cyclic := New(k.box, nil)
	cyclic.Children = []*Node{New(k.leaf, nil), cyclic}

	shared := New(k.leaf, nil)

	tests := []struct {
		name string
		node *Node
		want error
		path string
	}{
		{name: "nil", node: nil},
		{name: "valid", node: New(k.box, nil, New(k.leaf, nil).WithKey("a"), New(k.leaf, nil).WithKey("b"))},
		{name: "shared subtree", node: New(k.box, nil, shared, New(k.wrap, nil, shared))},
		{name: "nil children skipped", node: New(k.box, nil, nil, New(k.leaf, nil))},
		{name: "same key on cousins", node: New(k.box, nil,
			New(k.box, nil, New(k.leaf, nil).WithKey(1)),
			New(k.box, nil, New(k.leaf, nil).WithKey(1)),
		)},
		{
			name: "duplicate key",
			node: New(k.box, nil, New(k.leaf, nil).WithKey("a"), New(k.leaf, nil).WithKey("a")),
			want: errors.ErrDuplicateKey,
			path: "box/leaf[1]",
		},
		{
			name: "non-comparable key",
			node: New(k.box, nil, New(k.leaf, nil).WithKey([]int{1})),
			want: errors.ErrNonComparableKey,
			path: "box/leaf[0]",
		},
		{name: "struct key", node: New(k.box, nil, New(k.leaf, nil).WithKey(taggedKey{Tag: 3}))},
		{
			name: "struct key holding a slice",
			node: New(k.box, nil, New(k.leaf, nil).WithKey(taggedKey{Tag: []int{1}})),
			want: errors.ErrNonComparableKey,
			path: "box/leaf[0]",
		},
		{
			name: "cycle",
			node: cyclic,
			want: errors.ErrCycle,
			path: "box/box[1]",
		},
		{
			name: "unknown kind",
			node: New(k.box, nil, New(k.wrap, nil, New(Kind(42), nil))),
			want: errors.ErrUnknownKind,
			path: "box/wrap[0]/kind(42)[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(k.reg, tt.node)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var structural *errors.StructuralError
			if !stderrors.As(err, &structural) {
				t.Fatalf("err = %T, want *StructuralError", err)
			}
			if structural.Path != tt.path {
				t.Errorf("Path = %q, want %q", structural.Path, tt.path)
			}
			if errors.KindOf(err) != errors.KindStructural {
				t.Errorf("KindOf = %v, want structural", errors.KindOf(err))
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Register(KindSpec{Name: "x", Class: ClassRender}); err == nil {
		t.Error("render kind without CreateRender should be rejected")
	}
	if _, err := reg.Register(KindSpec{Name: "x"}); err == nil {
		t.Error("missing class should be rejected")
	}

	kind := reg.MustRegister(Stateless("x", func(BuildContext, *Node) *Node { return nil }))
	if kind == 0 {
		t.Fatal("registered kind must not be zero")
	}
	if _, err := reg.Register(Stateless("x", func(BuildContext, *Node) *Node { return nil })); err == nil {
		t.Error("duplicate name should be rejected")
	}
	if got, ok := reg.Lookup("x"); !ok || got != kind {
		t.Errorf("Lookup = %v, %v", got, ok)
	}
	if reg.Name(kind) != "x" || reg.Name(0) != "kind(0)" {
		t.Errorf("Name = %q / %q", reg.Name(kind), reg.Name(0))
	}
	if spec, ok := reg.Spec(kind); !ok || spec.Class != ClassStateless {
		t.Errorf("Spec = %+v, %v", spec, ok)
	}
}

func TestMount_UnhashableKeyValueIsRejected(t *testing.T) {
	k := newTestKinds()
	tree := k.tree()
	_, err := tree.Mount(New(k.box, nil, New(k.leaf, nil).WithKey(taggedKey{Tag: []int{1}})))
	if !stderrors.Is(err, errors.ErrNonComparableKey) {
		t.Fatalf("err = %v, want ErrNonComparableKey", err)
	}
	if tree.Len() != 0 {
		t.Errorf("Len = %d, want an empty tree", tree.Len())
	}
}
