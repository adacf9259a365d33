package core

import (
	"fmt"

	"github.com/go-drift/arbor/pkg/layout"
)

// Kind identifies a registered node kind. Kinds are compared by equality;
// the zero Kind is never registered.
type Kind uint32

// Class is the closed set of behaviors a kind can have.
type Class int

const (
	// ClassStateless kinds produce their child from a pure build function.
	ClassStateless Class = iota + 1
	// ClassStateful kinds hold a State whose Build produces their child.
	ClassStateful
	// ClassRender kinds own a render node and take their children
	// directly from the configuration.
	ClassRender
)

func (c Class) String() string {
	switch c {
	case ClassStateless:
		return "stateless"
	case ClassStateful:
		return "stateful"
	case ClassRender:
		return "render"
	default:
		return "invalid"
	}
}

// KindSpec describes a kind. Exactly the hooks for its Class must be set.
type KindSpec struct {
	Name  string
	Class Class

	// Build produces the single child of a stateless node (nil for none).
	Build func(ctx BuildContext, node *Node) *Node

	// CreateState creates the state block of a stateful node.
	CreateState func(node *Node) State

	// CreateRender creates the render node of a render node.
	CreateRender func(node *Node) layout.RenderNode
	// UpdateRender applies a new configuration to an existing render node.
	// Optional; when nil the render node is left as created.
	UpdateRender func(node *Node, render layout.RenderNode)
}

func (s KindSpec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("kind spec: empty name")
	}
	switch s.Class {
	case ClassStateless:
		if s.Build == nil {
			return fmt.Errorf("kind %q: stateless kinds need Build", s.Name)
		}
	case ClassStateful:
		if s.CreateState == nil {
			return fmt.Errorf("kind %q: stateful kinds need CreateState", s.Name)
		}
	case ClassRender:
		if s.CreateRender == nil {
			return fmt.Errorf("kind %q: render kinds need CreateRender", s.Name)
		}
	default:
		return fmt.Errorf("kind %q: invalid class %d", s.Name, s.Class)
	}
	return nil
}

// Registry maps kinds to their specs. A registry is owned by the hosting
// application and shared by the trees it creates.
type Registry struct {
	specs  []KindSpec
	byName map[string]Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		specs:  []KindSpec{{}}, // index 0 is the invalid kind
		byName: make(map[string]Kind),
	}
}

// Register adds a kind and returns its identifier.
func (r *Registry) Register(spec KindSpec) (Kind, error) {
	if err := spec.validate(); err != nil {
		return 0, err
	}
	if _, exists := r.byName[spec.Name]; exists {
		return 0, fmt.Errorf("kind %q already registered", spec.Name)
	}
	kind := Kind(len(r.specs))
	r.specs = append(r.specs, spec)
	r.byName[spec.Name] = kind
	return kind, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(spec KindSpec) Kind {
	kind, err := r.Register(spec)
	if err != nil {
		panic(err)
	}
	return kind
}

// Spec returns the spec registered for kind.
func (r *Registry) Spec(kind Kind) (*KindSpec, bool) {
	if kind == 0 || int(kind) >= len(r.specs) {
		return nil, false
	}
	return &r.specs[kind], true
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (Kind, bool) {
	kind, ok := r.byName[name]
	return kind, ok
}

// Name returns the registered name of kind, or "kind(N)" when unknown.
func (r *Registry) Name(kind Kind) string {
	if spec, ok := r.Spec(kind); ok {
		return spec.Name
	}
	return fmt.Sprintf("kind(%d)", kind)
}
