package layout

import (
	"fmt"
	"reflect"

	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/graphics"
)

// RenderNode participates in layout and hit testing.
type RenderNode interface {
	Layout(constraints Constraints, parentUsesSize bool) error
	Size() graphics.Size
	Offset() graphics.Offset
	SetOffset(offset graphics.Offset)
	Constraints() Constraints
	NeedsLayout() bool
	MarkNeedsLayout()
	SetOwner(owner *PipelineOwner)
	Parent() RenderNode
	SetParent(parent RenderNode)
	Children() []RenderNode
	SetChildren(children []RenderNode)
	ParentData() ParentData
	SetParentData(data ParentData)
	HitTest(position graphics.Offset, result *HitTestResult) bool
	Describe() string
}

// LayoutState is the per-node layout state machine. Outside an active frame
// every attached node is LayoutClean.
type LayoutState int

const (
	LayoutClean LayoutState = iota
	LayoutNeeded
)

func (s LayoutState) String() string {
	if s == LayoutNeeded {
		return "needs-layout"
	}
	return "clean"
}

// RenderBoxBase provides base behavior for render boxes. Concrete render
// nodes embed it, call SetSelf, and implement PerformLayout.
type RenderBoxBase struct {
	size             graphics.Size
	offset           graphics.Offset
	parentData       ParentData
	owner            *PipelineOwner
	self             RenderNode
	parent           RenderNode
	children         []RenderNode
	depth            int
	relayoutBoundary RenderNode
	needsLayout      bool
	hasLaidOut       bool
	constraints      Constraints
	label            string
}

// Size returns the current size of the render box.
func (r *RenderBoxBase) Size() graphics.Size {
	return r.size
}

// SetSize updates the render box size. Only PerformLayout should call it.
func (r *RenderBoxBase) SetSize(size graphics.Size) {
	r.size = size
}

// Offset returns the position of this box relative to its parent.
func (r *RenderBoxBase) Offset() graphics.Offset {
	return r.offset
}

// SetOffset positions this box relative to its parent. Parents call it on
// their children from PerformLayout.
func (r *RenderBoxBase) SetOffset(offset graphics.Offset) {
	if r.offset == offset {
		return
	}
	if r.owner != nil {
		r.owner.record(r)
	}
	r.offset = offset
}

// ParentData returns the parent-consumed layout data for this box.
func (r *RenderBoxBase) ParentData() ParentData {
	return r.parentData
}

// SetParentData assigns parent-consumed layout data. The parent is marked for
// layout when the data changes.
func (r *RenderBoxBase) SetParentData(data ParentData) {
	if r.parentData == data {
		return
	}
	r.parentData = data
	if r.parent != nil {
		r.parent.MarkNeedsLayout()
	}
}

// SetOwner assigns the pipeline owner for scheduling layout.
func (r *RenderBoxBase) SetOwner(owner *PipelineOwner) {
	r.owner = owner
}

// Owner returns the pipeline owner, if any.
func (r *RenderBoxBase) Owner() *PipelineOwner {
	return r.owner
}

// SetSelf registers the concrete render node for scheduling.
func (r *RenderBoxBase) SetSelf(self RenderNode) {
	r.self = self
	r.needsLayout = true
}

// Self returns the concrete render node registered via SetSelf.
func (r *RenderBoxBase) Self() RenderNode {
	return r.self
}

// SetLabel sets the identity used in layout errors.
func (r *RenderBoxBase) SetLabel(label string) {
	r.label = label
}

// Describe returns the identity of this node for diagnostics.
func (r *RenderBoxBase) Describe() string {
	if r.label != "" {
		return r.label
	}
	if r.self != nil {
		return reflect.TypeOf(r.self).Elem().Name()
	}
	return "RenderBox"
}

// Parent returns the parent render node.
func (r *RenderBoxBase) Parent() RenderNode {
	return r.parent
}

// SetParent sets the parent render node and computes depth.
// Clears relayoutBoundary and constraints to prevent stale references
// when the node is reparented to a different subtree.
func (r *RenderBoxBase) SetParent(parent RenderNode) {
	if r.parent == parent {
		return
	}
	r.parent = parent
	if parent == nil {
		r.depth = 0
	} else if getter, ok := parent.(interface{ Depth() int }); ok {
		r.depth = getter.Depth() + 1
	} else {
		r.depth = 1
	}
	r.relayoutBoundary = nil
	r.constraints = Constraints{}
	r.needsLayout = true
	for _, child := range r.children {
		if updater, ok := child.(interface{ updateDepth(int) }); ok {
			updater.updateDepth(r.depth + 1)
		}
	}
}

func (r *RenderBoxBase) updateDepth(depth int) {
	r.depth = depth
	for _, child := range r.children {
		if updater, ok := child.(interface{ updateDepth(int) }); ok {
			updater.updateDepth(depth + 1)
		}
	}
}

// Children returns the ordered render children.
func (r *RenderBoxBase) Children() []RenderNode {
	return r.children
}

// SetChildren replaces the ordered render children, updating parent
// references. The node is marked for layout when the list changes.
func (r *RenderBoxBase) SetChildren(children []RenderNode) {
	if sameChildren(r.children, children) {
		return
	}
	for _, old := range r.children {
		if old.Parent() == r.self && !containsNode(children, old) {
			old.SetParent(nil)
		}
	}
	r.children = children
	for _, child := range children {
		SetParentOnChild(child, r.self)
	}
	r.MarkNeedsLayout()
}

// FirstChild returns the first render child or nil.
func (r *RenderBoxBase) FirstChild() RenderNode {
	if len(r.children) == 0 {
		return nil
	}
	return r.children[0]
}

// Depth returns the tree depth (root = 0).
func (r *RenderBoxBase) Depth() int {
	return r.depth
}

// RelayoutBoundary returns the cached nearest relayout boundary.
func (r *RenderBoxBase) RelayoutBoundary() RenderNode {
	return r.relayoutBoundary
}

// NeedsLayout returns true if this render box needs layout.
func (r *RenderBoxBase) NeedsLayout() bool {
	return r.needsLayout
}

// LayoutState reports the node's layout state.
func (r *RenderBoxBase) LayoutState() LayoutState {
	if r.needsLayout {
		return LayoutNeeded
	}
	return LayoutClean
}

// HasLaidOut reports whether a layout of this node has ever succeeded.
func (r *RenderBoxBase) HasLaidOut() bool {
	return r.hasLaidOut
}

// Constraints returns the last received constraints.
func (r *RenderBoxBase) Constraints() Constraints {
	return r.constraints
}

// MarkNeedsLayout marks this render box as needing layout.
//
// When a node needs layout, we walk up the tree marking each node until we
// reach a relayout boundary, which then gets scheduled. During layout all
// marked nodes run PerformLayout because their needsLayout flag is set.
func (r *RenderBoxBase) MarkNeedsLayout() {
	if r.needsLayout {
		return
	}
	r.needsLayout = true

	if r.owner == nil || r.self == nil {
		return
	}

	if r.relayoutBoundary == r.self {
		r.owner.ScheduleLayout(r.self)
		return
	}

	if r.parent != nil {
		r.parent.MarkNeedsLayout()
		return
	}

	// No parent and not a boundary: initial setup before the tree is connected.
	r.owner.ScheduleLayout(r.self)
}

// Layout handles boundary determination and delegates to PerformLayout.
//
// A node becomes a relayout boundary when:
//   - It receives tight constraints (parent dictates exact size)
//   - It is the root (no parent)
//   - Parent doesn't use our size (parentUsesSize=false)
//
// Layout is skipped when the node is clean and its constraints are
// unchanged. After PerformLayout the chosen size must lie within the
// constraints; a size outside them is reported, never clamped. On failure
// the node keeps needing layout and, when owned by a pipeline, its geometry
// is restored from the pipeline's journal.
func (r *RenderBoxBase) Layout(constraints Constraints, parentUsesSize bool) error {
	if !constraints.IsNormalized() {
		return r.layoutError(constraints, errors.ErrInvalidConstraints, "")
	}

	if constraints.IsTight() || r.parent == nil || !parentUsesSize {
		r.relayoutBoundary = r.self
	} else if getter, ok := r.parent.(interface{ RelayoutBoundary() RenderNode }); ok {
		r.relayoutBoundary = getter.RelayoutBoundary()
	}

	if !r.needsLayout && r.constraints == constraints {
		return nil
	}

	journaled := r.owner != nil && r.owner.record(r)
	snapshot := r.snapshot()

	r.constraints = constraints
	r.needsLayout = false

	err := r.performLayout()
	if err == nil && !constraints.Contains(r.size) {
		err = r.layoutError(constraints, errors.ErrSizeOutOfRange, "")
	}
	if err != nil {
		if !journaled {
			snapshot.restore()
		}
		r.needsLayout = true
		return err
	}
	r.hasLaidOut = true
	return nil
}

func (r *RenderBoxBase) performLayout() error {
	if performer, ok := r.self.(interface{ PerformLayout() error }); ok {
		return performer.PerformLayout()
	}
	// Leaf without a policy: smallest admissible size.
	r.size = r.constraints.Smallest()
	return nil
}

// LayoutChild lays out child with the given constraints after checking that
// they do not exceed this node's own maximums.
func (r *RenderBoxBase) LayoutChild(child RenderNode, constraints Constraints, parentUsesSize bool) error {
	if !constraints.Within(r.constraints) {
		return &errors.LayoutError{
			Node:        r.Describe(),
			Constraints: r.constraints.String(),
			Detail:      fmt.Sprintf("child %s given %s", child.Describe(), constraints),
			Err:         errors.ErrConstraintsWidened,
		}
	}
	return child.Layout(constraints, parentUsesSize)
}

// UnboundedError reports that this node needs a finite maximum on axis.
func (r *RenderBoxBase) UnboundedError(axis string) error {
	return r.layoutError(r.constraints, errors.ErrUnbounded, axis)
}

func (r *RenderBoxBase) layoutError(c Constraints, cause error, detail string) error {
	return &errors.LayoutError{
		Node:        r.Describe(),
		Constraints: c.String(),
		Size:        r.size.String(),
		Detail:      detail,
		Err:         cause,
	}
}

// HitTest checks children in reverse order, then this box.
func (r *RenderBoxBase) HitTest(position graphics.Offset, result *HitTestResult) bool {
	if !r.size.Contains(position) {
		return false
	}
	for i := len(r.children) - 1; i >= 0; i-- {
		child := r.children[i]
		if child.HitTest(position.Sub(child.Offset()), result) {
			break
		}
	}
	result.Add(r.self)
	return true
}

// geometryRecord is a journal entry holding a node's pre-layout geometry.
type geometryRecord struct {
	node        *RenderBoxBase
	size        graphics.Size
	offset      graphics.Offset
	constraints Constraints
	needsLayout bool
	hasLaidOut  bool
}

func (r *RenderBoxBase) snapshot() geometryRecord {
	return geometryRecord{
		node:        r,
		size:        r.size,
		offset:      r.offset,
		constraints: r.constraints,
		needsLayout: r.needsLayout,
		hasLaidOut:  r.hasLaidOut,
	}
}

func (g geometryRecord) restore() {
	g.node.size = g.size
	g.node.offset = g.offset
	g.node.constraints = g.constraints
	g.node.needsLayout = g.needsLayout
	g.node.hasLaidOut = g.hasLaidOut
}

// SetParentOnChild sets the parent reference on a child render node.
// It marks both the old and new parent as needing layout when the parent changes.
func SetParentOnChild(child, parent RenderNode) {
	if child == nil {
		return
	}
	current := child.Parent()
	if current == parent {
		return
	}
	child.SetParent(parent)
	if current != nil {
		current.MarkNeedsLayout()
	}
	if parent != nil {
		parent.MarkNeedsLayout()
	}
}

func sameChildren(a, b []RenderNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsNode(list []RenderNode, node RenderNode) bool {
	for _, n := range list {
		if n == node {
			return true
		}
	}
	return false
}
