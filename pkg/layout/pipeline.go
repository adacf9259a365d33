package layout

import (
	stderrors "errors"
	"slices"
)

// PipelineOwner tracks render nodes that need layout.
//
// Layout scheduling works with relayout boundaries: when a node needs layout,
// MarkNeedsLayout walks up to the nearest boundary, marking each node along
// the way. The boundary gets scheduled here. During FlushLayoutForRoot, layout
// propagates from the root (or scheduled boundaries) down through all marked
// nodes.
//
// Every geometry change made during a flush is journaled. When a boundary's
// layout fails, the journal entries recorded since that boundary started are
// replayed in reverse, leaving the subtree at its last-known-good geometry.
type PipelineOwner struct {
	dirtyLayout    []RenderNode        // boundaries needing layout, processed depth-first
	dirtyLayoutSet map[RenderNode]bool // O(1) dedup check
	failed         []RenderNode        // boundaries whose last layout failed
	needsLayout    bool

	journal    []geometryRecord
	journaling bool
}

// ScheduleLayout marks a relayout boundary as needing layout.
// Only relayout boundaries should be scheduled here; intermediate nodes
// are marked via MarkNeedsLayout but not scheduled directly.
func (p *PipelineOwner) ScheduleLayout(node RenderNode) {
	if p.dirtyLayoutSet == nil {
		p.dirtyLayoutSet = make(map[RenderNode]bool)
	}
	p.needsLayout = true
	if p.dirtyLayoutSet[node] {
		return
	}
	p.dirtyLayoutSet[node] = true
	p.dirtyLayout = append(p.dirtyLayout, node)
}

// RequestLayout forces the next flush to run even if nothing was scheduled.
// Frame drivers call it when an external trigger occurred (a rebuild or a new
// surface size) so that previously failed subtrees get another attempt.
func (p *PipelineOwner) RequestLayout() {
	p.needsLayout = true
}

// NeedsLayout reports if any render nodes need layout.
func (p *PipelineOwner) NeedsLayout() bool {
	return p.needsLayout
}

// FlushLayoutForRoot runs layout starting from the root.
//
// Layout starts at the root with the given constraints (root is always a
// boundary). Nodes with needsLayout=true run PerformLayout; clean nodes with
// unchanged constraints skip layout entirely. Errors from the root and from
// each scheduled boundary are joined; failed subtrees are rolled back.
func (p *PipelineOwner) FlushLayoutForRoot(root RenderNode, constraints Constraints) error {
	if root == nil {
		return nil
	}
	if !p.needsLayout && !root.NeedsLayout() && root.Constraints() == constraints {
		return nil
	}

	p.requeueFailed()
	p.journaling = true
	defer p.endJournal()

	var errs []error
	if err := p.layoutBoundary(root, constraints); err != nil {
		errs = append(errs, err)
	}
	if err := p.flushDirtyBoundaries(); err != nil {
		errs = append(errs, err)
	}

	p.dirtyLayout = nil
	p.dirtyLayoutSet = nil
	p.needsLayout = false
	return stderrors.Join(errs...)
}

// FlushLayoutFromBoundaries processes dirty relayout boundaries without a root.
// This is useful for incremental updates outside the normal frame cycle.
func (p *PipelineOwner) FlushLayoutFromBoundaries() error {
	if !p.needsLayout {
		return nil
	}
	p.requeueFailed()
	p.journaling = true
	defer p.endJournal()

	err := p.flushDirtyBoundaries()

	p.dirtyLayout = nil
	p.dirtyLayoutSet = nil
	p.needsLayout = false
	return err
}

// flushDirtyBoundaries processes scheduled boundaries in depth order (parents first).
//
// Boundaries are processed parent-first so that if a parent and child are both
// scheduled, the parent lays out first and may clear the child's dirty flag
// as a side effect. This avoids redundant layout work.
func (p *PipelineOwner) flushDirtyBoundaries() error {
	var errs []error
	for len(p.dirtyLayout) > 0 {
		slices.SortFunc(p.dirtyLayout, func(a, b RenderNode) int {
			return getDepth(a) - getDepth(b)
		})

		dirty := p.dirtyLayout
		p.dirtyLayout = nil
		p.dirtyLayoutSet = nil

		for _, node := range dirty {
			// A parent's layout may already have laid out this node; a
			// boundary that failed in this flush is not attempted twice.
			if !node.NeedsLayout() || containsNode(p.failed, node) {
				continue
			}
			// An ancestor failed and was rolled back; the boundary waits for
			// the next flush so the subtree never mixes old and new geometry.
			if p.insideFailed(node) {
				p.failed = append(p.failed, node)
				continue
			}
			// Boundaries re-layout with their cached constraints and do not
			// propagate size changes to their parents.
			if err := p.layoutBoundary(node, node.Constraints()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return stderrors.Join(errs...)
}

func (p *PipelineOwner) layoutBoundary(node RenderNode, constraints Constraints) error {
	mark := len(p.journal)
	if err := node.Layout(constraints, false); err != nil {
		p.rollback(mark)
		p.failed = append(p.failed, node)
		return err
	}
	return nil
}

func (p *PipelineOwner) insideFailed(node RenderNode) bool {
	for n := node.Parent(); n != nil; n = n.Parent() {
		if containsNode(p.failed, n) {
			return true
		}
	}
	return false
}

// record journals the current geometry of r. It reports false when no flush
// is in progress.
func (p *PipelineOwner) record(r *RenderBoxBase) bool {
	if !p.journaling {
		return false
	}
	p.journal = append(p.journal, r.snapshot())
	return true
}

func (p *PipelineOwner) rollback(mark int) {
	for i := len(p.journal) - 1; i >= mark; i-- {
		p.journal[i].restore()
	}
	p.journal = p.journal[:mark]
}

func (p *PipelineOwner) endJournal() {
	p.journal = nil
	p.journaling = false
}

func (p *PipelineOwner) requeueFailed() {
	failed := p.failed
	p.failed = nil
	for _, node := range failed {
		if node.NeedsLayout() && node.Parent() != nil {
			p.ScheduleLayout(node)
		}
	}
}

// getDepth returns the tree depth of a render node.
func getDepth(node RenderNode) int {
	if getter, ok := node.(interface{ Depth() int }); ok {
		return getter.Depth()
	}
	return 0
}
