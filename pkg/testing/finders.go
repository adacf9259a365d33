package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/layout"
	"github.com/go-drift/arbor/pkg/widgets"
)

// Finder locates instances in the tree.
type Finder interface {
	// Evaluate returns the matches under root in pre-order.
	Evaluate(tree *core.Tree, root core.Handle) []core.Handle
	// Description names the finder in failure messages.
	Description() string
}

// FinderResult is the outcome of Tester.Find.
type FinderResult struct {
	tree    *core.Tree
	handles []core.Handle
	finder  Finder
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match and panics when there is none.
func (r FinderResult) First() core.Handle {
	if len(r.handles) == 0 {
		panic("no instance matches " + r.describe())
	}
	return r.handles[0]
}

// At returns match i and panics when i is out of range.
func (r FinderResult) At(index int) core.Handle {
	if index < 0 || index >= len(r.handles) {
		panic(fmt.Sprintf("match %d requested, %s found %d", index, r.describe(), len(r.handles)))
	}
	return r.handles[index]
}

func (r FinderResult) All() []core.Handle {
	return r.handles
}

func (r FinderResult) Count() int {
	return len(r.handles)
}

// Exists reports whether anything matched.
func (r FinderResult) Exists() bool {
	return len(r.handles) > 0
}

// Node returns the configuration node of the first match. Panics if no matches.
func (r FinderResult) Node() *core.Node {
	return r.tree.Node(r.First())
}

// RenderNode returns the render node of the first match, or of its nearest
// render descendant when the match is a composing kind.
func (r FinderResult) RenderNode() layout.RenderNode {
	h := r.First()
	for !h.IsZero() {
		if render := r.tree.RenderNode(h); render != nil {
			return render
		}
		children := r.tree.Children(h)
		if len(children) == 0 {
			return nil
		}
		h = children[0]
	}
	return nil
}

// kindFinder matches instances of a registered kind name.
type kindFinder struct {
	name string
}

func (f *kindFinder) Evaluate(tree *core.Tree, root core.Handle) []core.Handle {
	return collectMatches(tree, root, func(h core.Handle) bool {
		return tree.Registry().Name(tree.Node(h).Kind) == f.name
	})
}

func (f *kindFinder) Description() string {
	return fmt.Sprintf("ByKind(%s)", f.name)
}

// ByKind returns a finder that matches instances of the named kind.
func ByKind(name string) Finder {
	return &kindFinder{name: name}
}

// keyFinder matches instances whose key equals the given key.
type keyFinder struct {
	key core.Key
}

func (f *keyFinder) Evaluate(tree *core.Tree, root core.Handle) []core.Handle {
	return collectMatches(tree, root, func(h core.Handle) bool {
		k := tree.Node(h).Key
		if k == nil || f.key == nil {
			return k == nil && f.key == nil
		}
		if !reflect.ValueOf(k).Comparable() || !reflect.ValueOf(f.key).Comparable() {
			return reflect.DeepEqual(k, f.key)
		}
		return k == f.key
	})
}

func (f *keyFinder) Description() string {
	return fmt.Sprintf("ByKey(%v)", f.key)
}

// ByKey returns a finder that matches instances whose key equals key.
func ByKey(key core.Key) Finder {
	return &keyFinder{key: key}
}

// textFinder matches text instances by content.
type textFinder struct {
	text     string
	contains bool
}

func (f *textFinder) Evaluate(tree *core.Tree, root core.Handle) []core.Handle {
	return collectMatches(tree, root, func(h core.Handle) bool {
		n := tree.Node(h)
		if tree.Registry().Name(n.Kind) != widgets.NameText {
			return false
		}
		content := n.Props.Str(widgets.PropText, "")
		if f.contains {
			return strings.Contains(content, f.text)
		}
		return content == f.text
	})
}

func (f *textFinder) Description() string {
	if f.contains {
		return fmt.Sprintf("ByTextContaining(%q)", f.text)
	}
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText returns a finder that matches text instances with exact content.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

// ByTextContaining returns a finder that matches text instances containing
// substring.
func ByTextContaining(substring string) Finder {
	return &textFinder{text: substring, contains: true}
}

// predicateFinder matches instances satisfying a predicate.
type predicateFinder struct {
	fn func(*core.Tree, core.Handle) bool
}

func (f *predicateFinder) Evaluate(tree *core.Tree, root core.Handle) []core.Handle {
	return collectMatches(tree, root, func(h core.Handle) bool { return f.fn(tree, h) })
}

func (f *predicateFinder) Description() string {
	return "ByPredicate(...)"
}

// ByPredicate returns a finder that matches instances satisfying fn.
func ByPredicate(fn func(tree *core.Tree, h core.Handle) bool) Finder {
	return &predicateFinder{fn: fn}
}

// relationFinder keeps the matches of matching that sit strictly below
// (or, with above set, strictly above) some match of of.
type relationFinder struct {
	of, matching Finder
	above        bool
}

func (f *relationFinder) Evaluate(tree *core.Tree, root core.Handle) []core.Handle {
	related := make(map[core.Handle]bool)
	for _, h := range f.of.Evaluate(tree, root) {
		if f.above {
			for p := tree.Parent(h); !p.IsZero(); p = tree.Parent(p) {
				related[p] = true
			}
			continue
		}
		tree.Walk(h, func(d core.Handle, _ int) bool {
			if d != h {
				related[d] = true
			}
			return true
		})
	}
	if len(related) == 0 {
		return nil
	}
	var results []core.Handle
	for _, candidate := range f.matching.Evaluate(tree, root) {
		if related[candidate] {
			results = append(results, candidate)
		}
	}
	return results
}

func (f *relationFinder) Description() string {
	name := "Descendant"
	if f.above {
		name = "Ancestor"
	}
	return fmt.Sprintf("%s(of: %s, matching: %s)", name, f.of.Description(), f.matching.Description())
}

// Descendant matches instances satisfying matching that lie below an
// instance satisfying of.
func Descendant(of, matching Finder) Finder {
	return &relationFinder{of: of, matching: matching}
}

// Ancestor matches instances satisfying matching that lie above an
// instance satisfying of.
func Ancestor(of, matching Finder) Finder {
	return &relationFinder{of: of, matching: matching, above: true}
}

// collectMatches walks the subtree at root in pre-order, collecting the
// instances that satisfy predicate.
func collectMatches(tree *core.Tree, root core.Handle, predicate func(core.Handle) bool) []core.Handle {
	var results []core.Handle
	tree.Walk(root, func(h core.Handle, _ int) bool {
		if predicate(h) {
			results = append(results, h)
		}
		return true
	})
	return results
}
