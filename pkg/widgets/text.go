package widgets

import (
	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/layout"
)

func createText(n *core.Node) layout.RenderNode {
	r := layout.NewRenderText("")
	updateText(n, r)
	return r
}

func updateText(n *core.Node, render layout.RenderNode) {
	r := render.(*layout.RenderText)
	changed := false
	assign(&r.Text, n.Props.Str(PropText, ""), &changed)
	if changed {
		r.MarkNeedsLayout()
	}
	r.SetParentData(flexData(n.Props, 0))
}

// TextOf creates a text leaf.
func (k *Kinds) TextOf(text string) *core.Node {
	return core.New(k.Text, core.Props{PropText: text})
}
