package layout

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/graphics"
)

// RenderText is a leaf that sizes itself to its text measured with Face.
// When the maximum width is finite the text wraps greedily at spaces. A word
// wider than the maximum, or lines taller than it, fail the layout.
type RenderText struct {
	RenderBoxBase
	Text string
	Face font.Face

	lines []string
}

// NewRenderText creates a text render node using the built-in 7x13 bitmap face.
func NewRenderText(text string) *RenderText {
	r := &RenderText{Text: text, Face: basicfont.Face7x13}
	r.SetSelf(r)
	return r
}

// Lines returns the wrapped lines from the last layout.
func (r *RenderText) Lines() []string {
	return r.lines
}

// PerformLayout wraps and measures the text.
func (r *RenderText) PerformLayout() error {
	c := r.Constraints()
	face := r.Face
	if face == nil {
		face = basicfont.Face7x13
	}

	if c.HasBoundedWidth() {
		r.lines = r.wrap(face, c.MaxWidth)
	} else {
		r.lines = strings.Split(r.Text, "\n")
	}

	width := 0.0
	for _, line := range r.lines {
		w := measure(face, line)
		if w > width {
			width = w
		}
	}
	lineHeight := float64(face.Metrics().Height.Ceil())
	need := graphics.Size{Width: width, Height: lineHeight * float64(len(r.lines))}
	if need.Width > c.MaxWidth+floatTolerance || need.Height > c.MaxHeight+floatTolerance {
		return r.layoutError(c, errors.ErrSizeOutOfRange, fmt.Sprintf("text needs %v", need))
	}
	r.SetSize(c.Constrain(need))
	return nil
}

func (r *RenderText) wrap(face font.Face, maxWidth float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(r.Text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if measure(face, candidate) <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}

func measure(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s).Ceil())
}
