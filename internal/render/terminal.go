package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

// cell is a terminal cell: the upper pixel is the foreground of '▀',
// the lower pixel its background.
type cell struct {
	top, bottom string
}

// Encode returns the frame as terminal text, one line per two pixel rows.
// Runs of identical cells share a style. Cells that are entirely black are
// left as plain spaces so the terminal background shows through.
func (r *Renderer) Encode() string {
	if r.width == 0 || r.height == 0 {
		return ""
	}

	rows := (r.height + 1) / 2
	var b strings.Builder
	b.Grow(rows * r.width * 4)

	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}

		var run cell
		n := 0
		flush := func() {
			if n == 0 {
				return
			}
			writeRun(&b, run, n)
			n = 0
		}

		for x := 0; x < r.width; x++ {
			c := cell{
				top:    r.Pixel(x, row*2).Hex(),
				bottom: r.Pixel(x, row*2+1).Hex(),
			}
			if n > 0 && c != run {
				flush()
			}
			run = c
			n++
		}
		flush()
	}
	return b.String()
}

func writeRun(b *strings.Builder, c cell, n int) {
	if c.top == "#000000" && c.bottom == "#000000" {
		b.WriteString(strings.Repeat(" ", n))
		return
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.top)).
		Background(lipgloss.Color(c.bottom))
	b.WriteString(style.Render(strings.Repeat(halfBlock, n)))
}
