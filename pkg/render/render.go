// Package render draws key/door grids to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/boristopalov/keydoor/pkg/grid"
)

// Text writes grids as rows of symbols, one color per tile kind.
type Text struct {
	out    io.Writer
	colors map[grid.Tile]*color.Color
}

type TextOption func(*Text)

// WithColor turns ANSI colors on or off regardless of the terminal.
func WithColor(enabled bool) TextOption {
	return func(t *Text) {
		for _, c := range t.colors {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

func NewText(out io.Writer, opts ...TextOption) *Text {
	t := &Text{
		out: out,
		colors: map[grid.Tile]*color.Color{
			grid.Empty: color.New(color.Reset),
			grid.Wall:  color.New(color.FgHiBlack),
			grid.Key:   color.New(color.FgYellow, color.Bold),
			grid.Door:  color.New(color.FgCyan, color.Bold),
			grid.Agent: color.New(color.FgGreen, color.Bold),
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Render writes the grid followed by a key status line and a blank line.
func (t *Text) Render(g grid.Grid, hasKey bool) error {
	var b strings.Builder
	for _, row := range g {
		for _, tile := range row {
			c, ok := t.colors[tile]
			if !ok {
				b.WriteRune(tile.Symbol())
				continue
			}
			b.WriteString(c.Sprint(string(tile.Symbol())))
		}
		b.WriteString("\n")
	}
	if hasKey {
		b.WriteString("key: held\n")
	} else {
		b.WriteString("key: not held\n")
	}

	_, err := fmt.Fprintln(t.out, b.String())
	return err
}
