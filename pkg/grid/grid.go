// Package grid holds the tile vocabulary of the key/door world and the
// rectangular grid built from it.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSymbol  = errors.New("unknown tile symbol")
	ErrNotRectangular = errors.New("grid is not rectangular")
	ErrTileNotFound   = errors.New("tile not found in grid")
	ErrInvalidLayout  = errors.New("invalid layout")
)

// Position is a cell coordinate. X is the column index, Y the row index.
type Position struct {
	X int
	Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Grid is a slice of rows, each row a slice of tiles.
type Grid [][]Tile

// FromStrings builds a grid with one tile per character of each row.
func FromStrings(rows []string) (Grid, error) {
	g := make(Grid, 0, len(rows))
	width := -1
	for y, row := range rows {
		line := []rune(row)
		if width == -1 {
			width = len(line)
		} else if len(line) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrNotRectangular, y, len(line), width)
		}

		tiles := make([]Tile, 0, len(line))
		for x, r := range line {
			t, err := ParseTile(r)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", y, x, err)
			}
			tiles = append(tiles, t)
		}
		g = append(g, tiles)
	}
	return g, nil
}

// Find returns the first position holding tile, scanning rows top to bottom
// and columns left to right.
func Find(g Grid, tile Tile) (Position, error) {
	for y, row := range g {
		for x, t := range row {
			if t == tile {
				return Position{X: x, Y: y}, nil
			}
		}
	}
	return Position{}, fmt.Errorf("%w: %s", ErrTileNotFound, tile)
}

func AgentPosition(g Grid) (Position, error) {
	return Find(g, Agent)
}

func KeyPosition(g Grid) (Position, error) {
	return Find(g, Key)
}

func DoorPosition(g Grid) (Position, error) {
	return Find(g, Door)
}

// Count returns how many cells hold tile.
func Count(g Grid, tile Tile) int {
	n := 0
	for _, row := range g {
		for _, t := range row {
			if t == tile {
				n++
			}
		}
	}
	return n
}

// Validate checks that g is rectangular and holds exactly one agent,
// exactly one door and at most one key.
func Validate(g Grid) error {
	if len(g) == 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalidLayout)
	}
	width := len(g[0])
	for y, row := range g {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrNotRectangular, y, len(row), width)
		}
	}
	if n := Count(g, Agent); n != 1 {
		return fmt.Errorf("%w: found %d agent tiles, want 1", ErrInvalidLayout, n)
	}
	if n := Count(g, Door); n != 1 {
		return fmt.Errorf("%w: found %d door tiles, want 1", ErrInvalidLayout, n)
	}
	if n := Count(g, Key); n > 1 {
		return fmt.Errorf("%w: found %d key tiles, want at most 1", ErrInvalidLayout, n)
	}
	return nil
}

// InBounds reports whether p addresses a cell of g.
func (g Grid) InBounds(p Position) bool {
	return p.Y >= 0 && p.Y < len(g) && p.X >= 0 && p.X < len(g[p.Y])
}

// At returns the tile at p. The caller must check InBounds first.
func (g Grid) At(p Position) Tile {
	return g[p.Y][p.X]
}

// Set writes tile at p. The caller must check InBounds first.
func (g Grid) Set(p Position, tile Tile) {
	g[p.Y][p.X] = tile
}

// Copy returns a deep copy of the grid.
func (g Grid) Copy() Grid {
	c := make(Grid, len(g))
	for y, row := range g {
		c[y] = make([]Tile, len(row))
		copy(c[y], row)
	}
	return c
}

// Equal reports whether both grids hold the same tiles.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for y := range g {
		if len(g[y]) != len(other[y]) {
			return false
		}
		for x := range g[y] {
			if g[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// Rows renders each row to its display symbols.
func (g Grid) Rows() []string {
	rows := make([]string, len(g))
	for y, row := range g {
		var b strings.Builder
		for _, t := range row {
			b.WriteRune(t.Symbol())
		}
		rows[y] = b.String()
	}
	return rows
}

func (g Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}
