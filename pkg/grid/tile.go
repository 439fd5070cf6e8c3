package grid

import "fmt"

// Tile is the kind of content occupying one grid cell.
type Tile uint8

const (
	Empty Tile = iota
	Wall
	Key
	Door
	Agent
)

var tileSymbols = map[Tile]rune{
	Empty: ' ',
	Wall:  '#',
	Key:   'K',
	Door:  'D',
	Agent: '@',
}

var tileNames = map[Tile]string{
	Empty: "EMPTY",
	Wall:  "WALL",
	Key:   "KEY",
	Door:  "DOOR",
	Agent: "AGENT",
}

// Symbol returns the single character used to display the tile.
func (t Tile) Symbol() rune {
	if s, ok := tileSymbols[t]; ok {
		return s
	}
	return '?'
}

func (t Tile) String() string {
	if n, ok := tileNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tile(%d)", uint8(t))
}

// ParseTile maps a display symbol back to its Tile.
func ParseTile(r rune) (Tile, error) {
	for t, s := range tileSymbols {
		if s == r {
			return t, nil
		}
	}
	return Empty, fmt.Errorf("%w: %q", ErrUnknownSymbol, r)
}
