package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Glyph is what the player sees in one cell.
type Glyph int8

const (
	Unknown      Glyph = -2
	Flag         Glyph = -1
	Mine         Glyph = 64 // revealed when the game was lost
	ExplodedMine Glyph = 65 // the mine the player opened
	// 0-8 for an open cell with the given number of mined neighbours
)

func (g Glyph) String() string {
	switch g {
	case Unknown:
		return "#"
	case Flag:
		return "F"
	case Mine:
		return "*"
	case ExplodedMine:
		return "X"
	case 0:
		return "."
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(g))
	default:
		return "!"
	}
}

type Grid []Glyph

func (g Grid) ToString(width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			if x > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, g[y*width+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (b *Board) glyph(i int) Glyph {
	c := b.cells[i]
	switch c.State {
	case Flagged:
		return Flag
	case Closed:
		return Unknown
	}
	if c.IsMine {
		if i == b.exploded {
			return ExplodedMine
		}
		return Mine
	}
	return Glyph(c.AdjacentMines)
}

// PlayerGrid returns the board as the player sees it, row-major.
func (b *Board) PlayerGrid() Grid {
	grid := make(Grid, len(b.cells))
	for i := range b.cells {
		grid[i] = b.glyph(i)
	}
	return grid
}

func (b *Board) String() string {
	return b.PlayerGrid().ToString(b.width)
}
