package view

import (
	"strconv"

	"github.com/vancomm/minesweeper-tiles/internal/board"
)

var stateSymbol = [...]string{
	board.Closed:  "",
	board.Open:    "",
	board.Flagged: "|>",
}

var minesColor = [...]Color{
	1: Blue,
	2: Red,
	3: DarkGreen,
	4: DarkMagenta,
	5: DarkBlue,
	6: DarkCyan,
	7: DarkRed,
	8: Gold,
}

const (
	closedColor = Silver
	openColor   = White
	mineLabel   = "X"
)

// RenderCell paints one cell onto its tile.
func RenderCell(w Widget, c board.Cell) {
	switch c.State {
	case board.Closed:
		w.SetColor(closedColor)
		w.SetLabel(stateSymbol[board.Closed])
	case board.Flagged:
		w.SetColor(closedColor)
		w.SetLabel(stateSymbol[board.Flagged])
		w.SetLabelColor(Black)
	case board.Open:
		w.SetColor(openColor)
		switch {
		case c.IsMine:
			w.SetLabel(mineLabel)
			w.SetLabelColor(Red)
		case c.AdjacentMines > 0:
			w.SetLabel(strconv.Itoa(c.AdjacentMines))
			w.SetLabelColor(minesColor[c.AdjacentMines])
		default:
			w.SetLabel(stateSymbol[board.Open])
		}
	}
}
