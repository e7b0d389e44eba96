package view

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper-tiles/internal/board"
)

// Geometry is the size of one tile in host units.
type Geometry struct {
	CellWidth, CellHeight int
}

var DefaultGeometry = Geometry{CellWidth: 30, CellHeight: 30}

const menuButtonCells = 4

// Window lays out one tile per cell, a feedback line below the grid and a
// Restart/Quit menu below that which only shows once the game is over.
type Window struct {
	board *board.Board
	geo   Geometry
	log   logrus.FieldLogger

	tiles    []Widget
	feedback Widget

	restart, quit         Widget
	restartRect, quitRect Rect
	menuVisible           bool

	OnQuit func()
}

// NewWindow lays out widgets for b. Non-positive geometry dimensions fall
// back to [DefaultGeometry].
func NewWindow(b *board.Board, geo Geometry, kit Toolkit, log logrus.FieldLogger) *Window {
	if geo.CellWidth <= 0 {
		geo.CellWidth = DefaultGeometry.CellWidth
	}
	if geo.CellHeight <= 0 {
		geo.CellHeight = DefaultGeometry.CellHeight
	}
	w := &Window{
		board: b,
		geo:   geo,
		log:   log,
		tiles: make([]Widget, 0, b.Width()*b.Height()),
	}

	for y := range b.Height() {
		for x := range b.Width() {
			w.tiles = append(w.tiles, kit.Tile(Rect{
				X: x * geo.CellWidth, Y: y * geo.CellHeight,
				W: geo.CellWidth, H: geo.CellHeight,
			}))
		}
	}

	w.feedback = kit.TextField(Rect{
		X: 0, Y: b.Height() * geo.CellHeight,
		W: b.Width() * geo.CellWidth, H: geo.CellHeight,
	})

	menuY := (b.Height() + 1) * geo.CellHeight
	w.restartRect = Rect{
		X: 0, Y: menuY,
		W: menuButtonCells * geo.CellWidth, H: geo.CellHeight,
	}
	w.quitRect = Rect{
		X: (b.Width() - menuButtonCells) * geo.CellWidth, Y: menuY,
		W: menuButtonCells * geo.CellWidth, H: geo.CellHeight,
	}
	w.restart = kit.Button(w.restartRect, "Restart")
	w.restart.SetLabelColor(Black)
	w.quit = kit.Button(w.quitRect, "Quit")
	w.quit.SetLabelColor(Black)

	w.Render()
	return w
}

// Size is the window size in host units.
func (w *Window) Size() (width, height int) {
	return w.board.Width() * w.geo.CellWidth, (w.board.Height() + 2) * w.geo.CellHeight
}

func (w *Window) Board() *board.Board { return w.board }

// GridCoords maps a host point to the cell under it.
func (w *Window) GridCoords(p Point) (x, y int, ok bool) {
	if p.X < 0 || p.Y < 0 {
		return 0, 0, false
	}
	x, y = p.X/w.geo.CellWidth, p.Y/w.geo.CellHeight
	return x, y, w.board.InRange(x, y)
}

// Click handles one mouse press at p.
func (w *Window) Click(p Point, button MouseButton) {
	if w.menuVisible {
		switch {
		case w.restartRect.Contains(p):
			w.Restart()
			return
		case w.quitRect.Contains(p):
			w.Quit()
			return
		}
	}

	x, y, ok := w.GridCoords(p)
	if !ok || w.board.Status() != board.InProgress {
		return
	}

	switch button {
	case Primary:
		w.board.Open(x, y)
	case Secondary:
		w.board.Flag(x, y)
	case Middle:
		w.board.Chord(x, y)
	}

	w.Render()
	if status := w.board.Status(); status != board.InProgress {
		w.log.WithFields(logrus.Fields{
			"status": status,
			"x":      x,
			"y":      y,
		}).Info("game over")
	}
}

func (w *Window) Restart() {
	w.board.Restart()
	w.log.WithFields(logrus.Fields{
		"width":  w.board.Width(),
		"height": w.board.Height(),
		"mines":  w.board.MineCount(),
	}).Debug("restarted")
	w.Render()
}

func (w *Window) Quit() {
	if w.OnQuit != nil {
		w.OnQuit()
	}
}

// Render repaints every tile, the feedback line and the end-game menu.
func (w *Window) Render() {
	for i, tile := range w.tiles {
		c, _ := w.board.CellAt(i%w.board.Width(), i/w.board.Width())
		RenderCell(tile, c)
	}

	switch w.board.Status() {
	case board.Won:
		w.feedback.SetLabel("Game won")
	case board.Lost:
		w.feedback.SetLabel("Game Over")
	default:
		w.feedback.SetLabel(fmt.Sprintf("Mines left: %d", w.board.FlagsRemaining()))
	}

	w.menuVisible = w.board.Status() != board.InProgress
	w.restart.SetVisible(w.menuVisible)
	w.quit.SetVisible(w.menuVisible)
}
