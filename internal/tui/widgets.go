package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/vancomm/minesweeper-tiles/internal/view"
)

// Geometry of a tile in terminal cells.
var Geometry = view.Geometry{CellWidth: 3, CellHeight: 1}

var palette = [...]tcell.Color{
	view.Black:       tcell.ColorBlack,
	view.White:       tcell.ColorWhite,
	view.Silver:      tcell.ColorSilver,
	view.Red:         tcell.ColorRed,
	view.Blue:        tcell.ColorBlue,
	view.DarkGreen:   tcell.ColorDarkGreen,
	view.DarkMagenta: tcell.ColorDarkMagenta,
	view.DarkBlue:    tcell.ColorDarkBlue,
	view.DarkCyan:    tcell.ColorDarkCyan,
	view.DarkRed:     tcell.ColorDarkRed,
	view.Gold:        tcell.ColorGold,
}

func color(c view.Color) tcell.Color {
	if int(c) < 0 || int(c) >= len(palette) {
		return tcell.ColorDefault
	}
	return palette[c]
}

type align int

const (
	alignCenter align = iota
	alignLeft
)

type widget struct {
	rect    view.Rect
	label   string
	fg, bg  tcell.Color
	visible bool
	align   align
}

func (w *widget) SetLabel(label string)      { w.label = label }
func (w *widget) SetLabelColor(c view.Color) { w.fg = color(c) }
func (w *widget) SetColor(c view.Color)      { w.bg = color(c) }
func (w *widget) SetVisible(visible bool)    { w.visible = visible }

func (w *widget) draw(s tcell.Screen, origin view.Point) {
	if !w.visible {
		return
	}
	style := tcell.StyleDefault.Foreground(w.fg).Background(w.bg)
	for y := range w.rect.H {
		for x := range w.rect.W {
			s.SetContent(origin.X+w.rect.X+x, origin.Y+w.rect.Y+y, ' ', nil, style)
		}
	}

	runes := []rune(w.label)
	if len(runes) > w.rect.W {
		runes = runes[:w.rect.W]
	}
	x := 0
	if w.align == alignCenter {
		x = (w.rect.W - len(runes)) / 2
	}
	for i, r := range runes {
		s.SetContent(origin.X+w.rect.X+x+i, origin.Y+w.rect.Y+w.rect.H/2, r, nil, style)
	}
}
