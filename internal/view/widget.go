// Package view translates UI events into board operations and board state
// into widget updates. The host UI supplies the widgets through a [Toolkit].
package view

type Color int

const (
	Black Color = iota
	White
	Silver
	Red
	Blue
	DarkGreen
	DarkMagenta
	DarkBlue
	DarkCyan
	DarkRed
	Gold
)

// Widget is the subset of a host widget the adapter drives.
type Widget interface {
	SetLabel(label string)
	SetLabelColor(c Color)
	SetColor(c Color)
	SetVisible(visible bool)
}

type Point struct {
	X, Y int
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X < r.X+r.W && r.Y <= p.Y && p.Y < r.Y+r.H
}

// Toolkit creates host widgets at the given position, in host units.
type Toolkit interface {
	Tile(r Rect) Widget
	TextField(r Rect) Widget
	Button(r Rect, label string) Widget
}

type MouseButton int

const (
	Primary MouseButton = iota
	Secondary
	Middle
)
