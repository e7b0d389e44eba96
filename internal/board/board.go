package board

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
)

// Board is the grid of cells together with the game-state machine. A Board is
// not safe for concurrent use; it is owned by a single UI loop or request.
type Board struct {
	width, height, mineCount int

	cells              []Cell // row-major, len = width*height
	remainingSafeTiles int
	flagsRemaining     int
	status             Status
	exploded           int // index of the mine that ended the game, -1 if none

	rnd *rand.Rand
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func alloc(width, height, mineCount int, rnd *rand.Rand) *Board {
	if rnd == nil {
		rnd = newRand()
	}
	return &Board{
		width:     width,
		height:    height,
		mineCount: mineCount,
		cells:     make([]Cell, width*height),
		rnd:       rnd,
	}
}

// New creates a board with mineCount mines scattered uniformly at random. A
// nil rnd is replaced with a randomly seeded generator. A *ParamsError is
// returned when the parameters leave no safe cell to open.
func New(width, height, mineCount int, rnd *rand.Rand) (*Board, error) {
	if err := validate(width, height, mineCount); err != nil {
		return nil, err
	}
	b := alloc(width, height, mineCount, rnd)
	b.reset()
	b.scatterMines()
	return b, nil
}

// FromLayout creates a board with mines at exactly the given points. rnd is
// only used by Restart.
func FromLayout(width, height int, mines []Point, rnd *rand.Rand) (*Board, error) {
	if err := validate(width, height, len(mines)); err != nil {
		return nil, err
	}
	b := alloc(width, height, len(mines), rnd)
	b.reset()
	for _, p := range mines {
		if !b.InRange(p.X, p.Y) {
			return nil, fmt.Errorf("mine at %d:%d is outside the %dx%d board", p.X, p.Y, width, height)
		}
		i := b.index(p.X, p.Y)
		if b.cells[i].IsMine {
			return nil, fmt.Errorf("duplicate mine at %d:%d", p.X, p.Y)
		}
		b.cells[i].IsMine = true
	}
	return b, nil
}

func (b *Board) reset() {
	for i := range b.cells {
		b.cells[i] = Cell{}
	}
	b.remainingSafeTiles = len(b.cells) - b.mineCount
	b.flagsRemaining = b.mineCount
	b.status = InProgress
	b.exploded = -1
}

// scatterMines uses rejection sampling over cell indices. validate guarantees
// at least one free cell, so the loop terminates.
func (b *Board) scatterMines() {
	placed := 0
	for placed < b.mineCount {
		i := b.rnd.IntN(len(b.cells))
		if !b.cells[i].IsMine {
			b.cells[i].IsMine = true
			placed++
		}
	}
}

// Restart closes every cell, re-scatters the mines and starts a new game on
// the same grid allocation.
func (b *Board) Restart() {
	b.reset()
	b.scatterMines()
}

func (b *Board) Width() int              { return b.width }
func (b *Board) Height() int             { return b.height }
func (b *Board) MineCount() int          { return b.mineCount }
func (b *Board) Status() Status          { return b.status }
func (b *Board) FlagsRemaining() int     { return b.flagsRemaining }
func (b *Board) RemainingSafeTiles() int { return b.remainingSafeTiles }

// Exploded returns the mine that was opened to lose the game.
func (b *Board) Exploded() (Point, bool) {
	if b.exploded < 0 {
		return Point{}, false
	}
	return b.point(b.exploded), true
}

func (b *Board) InRange(x, y int) bool {
	return 0 <= x && x < b.width && 0 <= y && y < b.height
}

func (b *Board) index(x, y int) int { return y*b.width + x }

func (b *Board) point(i int) Point { return Point{X: i % b.width, Y: i / b.width} }

func (b *Board) CellAt(x, y int) (Cell, bool) {
	if !b.InRange(x, y) {
		return Cell{}, false
	}
	return b.cells[b.index(x, y)], true
}

// AdjacentCoordinates returns the in-range neighbours of x:y in row-major
// order, never including x:y itself.
func (b *Board) AdjacentCoordinates(x, y int) []Point {
	points := make([]Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if b.InRange(x+dx, y+dy) {
				points = append(points, Point{X: x + dx, Y: y + dy})
			}
		}
	}
	return points
}

func (b *Board) CountMines(points []Point) int {
	n := 0
	for _, p := range points {
		if b.InRange(p.X, p.Y) && b.cells[b.index(p.X, p.Y)].IsMine {
			n++
		}
	}
	return n
}

// Open reveals x:y. Opening a mine loses the game; opening a cell with no
// adjacent mines opens its neighbours as well. Flagged or already open cells,
// out-of-range coordinates and finished games are ignored.
func (b *Board) Open(x, y int) {
	if b.status != InProgress || !b.InRange(x, y) {
		return
	}
	start := b.index(x, y)
	if b.cells[start].State != Closed {
		return
	}
	if b.cells[start].IsMine {
		b.lose(start)
		return
	}

	// A cell is only pushed while Closed and flips to Open when popped, so
	// the state itself is the visited set.
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := &b.cells[i]
		if c.State != Closed || c.IsMine {
			continue
		}
		c.State = Open
		b.remainingSafeTiles--

		p := b.point(i)
		adj := b.AdjacentCoordinates(p.X, p.Y)
		c.AdjacentMines = b.CountMines(adj)
		if c.AdjacentMines > 0 {
			continue
		}
		for _, q := range adj {
			if j := b.index(q.X, q.Y); b.cells[j].State == Closed {
				stack = append(stack, j)
			}
		}
	}

	if b.remainingSafeTiles == 0 {
		b.win()
	}
}

// Flag toggles a flag on a closed cell. Open cells cannot be flagged.
func (b *Board) Flag(x, y int) {
	if b.status != InProgress || !b.InRange(x, y) {
		return
	}
	c := &b.cells[b.index(x, y)]
	switch c.State {
	case Closed:
		c.State = Flagged
		b.flagsRemaining--
	case Flagged:
		c.State = Closed
		b.flagsRemaining++
	case Open: // nothing to flag
	}
}

// Chord opens every closed neighbour of an open numbered cell once the player
// has placed as many flags around it as it has adjacent mines.
func (b *Board) Chord(x, y int) {
	if b.status != InProgress || !b.InRange(x, y) {
		return
	}
	c := b.cells[b.index(x, y)]
	if c.State != Open || c.AdjacentMines == 0 {
		return
	}
	adj := b.AdjacentCoordinates(x, y)
	flags := 0
	for _, p := range adj {
		if b.cells[b.index(p.X, p.Y)].State == Flagged {
			flags++
		}
	}
	if flags != c.AdjacentMines {
		return
	}
	for _, p := range adj {
		b.Open(p.X, p.Y)
		if b.status != InProgress {
			return
		}
	}
}

// lose reveals every mine. Revealed mines do not count towards
// remainingSafeTiles.
func (b *Board) lose(exploded int) {
	b.status = Lost
	b.exploded = exploded
	for i := range b.cells {
		if b.cells[i].IsMine {
			b.cells[i].State = Open
		}
	}
}

// win flags every cell that is still closed; those are exactly the mines.
func (b *Board) win() {
	b.status = Won
	for i := range b.cells {
		if b.cells[i].State == Closed {
			b.cells[i].State = Flagged
			b.flagsRemaining--
		}
	}
}
