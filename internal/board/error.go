package board

import "fmt"

// MaxSide bounds both board dimensions.
const MaxSide = 1024

// ParamsError reports board dimensions or a mine count that cannot produce a
// playable board.
type ParamsError struct {
	Width, Height, MineCount int
}

// [ParamsError] implements [error]
func (e *ParamsError) Error() string {
	switch {
	case e.Width <= 0:
		return fmt.Sprintf("cannot create a board with width %d", e.Width)
	case e.Height <= 0:
		return fmt.Sprintf("cannot create a board with height %d", e.Height)
	case e.Width > MaxSide || e.Height > MaxSide:
		return fmt.Sprintf(
			"cannot create a %dx%d board (at most %d cells per side)",
			e.Width, e.Height, MaxSide,
		)
	case e.MineCount < 0:
		return fmt.Sprintf("cannot create a board with %d mines", e.MineCount)
	case e.MineCount >= e.Width*e.Height:
		return fmt.Sprintf(
			"not enough space for %d mines on a %dx%d board (at least one safe cell required)",
			e.MineCount, e.Width, e.Height,
		)
	default:
		return "invalid board parameters"
	}
}

func validate(width, height, mineCount int) error {
	if width <= 0 || height <= 0 || width > MaxSide || height > MaxSide ||
		mineCount < 0 || mineCount >= width*height {
		return &ParamsError{Width: width, Height: height, MineCount: mineCount}
	}
	return nil
}
