package board

import "fmt"

type CellState int8

const (
	Closed CellState = iota
	Open
	Flagged
)

func (s CellState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Flagged:
		return "flagged"
	default:
		return fmt.Sprintf("CellState(%d)", int8(s))
	}
}

// Cell is one grid position. AdjacentMines is only meaningful once the cell
// has been opened by the player.
type Cell struct {
	State         CellState
	IsMine        bool
	AdjacentMines int
}

type Status int8

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", int8(s))
	}
}

// [Status] implements [encoding.TextMarshaler]
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, v := range []Status{InProgress, Won, Lost} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

type Point struct {
	X, Y int
}
