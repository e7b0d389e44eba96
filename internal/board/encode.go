package board

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"
)

type snapshot struct {
	Width, Height, MineCount int
	Cells                    []Cell
	RemainingSafeTiles       int
	FlagsRemaining           int
	Status                   Status
	Exploded                 int
}

// Bytes serializes the full board, mines included.
func (b *Board) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(snapshot{
		Width:              b.width,
		Height:             b.height,
		MineCount:          b.mineCount,
		Cells:              b.cells,
		RemainingSafeTiles: b.remainingSafeTiles,
		FlagsRemaining:     b.flagsRemaining,
		Status:             b.status,
		Exploded:           b.exploded,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode restores a board produced by [Board.Bytes]. rnd drives later
// restarts and may be nil.
func Decode(buf []byte, rnd *rand.Rand) (*Board, error) {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&s); err != nil {
		return nil, fmt.Errorf("unable to decode board: %w", err)
	}
	if err := validate(s.Width, s.Height, s.MineCount); err != nil {
		return nil, err
	}
	if len(s.Cells) != s.Width*s.Height {
		return nil, fmt.Errorf("board has %d cells, want %d", len(s.Cells), s.Width*s.Height)
	}
	b := alloc(s.Width, s.Height, s.MineCount, rnd)
	b.cells = s.Cells
	b.remainingSafeTiles = s.RemainingSafeTiles
	b.flagsRemaining = s.FlagsRemaining
	b.status = s.Status
	b.exploded = s.Exploded
	return b, nil
}
