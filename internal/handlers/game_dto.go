package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-tiles/internal/board"
	"github.com/vancomm/minesweeper-tiles/internal/repository"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateGameDTO struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
}

func ParseCreateGameDTO(src url.Values) (CreateGameDTO, error) {
	var dto CreateGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type PositionDTO struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src url.Values) (PositionDTO, error) {
	var dto PositionDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type RecordsDTO struct {
	Width     *int `schema:"width"`
	Height    *int `schema:"height"`
	MineCount *int `schema:"mine_count"`
	Limit     int  `schema:"limit"`
}

func ParseRecordsDTO(src url.Values) (repository.RecordFilter, error) {
	var dto RecordsDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return repository.RecordFilter{}, err
	}
	if dto.Limit < 0 {
		return repository.RecordFilter{}, fmt.Errorf("limit must not be negative")
	}
	return repository.RecordFilter(dto), nil
}

type GameMove string

const (
	MoveOpen  GameMove = "open"
	MoveFlag  GameMove = "flag"
	MoveChord GameMove = "chord"
)

func ParseGameMove(s string) (GameMove, error) {
	switch m := GameMove(s); m {
	case MoveOpen, MoveFlag, MoveChord:
		return m, nil
	default:
		return "", fmt.Errorf("unknown move %q", s)
	}
}

func (m GameMove) Apply(b *board.Board, x, y int) {
	switch m {
	case MoveOpen:
		b.Open(x, y)
	case MoveFlag:
		b.Flag(x, y)
	case MoveChord:
		b.Chord(x, y)
	}
}

type GameSessionDTO struct {
	GameSessionId  string       `json:"game_session_id"`
	Token          string       `json:"token,omitempty"`
	Grid           board.Grid   `json:"grid"`
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	MineCount      int          `json:"mine_count"`
	FlagsRemaining int          `json:"flags_remaining"`
	Status         board.Status `json:"status"`
	StartedAt      int64        `json:"started_at"`
	EndedAt        *int64       `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(s *repository.GameSession, b *board.Board) *GameSessionDTO {
	var endedAt *int64
	if s.EndedAt != nil {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		GameSessionId:  strconv.FormatInt(s.GameSessionId, 10),
		Grid:           b.PlayerGrid(),
		Width:          b.Width(),
		Height:         b.Height(),
		MineCount:      b.MineCount(),
		FlagsRemaining: b.FlagsRemaining(),
		Status:         b.Status(),
		StartedAt:      s.StartedAt.UnixMilli(),
		EndedAt:        endedAt,
	}
}
