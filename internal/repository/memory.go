package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/vancomm/minesweeper-tiles/internal/board"
)

// Memory is a [Store] kept in process memory, for running without Postgres.
type Memory struct {
	mu       sync.Mutex
	nextId   int64
	sessions map[int64]GameSession
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[int64]GameSession),
		now:      time.Now,
	}
}

func clone(s GameSession) *GameSession {
	s.State = slices.Clone(s.State)
	if s.EndedAt != nil {
		t := *s.EndedAt
		s.EndedAt = &t
	}
	return &s
}

func (m *Memory) CreateGameSession(_ context.Context, b *board.Board) (*GameSession, error) {
	state, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize board: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextId++
	now := m.now()
	s := GameSession{
		GameSessionId: m.nextId,
		Width:         b.Width(),
		Height:        b.Height(),
		MineCount:     b.MineCount(),
		Status:        b.Status().String(),
		State:         state,
		StartedAt:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.sessions[s.GameSessionId] = s
	return clone(s), nil
}

func (m *Memory) FetchGameSession(_ context.Context, id int64) (*GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

func (m *Memory) UpdateGameSession(
	_ context.Context, id int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if params.Status != nil {
		s.Status = *params.Status
	}
	if params.State != nil {
		s.State = slices.Clone(*params.State)
	}
	if params.StartedAt != nil {
		s.StartedAt = *params.StartedAt
	}
	if params.ClearEndedAt {
		s.EndedAt = nil
	} else if params.EndedAt != nil {
		t := *params.EndedAt
		s.EndedAt = &t
	}
	s.UpdatedAt = m.now()
	m.sessions[id] = s
	return clone(s), nil
}

func (m *Memory) GetRecords(_ context.Context, filter RecordFilter) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]Record, 0)
	for _, s := range m.sessions {
		if s.Status != board.Won.String() || s.EndedAt == nil {
			continue
		}
		r := Record{
			GameSessionId: s.GameSessionId,
			Width:         s.Width,
			Height:        s.Height,
			MineCount:     s.MineCount,
			PlaytimeMs:    float64(s.EndedAt.Sub(s.StartedAt)) / float64(time.Millisecond),
		}
		if filter.matches(r) {
			records = append(records, r)
		}
	}
	slices.SortFunc(records, func(a, b Record) int {
		switch {
		case a.PlaytimeMs < b.PlaytimeMs:
			return -1
		case a.PlaytimeMs > b.PlaytimeMs:
			return 1
		default:
			return int(a.GameSessionId - b.GameSessionId)
		}
	})
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}
