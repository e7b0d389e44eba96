package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper-tiles/internal/board"
)

var (
	ErrNotFound      = errors.New("game session not found")
	ErrInvalidParams = errors.New("invalid game parameters")
)

type GameSession struct {
	GameSessionId int64      `db:"game_session_id"`
	Width         int        `db:"width"`
	Height        int        `db:"height"`
	MineCount     int        `db:"mine_count"`
	Status        string     `db:"status"`
	State         []byte     `db:"state"`
	StartedAt     time.Time  `db:"started_at"`
	EndedAt       *time.Time `db:"ended_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

type UpdateGameSessionParams struct {
	Status    *string
	State     *[]byte
	StartedAt *time.Time
	EndedAt   *time.Time
	// ClearEndedAt resets ended_at to NULL, used when a game restarts.
	ClearEndedAt bool
}

// ParamsFromBoard collects the columns that change with every move.
func ParamsFromBoard(b *board.Board, now time.Time) (UpdateGameSessionParams, error) {
	state, err := b.Bytes()
	if err != nil {
		return UpdateGameSessionParams{}, fmt.Errorf("unable to serialize board: %w", err)
	}
	status := b.Status().String()
	params := UpdateGameSessionParams{Status: &status, State: &state}
	if b.Status() != board.InProgress {
		params.EndedAt = &now
	}
	return params, nil
}

func (p UpdateGameSessionParams) SetClause() (string, pgx.NamedArgs) {
	parts := []string{"updated_at = now()"}
	args := pgx.NamedArgs{}

	if p.Status != nil {
		parts = append(parts, "status = @status")
		args["status"] = *p.Status
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}
	if p.StartedAt != nil {
		parts = append(parts, "started_at = @started_at")
		args["started_at"] = *p.StartedAt
	}
	if p.ClearEndedAt {
		parts = append(parts, "ended_at = NULL")
	} else if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}

	return strings.Join(parts, ", "), args
}

// Store persists game sessions.
type Store interface {
	CreateGameSession(ctx context.Context, b *board.Board) (*GameSession, error)
	FetchGameSession(ctx context.Context, id int64) (*GameSession, error)
	UpdateGameSession(ctx context.Context, id int64, params UpdateGameSessionParams) (*GameSession, error)
	GetRecords(ctx context.Context, filter RecordFilter) ([]Record, error)
}

type Queries struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return fmt.Errorf("%w: %s", ErrInvalidParams, pgErr.ConstraintName)
	}
	return err
}

func (q *Queries) CreateGameSession(ctx context.Context, b *board.Board) (*GameSession, error) {
	state, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize board: %w", err)
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (width, height, mine_count, status, state)
		VALUES (@width, @height, @mine_count, @status, @state)
		RETURNING *;`,
		pgx.NamedArgs{
			"width":      b.Width(),
			"height":     b.Height(),
			"mine_count": b.MineCount(),
			"status":     b.Status().String(),
			"state":      state,
		},
	)
	session, err := pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameSession],
	)
	return session, translate(err)
}

func (q *Queries) FetchGameSession(ctx context.Context, id int64) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		id,
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	return session, translate(err)
}

func (q *Queries) UpdateGameSession(
	ctx context.Context, id int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	args["game_session_id"] = id
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+" WHERE game_session_id = @game_session_id RETURNING *",
		args,
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	return session, translate(err)
}
