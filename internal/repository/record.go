package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Record is a won game and how long it took.
type Record struct {
	GameSessionId int64   `json:"game_session_id" db:"game_session_id"`
	Width         int     `json:"width" db:"width"`
	Height        int     `json:"height" db:"height"`
	MineCount     int     `json:"mine_count" db:"mine_count"`
	PlaytimeMs    float64 `json:"playtime_ms" db:"playtime_ms"`
}

type RecordFilter struct {
	Width, Height, MineCount *int
	Limit                    int
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Width != nil {
		clauses = append(clauses, "width = @width")
		args["width"] = *f.Width
	}
	if f.Height != nil {
		clauses = append(clauses, "height = @height")
		args["height"] = *f.Height
	}
	if f.MineCount != nil {
		clauses = append(clauses, "mine_count = @mine_count")
		args["mine_count"] = *f.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

func (f RecordFilter) matches(r Record) bool {
	return (f.Width == nil || *f.Width == r.Width) &&
		(f.Height == nil || *f.Height == r.Height) &&
		(f.MineCount == nil || *f.MineCount == r.MineCount)
}

func (q *Queries) GetRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := `
	SELECT
		game_session_id,
		width,
		height,
		mine_count,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM game_session
	WHERE
		status = 'won'
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY playtime_ms"
	if filter.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = filter.Limit
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}
