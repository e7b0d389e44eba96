package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-tiles/internal/board"
	"github.com/vancomm/minesweeper-tiles/internal/config"
	"github.com/vancomm/minesweeper-tiles/internal/repository"
)

var (
	errUnauthorized = errors.New("missing or invalid game token")
	errBadSessionId = errors.New("invalid game session id")
)

type GameHandler struct {
	log  logrus.FieldLogger
	repo repository.Store
	jwt  *config.JWT
	ws   *config.WebSocket
	now  func() time.Time

	// mu serializes load-modify-store of sessions and guards rnd.
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGameHandler(
	log logrus.FieldLogger,
	repo repository.Store,
	jwt *config.JWT,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		log:  log,
		repo: repo,
		jwt:  jwt,
		ws:   ws,
		rnd:  rnd,
		now:  time.Now,
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// authorize returns the session id from the path once the request carries a
// token issued for that session.
func (g *GameHandler) authorize(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errBadSessionId
	}
	claims, err := g.jwt.Parse(bearerToken(r))
	if err != nil || claims.GameSessionId != id {
		return 0, errUnauthorized
	}
	return id, nil
}

// update loads a session, applies fn to its board and stores the result.
// ended_at is only stamped by the call that finishes the game.
func (g *GameHandler) update(
	ctx context.Context, id int64, fn func(*board.Board, *repository.UpdateGameSessionParams),
) (*repository.GameSession, *board.Board, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, err := g.repo.FetchGameSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	b, err := board.Decode(session.State, g.rnd)
	if err != nil {
		return nil, nil, fmt.Errorf("stored game state invalid: %w", err)
	}

	finished := b.Status() != board.InProgress
	var extra repository.UpdateGameSessionParams
	fn(b, &extra)

	params, err := repository.ParamsFromBoard(b, g.now())
	if err != nil {
		return nil, nil, err
	}
	if finished {
		params.EndedAt = nil
	}
	params.StartedAt, params.ClearEndedAt = extra.StartedAt, extra.ClearEndedAt

	session, err = g.repo.UpdateGameSession(ctx, id, params)
	if err != nil {
		return nil, nil, err
	}
	return session, b, nil
}

func (g *GameHandler) move(ctx context.Context, id int64, m GameMove, x, y int) (
	*repository.GameSession, *board.Board, error,
) {
	return g.update(ctx, id, func(b *board.Board, _ *repository.UpdateGameSessionParams) {
		m.Apply(b, x, y)
	})
}

func (g *GameHandler) restart(ctx context.Context, id int64) (
	*repository.GameSession, *board.Board, error,
) {
	return g.update(ctx, id, func(b *board.Board, p *repository.UpdateGameSessionParams) {
		b.Restart()
		now := g.now()
		p.StartedAt, p.ClearEndedAt = &now, true
	})
}

func (g *GameHandler) storeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		sendError(w, g.log, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	g.log.WithError(err).Error(msg)
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateGameDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}

	g.mu.Lock()
	b, err := board.New(dto.Width, dto.Height, dto.MineCount, g.rnd)
	g.mu.Unlock()
	var paramsErr *board.ParamsError
	if errors.As(err, &paramsErr) {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to create board")
		return
	}

	session, err := g.repo.CreateGameSession(r.Context(), b)
	if errors.Is(err, repository.ErrInvalidParams) {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		g.storeError(w, err, "unable to create game session")
		return
	}

	token, err := g.jwt.Sign(session.GameSessionId)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to sign game token")
		return
	}

	g.log.WithFields(logrus.Fields{
		"game_session_id": session.GameSessionId,
		"width":           dto.Width,
		"height":          dto.Height,
		"mine_count":      dto.MineCount,
	}).Info("new game")

	res := NewGameSessionDTO(session, b)
	res.Token = token
	sendJSONOrLog(w, g.log, http.StatusCreated, res)
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, errBadSessionId)
		return
	}

	session, err := g.repo.FetchGameSession(r.Context(), id)
	if err != nil {
		g.storeError(w, err, "unable to fetch session")
		return
	}

	b, err := board.Decode(session.State, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("db returned invalid game_session.state")
		return
	}

	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(session, b))
}

func (g *GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	id, err := g.authorize(r)
	if errors.Is(err, errBadSessionId) {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		sendError(w, g.log, http.StatusUnauthorized, err)
		return
	}

	query := r.URL.Query()
	m, err := ParseGameMove(query.Get("move"))
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	pos, err := ParsePosition(query)
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}

	session, b, err := g.move(r.Context(), id, m, pos.X, pos.Y)
	if err != nil {
		g.storeError(w, err, "unable to update session")
		return
	}

	g.log.WithFields(logrus.Fields{
		"game_session_id": id,
		"move":            m,
		"x":               pos.X,
		"y":               pos.Y,
		"status":          b.Status(),
	}).Debug("move")

	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(session, b))
}

func (g *GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id, err := g.authorize(r)
	if errors.Is(err, errBadSessionId) {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		sendError(w, g.log, http.StatusUnauthorized, err)
		return
	}

	session, b, err := g.restart(r.Context(), id)
	if err != nil {
		g.storeError(w, err, "unable to restart session")
		return
	}

	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(session, b))
}

func (g *GameHandler) Records(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseRecordsDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}

	records, err := g.repo.GetRecords(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to fetch records")
		return
	}

	sendJSONOrLog(w, g.log, http.StatusOK, records)
}
