package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-tiles/internal/board"
	"github.com/vancomm/minesweeper-tiles/internal/config"
	"github.com/vancomm/minesweeper-tiles/internal/repository"
)

type sessionJSON struct {
	GameSessionId  string `json:"game_session_id"`
	Token          string `json:"token"`
	Grid           []int  `json:"grid"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	MineCount      int    `json:"mine_count"`
	FlagsRemaining int    `json:"flags_remaining"`
	Status         string `json:"status"`
	StartedAt      int64  `json:"started_at"`
	EndedAt        *int64 `json:"ended_at"`
}

type fixture struct {
	store *repository.Memory
	jwt   *config.JWT
	mux   *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	f := &fixture{
		store: repository.NewMemory(),
		jwt:   config.NewJWTWithSecret([]byte("test secret"), time.Hour),
		mux:   http.NewServeMux(),
	}
	ws := &config.WebSocket{ReadLimit: 1024}
	g := NewGameHandler(log, f.store, f.jwt, ws, rand.New(rand.NewPCG(1, 2)))

	f.mux.HandleFunc("POST /game", g.NewGame)
	f.mux.HandleFunc("GET /game/{id}", g.Fetch)
	f.mux.HandleFunc("POST /game/{id}/move", g.MakeAMove)
	f.mux.HandleFunc("POST /game/{id}/restart", g.Restart)
	f.mux.HandleFunc("/game/{id}/connect", g.ConnectWS)
	f.mux.HandleFunc("GET /records", g.Records)
	return f
}

// createGame stores a 3x3 game with mines at (2,0) and (2,2).
func (f *fixture) createGame(t *testing.T) (int64, string) {
	t.Helper()
	b, err := board.FromLayout(3, 3, []board.Point{{X: 2, Y: 0}, {X: 2, Y: 2}}, nil)
	require.NoError(t, err)
	s, err := f.store.CreateGameSession(context.Background(), b)
	require.NoError(t, err)
	token, err := f.jwt.Sign(s.GameSessionId)
	require.NoError(t, err)
	return s.GameSessionId, token
}

func (f *fixture) do(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) move(id int64, token, move string, x, y int) *httptest.ResponseRecorder {
	return f.do(
		http.MethodPost,
		fmt.Sprintf("/game/%d/move?move=%s&x=%d&y=%d", id, move, x, y),
		token,
	)
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionJSON {
	t.Helper()
	var s sessionJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s), rec.Body.String())
	return s
}

func gridString(s sessionJSON) string {
	grid := make(board.Grid, len(s.Grid))
	for i, g := range s.Grid {
		grid[i] = board.Glyph(g)
	}
	return grid.ToString(s.Width)
}

func TestNewGame(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/game?width=9&height=8&mine_count=10", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	s := decodeSession(t, rec)
	assert.Equal(t, 9, s.Width)
	assert.Equal(t, 8, s.Height)
	assert.Equal(t, 10, s.MineCount)
	assert.Equal(t, 10, s.FlagsRemaining)
	assert.Equal(t, "in_progress", s.Status)
	assert.Nil(t, s.EndedAt)
	require.Len(t, s.Grid, 72)
	for _, g := range s.Grid {
		assert.Equal(t, int(board.Unknown), g)
	}

	claims, err := f.jwt.Parse(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.GameSessionId, fmt.Sprint(claims.GameSessionId))
}

func TestNewGameInvalidParams(t *testing.T) {
	f := newFixture(t)

	for _, query := range []string{
		"width=9&height=9&mine_count=81",
		"width=0&height=9&mine_count=1",
		"width=9&height=9&mine_count=-1",
		"width=9&height=9",
		"width=nine&height=9&mine_count=1",
		"width=4611686018427387905&height=4&mine_count=1",
		"width=100000&height=100000&mine_count=10",
	} {
		rec := f.do(http.MethodPost, "/game?"+query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Contains(t, rec.Body.String(), `"error"`, query)
	}
}

func TestFetch(t *testing.T) {
	f := newFixture(t)
	id, _ := f.createGame(t)

	rec := f.do(http.MethodGet, fmt.Sprintf("/game/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	s := decodeSession(t, rec)
	assert.Equal(t, "# # #\n# # #\n# # #\n", gridString(s))
	assert.Empty(t, s.Token)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/game/404", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/game/abc", "").Code)
}

func TestMoveRequiresToken(t *testing.T) {
	f := newFixture(t)
	id, _ := f.createGame(t)
	_, otherToken := f.createGame(t)

	assert.Equal(t, http.StatusUnauthorized, f.move(id, "", "open", 0, 0).Code)
	assert.Equal(t, http.StatusUnauthorized, f.move(id, "garbage", "open", 0, 0).Code)
	assert.Equal(t, http.StatusUnauthorized, f.move(id, otherToken, "open", 0, 0).Code)

	expired := config.NewJWTWithSecret([]byte("test secret"), -time.Minute)
	token, err := expired.Sign(id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, f.move(id, token, "open", 0, 0).Code)
}

func TestMoveBadParams(t *testing.T) {
	f := newFixture(t)
	id, token := f.createGame(t)

	assert.Equal(t, http.StatusBadRequest, f.move(id, token, "dig", 0, 0).Code)

	rec := f.do(http.MethodPost, fmt.Sprintf("/game/%d/move?move=open&x=1", id), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoveToWin(t *testing.T) {
	f := newFixture(t)
	id, token := f.createGame(t)

	rec := f.move(id, token, "open", 0, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s := decodeSession(t, rec)
	assert.Equal(t, ". 1 #\n. 2 #\n. 1 #\n", gridString(s))
	assert.Equal(t, "in_progress", s.Status)
	assert.Nil(t, s.EndedAt)

	// token in the query string works too
	rec = f.do(http.MethodPost, fmt.Sprintf("/game/%d/move?move=open&x=2&y=1&token=%s", id, token), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s = decodeSession(t, rec)
	assert.Equal(t, ". 1 F\n. 2 2\n. 1 F\n", gridString(s))
	assert.Equal(t, "won", s.Status)
	assert.Equal(t, 0, s.FlagsRemaining)
	require.NotNil(t, s.EndedAt)
	endedAt := *s.EndedAt

	// moves after the end change nothing, including the end time
	s = decodeSession(t, f.move(id, token, "flag", 2, 0))
	assert.Equal(t, "won", s.Status)
	require.NotNil(t, s.EndedAt)
	assert.Equal(t, endedAt, *s.EndedAt)
}

func TestMoveOnMineLoses(t *testing.T) {
	f := newFixture(t)
	id, token := f.createGame(t)

	s := decodeSession(t, f.move(id, token, "flag", 1, 1))
	assert.Equal(t, 1, s.FlagsRemaining)

	s = decodeSession(t, f.move(id, token, "open", 2, 0))
	assert.Equal(t, "lost", s.Status)
	assert.Equal(t, "# # X\n# F #\n# # *\n", gridString(s))
	assert.NotNil(t, s.EndedAt)
}

func TestChordMove(t *testing.T) {
	f := newFixture(t)
	id, token := f.createGame(t)

	f.move(id, token, "open", 1, 0)
	f.move(id, token, "flag", 2, 0)
	s := decodeSession(t, f.move(id, token, "chord", 2, 1))
	assert.Equal(t, "# 1 F\n# # #\n# # #\n", gridString(s))

	s = decodeSession(t, f.move(id, token, "chord", 1, 0))
	assert.Equal(t, ". 1 F\n. 2 2\n. 1 F\n", gridString(s))
	assert.Equal(t, "won", s.Status)
}

func TestRestart(t *testing.T) {
	f := newFixture(t)
	id, token := f.createGame(t)

	f.move(id, token, "open", 2, 2)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, fmt.Sprintf("/game/%d/restart", id), "").Code)

	rec := f.do(http.MethodPost, fmt.Sprintf("/game/%d/restart", id), token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s := decodeSession(t, rec)
	assert.Equal(t, "in_progress", s.Status)
	assert.Nil(t, s.EndedAt)
	assert.Equal(t, 2, s.FlagsRemaining)
	assert.Equal(t, "# # #\n# # #\n# # #\n", gridString(s))

	stored, err := f.store.FetchGameSession(context.Background(), id)
	require.NoError(t, err)
	b, err := board.Decode(stored.State, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, b.MineCount())
	mines := 0
	for y := range b.Height() {
		for x := range b.Width() {
			if c, _ := b.CellAt(x, y); c.IsMine {
				mines++
			}
		}
	}
	assert.Equal(t, 2, mines)
}

func TestRecords(t *testing.T) {
	f := newFixture(t)
	id, token := f.createGame(t)
	f.move(id, token, "open", 0, 0)
	f.move(id, token, "open", 2, 1)

	lostId, lostToken := f.createGame(t)
	f.move(lostId, lostToken, "open", 2, 0)

	var records []repository.Record
	rec := f.do(http.MethodGet, "/records?width=3&height=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].GameSessionId)
	assert.GreaterOrEqual(t, records[0].PlaytimeMs, 0.0)

	rec = f.do(http.MethodGet, "/records?width=9", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/records?limit=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/records?width=x", "").Code)
}

func TestConnectWS(t *testing.T) {
	f := newFixture(t)
	id, token := f.createGame(t)
	server := httptest.NewServer(f.mux)
	defer server.Close()

	base := "ws" + strings.TrimPrefix(server.URL, "http") + fmt.Sprintf("/game/%d/connect", id)

	_, resp, err := websocket.DefaultDialer.Dial(base, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(base+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() sessionJSON {
		t.Helper()
		var s sessionJSON
		require.NoError(t, conn.ReadJSON(&s))
		return s
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("g")))
	s := read()
	assert.Equal(t, "# # #\n# # #\n# # #\n", gridString(s))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("o 0 0\nf 2 0")))
	s = read()
	assert.Equal(t, ". 1 F\n. 2 #\n. 1 #\n", gridString(s))
	assert.Equal(t, 1, s.FlagsRemaining)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("o 1")))
	var e map[string]string
	require.NoError(t, conn.ReadJSON(&e))
	assert.NotEmpty(t, e["error"])
	s = read()
	assert.Equal(t, "in_progress", s.Status)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("c 1 0")))
	s = read()
	assert.Equal(t, "won", s.Status)
	assert.NotNil(t, s.EndedAt)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("n")))
	s = read()
	assert.Equal(t, "in_progress", s.Status)
	assert.Nil(t, s.EndedAt)
}
