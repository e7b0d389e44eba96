package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-tiles/internal/board"
	"github.com/vancomm/minesweeper-tiles/internal/repository"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsOpen    wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsRestart wsCommand = "n"
)

var wsMoves = map[wsCommand]GameMove{
	wsOpen:  MoveOpen,
	wsFlag:  MoveFlag,
	wsChord: MoveChord,
}

func parseXY(args []string) (x int, y int, err error) {
	if len(args) != 2 {
		err = fmt.Errorf("invalid args")
		return
	}
	if x, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("second argument must be an int")
		return
	}
	return
}

// execute runs one command line against the session.
func (g *GameHandler) execute(ctx context.Context, id int64, line string) (
	*repository.GameSession, *board.Board, error,
) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, nil, nil
	}
	cmd, args := wsCommand(tokens[0]), tokens[1:]
	switch cmd {
	case wsNoop:
		return nil, nil, nil
	case wsRestart:
		return g.restart(ctx, id)
	}
	m, ok := wsMoves[cmd]
	if !ok {
		return nil, nil, fmt.Errorf("unknown command %q", cmd)
	}
	x, y, err := parseXY(args)
	if err != nil {
		return nil, nil, err
	}
	return g.move(ctx, id, m, x, y)
}

func (g *GameHandler) wsRunGameLoop(ctx context.Context, conn *websocket.Conn, id int64) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		var (
			session *repository.GameSession
			b       *board.Board
		)
		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			s, nb, err := g.execute(ctx, id, line)
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if err != nil {
				if werr := conn.WriteJSON(wrapError(err)); werr != nil {
					return werr
				}
				continue
			}
			if s != nil {
				session, b = s, nb
			}
		}

		if session == nil {
			s, err := g.repo.FetchGameSession(ctx, id)
			if err != nil {
				return err
			}
			if b, err = board.Decode(s.State, nil); err != nil {
				return err
			}
			session = s
		}

		if err := conn.WriteJSON(NewGameSessionDTO(session, b)); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
	}
}

func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id, err := g.authorize(r)
	if errors.Is(err, errBadSessionId) {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		sendError(w, g.log, http.StatusUnauthorized, err)
		return
	}

	if _, err := g.repo.FetchGameSession(r.Context(), id); err != nil {
		g.storeError(w, err, "unable to fetch session")
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(g.ws.ReadLimit)

	log := g.log.WithField("game_session_id", id)
	log.Debug("established WS connection")

	err = g.wsRunGameLoop(r.Context(), conn, id)
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.WithError(err).Warn("error in ws loop")
	}
}
