package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader  websocket.Upgrader
	ReadLimit int64
}

type wsEnv struct {
	ReadLimit int64 `env:"WS_READ_LIMIT" envDefault:"4096"`
}

func NewWebSocket() (*WebSocket, error) {
	var e wsEnv
	if err := ParseEnv(&e); err != nil {
		return nil, err
	}

	ws := &WebSocket{
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		ReadLimit: e.ReadLimit,
	}

	return ws, nil
}
