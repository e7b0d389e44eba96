package app

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-tiles/internal/config"
	"github.com/vancomm/minesweeper-tiles/internal/middleware"
	"github.com/vancomm/minesweeper-tiles/internal/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	log    logrus.FieldLogger
	cfg    *config.Server
	router *http.ServeMux
	store  repository.Store
	jwt    *config.JWT
	ws     *config.WebSocket
	rnd    *rand.Rand
}

func New(
	log logrus.FieldLogger,
	cfg *config.Server,
	store repository.Store,
	jwt *config.JWT,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *App {
	a := &App{
		log:    log,
		cfg:    cfg,
		router: http.NewServeMux(),
		store:  store,
		jwt:    jwt,
		ws:     ws,
		rnd:    rnd,
	}
	a.loadRoutes()
	return a
}

func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if base := strings.TrimSuffix(a.cfg.BasePath, "/"); base != "" {
		h = http.StripPrefix(base, h)
	}
	return middleware.Wrap(
		h,
		middleware.Logging(a.log),
		middleware.Cors(a.cfg.CorsOrigins),
	)
}

// Start serves until ctx is cancelled, then shuts the server down.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         a.cfg.Addr,
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Infof("ready to serve @ %s", a.cfg.Addr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
