package main

import (
	"context"
	"hash/maphash"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-tiles/internal/app"
	"github.com/vancomm/minesweeper-tiles/internal/config"
	"github.com/vancomm/minesweeper-tiles/internal/database"
	"github.com/vancomm/minesweeper-tiles/internal/logging"
	"github.com/vancomm/minesweeper-tiles/internal/repository"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// setupStore connects to Postgres when it is configured and falls back to an
// in-memory store otherwise. The returned func releases the store.
func setupStore(ctx context.Context, log *logrus.Logger) (repository.Store, func()) {
	dbCfg, err := config.NewDatabase()
	if err != nil {
		log.WithError(err).Warn("database not configured, sessions are kept in memory")
		return repository.NewMemory(), func() {}
	}
	pool, _, err := database.ConnectAndMigrate(ctx, dbCfg)
	if err != nil {
		log.Fatal("unable to connect to db: ", err)
	}
	log.Info("connected to postgres")
	return repository.New(pool), pool.Close
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	logCfg, err := config.NewLog()
	if err != nil {
		logrus.Fatal("unable to read log config: ", err)
	}
	log, err := logging.Server(*logCfg)
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}

	serverCfg, err := config.NewServer()
	if err != nil {
		log.Fatal("unable to read server config: ", err)
	}
	jwt, err := config.NewJWT()
	if err != nil {
		log.Fatal("unable to read jwt config: ", err)
	}
	ws, err := config.NewWebSocket()
	if err != nil {
		log.Fatal("unable to read ws config: ", err)
	}

	store, closeStore := setupStore(ctx, log)
	defer closeStore()

	a := app.New(log, serverCfg, store, jwt, ws, createRand())
	if err := a.Start(ctx); err != nil {
		log.Error("exit reason: ", err)
	}
}
