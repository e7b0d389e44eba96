package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper-tiles/internal/board"
	"github.com/vancomm/minesweeper-tiles/internal/config"
	"github.com/vancomm/minesweeper-tiles/internal/logging"
	"github.com/vancomm/minesweeper-tiles/internal/tui"
	"github.com/vancomm/minesweeper-tiles/internal/view"
)

func run(ctx context.Context, game *config.Game, log *logrus.Logger) error {
	b, err := board.New(game.Width, game.Height, game.MineCount, nil)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("unable to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("unable to init screen: %w", err)
	}
	defer screen.Fini()

	ui := tui.New(screen, game.Title, game.X, game.Y, log)
	win := view.NewWindow(b, tui.Geometry, ui, log)

	log.WithFields(game.Fields()).Info("starting game")
	return ui.Run(ctx, win)
}

func main() {
	game, err := config.NewGame()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	flag.IntVar(&game.Width, "width", game.Width, "board width in tiles")
	flag.IntVar(&game.Height, "height", game.Height, "board height in tiles")
	flag.IntVar(&game.MineCount, "mines", game.MineCount, "number of mines")
	flag.StringVar(&game.Title, "title", game.Title, "window title")
	flag.Parse()

	logCfg, err := config.NewLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logging.Terminal(*logCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, game, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("exit")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
