package config

import (
	"github.com/sirupsen/logrus"
)

// Game holds the construction parameters of a board and of the window
// showing it.
type Game struct {
	Width     int    `env:"MINES_WIDTH" envDefault:"9"`
	Height    int    `env:"MINES_HEIGHT" envDefault:"9"`
	MineCount int    `env:"MINES_COUNT" envDefault:"10"`
	Title     string `env:"MINES_TITLE" envDefault:"Minesweeper"`
	X         int    `env:"MINES_X" envDefault:"0"`
	Y         int    `env:"MINES_Y" envDefault:"0"`
}

func NewGame() (*Game, error) {
	var g Game
	if err := ParseEnv(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g Game) Fields() logrus.Fields {
	return logrus.Fields{
		"width":      g.Width,
		"height":     g.Height,
		"mine_count": g.MineCount,
		"title":      g.Title,
		"x":          g.X,
		"y":          g.Y,
	}
}

type Log struct {
	Level       string `env:"LOG_LEVEL"`
	File        string `env:"LOG_FILE"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

func NewLog() (*Log, error) {
	var l Log
	if err := ParseEnv(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// LogLevel is LOG_LEVEL when set, otherwise debug in development and info
// in production.
func (l Log) LogLevel() (logrus.Level, error) {
	if l.Level != "" {
		return logrus.ParseLevel(l.Level)
	}
	if l.Development {
		return logrus.DebugLevel, nil
	}
	return logrus.InfoLevel, nil
}
