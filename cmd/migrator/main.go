package main

import (
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-tiles/internal/config"
	"github.com/vancomm/minesweeper-tiles/internal/database"
	"github.com/vancomm/minesweeper-tiles/internal/logging"
)

func main() {
	logCfg, err := config.NewLog()
	if err != nil {
		logrus.Fatal("unable to read log config: ", err)
	}
	log, err := logging.Server(*logCfg)
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}

	dbCfg, err := config.NewDatabase()
	if err != nil {
		log.Fatal("unable to read database config: ", err)
	}

	migrator, err := database.Migrate(dbCfg.DSN(), database.Migrations)
	if err != nil {
		log.Fatal("failed to migrate: ", err)
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		return
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
