package main

import (
	"context"
	"errors"
	"os"

	"github.com/syncup-music/syncup/internal/repositories"
	"github.com/syncup-music/syncup/internal/services"
	"github.com/syncup-music/syncup/internal/session"
	"github.com/syncup-music/syncup/internal/shared"
	"github.com/syncup-music/syncup/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	config.ApplyEnv()

	store := session.NewStore(session.NewFileStorage(config.Session.Path))
	service := services.NewSyncUpService(config.API.BaseURL, store, nil, config.API.RequestsPerSec)

	var cache tasks.SongCacher
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err == nil {
			cache = repositories.NewSongCacheAdapter(repositories.NewSongRepository(db))
		} else {
			logger.Warn("migrations failed, catalog cache disabled", "error", err)
		}
	} else {
		logger.Warn("database unavailable, catalog cache disabled", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Store:   store,
		Service: service,
		Cache:   cache,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "syncup",
		Usage:    "Browse, search and manage the SyncUp music catalog from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
