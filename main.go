package main

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/circuitquest/apps/go-server/assets"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/config"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/db"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/httpserver"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/presets"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := presets.Init(cfg.Game.PresetsFile); err != nil {
		log.Fatal().Err(err).Str("file", cfg.Game.PresetsFile).Msg("failed to load difficulty presets")
	}
	catalog := presets.Current()

	conn, err := db.OpenAndMigrate(cfg.DB.Path, assets.Migrations())
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("failed to open database")
	}
	defer conn.Close()

	mem := store.NewMemoryStore()
	srv := httpserver.New(cfg, mem, conn, catalog)
	port := strconv.Itoa(cfg.Server.Port)
	log.Info().
		Str("port", port).
		Str("env", cfg.Env).
		Str("default_difficulty", catalog.Default().Name).
		Bool("skip_zero", cfg.Game.SkipZero).
		Msg("starting go-server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
