package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tripletmatch/assets"
	"github.com/robalobadob/tripletmatch/internal/combos"
	"github.com/robalobadob/tripletmatch/internal/config"
	"github.com/robalobadob/tripletmatch/internal/db"
	"github.com/robalobadob/tripletmatch/internal/httpserver"
	"github.com/robalobadob/tripletmatch/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := combos.Init(cfg.CombosFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load combo groups")
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(cfg, mem, conn, combos.Groups())
	log.Info().
		Str("port", cfg.Port).
		Int("groups", combos.Count()).
		Int("maxCards", combos.MaxCards()).
		Msg("starting tripletmatch server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
