package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Abel5173/pulsecode/internal/gateway"
	"github.com/Abel5173/pulsecode/internal/manager"
	"github.com/Abel5173/pulsecode/internal/ratings"
	"github.com/Abel5173/pulsecode/internal/store"
	"github.com/Abel5173/pulsecode/internal/textgen"
	"github.com/Abel5173/pulsecode/pulse"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	st, backend, err := store.NewFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("session store init failed")
	}
	defer st.Close()
	log.Info().Str("backend", backend).Msg("session store ready")

	rt, err := ratings.NewSQLite(getEnv("PULSE_DB_PATH", "data/pulsecode.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("ratings store init failed")
	}
	defer rt.Close()

	gen := textgen.NewFromEnv(log.Logger)
	if gen == nil {
		log.Info().Msg("no OPENAI_API_KEY, opponents run on built-in strategies")
	}

	reg := manager.New(pulse.DefaultConfig(), st, rt, gen, log.Logger)
	if err := reg.Recover(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("session recovery failed")
	}

	srv := gateway.New(reg, log.Logger)
	port := getEnv("PORT", "8321")
	log.Info().Str("port", port).Msg("starting botd")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
