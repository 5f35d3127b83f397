package config

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// LoadEnv pulls a local .env into the process environment when present.
// Deployed environments set real variables and ship no .env file.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}
}
