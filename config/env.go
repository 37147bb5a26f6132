package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable name, e.g. JSONADM_RETRY_MAX_RETRY.
const EnvPrefix = "JSONADM_"

// ApplyEnvConfig loads the given dotenv files (".env" when none is given),
// skipping missing ones, and overrides cfg with the JSONADM_* environment.
// Variables already present in the environment win over dotenv values.
func ApplyEnvConfig(cfg *Config, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix})
}
