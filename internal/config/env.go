package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// envKeys maps environment variables to the configuration keys they
// override.
var envKeys = map[string]string{
	"NOTEREV_MIN_INTERVAL":  "revisions.min_interval",
	"NOTEREV_MAX_REVISIONS": "revisions.max_revisions",
	"NOTEREV_BACKEND":       "store.backend",
	"NOTEREV_MAX_CONTENT":   "limits.max_content",
	"NOTEREV_LOG_LEVEL":     "log.level",
	"NOTEREV_AUTHOR":        "author.name",
}

// LoadEnvFile loads variables from a .env file into the process
// environment. Variables already set are left alone and a missing file is
// not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides configured values with NOTEREV_* environment
// variables. The overrides are not persisted by Save.
func (c *Config) ApplyEnv() error {
	for env, key := range envKeys {
		v, ok := os.LookupEnv(env)
		if !ok || v == "" {
			continue
		}
		if err := c.Set(key, v); err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}
	return nil
}
