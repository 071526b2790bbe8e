package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	defaultDataDir     = "./data"
	defaultDatabase    = "projectlaunch.db"
	defaultSessionFile = "session.json"
)

type Config struct {
	DataDir      string
	DatabaseFile string
	SessionFile  string
}

// Load reads configuration from the environment, with a .env file layered in
// when present.
func Load() *Config {
	// A missing .env is fine; the defaults below cover local use.
	_ = godotenv.Load()

	return &Config{
		DataDir:      envOr("DATA_DIR", defaultDataDir),
		DatabaseFile: envOr("DATABASE_FILE", defaultDatabase),
		SessionFile:  envOr("SESSION_FILE", defaultSessionFile),
	}
}

func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, c.SessionFile)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
