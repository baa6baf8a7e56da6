package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ServerConfig holds the SSH server settings. Flags set the base values;
// environment variables override them.
type ServerConfig struct {
	Addr        string        `env:"BATTLESHIP_SSH_ADDR"`
	HostKeyPath string        `env:"BATTLESHIP_HOST_KEY"`
	DBPath      string        `env:"BATTLESHIP_DB_PATH"`
	IdleTimeout time.Duration `env:"BATTLESHIP_IDLE_TIMEOUT"`
	MaxTimeout  time.Duration `env:"BATTLESHIP_MAX_TIMEOUT"`
	LogLevel    string        `env:"BATTLESHIP_LOG_LEVEL"`
}

// DefaultServerConfig returns the settings used when nothing is configured.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        ":2222",
		HostKeyPath: ".ssh/battleship_ed25519",
		DBPath:      "~/.battleship/battleship.db",
		IdleTimeout: 10 * time.Minute,
		MaxTimeout:  2 * time.Hour,
		LogLevel:    "info",
	}
}

// LoadDotEnv reads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error. Variables already set are not replaced.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields of c from BATTLESHIP_* environment variables.
// Unset variables leave the current values in place.
func (c *ServerConfig) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}
