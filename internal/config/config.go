// Package config loads the game configuration from YAML and the server
// settings from flags, environment variables and an optional .env file.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
)

// BattleshipConfig contains all configuration for a game.
type BattleshipConfig struct {
	Board     BoardConfig     `yaml:"board"`
	Ships     ShipsConfig     `yaml:"ships"`
	Placement PlacementConfig `yaml:"placement"`
	Player    PlayerConfig    `yaml:"player"`
	CPU       CPUConfig       `yaml:"cpu"`
	TickRate  int             `yaml:"tick_rate"`
}

// BoardConfig defines the grid.
type BoardConfig struct {
	Size int `yaml:"size"`
}

// ShipsConfig selects how strictly ships are validated on creation.
type ShipsConfig struct {
	Validation string `yaml:"validation"` // "strict" or "minimal"
}

// PlacementConfig bounds random fleet placement.
type PlacementConfig struct {
	MaxAttempts int `yaml:"max_attempts"` // Per ship
}

// PlayerConfig names the local player.
type PlayerConfig struct {
	Name string `yaml:"name"`
}

// CPUConfig controls the computer opponent.
type CPUConfig struct {
	Name       string `yaml:"name"`
	DelayTicks int    `yaml:"delay_ticks"`
}

// Validate checks values that would otherwise fail deep inside a game.
func (c BattleshipConfig) Validate() error {
	if c.Board.Size < 1 {
		return fmt.Errorf("config: board.size must be positive, got %d", c.Board.Size)
	}
	if !battleship.StandardFleet().FitsOn(c.Board.Size) {
		return fmt.Errorf("config: board.size %d is too small for the standard fleet", c.Board.Size)
	}
	if _, err := battleship.ParseValidationMode(c.Ships.Validation); err != nil {
		return fmt.Errorf("config: ships.validation: %w", err)
	}
	if c.CPU.DelayTicks < 0 {
		return fmt.Errorf("config: cpu.delay_ticks must not be negative, got %d", c.CPU.DelayTicks)
	}
	if c.TickRate < 1 {
		return fmt.Errorf("config: tick_rate must be positive, got %d", c.TickRate)
	}
	return nil
}

// GameConfig converts the configuration into an engine config for a
// human-versus-computer game.
func (c BattleshipConfig) GameConfig(seed int64) (battleship.Config, error) {
	mode, err := battleship.ParseValidationMode(c.Ships.Validation)
	if err != nil {
		return battleship.Config{}, fmt.Errorf("config: %w", err)
	}

	cfg := battleship.DefaultConfig()
	cfg.BoardSize = c.Board.Size
	cfg.Seed = seed
	cfg.ShipValidation = mode
	cfg.MaxPlacementAttempts = c.Placement.MaxAttempts
	if c.Player.Name != "" {
		cfg.Players[battleship.Slot1].Name = c.Player.Name
	}
	if c.CPU.Name != "" {
		cfg.Players[battleship.Slot2].Name = c.CPU.Name
	}
	return cfg, nil
}
