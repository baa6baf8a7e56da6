package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
)

//go:embed defaults/battleship.yaml
var defaultBattleshipYAML []byte

// DefaultBattleshipConfig returns the built-in configuration. It matches
// defaults/battleship.yaml.
func DefaultBattleshipConfig() BattleshipConfig {
	return BattleshipConfig{
		Board:     BoardConfig{Size: battleship.DefaultBoardSize},
		Ships:     ShipsConfig{Validation: "strict"},
		Placement: PlacementConfig{MaxAttempts: battleship.DefaultMaxPlacementAttempts},
		Player:    PlayerConfig{Name: "Player"},
		CPU:       CPUConfig{Name: "Computer", DelayTicks: 18},
		TickRate:  30,
	}
}
