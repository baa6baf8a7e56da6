package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "battleship.yaml"

// LoadBattleship loads the game configuration.
// Search order: customPath -> ~/.battleship/configs/battleship.yaml ->
// ./configs/battleship.yaml -> embedded default.
// Keys missing from the chosen file keep their default values.
func LoadBattleship(customPath string) (BattleshipConfig, error) {
	cfg := DefaultBattleshipConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	candidates := []string{filepath.Join("configs", configFile)}
	if p := userConfigPath(configFile); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fromFile := DefaultBattleshipConfig()
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			continue
		}
		return fromFile, fromFile.Validate()
	}

	if err := yaml.Unmarshal(defaultBattleshipYAML, &cfg); err != nil {
		return DefaultBattleshipConfig(), nil
	}
	return cfg, nil
}

// userConfigPath returns the per-user config file path, or empty if the home
// directory is unknown.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".battleship", "configs", filename)
}
