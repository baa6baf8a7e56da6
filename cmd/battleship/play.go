package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-battleship/internal/config"
	"github.com/vovakirdan/tui-battleship/internal/platform/tui"
	"github.com/vovakirdan/tui-battleship/internal/storage"
)

var flagName string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play against the computer",
	Long: `Start a local game against the computer.

Controls:
  Arrows/WASD/HJKL  - Move the cursor over the enemy waters
  Space/Enter/F     - Fire at the selected cell
  P                 - Pause
  R                 - Restart (after game over)
  Ctrl+S            - Save a screenshot
  Esc               - Back to the menu
  Q/Ctrl+C          - Quit

Examples:
  battleship play
  battleship play --name alice
  battleship play --seed 42
  battleship play --config ./my-battleship.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagName, "name", "", "Your captain's name (overrides the config)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, err := newLogger("battleship")
	if err != nil {
		return err
	}

	cfg, err := config.LoadBattleship(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open match database, history disabled", "path", flagDBPath, "error", err)
		store = nil
	}

	runErr := tui.Run(tui.SessionOptions{
		Config:     cfg,
		Store:      store,
		Runtime:    tui.DefaultRuntime(cfg, width, height, seed),
		PlayerName: flagName,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		return fmt.Errorf("run game: %w", runErr)
	}
	return nil
}
