// battleship plays the classic fleet game in the terminal.
//
// Usage:
//
//	battleship play              - Play against the computer
//	battleship serve             - Start the SSH server for online play
//	battleship scores            - Show recent matches and player records
//	battleship simulate          - Run computer-vs-computer games headless
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible fleets
//	--config <path>      - Load a custom battleship YAML config
//	--db <path>          - Set database path (default: ~/.battleship/battleship.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed     int64
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "battleship",
	Short: "Battleship - sink the enemy fleet from your terminal",
	Long: `Battleship is a terminal version of the classic two-player game.
Each side hides five ships on a 10x10 grid and the players take turns
firing at each other's waters until one fleet is sunk.

Available commands:
  play      - Play against the computer
  serve     - Start an SSH server for online matches
  scores    - View match history and player records
  simulate  - Run headless computer-vs-computer games

Examples:
  battleship play --name alice
  battleship serve --ssh :2222
  battleship scores --limit 20
  battleship simulate --games 500 --seed 42`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom battleship config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.battleship/battleship.db", "Path to match database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
}

// newLogger builds the process logger from --log-level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	}), nil
}
