package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-battleship/internal/battleship"
	"github.com/vovakirdan/tui-battleship/internal/config"
)

var flagGames int

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run computer-vs-computer games without a terminal UI",
	Long: `Play a batch of games between two computer players that fire at
random untried cells, then print how often each seat won and how many
shots a game took on average.

Examples:
  battleship simulate
  battleship simulate --games 1000 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagGames, "games", 100, "Number of games to play")
}

// simulation summarises a batch of computer-vs-computer games.
type simulation struct {
	Games      int
	Wins       [2]int
	TotalShots int
	MinShots   int
	MaxShots   int
}

func (s simulation) averageShots() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalShots) / float64(s.Games)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger("simulate")
	if err != nil {
		return err
	}

	cfg, err := config.LoadBattleship(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	base, err := cfg.GameConfig(seed)
	if err != nil {
		return err
	}
	base.Players[battleship.Slot1].Kind = battleship.Computer

	start := time.Now()
	result, err := simulate(base, flagGames, seed)
	if err != nil {
		return err
	}
	logger.Debug("simulation finished", "games", result.Games, "elapsed", time.Since(start))

	printSimulation(cmd.OutOrStdout(), base, result, seed)
	return nil
}

// simulate plays n games. Game i places fleets with seed+i and both players
// share one shot generator seeded with seed.
func simulate(base battleship.Config, n int, seed int64) (simulation, error) {
	if n < 1 {
		return simulation{}, fmt.Errorf("simulate: games must be positive, got %d", n)
	}

	rng := rand.New(rand.NewSource(seed))
	sim := simulation{}
	for i := range n {
		cfg := base
		cfg.Seed = seed + int64(i)

		winner, shots, err := playOut(cfg, rng)
		if err != nil {
			return sim, fmt.Errorf("simulate: game %d: %w", i+1, err)
		}

		sim.Games++
		sim.Wins[winner]++
		sim.TotalShots += shots
		if sim.MinShots == 0 || shots < sim.MinShots {
			sim.MinShots = shots
		}
		sim.MaxShots = max(sim.MaxShots, shots)
	}
	return sim, nil
}

// playOut runs one game to completion and returns the winner and the
// number of shots both sides fired.
func playOut(cfg battleship.Config, rng *rand.Rand) (battleship.Slot, int, error) {
	game := battleship.NewGame(cfg)
	if _, err := game.InitGame(); err != nil {
		return 0, 0, err
	}

	shots := 0
	for !game.IsGameOver() {
		shooter := game.CurrentPlayer()
		target := game.Player(game.CurrentSlot().Other()).Board()

		at, err := shooter.ValidCoordinates(target, rng)
		if err != nil {
			return 0, shots, err
		}
		if _, err := game.TakeTurn(at.X, at.Y); err != nil {
			return 0, shots, err
		}
		shots++
	}

	winner, ok := game.Winner()
	if !ok {
		return 0, shots, fmt.Errorf("game over without a winner")
	}
	return winner, shots, nil
}

func printSimulation(w io.Writer, cfg battleship.Config, sim simulation, seed int64) {
	fmt.Fprintf(w, "Simulated %d games (seed %d)\n", sim.Games, seed)
	fmt.Fprintln(w)
	for _, s := range []battleship.Slot{battleship.Slot1, battleship.Slot2} {
		pct := float64(sim.Wins[s]) / float64(sim.Games) * 100
		fmt.Fprintf(w, "  %-12s  %5d wins  (%5.1f%%)\n", cfg.Players[s].Name, sim.Wins[s], pct)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Shots per game: avg %.1f, min %d, max %d\n", sim.averageShots(), sim.MinShots, sim.MaxShots)
}
