package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-battleship/internal/storage"
)

var (
	flagLimit  int
	flagPlayer string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show match history and player records",
	Long: `Display the most recent matches and each player's win/loss record.

Examples:
  battleship scores
  battleship scores --limit 20
  battleship scores --player alice`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of matches and players to show")
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Only show matches involving this player")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open match database: %w", err)
	}
	defer store.Close()

	var matches []storage.MatchRecord
	if flagPlayer != "" {
		matches, err = store.PlayerMatches(flagPlayer, flagLimit)
	} else {
		matches, err = store.RecentMatches(flagLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieve matches: %w", err)
	}

	records, err := store.PlayerRecords(flagLimit)
	if err != nil {
		return fmt.Errorf("retrieve player records: %w", err)
	}

	out := cmd.OutOrStdout()
	printMatches(out, matches)
	fmt.Fprintln(out)
	printRecords(out, records)
	return nil
}

func printMatches(w io.Writer, matches []storage.MatchRecord) {
	fmt.Fprintln(w, "Recent Matches")
	fmt.Fprintln(w)
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches recorded yet.")
		fmt.Fprintln(w, "Play 'battleship play' to start the history!")
		return
	}

	fmt.Fprintf(w, "  %-16s  %-7s  %-25s  %-12s  %-5s  %s\n", "Date", "Mode", "Players", "Winner", "Score", "Result")
	fmt.Fprintf(w, "  %-16s  %-7s  %-25s  %-12s  %-5s  %s\n", "----", "----", "-------", "------", "-----", "------")
	for _, m := range matches {
		winner := m.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Fprintf(w, "  %-16s  %-7s  %-25s  %-12s  %-5s  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"),
			m.Mode,
			m.Player1+" vs "+m.Player2,
			winner,
			fmt.Sprintf("%d-%d", m.Score1, m.Score2),
			m.EndReason,
		)
	}
}

func printRecords(w io.Writer, records []storage.PlayerRecord) {
	fmt.Fprintln(w, "Player Records")
	fmt.Fprintln(w)
	if len(records) == 0 {
		fmt.Fprintln(w, "No players yet.")
		return
	}

	fmt.Fprintf(w, "  %-4s  %-16s  %5s  %4s  %6s  %8s\n", "Rank", "Player", "Games", "Wins", "Losses", "Accuracy")
	fmt.Fprintf(w, "  %-4s  %-16s  %5s  %4s  %6s  %8s\n", "----", "------", "-----", "----", "------", "--------")
	for i, r := range records {
		fmt.Fprintf(w, "  %-4d  %-16s  %5d  %4d  %6d  %7.1f%%\n",
			i+1, r.Name, r.Games, r.Wins, r.Losses, r.Accuracy()*100)
	}
}
