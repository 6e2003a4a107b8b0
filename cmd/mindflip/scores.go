package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mindflip/internal/memory"
	"github.com/vovakirdan/mindflip/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [difficulty]",
	Short: "Show best solo times and recent duels",
	Long: `Display the 10 fastest solo rounds for a difficulty, followed by the
most recent duels and overall statistics. Without an argument every
difficulty is shown.

Examples:
  mindflip scores
  mindflip scores hard
  mindflip scores --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

var flagClear bool

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all stored results")
}

func runScores(cmd *cobra.Command, args []string) {
	difficulties := memory.Difficulties
	if len(args) == 1 {
		d, err := memory.ParseDifficulty(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Use one of: easy, medium, hard.")
			os.Exit(1)
		}
		difficulties = []memory.Difficulty{d}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRounds(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing results: %v\n", err)
			return
		}
		fmt.Println("All results cleared.")
		return
	}

	for _, d := range difficulties {
		results, err := store.BestSolo(d, 10)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
			return
		}
		printSolo(d, results)
	}

	duels, err := store.RecentDuels(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving duels: %v\n", err)
		return
	}
	printDuels(duels)

	stats, err := store.Stats()
	if err == nil && !stats.LastPlayed.IsZero() {
		fmt.Printf("Rounds: %d solo, %d duels. Last played %s\n",
			stats.RoundsByMode[memory.ModeSingle],
			stats.RoundsByMode[memory.ModeMulti],
			stats.LastPlayed.Format("2006-01-02 15:04"))
	}
}

func printSolo(d memory.Difficulty, results []storage.RoundResult) {
	fmt.Printf("Best Times - Solo %s\n", d)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("  No rounds recorded yet.")
		fmt.Println()
		return
	}

	fmt.Printf("  %-4s  %-6s  %-5s  %-20s  %s\n", "Rank", "Time", "Moves", "Theme", "Date")
	fmt.Printf("  %-4s  %-6s  %-5s  %-20s  %s\n", "----", "----", "-----", "-----", "----")
	for i, r := range results {
		fmt.Printf("  %-4d  %-6s  %-5d  %-20s  %s\n",
			i+1,
			fmt.Sprintf("%d:%02d", r.Seconds/60, r.Seconds%60),
			r.Moves,
			r.Theme,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()
}

func printDuels(results []storage.RoundResult) {
	fmt.Println("Recent Duels")
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("  No duels recorded yet.")
		fmt.Println()
		return
	}

	fmt.Printf("  %-14s  %-5s  %-20s  %s\n", "Result", "Score", "Theme", "Date")
	fmt.Printf("  %-14s  %-5s  %-20s  %s\n", "------", "-----", "-----", "----")
	for _, r := range results {
		result := "Draw"
		if r.Outcome == memory.StatusWon {
			result = r.Winner.String() + " won"
		}
		fmt.Printf("  %-14s  %-5s  %-20s  %s\n",
			result,
			fmt.Sprintf("%d-%d", r.Score1, r.Score2),
			r.Theme,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()
}
