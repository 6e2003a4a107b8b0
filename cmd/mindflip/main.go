// mindflip is a memory matching card game for the terminal.
//
// Usage:
//
//	mindflip play                    - Open the menu and play
//	mindflip play --theme <id>       - Start a round straight away
//	mindflip themes                  - List preset themes
//	mindflip themes generate <text>  - Generate a theme from a prompt
//	mindflip scores [difficulty]     - Show best solo times and recent duels
//	mindflip serve                   - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible boards
//	--db <path>          - Set database path (default: ~/.mindflip/mindflip.db)
//	--config <path>      - Use a custom YAML config
//	--log-level <level>  - debug, info, warn or error (default: info)
//	--log-file <path>    - Write logs to a file (interactive play is silent otherwise)
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	// Generator settings may live in a local .env file.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mindflip",
	Short: "MindFlip - a memory matching game in your terminal",
	Long: `MindFlip is a memory matching card game. Flip two cards at a time
and find every pair, alone against the clock or against a friend.

Available commands:
  play     - Play from the menu or straight into a round
  themes   - List or generate card themes
  scores   - View best times and duel history
  serve    - Start SSH server for remote play

Examples:
  mindflip play
  mindflip play --mode duel --theme animals
  mindflip themes generate "deep sea creatures"
  mindflip scores hard
  mindflip serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.mindflip/mindflip.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
