package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mindflip/internal/memory"
	"github.com/vovakirdan/mindflip/internal/platform/tui"
	"github.com/vovakirdan/mindflip/internal/storage"
)

var (
	flagMode       string
	flagDifficulty string
	flagTheme      string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play MindFlip",
	Long: `Open the menu, or start a round straight away when --theme is given.

Controls:
  Arrows/HJKL  - Move
  Enter/Space  - Flip card
  R            - Restart with the same cards
  M            - Mute the bell
  Esc/B        - Back to menu
  Q/Ctrl+C     - Quit

Modes:
  solo  - Clear the board against the clock (easy 6, medium 8, hard 10 pairs)
  duel  - Two players take turns on 8 pairs; a match earns another turn

Examples:
  mindflip play
  mindflip play --theme space --difficulty hard
  mindflip play --mode duel --theme animals
  mindflip play --seed 42 --theme fruits`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Mode: solo or duel (default from config)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Solo difficulty: easy, medium, hard (default from config)")
	playCmd.Flags().StringVar(&flagTheme, "theme", "", "Preset theme id; starts a round without the menu")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, catalog, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Command line choices override the configured defaults
	defaults := cfg.Defaults
	if flagMode != "" {
		if _, err := memory.ParseMode(flagMode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defaults.Mode = flagMode
	}
	if flagDifficulty != "" {
		if _, err := memory.ParseDifficulty(flagDifficulty); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defaults.Difficulty = flagDifficulty
	}

	var start *tui.StartRequest
	if flagTheme != "" {
		t, err := catalog.Get(flagTheme)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: unknown theme %q\n", flagTheme)
			fmt.Fprintln(os.Stderr, "Run 'mindflip themes' to see available themes.")
			os.Exit(1)
		}
		start = &tui.StartRequest{
			Mode:       defaults.ModeOrDefault(),
			Difficulty: defaults.DifficultyOrDefault(),
			Theme:      t,
		}
	}

	// Logs would corrupt the TUI, so they only go to --log-file
	logOut, closeLog, err := openLogOutput(io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	logger, err := newLogger(logOut, "mindflip")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	gen, _, err := newGenerator(catalog, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open results storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Catalog:   catalog,
		Generator: gen,
		Store:     store,
		Logger:    logger,
		Bell:      os.Stdout,
		Seed:      flagSeed,
		Defaults:  defaults,
		Width:     width,
		Height:    height,
		Start:     start,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
