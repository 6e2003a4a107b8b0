package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List preset themes",
	Long: `Shows the preset themes from the configuration.

Examples:
  mindflip themes
  mindflip themes --config ./my-themes.yaml`,
	Args: cobra.NoArgs,
	Run:  runThemes,
}

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a theme from a prompt",
	Long: `Asks the configured model for a theme and prints it. When no API key
is set, or the request fails, the fallback theme is printed instead.

Environment:
  MINDFLIP_AI_API_KEY      - API key (required for remote generation)
  MINDFLIP_AI_BASE_URL     - OpenAI-compatible endpoint
  MINDFLIP_AI_MODEL        - Model name (default: gpt-4o-mini)
  MINDFLIP_AI_TIMEOUT      - Request timeout (default: 20s)
  MINDFLIP_AI_MAX_RETRIES  - Retries on failure (default: 1)

Examples:
  mindflip themes generate "deep sea creatures"
  mindflip themes generate 80s movies --log-level debug`,
	Args: cobra.MinimumNArgs(1),
	Run:  runGenerate,
}

func init() {
	themesCmd.AddCommand(generateCmd)
}

func runThemes(cmd *cobra.Command, args []string) {
	cfg, catalog, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	themes := catalog.List()
	fmt.Println("Available themes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, t := range themes {
		if len(t.ID) > maxIDLen {
			maxIDLen = len(t.ID)
		}
	}

	fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, "ID", "Name", "Items")
	fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, "--", "----", "-----")
	for _, t := range themes {
		marker := ""
		if t.ID == cfg.Defaults.Theme {
			marker = " (default)"
		}
		fmt.Printf("  %-*s  %-16s  %d%s\n", maxIDLen, t.ID, t.Title(), len(t.Items), marker)
	}

	fmt.Println()
	fmt.Println("Run 'mindflip play --theme <id>' to play a theme.")
}

func runGenerate(cmd *cobra.Command, args []string) {
	prompt := strings.Join(args, " ")

	_, catalog, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logOut, closeLog, err := openLogOutput(os.Stderr)
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

	gen, genCfg, err := newGenerator(catalog, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !genCfg.Enabled() {
		fmt.Fprintln(os.Stderr, "Warning: MINDFLIP_AI_API_KEY is not set, using the fallback theme")
	}

	t := gen.Generate(context.Background(), prompt)

	fmt.Printf("%s\n\n", t.Title())
	for _, item := range t.Items {
		fmt.Printf("  %s\n", item)
	}
}
