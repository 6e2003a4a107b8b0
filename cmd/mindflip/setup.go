package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mindflip/internal/config"
	"github.com/vovakirdan/mindflip/internal/theme"
)

// newLogger builds a logger at the --log-level threshold.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openLogOutput returns the --log-file writer, or w when no file is set.
func openLogOutput(w io.Writer) (io.Writer, func(), error) {
	if flagLogFile == "" {
		return w, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// loadCatalog loads the configuration and builds the theme catalog.
func loadCatalog() (config.Config, *theme.Catalog, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	catalog, err := theme.NewCatalog(cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, catalog, nil
}

// newGenerator returns the remote theme generator configured from the
// environment.
func newGenerator(catalog *theme.Catalog, logger *log.Logger) (*theme.AIGenerator, theme.GeneratorConfig, error) {
	genCfg, err := theme.LoadGeneratorConfig()
	if err != nil {
		return nil, genCfg, err
	}
	return theme.NewAIGenerator(genCfg, catalog.Fallback(), logger), genCfg, nil
}
