// Package config provides YAML-based configuration for MindFlip:
// menu defaults and the preset theme catalog.
package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/mindflip/internal/memory"
)

// MinThemeItems is the smallest pool that still deals a playable board.
const MinThemeItems = 2

// Config is the top-level configuration document.
type Config struct {
	Defaults Defaults      `yaml:"defaults"`
	Themes   []ThemeConfig `yaml:"themes"`
	Fallback ThemeConfig   `yaml:"fallback"`
}

// Defaults are the menu's initial selections.
type Defaults struct {
	Mode       string `yaml:"mode"`
	Difficulty string `yaml:"difficulty"`
	Theme      string `yaml:"theme"`
}

// ThemeConfig describes one preset theme.
type ThemeConfig struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

// ModeOrDefault returns the default mode, falling back to solo.
func (d Defaults) ModeOrDefault() memory.Mode {
	if m, err := memory.ParseMode(d.Mode); err == nil {
		return m
	}
	return memory.ModeSingle
}

// DifficultyOrDefault returns the default difficulty, falling back to medium.
func (d Defaults) DifficultyOrDefault() memory.Difficulty {
	if diff, err := memory.ParseDifficulty(d.Difficulty); err == nil {
		return diff
	}
	return memory.DifficultyMedium
}

// Theme looks up a preset by id.
func (c Config) Theme(id string) (ThemeConfig, bool) {
	for _, t := range c.Themes {
		if t.ID == id {
			return t, true
		}
	}
	return ThemeConfig{}, false
}

// Validate checks the configuration for values the game cannot use.
func (c Config) Validate() error {
	if c.Defaults.Mode != "" {
		if _, err := memory.ParseMode(c.Defaults.Mode); err != nil {
			return fmt.Errorf("config: defaults.mode: %w", err)
		}
	}
	if c.Defaults.Difficulty != "" {
		if _, err := memory.ParseDifficulty(c.Defaults.Difficulty); err != nil {
			return fmt.Errorf("config: defaults.difficulty: %w", err)
		}
	}

	seen := make(map[string]bool, len(c.Themes))
	for i, t := range c.Themes {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return fmt.Errorf("config: themes[%d]: empty id", i)
		}
		if seen[id] {
			return fmt.Errorf("config: themes[%d]: duplicate id %q", i, id)
		}
		seen[id] = true
		if err := t.validateItems(); err != nil {
			return fmt.Errorf("config: theme %q: %w", id, err)
		}
	}

	if c.Defaults.Theme != "" && !seen[c.Defaults.Theme] {
		return fmt.Errorf("config: defaults.theme %q is not a configured theme", c.Defaults.Theme)
	}
	if err := c.Fallback.validateItems(); err != nil {
		return fmt.Errorf("config: fallback: %w", err)
	}
	return nil
}

func (t ThemeConfig) validateItems() error {
	tokens := make([]memory.Token, len(t.Items))
	for i, item := range t.Items {
		tokens[i] = memory.Token(strings.TrimSpace(item))
	}
	if n := len(memory.DistinctTokens(tokens)); n < MinThemeItems {
		return fmt.Errorf("needs at least %d distinct items, has %d", MinThemeItems, n)
	}
	return nil
}
