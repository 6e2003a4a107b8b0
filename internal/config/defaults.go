package config

import (
	_ "embed"

	"github.com/vovakirdan/mindflip/internal/memory"
)

//go:embed defaults/mindflip.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Defaults: Defaults{
			Mode:       string(memory.ModeSingle),
			Difficulty: string(memory.DifficultyMedium),
			Theme:      "fruits",
		},
		Themes: []ThemeConfig{
			{ID: "fruits", Name: "Fruits", Items: []string{"🍎", "🍌", "🍇", "🍓", "🍒", "🍑", "🍍", "🥝", "🍉", "🍋", "🍐", "🥥"}},
			{ID: "animals", Name: "Animals", Items: []string{"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🐨", "🐯", "🦁", "🐮"}},
			{ID: "sports", Name: "Sports", Items: []string{"⚽", "🏀", "🏈", "⚾", "🎾", "🏐", "🏉", "🎱", "🏓", "🏸", "🥊", "🥋"}},
			{ID: "space", Name: "Space", Items: []string{"🚀", "🪐", "👽", "☄️", "🌑", "🔭", "🛰️", "🌟", "🌍", "☀️", "🌌", "👨‍🚀"}},
		},
		Fallback: ThemeConfig{
			ID:    "fallback",
			Name:  "Fruit Salad (Fallback)",
			Items: []string{"🍎", "🍌", "🍇", "🍓", "🍒", "🍑", "🍍", "🥝", "🍉", "🍋", "🍐", "🥥"},
		},
	}
}
