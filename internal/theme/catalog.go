// Package theme provides the content pools cards are dealt from: the preset
// catalog and the remote generator.
package theme

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/mindflip/internal/config"
	"github.com/vovakirdan/mindflip/internal/memory"
)

// Theme is a named pool of card contents.
type Theme struct {
	ID    string
	Name  string
	Items []memory.Token
}

// FromConfig converts a configured theme, trimming blank and repeated items.
func FromConfig(tc config.ThemeConfig) Theme {
	items := make([]memory.Token, len(tc.Items))
	for i, item := range tc.Items {
		items[i] = memory.Token(strings.TrimSpace(item))
	}
	return Theme{
		ID:    strings.TrimSpace(tc.ID),
		Name:  strings.TrimSpace(tc.Name),
		Items: memory.DistinctTokens(items),
	}
}

// Title returns the display name, falling back to the id.
func (t Theme) Title() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// Pool returns a copy of the items.
func (t Theme) Pool() []memory.Token {
	out := make([]memory.Token, len(t.Items))
	copy(out, t.Items)
	return out
}

// Catalog holds the preset themes in configuration order.
// It is read-only after construction.
type Catalog struct {
	themes   []Theme
	index    map[string]int
	fallback Theme
}

// NewCatalog builds a catalog from a validated configuration.
func NewCatalog(cfg config.Config) (*Catalog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}

	c := &Catalog{
		themes:   make([]Theme, 0, len(cfg.Themes)),
		index:    make(map[string]int, len(cfg.Themes)),
		fallback: FromConfig(cfg.Fallback),
	}
	for _, tc := range cfg.Themes {
		t := FromConfig(tc)
		c.index[t.ID] = len(c.themes)
		c.themes = append(c.themes, t)
	}

	if c.fallback.ID == "" {
		c.fallback.ID = "fallback"
	}
	if c.fallback.Name == "" {
		c.fallback.Name = "Fallback"
	}
	return c, nil
}

// List returns the presets in configuration order.
func (c *Catalog) List() []Theme {
	out := make([]Theme, len(c.themes))
	copy(out, c.themes)
	return out
}

// Get returns the preset with the given id.
func (c *Catalog) Get(id string) (Theme, error) {
	i, ok := c.index[id]
	if !ok {
		return Theme{}, fmt.Errorf("theme: unknown theme %q", id)
	}
	return c.themes[i], nil
}

// Exists checks if a preset with the given id exists.
func (c *Catalog) Exists(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Fallback returns the theme used when generation fails.
func (c *Catalog) Fallback() Theme {
	return c.fallback
}
