package theme

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/vovakirdan/mindflip/internal/config"
	"github.com/vovakirdan/mindflip/internal/memory"
)

// GeneratedItems is how many items a generated theme asks for. It covers the
// hard board with room for duplicates the model may return.
const GeneratedItems = 12

// GeneratedID is the id given to generated themes.
const GeneratedID = "generated"

var (
	ErrNoAPIKey    = errors.New("theme: no API key configured")
	ErrEmptyPrompt = errors.New("theme: empty prompt")
	ErrEmptyReply  = errors.New("theme: empty reply")
)

// Generator produces a theme from a free-text prompt.
// Generate never returns an empty pool: failures yield a fallback theme.
type Generator interface {
	Generate(ctx context.Context, prompt string) Theme
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) Theme

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) Theme { return f(ctx, prompt) }

var _ Generator = (*AIGenerator)(nil)

// GeneratorConfig configures the remote generator.
type GeneratorConfig struct {
	APIKey     string        `env:"MINDFLIP_AI_API_KEY"`
	BaseURL    string        `env:"MINDFLIP_AI_BASE_URL"`
	Model      string        `env:"MINDFLIP_AI_MODEL"       envDefault:"gpt-4o-mini"`
	Timeout    time.Duration `env:"MINDFLIP_AI_TIMEOUT"     envDefault:"20s"`
	MaxRetries int           `env:"MINDFLIP_AI_MAX_RETRIES" envDefault:"1"`
}

// LoadGeneratorConfig reads the generator configuration from the environment.
func LoadGeneratorConfig() (GeneratorConfig, error) {
	var cfg GeneratorConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("theme: parse env: %w", err)
	}
	return cfg, nil
}

// Enabled reports whether a remote call can be attempted.
func (c GeneratorConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

const systemPrompt = `You create content for a memory matching card game.
Reply with a single JSON object and nothing else:
{"themeName": "<short catchy title>", "items": ["<item>", ...]}`

func userPrompt(theme string) string {
	return fmt.Sprintf(`Generate a list of %d distinct, recognizable, and simple items (emojis or short 1-2 word concepts) for a memory matching game based on the theme: %q.
Also provide a short, catchy title for this theme.
Ensure the items are visually distinct to make the game playable.`, GeneratedItems, theme)
}

// AIGenerator asks an OpenAI-compatible chat completions endpoint for themes.
type AIGenerator struct {
	client   openai.Client
	cfg      GeneratorConfig
	fallback Theme
	logger   *log.Logger
}

// NewAIGenerator creates a generator. fallback is returned whenever
// generation fails; logger may be nil.
func NewAIGenerator(cfg GeneratorConfig, fallback Theme, logger *log.Logger) *AIGenerator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AIGenerator{
		client:   openai.NewClient(opts...),
		cfg:      cfg,
		fallback: fallback,
		logger:   logger,
	}
}

// Generate returns a generated theme, or the fallback on any failure.
func (g *AIGenerator) Generate(ctx context.Context, prompt string) Theme {
	start := time.Now()
	t, err := g.generate(ctx, prompt)
	if err != nil {
		g.logger.Warn("theme generation failed, using fallback", "prompt", prompt, "err", err)
		return g.fallback
	}
	g.logger.Info("theme generated", "name", t.Name, "items", len(t.Items), "took", time.Since(start).Round(time.Millisecond))
	return t
}

func (g *AIGenerator) generate(ctx context.Context, prompt string) (Theme, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Theme{}, ErrEmptyPrompt
	}
	if !g.cfg.Enabled() {
		return Theme{}, ErrNoAPIKey
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(prompt)),
		},
	})
	if err != nil {
		return Theme{}, fmt.Errorf("theme: completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Theme{}, ErrEmptyReply
	}

	name, items, err := ParseReply(resp.Choices[0].Message.Content)
	if err != nil {
		return Theme{}, err
	}
	return Theme{ID: GeneratedID, Name: name, Items: items}, nil
}

// ParseReply extracts the theme name and items from a model reply.
// The reply may be wrapped in a markdown code fence or surrounded by prose.
// Items are trimmed, de-duplicated and capped at GeneratedItems.
func ParseReply(content string) (string, []memory.Token, error) {
	body := extractJSON(content)
	if body == "" {
		return "", nil, ErrEmptyReply
	}
	if !gjson.Valid(body) {
		return "", nil, fmt.Errorf("theme: reply is not valid JSON")
	}

	doc := gjson.Parse(body)
	name := strings.TrimSpace(doc.Get("themeName").String())
	if name == "" {
		name = strings.TrimSpace(doc.Get("name").String())
	}
	if name == "" {
		return "", nil, fmt.Errorf("theme: reply has no theme name")
	}

	list := doc.Get("items")
	if !list.IsArray() {
		return "", nil, fmt.Errorf("theme: reply has no items")
	}
	var raw []memory.Token
	list.ForEach(func(_, v gjson.Result) bool {
		raw = append(raw, memory.Token(strings.TrimSpace(v.String())))
		return true
	})

	items := memory.DistinctTokens(raw)
	if len(items) > GeneratedItems {
		items = items[:GeneratedItems]
	}
	if len(items) < config.MinThemeItems {
		return "", nil, fmt.Errorf("theme: reply has %d usable items", len(items))
	}
	return name, items, nil
}

func extractJSON(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line, with or without a language tag.
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	if gjson.Valid(s) {
		return s
	}
	start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
