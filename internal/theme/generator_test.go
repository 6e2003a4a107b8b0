package theme

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/mindflip/internal/memory"
)

var testFallback = Theme{ID: "fallback", Name: "Fruit Salad (Fallback)", Items: []memory.Token{"🍎", "🍌", "🍇"}}

// fakeCompletions serves a canned chat completion reply.
func fakeCompletions(t *testing.T, status int, content string, delay time.Duration) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "Deep Sea") {
			t.Errorf("request does not carry the prompt: %s", body)
		}

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testGenerator(baseURL string, timeout time.Duration) *AIGenerator {
	return NewAIGenerator(GeneratorConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "test-model",
		Timeout:    timeout,
		MaxRetries: 0,
	}, testFallback, nil)
}

func TestAIGeneratorSuccess(t *testing.T) {
	reply := "```json\n{\"themeName\": \"Under the Sea\", \"items\": [\"🐙\", \"🦀\", \" 🐠 \", \"🦀\", \"🐳\"]}\n```"
	srv, calls := fakeCompletions(t, http.StatusOK, reply, 0)

	got := testGenerator(srv.URL, 5*time.Second).Generate(context.Background(), "Deep Sea")

	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
	if got.ID != GeneratedID || got.Name != "Under the Sea" {
		t.Errorf("theme = %+v", got)
	}
	want := []memory.Token{"🐙", "🦀", "🐠", "🐳"}
	if len(got.Items) != len(want) {
		t.Fatalf("items = %v, want %v", got.Items, want)
	}
	for i := range want {
		if got.Items[i] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, got.Items[i], want[i])
		}
	}
}

func TestAIGeneratorFallback(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
		delay   time.Duration
	}{
		{"server error", http.StatusInternalServerError, "", 0},
		{"empty reply", http.StatusOK, "", 0},
		{"not json", http.StatusOK, "Here are some sea creatures!", 0},
		{"missing items", http.StatusOK, `{"themeName": "Sea"}`, 0},
		{"missing name", http.StatusOK, `{"items": ["a", "b", "c"]}`, 0},
		{"too few items", http.StatusOK, `{"themeName": "Sea", "items": ["a", "a", ""]}`, 0},
		{"timeout", http.StatusOK, `{"themeName": "Sea", "items": ["a", "b"]}`, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeCompletions(t, tt.status, tt.content, tt.delay)

			got := testGenerator(srv.URL, 100*time.Millisecond).Generate(context.Background(), "Deep Sea")

			if got.Name != testFallback.Name || len(got.Items) != len(testFallback.Items) {
				t.Errorf("Generate() = %+v, want fallback", got)
			}
		})
	}
}

func TestAIGeneratorWithoutKeySkipsNetwork(t *testing.T) {
	srv, calls := fakeCompletions(t, http.StatusOK, `{"themeName": "Sea", "items": ["a", "b"]}`, 0)

	g := NewAIGenerator(GeneratorConfig{BaseURL: srv.URL}, testFallback, nil)
	got := g.Generate(context.Background(), "Deep Sea")

	if got.Name != testFallback.Name {
		t.Errorf("Generate() = %+v, want fallback", got)
	}
	if calls.Load() != 0 {
		t.Errorf("server called %d times without an API key", calls.Load())
	}

	if got := g.Generate(context.Background(), "   "); got.Name != testFallback.Name {
		t.Errorf("blank prompt should give the fallback, got %+v", got)
	}
}

func TestParseReply(t *testing.T) {
	twenty := make([]string, 20)
	for i := range twenty {
		twenty[i] = `"` + string(rune('a'+i)) + `"`
	}

	tests := []struct {
		name      string
		content   string
		wantName  string
		wantItems int
		wantErr   bool
	}{
		{"plain", `{"themeName": "Space", "items": ["🚀", "🪐"]}`, "Space", 2, false},
		{"fence without tag", "```\n{\"themeName\": \"Space\", \"items\": [\"🚀\", \"🪐\"]}\n```", "Space", 2, false},
		{"surrounded by prose", `Sure! {"themeName": "Space", "items": ["🚀", "🪐", "👽"]} Enjoy.`, "Space", 3, false},
		{"name key", `{"name": "Space", "items": ["🚀", "🪐"]}`, "Space", 2, false},
		{"capped", `{"themeName": "Letters", "items": [` + strings.Join(twenty, ",") + `]}`, "Letters", GeneratedItems, false},
		{"empty", "  ", "", 0, true},
		{"items not array", `{"themeName": "Space", "items": "🚀"}`, "", 0, true},
		{"broken json", `{"themeName": "Space", "items": [`, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, items, err := ParseReply(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseReply() = %q, %v; want error", name, items)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReply() failed: %v", err)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if len(items) != tt.wantItems {
				t.Errorf("got %d items, want %d", len(items), tt.wantItems)
			}
		})
	}

	if _, _, err := ParseReply(""); !errors.Is(err, ErrEmptyReply) {
		t.Errorf("ParseReply(\"\") = %v, want ErrEmptyReply", err)
	}
}

func TestLoadGeneratorConfig(t *testing.T) {
	t.Setenv("MINDFLIP_AI_API_KEY", "sk-test")
	t.Setenv("MINDFLIP_AI_TIMEOUT", "3s")

	cfg, err := LoadGeneratorConfig()
	if err != nil {
		t.Fatalf("LoadGeneratorConfig() failed: %v", err)
	}
	if cfg.APIKey != "sk-test" || !cfg.Enabled() {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.Timeout)
	}
	if cfg.Model != "gpt-4o-mini" || cfg.MaxRetries != 1 {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	t.Setenv("MINDFLIP_AI_MAX_RETRIES", "many")
	if _, err := LoadGeneratorConfig(); err == nil {
		t.Error("bad MINDFLIP_AI_MAX_RETRIES should fail")
	}
}
