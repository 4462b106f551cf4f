// Package ai provides optional language-model collaborators: chat clients
// for free-text command translation and image generation for scene art.
// The deterministic engine never calls into this package; the dependency
// runs strictly the other way.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Str("component", "ai").Logger()

// Message roles understood by every backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a backend-neutral chat message.
type Message struct {
	Role    string
	Content string
}

// Client generates chat responses from a message sequence. Backends that
// can also render images expose a generator.
type Client interface {
	Chat(ctx context.Context, messages []Message) (Message, error)
	ImageGenerator() (ImageGenerator, bool)
}

// ImageGenerator renders a PNG for a prompt and writes it to path.
type ImageGenerator interface {
	GeneratePNG(ctx context.Context, prompt, path string) error
}

// ErrNotConfigured indicates required AI settings are missing. Callers
// treat it as "continue without AI", not as a fatal error.
var ErrNotConfigured = errors.New("ai backend not configured")

// Config selects and parameterizes a backend.
type Config struct {
	Backend string // "openai" or "ollama"
	Model   string
	Timeout time.Duration

	// OpenAI settings.
	APIKey       string
	ImageModel   string
	ImageSize    string
	ImageQuality string

	// Ollama settings.
	OllamaURL string
}

// NewClient builds the configured backend.
func NewClient(cfg Config) (Client, error) {
	if cfg.Model == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	switch cfg.Backend {
	case "openai":
		return newOpenAIClient(cfg)
	case "ollama":
		return newOllamaClient(cfg)
	}
	return nil, fmt.Errorf("unknown ai backend %q", cfg.Backend)
}
