package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// ollamaClient talks to a local Ollama server via its native API.
// Ollama offers no image endpoint, so it exposes no generator.
type ollamaClient struct {
	client *api.Client
	model  string
}

func newOllamaClient(cfg Config) (*ollamaClient, error) {
	base := strings.TrimSuffix(cfg.OllamaURL, "/")
	if base == "" {
		base = "http://localhost:11434"
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama url %q: %w", base, err)
	}

	return &ollamaClient{
		client: api.NewClient(parsed, &http.Client{Timeout: cfg.Timeout}),
		model:  cfg.Model,
	}, nil
}

func (c *ollamaClient) Chat(ctx context.Context, messages []Message) (Message, error) {
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: make([]api.Message, 0, len(messages)),
		Stream:   new(bool), // single response, no streaming
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, api.Message{Role: m.Role, Content: m.Content})
	}

	var last api.ChatResponse
	err := c.client.Chat(ctx, req, func(r api.ChatResponse) error {
		last = r
		return nil
	})
	if err != nil {
		return Message{}, fmt.Errorf("ollama chat: %w", err)
	}
	if last.Message.Content == "" {
		return Message{}, errors.New("ollama chat: response has no content")
	}
	return Message{Role: last.Message.Role, Content: last.Message.Content}, nil
}

func (c *ollamaClient) ImageGenerator() (ImageGenerator, bool) {
	return nil, false
}
