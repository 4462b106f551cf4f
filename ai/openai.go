package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// openAIClient talks to the OpenAI chat and image APIs.
type openAIClient struct {
	client *openai.Client
	cfg    Config
}

func newOpenAIClient(cfg Config) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing OPENAI_API_KEY", ErrNotConfigured)
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = openai.CreateImageModelDallE3
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = openai.CreateImageSize1024x1024
	}
	return &openAIClient{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
	}, nil
}

func (c *openAIClient) Chat(ctx context.Context, messages []Message) (Message, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Message{}, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Message{}, errors.New("openai chat: response has no content")
	}

	msg := resp.Choices[0].Message
	return Message{Role: msg.Role, Content: msg.Content}, nil
}

func (c *openAIClient) ImageGenerator() (ImageGenerator, bool) {
	return c, true
}

// GeneratePNG renders one image and writes it to path.
func (c *openAIClient) GeneratePNG(ctx context.Context, prompt, path string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.cfg.ImageModel,
		Size:           c.cfg.ImageSize,
		Quality:        c.cfg.ImageQuality,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	}
	resp, err := c.client.CreateImage(ctx, req)
	if err != nil {
		return fmt.Errorf("openai image: %w", err)
	}
	if len(resp.Data) == 0 {
		return errors.New("openai image: response has no data")
	}

	png, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return fmt.Errorf("openai image: decoding payload: %w", err)
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("writing image %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("image generated")
	return nil
}
