// Package config loads runtime settings from the environment. A .env
// file in the working directory is honoured for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the settings shared by every front end. World path, save
// directory and mode come from command-line flags instead; only ambient
// service settings live in the environment.
type Config struct {
	LogLevel   string `envconfig:"SLORK_LOG_LEVEL" default:"info"`
	ListenAddr string `envconfig:"SLORK_LISTEN_ADDR" default:":8080"`
	AssetsDir  string `envconfig:"SLORK_ASSETS_DIR" default:"assets"`

	AIBackend string        `envconfig:"SLORK_AI_BACKEND" default:"ollama"`
	AIModel   string        `envconfig:"SLORK_AI_MODEL"`
	AITimeout time.Duration `envconfig:"SLORK_AI_TIMEOUT" default:"60s"`

	// Secret, read from the conventional variable rather than a
	// SLORK-prefixed one.
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	ImageModel   string `envconfig:"SLORK_AI_IMAGE_MODEL"`
	ImageSize    string `envconfig:"SLORK_AI_IMAGE_SIZE"`
	ImageQuality string `envconfig:"SLORK_AI_IMAGE_QUALITY"`

	OllamaURL string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
}

// Load reads the configuration from the environment, preceded by a
// best-effort .env load.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return &cfg, nil
}
