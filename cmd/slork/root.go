package main

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/slorkgame/slork/ai"
	"github.com/slorkgame/slork/config"
)

// Runtime configuration, loaded once before any subcommand runs.
var cfg *config.Config

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Str("component", "slork").Logger()

// NewRootCmd creates the root command for the Slork CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slork",
		Short: "Slork - a deterministic interactive fiction engine",
		Long: `Slork runs data-driven text adventures authored as YAML documents
or Lua scripts. Play in the terminal, serve a session over HTTP, or
validate world content without starting a game.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}

			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},
	}

	cmd.AddCommand(NewPlayCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewValidateCmd())

	return cmd
}

// buildAIClient creates the configured chat backend. A missing
// configuration is not fatal: the game falls back to the strict parser.
func buildAIClient() ai.Client {
	client, err := ai.NewClient(ai.Config{
		Backend:      cfg.AIBackend,
		Model:        cfg.AIModel,
		Timeout:      cfg.AITimeout,
		APIKey:       cfg.OpenAIAPIKey,
		ImageModel:   cfg.ImageModel,
		ImageSize:    cfg.ImageSize,
		ImageQuality: cfg.ImageQuality,
		OllamaURL:    cfg.OllamaURL,
	})
	if errors.Is(err, ai.ErrNotConfigured) {
		log.Warn().Msg("ai backend not configured, continuing without it")
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("ai backend unavailable, continuing without it")
		return nil
	}
	return client
}
