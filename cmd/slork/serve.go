package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/slorkgame/slork/ai"
	"github.com/slorkgame/slork/engine"
	"github.com/slorkgame/slork/images"
	"github.com/slorkgame/slork/loader"
	"github.com/slorkgame/slork/web"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var addr string
	var saveDir string
	var withAI bool

	cmd := &cobra.Command{
		Use:   "serve <world>",
		Short: "Serve a single game session over HTTP",
		Long: `Load a world and expose one session as a JSON API. Scene art is
served from the assets directory; with an image-capable AI backend,
missing art is generated on first request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			world, err := loader.Load(args[0])
			if err != nil {
				return fmt.Errorf("loading world: %w", err)
			}

			game := engine.New(world)
			var handler engine.CommandHandler = game
			var client ai.Client
			if withAI {
				if client = buildAIClient(); client != nil {
					handler = ai.NewEngine(game, client)
				}
			}

			imageService, err := images.NewService(cfg.AssetsDir, world, client)
			if err != nil {
				return fmt.Errorf("preparing image service: %w", err)
			}

			if addr == "" {
				addr = cfg.ListenAddr
			}
			if saveDir == "" {
				home, _ := os.UserHomeDir()
				saveDir = filepath.Join(home, ".slork", "saves")
			}

			server := web.New(handler, game, imageService, saveDir)
			return server.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from SLORK_LISTEN_ADDR)")
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "save slot directory (default ~/.slork/saves)")
	cmd.Flags().BoolVar(&withAI, "ai", false, "translate free-text input with the configured AI backend")

	return cmd
}
