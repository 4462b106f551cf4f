package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slorkgame/slork/ai"
	"github.com/slorkgame/slork/cli"
	"github.com/slorkgame/slork/engine"
	"github.com/slorkgame/slork/loader"
	"github.com/slorkgame/slork/tui"
)

// NewPlayCmd creates the play subcommand.
func NewPlayCmd() *cobra.Command {
	var plain bool
	var withAI bool

	cmd := &cobra.Command{
		Use:   "play <world>",
		Short: "Play a world in the terminal",
		Long: `Load a world and start an interactive session. The full-screen
terminal UI is used when stdout is a terminal; otherwise (or with
--plain) a line-oriented loop reads commands from stdin, which also
makes scripted playthroughs work:

  slork play worlds/valley.yaml < walkthrough.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			world, err := loader.Load(args[0])
			if err != nil {
				return fmt.Errorf("loading world: %w", err)
			}

			game := engine.New(world)
			var handler engine.CommandHandler = game
			if withAI {
				if client := buildAIClient(); client != nil {
					handler = ai.NewEngine(game, client)
				}
			}

			if plain || !isTerminal() {
				c := cli.New(handler, game)
				c.Run()
				return nil
			}
			return tui.Run(handler, game)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "line-oriented output instead of the full-screen UI")
	cmd.Flags().BoolVar(&withAI, "ai", false, "translate free-text input with the configured AI backend")

	return cmd
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
