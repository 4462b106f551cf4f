package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slorkgame/slork/loader"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <world>",
		Short: "Check world content without starting a game",
		Long: `Parse a world and run the referential integrity checks, printing
every issue found. Exits with code 0 on a clean world, non-zero
otherwise.

Useful in CI pipelines to catch content errors early:
  slork validate worlds/valley.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := loader.Parse(args[0])
			if err != nil {
				return err
			}

			issues := loader.Validate(world)
			for _, issue := range issues {
				cmd.Println(issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("validation failed: %d issue(s) in %s", len(issues), args[0])
			}

			cmd.Printf("%s: ok\n", args[0])
			return nil
		},
	}
}
