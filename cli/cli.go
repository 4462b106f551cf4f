// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Slork game engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/slorkgame/slork/engine"
	"github.com/slorkgame/slork/engine/save"
	"github.com/slorkgame/slork/engine/state"
	"github.com/slorkgame/slork/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Handler engine.CommandHandler // player-facing engine, possibly AI-wrapped
	Game    *engine.Engine        // owns the session state
	In      io.Reader
	Out     io.Writer
	SaveDir string
	lastCmd string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine. handler routes player
// commands and may be the engine itself or an AI wrapper around it.
func New(handler engine.CommandHandler, game *engine.Engine) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Handler: handler,
		Game:    game,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".slork", "saves"),
	}
}

// Run starts the game loop. It shows the intro, describes the starting
// location, then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	if intro := c.Game.Intro(); intro != "" {
		c.printLine(intro)
		c.printLine("")
	}

	c.printResult(c.Handler.DescribeCurrentLocation(false))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else if !c.Game.InDialog() {
			// Dialog replies are not worth repeating.
			c.lastCmd = input
		}

		c.printResult(c.Handler.HandleRawCommand(input))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(c.Game.State, c.Game.World)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	restored := state.New(c.Game.World)
	save.ApplySave(restored, sd)
	c.Game.ReplaceState(restored)
	c.printSystem(fmt.Sprintf("Game loaded from %s.", name))

	// Show current location after loading.
	c.printResult(c.Handler.DescribeCurrentLocation(false))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"",
		"Game commands:",
		"  look (l)              — Describe the location",
		"  examine <thing> (x)   — Look closely at something",
		"  go <dir>              — Move (or just type n/s/e/w/u/d)",
		"  take/get <item>       — Pick something up",
		"  drop <item>           — Put something down",
		"  use <item> on <thing> — Use an item on something",
		"  open / close          — Open or close something",
		"  talk to <npc>         — Talk to someone",
		"  give <item> to <npc>  — Give an item to someone",
		"  inventory (i)         — Check what you're carrying",
		"  again (g)             — Repeat your last command",
		"",
		"In a conversation, type one of the offered reply keywords.",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Game.State
	c.printSystem(fmt.Sprintf("Location: %s", s.Location))
	c.printSystem(fmt.Sprintf("Inventory: %v", s.Inventory))
	flags := make([]string, 0, len(s.Flags))
	for flag, set := range s.Flags {
		if set {
			flags = append(flags, flag)
		}
	}
	if len(flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", flags))
	}
	if companions := s.CompanionIDs(); len(companions) > 0 {
		c.printSystem(fmt.Sprintf("Companions: %v", companions))
	}
}

func (c *CLI) printResult(result types.ActionResult) {
	if result.Message != "" {
		c.printLine(result.Message)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
