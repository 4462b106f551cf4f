package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/slorkgame/slork/engine"
	"github.com/slorkgame/slork/types"
)

func testWorld() *types.World {
	return &types.World{
		Header: types.Header{
			Title: "Test World",
			Start: "field",
			Intro: "You wake in a field.",
		},
		Items: map[string]types.Item{
			"torch": {Name: "torch", Description: "A torch.", Portable: true},
		},
		Locations: map[string]types.Location{
			"field": {
				Name:        "Field",
				Description: "An open field.",
				Items:       []string{"torch"},
				Exits:       map[string]types.Exit{"north": {To: "field"}},
			},
		},
	}
}

// runScript feeds input lines to a fresh CLI and returns everything it
// printed.
func runScript(t *testing.T, lines ...string) (string, *engine.Engine) {
	t.Helper()
	game := engine.New(testWorld())
	var out bytes.Buffer
	c := New(game, game)
	c.In = strings.NewReader(strings.Join(lines, "\n") + "\n")
	c.Out = &out
	c.SaveDir = t.TempDir()
	c.Run()
	return out.String(), game
}

func TestRunShowsIntroAndScene(t *testing.T) {
	out, _ := runScript(t, "/quit")
	for _, want := range []string{"You wake in a field.", "An open field.", "Goodbye."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGameCommands(t *testing.T) {
	out, game := runScript(t, "take torch", "i", "/quit")
	if !strings.Contains(out, "You took the torch.") {
		t.Errorf("take output missing:\n%s", out)
	}
	if !game.State.HasItem("torch") {
		t.Error("command did not reach the engine")
	}
}

func TestAgainRepeatsLastCommand(t *testing.T) {
	// "again" repeats "take torch"; the torch is already carried, so the
	// repeat fails to find it in the location.
	out, _ := runScript(t, "take torch", "again", "/quit")
	if !strings.Contains(out, "There is no torch here.") {
		t.Errorf("repeat output missing:\n%s", out)
	}

	out, _ = runScript(t, "g", "/quit")
	if !strings.Contains(out, "Nothing to repeat.") {
		t.Errorf("empty repeat output:\n%s", out)
	}
}

func TestSaveAndLoad(t *testing.T) {
	game := engine.New(testWorld())
	var out bytes.Buffer
	c := New(game, game)
	c.In = strings.NewReader("take torch\n/save slot1\ndrop torch\n/load slot1\n/quit\n")
	c.Out = &out
	c.SaveDir = t.TempDir()
	c.Run()

	if !strings.Contains(out.String(), "Game saved to slot1.") {
		t.Errorf("save output missing:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Game loaded from slot1.") {
		t.Errorf("load output missing:\n%s", out.String())
	}
	if !game.State.HasItem("torch") {
		t.Error("loaded state missing saved inventory")
	}
}

func TestLoadMissingSave(t *testing.T) {
	out, _ := runScript(t, "/load ghost", "/quit")
	if !strings.Contains(out, "Load failed") {
		t.Errorf("output missing load failure:\n%s", out)
	}
}

func TestHelpAndUnknownMeta(t *testing.T) {
	out, _ := runScript(t, "/help", "/frob", "/quit")
	if !strings.Contains(out, "/save [name]") {
		t.Errorf("help output missing:\n%s", out)
	}
	if !strings.Contains(out, "Unknown command: /frob") {
		t.Errorf("unknown meta output missing:\n%s", out)
	}
}

func TestCommentLinesSkipped(t *testing.T) {
	out, game := runScript(t, "# script header", "take torch", "/quit")
	if strings.Contains(out, "Unknown verb") {
		t.Errorf("comment line reached the parser:\n%s", out)
	}
	if !game.State.HasItem("torch") {
		t.Error("command after comment not executed")
	}
}
