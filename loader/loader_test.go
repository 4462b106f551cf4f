package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/slorkgame/slork/types"
)

const testLuaWorld = `
Game {
	title = "Test World",
	start = "clearing",
	intro = "You wake in a forest.",
	inventory = { "map" },
	companions = { "dog" },
	flags = { "door_open", "met_hermit" },
}

Location "clearing" {
	name = "Clearing",
	description = "A sunlit clearing.",
	items = { "torch", "door" },
	exits = {
		north = Exit {
			to = "cave",
			criteria = Criteria { requires_flags = { "door_open" } },
			blocked = "An iron door bars the way.",
		},
		south = "hut",
	},
}

Location "cave" {
	name = "Cave",
	description = "A damp cave.",
	exits = { south = "clearing" },
}

Location "hut" {
	name = "Hut",
	description = "A tiny hut.",
	items = { "hermit" },
	exits = { north = "clearing" },
}

Item "map" {
	name = "map",
	description = "A crude map.",
}

Item "torch" {
	name = "torch",
	description = "A pitch-soaked torch.",
	aliases = { "flame" },
	location_description = Conditional {
		Clause("The torch gutters in the wind.", Criteria { requires_flags = { "door_open" } }),
		"A torch lies on the grass.",
	},
}

Item "door" {
	name = "door",
	description = "A heavy iron door.",
	portable = false,
}

NPC "dog" {
	name = "dog",
	description = "A loyal dog.",
}

NPC "hermit" {
	name = "hermit",
	description = "A hermit watches you.",
	persona = "A reclusive old man.",
	quest_hook = "Knows how to open the iron door.",
	sample_lines = { "Hrm.", "Leave me be." },
	dialog = Node {
		npc = '"Welcome, traveller."',
		effect = Effect { set = { "met_hermit" } },
		responses = {
			Response("quest", Node { npc = '"Open the iron door."' }),
			Response("leave", Node { npc = '"Farewell."' }),
		},
	},
}

Interaction "unlock_door" {
	verb = "use",
	item = "map",
	target = "door",
	effect = Effect { set = { "door_open" } },
	message = "The door creaks open.",
	consumes = true,
}
`

func loadTestWorld(t *testing.T) *types.World {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "world.lua")
	if err := os.WriteFile(path, []byte(testLuaWorld), 0o644); err != nil {
		t.Fatal(err)
	}
	world, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return world
}

func TestLoadLuaHeader(t *testing.T) {
	world := loadTestWorld(t)

	h := world.Header
	if h.Title != "Test World" || h.Start != "clearing" {
		t.Errorf("header = %+v", h)
	}
	if len(h.InitialInventory) != 1 || h.InitialInventory[0] != "map" {
		t.Errorf("inventory = %v", h.InitialInventory)
	}
	if len(h.InitialCompanions) != 1 || h.InitialCompanions[0] != "dog" {
		t.Errorf("companions = %v", h.InitialCompanions)
	}
	if len(world.Flags) != 2 {
		t.Errorf("flags = %v", world.Flags)
	}
}

func TestLoadLuaItems(t *testing.T) {
	world := loadTestWorld(t)

	torch := world.Items["torch"]
	if !torch.Portable {
		t.Error("items default to portable")
	}
	if len(torch.Aliases) != 1 || torch.Aliases[0] != "flame" {
		t.Errorf("aliases = %v", torch.Aliases)
	}
	conditional, ok := torch.LocationDescription.(types.ConditionalText)
	if !ok {
		t.Fatalf("location description = %T", torch.LocationDescription)
	}
	if len(conditional) != 2 || conditional[0].Criteria == nil || conditional[1].Criteria != nil {
		t.Errorf("conditional clauses = %+v", conditional)
	}

	if world.Items["door"].Portable {
		t.Error("portable = false not honoured")
	}
}

func TestLoadLuaExits(t *testing.T) {
	world := loadTestWorld(t)

	clearing := world.Locations["clearing"]
	north := clearing.Exits["north"]
	if north.To != "cave" || north.Criteria == nil || north.BlockedDescription == nil {
		t.Errorf("north exit = %+v", north)
	}
	if south := clearing.Exits["south"]; south.To != "hut" {
		t.Errorf("shorthand exit = %+v", south)
	}
}

func TestLoadLuaNPCs(t *testing.T) {
	world := loadTestWorld(t)

	// NPCs are also items, for presence and noun resolution.
	hermitItem, ok := world.Items["hermit"]
	if !ok {
		t.Fatal("npc has no item entry")
	}
	if hermitItem.Portable {
		t.Error("npc item entries must not be portable")
	}

	hermit := world.NPCs["hermit"]
	root, ok := hermit.Dialog.(*types.DialogNode)
	if !ok {
		t.Fatalf("dialog = %T", hermit.Dialog)
	}
	if root.Effect == nil || len(root.Effect.SetFlags) != 1 {
		t.Errorf("dialog effect = %+v", root.Effect)
	}
	if len(root.Responses) != 2 || root.Responses[0].Keyword != "quest" || root.Responses[1].Keyword != "leave" {
		t.Errorf("responses out of order: %+v", root.Responses)
	}
}

func TestLoadLuaInteractions(t *testing.T) {
	world := loadTestWorld(t)

	if len(world.Interactions) != 1 {
		t.Fatalf("interactions = %+v", world.Interactions)
	}
	in := world.Interactions[0]
	if in.ID != "unlock_door" || in.Verb != "use" || in.Item != "map" || in.Target != "door" {
		t.Errorf("interaction = %+v", in)
	}
	if !in.Consumes || in.Repeatable {
		t.Errorf("interaction flags = %+v", in)
	}
	if in.Message != types.PlainText("The door creaks open.") {
		t.Errorf("message = %v", in.Message)
	}
}

func TestLoadRejectsMissingGame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.lua")
	if err := os.WriteFile(path, []byte(`Location "a" { name = "A" }`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("world without Game{} should fail to load")
	}
}

func TestLoadRejectsBrokenLua(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.lua")
	if err := os.WriteFile(path, []byte(`Game { title = `), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("syntax error should fail to load")
	}
}

func TestLoadSandboxBlocksIO(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.lua")
	script := `Game { title = "t", start = "s" }` + "\n" + `dofile("other.lua")`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("sandboxed VM should not expose dofile")
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"zebra.lua", "world.lua", "alpha.lua"})
	want := []string{"world.lua", "alpha.lua", "zebra.lua"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sortedLuaFiles = %v, want %v", got, want)
		}
	}
}
