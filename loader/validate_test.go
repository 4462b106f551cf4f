package loader

import (
	"strings"
	"testing"

	"github.com/slorkgame/slork/types"
)

// validWorld builds a minimal world that passes every check.
func validWorld() *types.World {
	return &types.World{
		Header: types.Header{Title: "Test", Start: "a"},
		Items: map[string]types.Item{
			"gem": {Name: "gem", Portable: true},
		},
		Locations: map[string]types.Location{
			"a": {
				Name:  "A",
				Items: []string{"gem"},
				Exits: map[string]types.Exit{"north": {To: "b"}},
			},
			"b": {
				Name:  "B",
				Exits: map[string]types.Exit{"south": {To: "a"}},
			},
		},
		NPCs: map[string]types.NPC{},
		Interactions: []types.Interaction{
			{ID: "rub", Verb: "use", Item: "gem", Message: types.PlainText("It glows.")},
		},
	}
}

func hasIssue(issues []string, substr string) bool {
	for _, issue := range issues {
		if strings.Contains(issue, substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanWorld(t *testing.T) {
	if issues := Validate(validWorld()); len(issues) != 0 {
		t.Errorf("clean world reported issues: %v", issues)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.World)
		want   string
	}{
		{
			name:   "missing title",
			mutate: func(w *types.World) { w.Header.Title = "" },
			want:   "title is required",
		},
		{
			name:   "undefined start",
			mutate: func(w *types.World) { w.Header.Start = "void" },
			want:   `start location "void" is not defined`,
		},
		{
			name:   "undefined inventory item",
			mutate: func(w *types.World) { w.Header.InitialInventory = []string{"ghost"} },
			want:   `undefined item "ghost"`,
		},
		{
			name: "non-portable inventory item",
			mutate: func(w *types.World) {
				w.Items["anvil"] = types.Item{Name: "anvil"}
				w.Header.InitialInventory = []string{"anvil"}
			},
			want: `"anvil" is not portable`,
		},
		{
			name: "item placed twice",
			mutate: func(w *types.World) {
				b := w.Locations["b"]
				b.Items = []string{"gem"}
				w.Locations["b"] = b
			},
			want: `item "gem" is placed in both`,
		},
		{
			name: "location without exits",
			mutate: func(w *types.World) {
				b := w.Locations["b"]
				b.Exits = nil
				w.Locations["b"] = b
			},
			want: `location "b" has no exits`,
		},
		{
			name: "exit to undefined location",
			mutate: func(w *types.World) {
				w.Locations["a"].Exits["east"] = types.Exit{To: "nowhere"}
			},
			want: "nowhere",
		},
		{
			name: "gated exit without blocked description",
			mutate: func(w *types.World) {
				w.Locations["a"].Exits["east"] = types.Exit{
					To:       "b",
					Criteria: &types.Criteria{RequiresInventory: []string{"gem"}},
				}
			},
			want: "criteria and blocked description together",
		},
		{
			name: "interaction with built-in verb",
			mutate: func(w *types.World) {
				w.Interactions[0].Verb = "take"
			},
			want: `built-in verb "take"`,
		},
		{
			name: "interaction with unknown verb",
			mutate: func(w *types.World) {
				w.Interactions[0].Verb = "frobnicate"
			},
			want: `unknown verb "frobnicate"`,
		},
		{
			name: "target on verb that takes none",
			mutate: func(w *types.World) {
				w.Interactions[0].Verb = "open"
				w.Interactions[0].Target = "gem"
			},
			want: "declares a target",
		},
		{
			name: "interaction with message and dialog",
			mutate: func(w *types.World) {
				w.Interactions[0].Dialog = &types.DialogNode{NPCNarrative: types.PlainText("x")}
			},
			want: "exactly one of message or dialog",
		},
		{
			name: "interaction with neither message nor dialog",
			mutate: func(w *types.World) {
				w.Interactions[0].Message = nil
			},
			want: "exactly one of message or dialog",
		},
		{
			name: "undeclared flag in effect",
			mutate: func(w *types.World) {
				w.Interactions[0].Effect = &types.Effect{SetFlags: []string{"mystery"}}
			},
			want: `undeclared flag "mystery"`,
		},
		{
			name: "final clause with criteria",
			mutate: func(w *types.World) {
				w.Flags = []string{"lit"}
				w.Interactions[0].Message = types.ConditionalText{
					{Text: "It glows.", Criteria: &types.Criteria{RequiresFlags: []string{"lit"}}},
				}
			},
			want: "final clause must be the unconditional fallback",
		},
		{
			name: "non-final clause without criteria",
			mutate: func(w *types.World) {
				w.Interactions[0].Message = types.ConditionalText{
					{Text: "Always."},
					{Text: "Never reached."},
				}
			},
			want: "later clauses unreachable",
		},
		{
			name: "internal node without jump target",
			mutate: func(w *types.World) {
				w.NPCs["sage"] = types.NPC{Dialog: &types.DialogNode{
					NPCNarrative: types.PlainText("x"),
					Internal:     true,
				}}
				w.Items["sage"] = types.Item{Name: "sage"}
				b := w.Locations["b"]
				b.Items = []string{"sage"}
				w.Locations["b"] = b
			},
			want: "internal node without a jump target",
		},
		{
			name: "node with jump and responses",
			mutate: func(w *types.World) {
				child := &types.DialogNode{NPCNarrative: types.PlainText("y"), JumpTarget: "end"}
				w.Interactions[0].Message = nil
				w.Interactions[0].Dialog = &types.DialogNode{
					NPCNarrative: types.PlainText("x"),
					Jump:         types.PlainText("end"),
					Responses:    []types.DialogResponse{{Keyword: "more", Node: child}},
				}
			},
			want: "both jump and responses",
		},
		{
			name: "duplicate jump target",
			mutate: func(w *types.World) {
				w.Interactions[0].Message = nil
				w.Interactions[0].Dialog = &types.DialogNode{
					NPCNarrative: types.PlainText("x"),
					Jump:         types.PlainText("end"),
					Responses:    nil,
				}
				w.NPCs["sage"] = types.NPC{Dialog: &types.DialogNode{
					NPCNarrative: types.PlainText("root"),
					Responses: []types.DialogResponse{
						{Keyword: "a", Node: &types.DialogNode{NPCNarrative: types.PlainText("a"), JumpTarget: "end"}},
						{Keyword: "b", Node: &types.DialogNode{NPCNarrative: types.PlainText("b"), JumpTarget: "end"}},
					},
				}}
				w.Items["sage"] = types.Item{Name: "sage"}
				b := w.Locations["b"]
				b.Items = []string{"sage"}
				w.Locations["b"] = b
			},
			want: `duplicate jump target "end"`,
		},
		{
			name: "dangling jump",
			mutate: func(w *types.World) {
				w.Interactions[0].Message = nil
				w.Interactions[0].Dialog = &types.DialogNode{
					NPCNarrative: types.PlainText("x"),
					Jump:         types.PlainText("nowhere_node"),
				}
			},
			want: `jump references undeclared target "nowhere_node"`,
		},
		{
			name: "unreferenced jump target",
			mutate: func(w *types.World) {
				w.Interactions[0].Message = nil
				w.Interactions[0].Dialog = &types.DialogNode{
					NPCNarrative: types.PlainText("x"),
					JumpTarget:   "orphan",
				}
			},
			want: `jump target "orphan" is never referenced`,
		},
		{
			name: "unreferenced flag",
			mutate: func(w *types.World) {
				w.Flags = []string{"unused"}
			},
			want: `flag "unused" is declared but never referenced`,
		},
		{
			name: "unreferenced item",
			mutate: func(w *types.World) {
				w.Items["dust"] = types.Item{Name: "dust"}
			},
			want: `item "dust" is declared but never referenced`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := validWorld()
			tt.mutate(world)
			issues := Validate(world)
			if !hasIssue(issues, tt.want) {
				t.Errorf("issues missing %q:\n%s", tt.want, strings.Join(issues, "\n"))
			}
		})
	}
}

func TestValidateReachability(t *testing.T) {
	world := validWorld()
	world.Locations["vault"] = types.Location{
		Name:  "Vault",
		Exits: map[string]types.Exit{"out": {To: "a"}},
	}

	issues := Validate(world)
	if !hasIssue(issues, "Unreachable locations: vault.") {
		t.Errorf("issues missing unreachable report:\n%s", strings.Join(issues, "\n"))
	}
}

func TestValidateAccumulates(t *testing.T) {
	world := validWorld()
	world.Header.Title = ""
	world.Header.Start = "void"
	world.Interactions[0].Verb = "frobnicate"

	issues := Validate(world)
	if len(issues) < 3 {
		t.Errorf("checks should accumulate, got %v", issues)
	}
}
