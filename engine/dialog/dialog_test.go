package dialog

import (
	"reflect"
	"testing"

	"github.com/slorkgame/slork/engine/state"
	"github.com/slorkgame/slork/types"
)

func newTestState() *state.State {
	return &state.State{
		Location:      "hut",
		Inventory:     []string{},
		Flags:         map[string]bool{},
		Companions:    map[string]bool{},
		LocationItems: map[string][]string{"hut": {}},
		Completed:     map[string]bool{},
	}
}

func TestEnterAppliesEffectAndNarratives(t *testing.T) {
	s := newTestState()
	node := &types.DialogNode{
		PlayerNarrative: types.PlainText("You clear your throat."),
		NPCNarrative:    types.PlainText("\"Welcome, traveller.\""),
		Effect:          &types.Effect{SetFlags: []string{"met_hermit"}},
		Responses: []types.DialogResponse{
			{Keyword: "quest", Node: &types.DialogNode{NPCNarrative: types.PlainText("\"Find my goat.\"")}},
			{Keyword: "leave", Node: &types.DialogNode{NPCNarrative: types.PlainText("\"Farewell.\"")}},
		},
	}

	step := Enter(node, s, nil)

	if !s.HasFlag("met_hermit") {
		t.Error("entry effect not applied")
	}
	want := "You clear your throat.\n\"Welcome, traveller.\""
	if step.Message != want {
		t.Errorf("Message = %q, want %q", step.Message, want)
	}
	if !reflect.DeepEqual(step.Responses, []string{"quest", "leave"}) {
		t.Errorf("Responses = %v", step.Responses)
	}
	if step.Done {
		t.Error("conversation with open responses reported Done")
	}
}

func TestEnterTerminalNode(t *testing.T) {
	s := newTestState()
	node := &types.DialogNode{NPCNarrative: types.PlainText("\"Farewell.\"")}

	step := Enter(node, s, nil)
	if !step.Done {
		t.Error("leaf node should end the conversation")
	}
	if step.Node != nil {
		t.Error("ended conversation should carry no resting node")
	}
}

func TestEnterGatesResponses(t *testing.T) {
	s := newTestState()
	node := &types.DialogNode{
		NPCNarrative: types.PlainText("\"Yes?\""),
		Responses: []types.DialogResponse{
			{Keyword: "secret", Node: &types.DialogNode{
				Criteria:     &types.Criteria{RequiresFlags: []string{"trusted"}},
				NPCNarrative: types.PlainText("\"The vault is under the well.\""),
			}},
			{Keyword: "hidden", Node: &types.DialogNode{
				Internal:     true,
				JumpTarget:   "hidden_node",
				NPCNarrative: types.PlainText("never listed"),
			}},
			{Keyword: "goodbye", Node: &types.DialogNode{NPCNarrative: types.PlainText("\"Bye.\"")}},
		},
	}

	step := Enter(node, s, nil)
	if !reflect.DeepEqual(step.Responses, []string{"goodbye"}) {
		t.Errorf("Responses = %v, want only the open non-internal reply", step.Responses)
	}

	s.Flags["trusted"] = true
	step = Enter(node, s, nil)
	if !reflect.DeepEqual(step.Responses, []string{"secret", "goodbye"}) {
		t.Errorf("Responses = %v after gating flag set", step.Responses)
	}
}

func TestEnterFollowsJumps(t *testing.T) {
	s := newTestState()
	target := &types.DialogNode{
		JumpTarget:   "epilogue",
		Internal:     true,
		NPCNarrative: types.PlainText("\"And so it ends.\""),
	}
	node := &types.DialogNode{
		NPCNarrative: types.PlainText("\"Enough talk.\""),
		Jump:         types.PlainText("epilogue"),
	}
	jumps := JumpIndex{"epilogue": target}

	step := Enter(node, s, jumps)
	want := "\"Enough talk.\"\n\"And so it ends.\""
	if step.Message != want {
		t.Errorf("Message = %q, want %q", step.Message, want)
	}
	if !step.Done {
		t.Error("jump chain ending in a leaf should finish the conversation")
	}
}

func TestEnterConditionalJump(t *testing.T) {
	s := newTestState()
	good := &types.DialogNode{JumpTarget: "good_end", NPCNarrative: types.PlainText("good")}
	bad := &types.DialogNode{JumpTarget: "bad_end", NPCNarrative: types.PlainText("bad")}
	node := &types.DialogNode{
		Jump: types.ConditionalText{
			{Text: "good_end", Criteria: &types.Criteria{RequiresFlags: []string{"kind"}}},
			{Text: "bad_end"},
		},
	}
	jumps := JumpIndex{"good_end": good, "bad_end": bad}

	if step := Enter(node, s, jumps); step.Message != "bad" {
		t.Errorf("Message = %q, want fallback jump", step.Message)
	}
	s.Flags["kind"] = true
	if step := Enter(node, s, jumps); step.Message != "good" {
		t.Errorf("Message = %q, want conditional jump", step.Message)
	}
}

func TestEnterDanglingJumpEndsConversation(t *testing.T) {
	s := newTestState()
	node := &types.DialogNode{
		NPCNarrative: types.PlainText("\"Hmm.\""),
		Jump:         types.PlainText("nowhere"),
	}

	step := Enter(node, s, JumpIndex{})
	if !step.Done {
		t.Error("dangling jump should end the conversation, not loop or panic")
	}
	if step.Message != "\"Hmm.\"" {
		t.Errorf("Message = %q", step.Message)
	}
}

func TestEnterJumpCycleTerminates(t *testing.T) {
	s := newTestState()
	a := &types.DialogNode{JumpTarget: "a", Jump: types.PlainText("b")}
	b := &types.DialogNode{JumpTarget: "b", Jump: types.PlainText("a")}
	jumps := JumpIndex{"a": a, "b": b}

	step := Enter(a, s, jumps)
	if !step.Done {
		t.Error("jump cycle should terminate and end the conversation")
	}
}

func TestRespond(t *testing.T) {
	s := newTestState()
	child := &types.DialogNode{NPCNarrative: types.PlainText("\"Find my goat.\"")}
	node := &types.DialogNode{
		NPCNarrative: types.PlainText("\"Yes?\""),
		Responses:    []types.DialogResponse{{Keyword: "Quest", Node: child}},
	}

	step, ok := Respond(node, "QUEST", s, nil)
	if !ok {
		t.Fatal("keyword match should be case-insensitive")
	}
	if step.Message != "\"Find my goat.\"" {
		t.Errorf("Message = %q", step.Message)
	}

	if _, ok := Respond(node, "nonsense", s, nil); ok {
		t.Error("unmatched keyword should not resolve")
	}
	if _, ok := Respond(nil, "quest", s, nil); ok {
		t.Error("nil node should not resolve")
	}
}

func TestBuildJumpIndex(t *testing.T) {
	leaf := &types.DialogNode{JumpTarget: "deep", NPCNarrative: types.PlainText("deep")}
	world := &types.World{
		NPCs: map[string]types.NPC{
			"hermit": {Dialog: &types.DialogNode{
				NPCNarrative: types.PlainText("root"),
				Responses:    []types.DialogResponse{{Keyword: "more", Node: leaf}},
			}},
		},
		Interactions: []types.Interaction{
			{ID: "ritual", Dialog: &types.DialogNode{JumpTarget: "ritual_start"}},
		},
	}

	idx := BuildJumpIndex(world)
	if idx["deep"] != leaf {
		t.Error("nested jump target not indexed")
	}
	if idx["ritual_start"] == nil {
		t.Error("interaction dialog jump target not indexed")
	}
}
