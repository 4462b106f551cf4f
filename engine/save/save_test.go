package save

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/slorkgame/slork/engine/state"
	"github.com/slorkgame/slork/types"
)

func testWorld() *types.World {
	return &types.World{
		Header: types.Header{
			Title:            "Test World",
			Start:            "clearing",
			InitialInventory: []string{"map"},
		},
		Items: map[string]types.Item{
			"map":   {Name: "map", Portable: true},
			"torch": {Name: "torch", Portable: true},
			"dog":   {Name: "dog"},
		},
		Locations: map[string]types.Location{
			"clearing": {Name: "Clearing", Items: []string{"torch"}},
			"cave":     {Name: "Cave"},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	world := testWorld()
	s := state.New(world)

	// Modify state.
	s.TakeItem("torch")
	s.Location = "cave"
	s.Flags["door_open"] = true
	s.Companions["dog"] = true
	s.MoveCompanions()
	s.Completed["unlock_door"] = true

	data, err := Save(s, world)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.Version != FormatVersion || sd.Game != "Test World" {
		t.Errorf("header = %q %q", sd.Version, sd.Game)
	}

	// Apply to fresh state.
	s2 := state.New(world)
	ApplySave(s2, sd)

	if !reflect.DeepEqual(s, s2) {
		t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", s, s2)
	}
}

func TestLoadFillsNilCollections(t *testing.T) {
	sd, err := Load([]byte(`{"version":"1","game":"g","location":"cave"}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.Inventory == nil || sd.Flags == nil || sd.Companions == nil ||
		sd.LocationItems == nil || sd.Completed == nil {
		t.Errorf("nil collection after load: %+v", sd)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	if _, err := Load([]byte("{not json")); err == nil {
		t.Error("malformed JSON should fail to load")
	}
}

func TestSaveIsStableJSON(t *testing.T) {
	world := testWorld()
	s := state.New(world)

	data, err := Save(s, world)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Save output is not valid JSON: %v", err)
	}
	for _, key := range []string{"version", "game", "location", "inventory", "flags", "companions", "location_items", "completed_interactions"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("save output missing %q", key)
		}
	}
}
