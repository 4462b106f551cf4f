// Package save implements JSON serialization and deserialization of
// session state.
package save

import (
	"encoding/json"

	"github.com/slorkgame/slork/engine/state"
	"github.com/slorkgame/slork/types"
)

// SaveData is the JSON-serializable save format. It snapshots the session
// only; the world definition is loaded separately and never persisted.
type SaveData struct {
	Version       string              `json:"version"`
	Game          string              `json:"game"`
	Location      string              `json:"location"`
	Inventory     []string            `json:"inventory"`
	Flags         map[string]bool     `json:"flags"`
	Companions    map[string]bool     `json:"companions"`
	LocationItems map[string][]string `json:"location_items"`
	Completed     map[string]bool     `json:"completed_interactions"`
}

// FormatVersion guards against loading snapshots from incompatible builds.
const FormatVersion = "1"

// Save serializes session state to JSON bytes.
func Save(s *state.State, world *types.World) ([]byte, error) {
	data := SaveData{
		Version:       FormatVersion,
		Game:          world.Header.Title,
		Location:      s.Location,
		Inventory:     s.Inventory,
		Flags:         s.Flags,
		Companions:    s.Companions,
		LocationItems: s.LocationItems,
		Completed:     s.Completed,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps and slices are never nil after load.
	if sd.Inventory == nil {
		sd.Inventory = []string{}
	}
	if sd.Flags == nil {
		sd.Flags = map[string]bool{}
	}
	if sd.Companions == nil {
		sd.Companions = map[string]bool{}
	}
	if sd.LocationItems == nil {
		sd.LocationItems = map[string][]string{}
	}
	if sd.Completed == nil {
		sd.Completed = map[string]bool{}
	}
	return &sd, nil
}

// ApplySave applies loaded save data onto a state.
func ApplySave(s *state.State, sd *SaveData) {
	s.Location = sd.Location
	s.Inventory = sd.Inventory
	s.Flags = sd.Flags
	s.Companions = sd.Companions
	s.LocationItems = sd.LocationItems
	s.Completed = sd.Completed
}
