// Package state manages the mutable per-session game state. The world's
// per-location item lists are copied in once at construction; after that,
// item membership lives here, never in the world model.
package state

import (
	"sort"

	"github.com/slorkgame/slork/types"
)

// State is the complete mutable state of one game session. An item id
// appears in at most one of Inventory / one location's item list at any
// time.
type State struct {
	Location      string
	Inventory     []string // ordered
	Flags         map[string]bool
	Companions    map[string]bool
	LocationItems map[string][]string
	Completed     map[string]bool // non-repeatable interaction ids, only grows
}

// New creates a fresh session state from a world definition and re-homes
// the initial companions into the start location.
func New(world *types.World) *State {
	s := &State{
		Location:      world.Header.Start,
		Inventory:     append([]string{}, world.Header.InitialInventory...),
		Flags:         map[string]bool{},
		Companions:    map[string]bool{},
		LocationItems: map[string][]string{},
		Completed:     map[string]bool{},
	}
	for id, loc := range world.Locations {
		s.LocationItems[id] = append([]string{}, loc.Items...)
	}
	for _, npcID := range world.Header.InitialCompanions {
		s.Companions[npcID] = true
	}
	s.MoveCompanions()
	return s
}

// HasFlag returns the value of a flag. Unset flags are false.
func (s *State) HasFlag(name string) bool {
	return s.Flags[name]
}

// HasItem returns true if the item is in the player's inventory.
func (s *State) HasItem(itemID string) bool {
	return contains(s.Inventory, itemID)
}

// IsCompanion returns true if the NPC currently travels with the player.
func (s *State) IsCompanion(npcID string) bool {
	return s.Companions[npcID]
}

// CompanionIDs returns the companion set in sorted order.
func (s *State) CompanionIDs() []string {
	ids := make([]string, 0, len(s.Companions))
	for id := range s.Companions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ItemsAt returns the live item list for a location.
func (s *State) ItemsAt(locationID string) []string {
	return s.LocationItems[locationID]
}

// TakeItem moves an item from the current location's list to inventory.
func (s *State) TakeItem(itemID string) {
	s.LocationItems[s.Location] = remove(s.LocationItems[s.Location], itemID)
	s.Inventory = append(s.Inventory, itemID)
}

// DropItem moves an item from inventory to the current location's list.
func (s *State) DropItem(itemID string) {
	s.Inventory = remove(s.Inventory, itemID)
	s.LocationItems[s.Location] = append(s.LocationItems[s.Location], itemID)
}

// ConsumeItem removes an item from inventory and from the current
// location's list. Deliberately does not require presence in either: the
// original content relies on the removal being an idempotent no-op.
func (s *State) ConsumeItem(itemID string) {
	s.Inventory = remove(s.Inventory, itemID)
	s.LocationItems[s.Location] = remove(s.LocationItems[s.Location], itemID)
}

// MoveCompanions re-homes every companion NPC into the current location's
// item list. Must run at construction and after every successful move.
func (s *State) MoveCompanions() {
	for locID, items := range s.LocationItems {
		kept := items[:0]
		for _, id := range items {
			if !s.Companions[id] {
				kept = append(kept, id)
			}
		}
		s.LocationItems[locID] = kept
	}
	s.LocationItems[s.Location] = append(s.LocationItems[s.Location], s.CompanionIDs()...)
}

// Clone returns a deep copy, used for atomicity checks and snapshots.
func (s *State) Clone() *State {
	c := &State{
		Location:      s.Location,
		Inventory:     append([]string{}, s.Inventory...),
		Flags:         map[string]bool{},
		Companions:    map[string]bool{},
		LocationItems: map[string][]string{},
		Completed:     map[string]bool{},
	}
	for k, v := range s.Flags {
		c.Flags[k] = v
	}
	for k, v := range s.Companions {
		c.Companions[k] = v
	}
	for k, v := range s.LocationItems {
		c.LocationItems[k] = append([]string{}, v...)
	}
	for k, v := range s.Completed {
		c.Completed[k] = v
	}
	return c
}

func remove(items []string, id string) []string {
	result := items[:0]
	for _, v := range items {
		if v != id {
			result = append(result, v)
		}
	}
	return result
}

func contains(items []string, id string) bool {
	for _, v := range items {
		if v == id {
			return true
		}
	}
	return false
}
