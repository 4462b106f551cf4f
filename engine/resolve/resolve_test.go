package resolve

import (
	"errors"
	"testing"

	"github.com/slorkgame/slork/engine/state"
	"github.com/slorkgame/slork/types"
)

func testWorld() *types.World {
	return &types.World{
		Items: map[string]types.Item{
			"torch":      {Name: "torch", Portable: true, Aliases: []string{"flame"}},
			"brass_key":  {Name: "brass key", Portable: true, Aliases: []string{"key"}},
			"silver_key": {Name: "silver key", Portable: true, Aliases: []string{"key"}},
			"statue":     {Name: "statue"},
		},
	}
}

func testState() *state.State {
	return &state.State{
		Location:  "hall",
		Inventory: []string{"brass_key"},
		LocationItems: map[string][]string{
			"hall": {"torch", "silver_key", "statue"},
		},
		Flags:      map[string]bool{},
		Companions: map[string]bool{},
		Completed:  map[string]bool{},
	}
}

func TestItem(t *testing.T) {
	world := testWorld()
	s := testState()

	tests := []struct {
		name    string
		noun    string
		scope   Scope
		wantID  string
		wantErr string
	}{
		{
			name:   "name match in location",
			noun:   "torch",
			scope:  Scope{Location: true},
			wantID: "torch",
		},
		{
			name:   "alias match",
			noun:   "flame",
			scope:  Scope{Location: true},
			wantID: "torch",
		},
		{
			name:   "multi-word name",
			noun:   "silver key",
			scope:  Scope{Location: true},
			wantID: "silver_key",
		},
		{
			name:   "inventory only",
			noun:   "brass key",
			scope:  Scope{Inventory: true},
			wantID: "brass_key",
		},
		{
			name:    "not in scope",
			noun:    "torch",
			scope:   Scope{Inventory: true},
			wantErr: "You are not carrying a torch.",
		},
		{
			name:    "nowhere at all",
			noun:    "dragon",
			scope:   Scope{Location: true, Inventory: true},
			wantErr: "There is no dragon here.",
		},
		{
			name:    "ambiguous alias across scopes",
			noun:    "key",
			scope:   Scope{Location: true, Inventory: true},
			wantErr: "Which key?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Item(world, s, tt.noun, tt.scope)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Item() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Item() unexpected error: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("Item() = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestItemErrorTypes(t *testing.T) {
	world := testWorld()
	s := testState()

	_, err := Item(world, s, "dragon", Scope{Location: true})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("want NotFoundError, got %T", err)
	}

	_, err = Item(world, s, "key", Scope{Location: true, Inventory: true})
	var ambiguous *AmbiguityError
	if !errors.As(err, &ambiguous) {
		t.Errorf("want AmbiguityError, got %T", err)
	}
}

func TestItemCaseInsensitive(t *testing.T) {
	world := testWorld()
	s := testState()

	// The parser lowercases nouns; matching compares against lowered names.
	id, err := Item(world, s, "torch", Scope{Location: true})
	if err != nil || id != "torch" {
		t.Fatalf("Item() = %q, %v", id, err)
	}
}
