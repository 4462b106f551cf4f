// Package resolve maps noun phrases from parsed commands to item ids.
// Matching is literal and case-insensitive against item names and aliases;
// ambiguity is surfaced to the caller, never guessed away.
package resolve

import (
	"fmt"
	"strings"

	"github.com/slorkgame/slork/engine/state"
	"github.com/slorkgame/slork/types"
)

// Scope selects which item lists a noun is resolved against.
type Scope struct {
	Location  bool
	Inventory bool
}

// NotFoundError indicates no item in scope matched the noun.
type NotFoundError struct {
	Noun       string
	InLocation bool // scope included the current location
}

func (e *NotFoundError) Error() string {
	if e.InLocation {
		return fmt.Sprintf("There is no %s here.", e.Noun)
	}
	return fmt.Sprintf("You are not carrying a %s.", e.Noun)
}

// AmbiguityError indicates more than one item in scope matched the noun.
type AmbiguityError struct {
	Noun string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("Which %s?", e.Noun)
}

// Item resolves a noun to exactly one item id within the given scope.
func Item(world *types.World, s *state.State, noun string, scope Scope) (string, error) {
	var candidates []string
	if scope.Location {
		candidates = append(candidates, s.ItemsAt(s.Location)...)
	}
	if scope.Inventory {
		candidates = append(candidates, s.Inventory...)
	}

	var matches []string
	for _, id := range candidates {
		item, ok := world.Items[id]
		if !ok {
			continue // dangling authoring reference, reported by the validator
		}
		if matchesNoun(item, noun) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Noun: noun, InLocation: scope.Location}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguityError{Noun: noun}
	}
}

func matchesNoun(item types.Item, noun string) bool {
	if strings.ToLower(item.Name) == noun {
		return true
	}
	for _, alias := range item.Aliases {
		if strings.ToLower(alias) == noun {
			return true
		}
	}
	return false
}
