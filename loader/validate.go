package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/slorkgame/slork/engine/dialog"
	"github.com/slorkgame/slork/engine/parser"
	"github.com/slorkgame/slork/types"
)

// Built-in verbs are handled directly by the engine and carry no
// interaction-based meaning.
var builtinVerbs = map[string]bool{
	"look": true, "inventory": true, "go": true,
	"take": true, "drop": true, "examine": true,
}

// Verbs allowed to carry a target noun.
var targetVerbs = map[string]bool{
	"use":  true,
	"give": true,
}

// Validate checks a world for referential integrity and authoring-rule
// consistency. Every defect is accumulated into one flat issue list; no
// check short-circuits another, and the caller decides whether a
// defective world may still be played.
func Validate(world *types.World) []string {
	v := &validator{
		world:      world,
		flagRefs:   map[string]bool{},
		itemRefs:   map[string]bool{},
		knownFlags: map[string]bool{},
	}
	for _, flag := range world.Flags {
		v.knownFlags[flag] = true
	}

	v.checkHeader()
	v.checkItemPlacement()
	v.checkLocations()
	v.checkInteractions()
	v.checkItemTexts()
	v.checkDialogs()
	v.checkReachability()
	v.checkUnreferenced()

	return v.issues
}

type validator struct {
	world  *types.World
	issues []string

	knownFlags map[string]bool
	flagRefs   map[string]bool
	itemRefs   map[string]bool
}

func (v *validator) addf(format string, args ...any) {
	v.issues = append(v.issues, fmt.Sprintf(format, args...))
}

func (v *validator) checkHeader() {
	h := v.world.Header
	if h.Title == "" {
		v.addf("world title is required")
	}
	if h.Start == "" {
		v.addf("start location is required")
	} else if _, ok := v.world.Locations[h.Start]; !ok {
		v.addf("start location %q is not defined", h.Start)
	}

	for _, id := range h.InitialInventory {
		item, ok := v.world.Items[id]
		if !ok {
			v.addf("initial inventory references undefined item %q", id)
			continue
		}
		v.itemRefs[id] = true
		if !item.Portable {
			v.addf("initial inventory item %q is not portable", id)
		}
	}

	for _, id := range h.InitialCompanions {
		if _, ok := v.world.NPCs[id]; !ok {
			v.addf("initial companions reference undefined npc %q", id)
		}
		v.itemRefs[id] = true
	}
}

// checkItemPlacement verifies each item starts in at most one place:
// one location's item list, or the initial inventory, never both.
func (v *validator) checkItemPlacement() {
	placed := map[string]string{}
	for _, id := range v.world.Header.InitialInventory {
		placed[id] = "initial inventory"
	}

	for _, locID := range sortedKeys(v.world.Locations) {
		for _, itemID := range v.world.Locations[locID].Items {
			if prev, dup := placed[itemID]; dup {
				v.addf("item %q is placed in both %s and location %q", itemID, prev, locID)
				continue
			}
			placed[itemID] = fmt.Sprintf("location %q", locID)
		}
	}
}

func (v *validator) checkLocations() {
	for _, locID := range sortedKeys(v.world.Locations) {
		location := v.world.Locations[locID]

		if len(location.Exits) == 0 {
			v.addf("location %q has no exits", locID)
		}

		for _, dir := range sortedKeys(location.Exits) {
			exit := location.Exits[dir]
			if _, ok := v.world.Locations[exit.To]; !ok {
				v.addf("location %q exit %q points to undefined location %q", locID, dir, exit.To)
			}
			// A gated exit needs its refusal text and vice versa.
			if (exit.Criteria == nil) != (exit.BlockedDescription == nil) {
				v.addf("location %q exit %q must set criteria and blocked description together", locID, dir)
			}
			v.checkCriteria(exit.Criteria, fmt.Sprintf("location %q exit %q", locID, dir))
			v.checkResolvable(exit.BlockedDescription, fmt.Sprintf("location %q exit %q blocked description", locID, dir))
		}

		for _, itemID := range location.Items {
			if _, ok := v.world.Items[itemID]; !ok {
				v.addf("location %q lists undefined item %q", locID, itemID)
			}
			v.itemRefs[itemID] = true
		}
	}
}

func (v *validator) checkInteractions() {
	for _, in := range v.world.Interactions {
		where := fmt.Sprintf("interaction %q", in.ID)

		if !parser.ValidVerbs[in.Verb] {
			v.addf("%s uses unknown verb %q", where, in.Verb)
		} else if builtinVerbs[in.Verb] {
			v.addf("%s uses built-in verb %q", where, in.Verb)
		}

		if in.Target != "" && !targetVerbs[in.Verb] {
			v.addf("%s declares a target but verb %q takes none", where, in.Verb)
		}

		if _, ok := v.world.Items[in.Item]; !ok {
			v.addf("%s references undefined item %q", where, in.Item)
		}
		v.itemRefs[in.Item] = true
		if in.Target != "" {
			if _, ok := v.world.Items[in.Target]; !ok {
				v.addf("%s references undefined target %q", where, in.Target)
			}
			v.itemRefs[in.Target] = true
		}

		if (in.Message == nil) == (in.Dialog == nil) {
			v.addf("%s must set exactly one of message or dialog", where)
		}

		v.checkCriteria(in.Criteria, where)
		v.checkEffect(in.Effect, where)
		v.checkResolvable(in.Message, where+" message")
	}
}

func (v *validator) checkItemTexts() {
	for _, id := range sortedKeys(v.world.Items) {
		v.checkResolvable(v.world.Items[id].LocationDescription, fmt.Sprintf("item %q location description", id))
	}
}

func (v *validator) checkCriteria(c *types.Criteria, where string) {
	if c == nil {
		return
	}
	for _, flag := range c.RequiresFlags {
		v.flagRefs[flag] = true
		if !v.knownFlags[flag] {
			v.addf("%s requires undeclared flag %q", where, flag)
		}
	}
	for _, flag := range c.BlockingFlags {
		v.flagRefs[flag] = true
		if !v.knownFlags[flag] {
			v.addf("%s blocks on undeclared flag %q", where, flag)
		}
	}
	for _, id := range c.RequiresInventory {
		v.itemRefs[id] = true
		item, ok := v.world.Items[id]
		if !ok {
			v.addf("%s requires undefined item %q", where, id)
			continue
		}
		if !item.Portable {
			v.addf("%s requires item %q in inventory but it is not portable", where, id)
		}
	}
	for _, id := range c.RequiresCompanions {
		v.itemRefs[id] = true
		if _, ok := v.world.NPCs[id]; !ok {
			v.addf("%s requires undefined companion %q", where, id)
		}
	}
}

func (v *validator) checkEffect(e *types.Effect, where string) {
	if e == nil {
		return
	}
	for _, flag := range e.SetFlags {
		v.flagRefs[flag] = true
		if !v.knownFlags[flag] {
			v.addf("%s sets undeclared flag %q", where, flag)
		}
	}
	for _, flag := range e.ClearFlags {
		v.flagRefs[flag] = true
		if !v.knownFlags[flag] {
			v.addf("%s clears undeclared flag %q", where, flag)
		}
	}
}

// checkResolvable enforces the clause-ordering rule: every non-final
// clause must carry a criteria (or later clauses are dead code) and the
// final clause must not (it is the fallback).
func (v *validator) checkResolvable(text types.ResolvableText, where string) {
	clauses, ok := text.(types.ConditionalText)
	if !ok {
		return
	}
	if len(clauses) == 0 {
		v.addf("%s has an empty clause list", where)
		return
	}
	for i, clause := range clauses {
		last := i == len(clauses)-1
		if last && clause.Criteria != nil {
			v.addf("%s final clause must be the unconditional fallback", where)
		}
		if !last && clause.Criteria == nil {
			v.addf("%s clause %d has no criteria, making later clauses unreachable", where, i+1)
		}
		v.checkCriteria(clause.Criteria, fmt.Sprintf("%s clause %d", where, i+1))
	}
}

func (v *validator) checkDialogs() {
	targets := map[string]bool{}
	jumpRefs := map[string]bool{}

	check := func(root *types.DialogNode, where string) {
		dialog.Walk(root, func(n *types.DialogNode) {
			if n.NPCNarrative == nil && n.Jump == nil {
				v.addf("%s has a node with neither npc narrative nor jump", where)
			}
			if n.Internal {
				if n.JumpTarget == "" {
					v.addf("%s has an internal node without a jump target", where)
				}
				if n.Criteria != nil {
					v.addf("%s has an internal node with criteria", where)
				}
			}
			if n.Jump != nil && len(n.Responses) > 0 {
				v.addf("%s has a node with both jump and responses", where)
			}
			if n.JumpTarget != "" {
				if targets[n.JumpTarget] {
					v.addf("duplicate jump target %q", n.JumpTarget)
				}
				targets[n.JumpTarget] = true
			}
			for _, label := range jumpLabels(n.Jump) {
				jumpRefs[label] = true
			}

			v.checkCriteria(n.Criteria, where)
			v.checkEffect(n.Effect, where)
			v.checkResolvable(n.NPCNarrative, where+" npc narrative")
			v.checkResolvable(n.PlayerNarrative, where+" player narrative")
		})
	}

	for _, id := range sortedKeys(v.world.NPCs) {
		npc := v.world.NPCs[id]
		switch d := npc.Dialog.(type) {
		case *types.DialogNode:
			check(d, fmt.Sprintf("npc %q dialog", id))
		case types.PlainText, types.ConditionalText:
			v.checkResolvable(d.(types.ResolvableText), fmt.Sprintf("npc %q dialog", id))
		}
	}
	for _, in := range v.world.Interactions {
		if in.Dialog != nil {
			check(in.Dialog, fmt.Sprintf("interaction %q dialog", in.ID))
		}
	}

	for _, label := range sortedKeys(jumpRefs) {
		if !targets[label] {
			v.addf("jump references undeclared target %q", label)
		}
	}
	for _, label := range sortedKeys(targets) {
		if !jumpRefs[label] {
			v.addf("jump target %q is never referenced by a jump", label)
		}
	}
}

// jumpLabels lists every target label a jump can statically resolve to.
func jumpLabels(jump types.ResolvableText) []string {
	switch j := jump.(type) {
	case types.PlainText:
		return []string{string(j)}
	case types.ConditionalText:
		labels := make([]string, 0, len(j))
		for _, clause := range j {
			labels = append(labels, clause.Text)
		}
		return labels
	}
	return nil
}

// checkReachability walks the exit graph breadth-first from the start
// location and reports every location the player can never reach.
func (v *validator) checkReachability() {
	start := v.world.Header.Start
	if _, ok := v.world.Locations[start]; !ok {
		return // already reported by checkHeader
	}

	reached := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, exit := range v.world.Locations[current].Exits {
			if _, ok := v.world.Locations[exit.To]; !ok || reached[exit.To] {
				continue
			}
			reached[exit.To] = true
			queue = append(queue, exit.To)
		}
	}

	var unreachable []string
	for _, id := range sortedKeys(v.world.Locations) {
		if !reached[id] {
			unreachable = append(unreachable, id)
		}
	}
	if len(unreachable) > 0 {
		v.addf("Unreachable locations: %s.", strings.Join(unreachable, ", "))
	}
}

// checkUnreferenced reports declared flags and items nothing mentions.
// Authoring hygiene, not correctness.
func (v *validator) checkUnreferenced() {
	for _, flag := range v.world.Flags {
		if !v.flagRefs[flag] {
			v.addf("flag %q is declared but never referenced", flag)
		}
	}
	for _, id := range sortedKeys(v.world.Items) {
		if !v.itemRefs[id] {
			v.addf("item %q is declared but never referenced", id)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
