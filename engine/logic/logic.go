// Package logic evaluates gating criteria, applies effects, and resolves
// conditionally-varying text against session state. All functions are pure
// given their inputs; none of them touch the world model.
package logic

import (
	"github.com/slorkgame/slork/engine/state"
	"github.com/slorkgame/slork/types"
)

// Satisfied reports whether a criteria holds in the given state. A nil
// criteria is vacuously satisfied.
func Satisfied(c *types.Criteria, s *state.State) bool {
	if c == nil {
		return true
	}
	for _, flag := range c.RequiresFlags {
		if !s.HasFlag(flag) {
			return false
		}
	}
	for _, flag := range c.BlockingFlags {
		if s.HasFlag(flag) {
			return false
		}
	}
	for _, itemID := range c.RequiresInventory {
		if !s.HasItem(itemID) {
			return false
		}
	}
	for _, npcID := range c.RequiresCompanions {
		if !s.IsCompanion(npcID) {
			return false
		}
	}
	return true
}

// Apply mutates the state with an effect's flag deltas: set flags first,
// then clear. A nil effect is a no-op.
func Apply(e *types.Effect, s *state.State) {
	if e == nil {
		return
	}
	for _, flag := range e.SetFlags {
		s.Flags[flag] = true
	}
	for _, flag := range e.ClearFlags {
		delete(s.Flags, flag)
	}
}

// Resolve returns the current text of a resolvable value: plain text as-is,
// conditional text by first-match over its clauses. Well-formed content
// always ends with an unconditional fallback clause (validator-enforced),
// so resolution only comes up empty for defective content.
func Resolve(text types.ResolvableText, s *state.State) string {
	switch t := text.(type) {
	case nil:
		return ""
	case types.PlainText:
		return string(t)
	case types.ConditionalText:
		for _, clause := range t {
			if Satisfied(clause.Criteria, s) {
				return clause.Text
			}
		}
		return ""
	default:
		return ""
	}
}
