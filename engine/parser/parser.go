// Package parser converts command strings into ParsedCommand structs.
// Intentionally dumb: no NLP, no world knowledge, just token matching.
// Parsing is a pure function of the input string.
package parser

import (
	"fmt"
	"strings"

	"github.com/slorkgame/slork/types"
)

// ValidVerbs is the fixed verb set the engine understands.
var ValidVerbs = map[string]bool{
	"look":      true,
	"inventory": true,
	"go":        true,
	"take":      true,
	"drop":      true,
	"use":       true,
	"open":      true,
	"close":     true,
	"examine":   true,
	"talk":      true,
	"give":      true,
}

var verbAliases = map[string]string{
	"l":      "look",
	"i":      "inventory",
	"inv":    "inventory",
	"x":      "examine",
	"get":    "take",
	"pick":   "take",
	"pickup": "take",
}

// directionAliases maps direction shortcuts (and full names) to their
// canonical direction name.
var directionAliases = map[string]string{
	"n": "north", "north": "north",
	"s": "south", "south": "south",
	"e": "east", "east": "east",
	"w": "west", "west": "west",
	"u": "up", "up": "up",
	"d": "down", "down": "down",
	"ne": "northeast", "northeast": "northeast",
	"nw": "northwest", "northwest": "northwest",
	"se": "southeast", "southeast": "southeast",
	"sw": "southwest", "southwest": "southwest",
}

// joiningWords maps each two-noun joining word to the verbs it is legal
// for. "use key on door", "give water to hermit", "talk to guard".
var joiningWords = map[string]map[string]bool{
	"on": {"use": true},
	"to": {"talk": true, "give": true},
}

// Parse converts one line of raw player input into a ParsedCommand.
func Parse(raw string) types.ParsedCommand {
	raw = stripQuotes(strings.TrimSpace(raw))
	cmd := types.ParsedCommand{Raw: raw}

	if raw == "" {
		cmd.Error = "No command provided."
		return cmd
	}

	tokens := strings.Fields(strings.ToLower(raw))
	verbToken := tokens[0]

	// A bare direction word is shorthand for "go <direction>". Any
	// trailing tokens are ignored.
	if dir, ok := directionAliases[verbToken]; ok {
		cmd.Verb = "go"
		cmd.MainNoun = dir
		return cmd
	}

	verb := verbToken
	if alias, ok := verbAliases[verbToken]; ok {
		verb = alias
	}
	if !ValidVerbs[verb] {
		cmd.Error = fmt.Sprintf("Unknown verb '%s'.", verbToken)
		return cmd
	}
	cmd.Verb = verb

	// Intransitive verbs take no noun; parsing stops here.
	if verb == "look" || verb == "inventory" {
		return cmd
	}

	remainder := dropLeadingThe(tokens[1:])
	if len(remainder) == 0 {
		cmd.Error = fmt.Sprintf("%s %s?", verbToken, missingNoun(verb))
		return cmd
	}

	// Two-noun form: split at the joining word when one is present.
	for i, tok := range remainder {
		legalVerbs, isJoin := joiningWords[tok]
		if !isJoin {
			continue
		}
		if !legalVerbs[verb] {
			cmd.Error = "Invalid command."
			return cmd
		}

		cmd.MainNoun = strings.Join(remainder[:i], " ")
		target := dropLeadingThe(remainder[i+1:])
		if len(target) == 0 {
			cmd.Error = missingTarget(verbToken, cmd.MainNoun, tok)
			return cmd
		}
		cmd.TargetNoun = strings.Join(target, " ")

		// "talk to hermit" has an empty main noun; promote the target.
		if cmd.MainNoun == "" {
			cmd.MainNoun = cmd.TargetNoun
			cmd.TargetNoun = ""
		}
		return cmd
	}

	cmd.MainNoun = strings.Join(remainder, " ")

	// "go n" means "go north".
	if verb == "go" {
		if dir, ok := directionAliases[cmd.MainNoun]; ok {
			cmd.MainNoun = dir
		}
	}

	return cmd
}

// stripQuotes removes a single layer of matching surrounding quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == s[len(s)-1] && (s[0] == '\'' || s[0] == '"') {
		return s[1 : len(s)-1]
	}
	return s
}

func dropLeadingThe(tokens []string) []string {
	if len(tokens) > 0 && tokens[0] == "the" {
		return tokens[1:]
	}
	return tokens
}

func missingNoun(verb string) string {
	switch verb {
	case "go":
		return "where"
	case "talk":
		return "to whom"
	default:
		return "what"
	}
}

func missingTarget(verbToken, mainNoun, join string) string {
	question := "on what"
	if join == "to" {
		question = "to whom"
	}
	if mainNoun == "" {
		return fmt.Sprintf("%s %s?", verbToken, question)
	}
	return fmt.Sprintf("%s the %s %s %s?", verbToken, mainNoun, join, question)
}
