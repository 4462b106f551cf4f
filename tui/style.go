package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleSceneDesc = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindSceneDesc lineKind = iota
	kindYouSee
	kindExits
	kindDialogue
	kindSystem
	kindError
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You see:"),
		strings.HasPrefix(line, "Your companions:"):
		return kindYouSee
	case strings.HasPrefix(line, "Exits:"),
		strings.HasPrefix(line, "You can reply:"):
		return kindExits
	case strings.HasPrefix(line, "You cannot"),
		strings.HasPrefix(line, "There is no"),
		strings.HasPrefix(line, "You are not carrying"),
		strings.HasPrefix(line, "Which "),
		strings.HasPrefix(line, "Invalid command."),
		strings.HasPrefix(line, "Unknown verb"):
		return kindError
	case containsQuotedSpeech(line):
		return kindDialogue
	default:
		return kindSceneDesc
	}
}

// containsQuotedSpeech checks if a line contains NPC dialogue in double quotes.
func containsQuotedSpeech(line string) bool {
	inQuote := false
	quoteLen := 0
	for _, r := range line {
		if r == '"' {
			if inQuote && quoteLen > 5 {
				return true
			}
			inQuote = !inQuote
			quoteLen = 0
		} else if inQuote {
			quoteLen++
		}
	}
	return false
}

// styledYouSee renders "You see: item1, item2." with the item names bold.
func styledYouSee(line string) string {
	prefix, rest, found := strings.Cut(line, ": ")
	if !found {
		return styleSceneDesc.Render(line)
	}
	return styleSceneDesc.Render(prefix+": ") + styleYouSee.Render(rest)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
