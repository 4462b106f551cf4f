package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/slorkgame/slork/engine/logic"
)

// locationDisplayName derives a human-readable name from a location ID.
// "great_hall" -> "Great Hall", "castle_gates" -> "Castle Gates".
func locationDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line showing the
// current location, open exits, and inventory.
func (m Model) renderStatusBar() string {
	s := m.game.State
	world := m.game.World

	name := locationDisplayName(s.Location)
	loc, known := world.Locations[s.Location]
	if known && loc.Name != "" {
		name = loc.Name
	}

	var dirs []string
	for dir, exit := range loc.Exits {
		if logic.Satisfied(exit.Criteria, s) {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	exitStr := strings.Join(dirs, ",")

	left := fmt.Sprintf(" %s | Exits: %s", name, exitStr)
	if m.game.InDialog() {
		left = fmt.Sprintf(" %s | talking", name)
	}

	invCount := len(s.Inventory)
	right := fmt.Sprintf("Inv: %d ", invCount)

	// Show inventory item names if they fit, otherwise just the count.
	if invCount > 0 {
		names := make([]string, 0, invCount)
		for _, id := range s.Inventory {
			name := id
			if item, ok := world.Items[id]; ok && item.Name != "" {
				name = item.Name
			}
			names = append(names, name)
		}
		candidate := fmt.Sprintf("Inv: %s ", strings.Join(names, ", "))
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
