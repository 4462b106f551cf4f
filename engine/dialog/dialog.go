// Package dialog walks conversation trees. Entering a node applies its
// effect, resolves its narratives, follows jump chains, and collects the
// replies the player may choose next. The caller threads the active node
// between turns; nothing here persists.
package dialog

import (
	"strings"

	"github.com/slorkgame/slork/engine/logic"
	"github.com/slorkgame/slork/engine/state"
	"github.com/slorkgame/slork/types"
)

// Step is the outcome of entering one dialog node (including any jump
// chain it leads into).
type Step struct {
	Message   string
	Node      *types.DialogNode // node the conversation now rests at
	Responses []string          // keywords the player may reply with
	Done      bool              // true when the conversation has ended
}

// JumpIndex maps jump_target labels to their nodes across a whole world.
type JumpIndex map[string]*types.DialogNode

// BuildJumpIndex walks every dialog tree in the world and records each
// declared jump_target. Duplicate labels keep the first node seen; the
// validator reports the duplication separately.
func BuildJumpIndex(world *types.World) JumpIndex {
	idx := JumpIndex{}
	collect := func(root *types.DialogNode) {
		Walk(root, func(n *types.DialogNode) {
			if n.JumpTarget != "" {
				if _, exists := idx[n.JumpTarget]; !exists {
					idx[n.JumpTarget] = n
				}
			}
		})
	}
	for _, npc := range world.NPCs {
		if root, ok := npc.Dialog.(*types.DialogNode); ok {
			collect(root)
		}
	}
	for _, interaction := range world.Interactions {
		if interaction.Dialog != nil {
			collect(interaction.Dialog)
		}
	}
	return idx
}

// Walk visits a node and all its descendants, depth-first.
func Walk(node *types.DialogNode, visit func(*types.DialogNode)) {
	if node == nil {
		return
	}
	visit(node)
	for _, resp := range node.Responses {
		Walk(resp.Node, visit)
	}
}

// Enter applies a node's effect, builds its narrative text, and follows
// any jump chain to the node the conversation rests at. Dangling jumps
// end the conversation (best-effort behaviour for defective content).
func Enter(node *types.DialogNode, s *state.State, jumps JumpIndex) Step {
	var lines []string
	seen := map[*types.DialogNode]bool{}

	for node != nil && !seen[node] {
		seen[node] = true

		logic.Apply(node.Effect, s)
		if text := logic.Resolve(node.PlayerNarrative, s); text != "" {
			lines = append(lines, text)
		}
		if text := logic.Resolve(node.NPCNarrative, s); text != "" {
			lines = append(lines, text)
		}

		if node.Jump == nil {
			break
		}
		label := logic.Resolve(node.Jump, s)
		node = jumps[label]
	}

	step := Step{Message: strings.Join(lines, "\n"), Node: node}
	if node != nil {
		step.Responses = availableResponses(node, s)
	}
	if len(step.Responses) == 0 {
		step.Done = true
		step.Node = nil
	}
	return step
}

// Respond matches a player reply keyword against the resting node's open
// responses and enters the chosen child. A nil node or unmatched keyword
// returns ok=false.
func Respond(node *types.DialogNode, keyword string, s *state.State, jumps JumpIndex) (Step, bool) {
	if node == nil {
		return Step{}, false
	}
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	for _, resp := range node.Responses {
		if strings.ToLower(resp.Keyword) != keyword {
			continue
		}
		if resp.Node == nil || resp.Node.Internal {
			continue
		}
		if !logic.Satisfied(resp.Node.Criteria, s) {
			continue
		}
		return Enter(resp.Node, s, jumps), true
	}
	return Step{}, false
}

// availableResponses lists the reply keywords whose child nodes are open:
// criteria satisfied and not internal.
func availableResponses(node *types.DialogNode, s *state.State) []string {
	var keywords []string
	for _, resp := range node.Responses {
		if resp.Node == nil || resp.Node.Internal {
			continue
		}
		if !logic.Satisfied(resp.Node.Criteria, s) {
			continue
		}
		keywords = append(keywords, resp.Keyword)
	}
	return keywords
}

// FormatResponses renders the reply menu line appended to dialog output.
func FormatResponses(keywords []string) string {
	return "You can reply: " + strings.Join(keywords, ", ")
}
