package loader

import (
	"fmt"
	"os"

	"github.com/slorkgame/slork/types"
	"gopkg.in/yaml.v3"
)

// loadYAMLFile parses one YAML world document.
func loadYAMLFile(path string) (*types.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (*types.World, error) {
	var doc yamlWorld
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing world document: %w", err)
	}
	return doc.toWorld(), nil
}

type yamlWorld struct {
	World        yamlHeader              `yaml:"world"`
	Flags        []string                `yaml:"flags"`
	Items        map[string]yamlItem     `yaml:"items"`
	Locations    map[string]yamlLocation `yaml:"locations"`
	NPCs         map[string]yamlNPC      `yaml:"npcs"`
	Interactions []yamlInteraction       `yaml:"interactions"`
}

type yamlHeader struct {
	Title      string   `yaml:"title"`
	Start      string   `yaml:"start"`
	Intro      string   `yaml:"intro"`
	Inventory  []string `yaml:"inventory"`
	Companions []string `yaml:"companions"`
}

type yamlItem struct {
	Name                string         `yaml:"name"`
	Description         string         `yaml:"description"`
	Portable            *bool          `yaml:"portable"`
	Aliases             []string       `yaml:"aliases"`
	LocationDescription yamlResolvable `yaml:"location_description"`
}

type yamlExit struct {
	To                 string         `yaml:"to"`
	Description        string         `yaml:"description"`
	Criteria           *yamlCriteria  `yaml:"criteria"`
	BlockedDescription yamlResolvable `yaml:"blocked_description"`
}

// UnmarshalYAML accepts the shorthand `north: cave` alongside the full
// mapping form.
func (e *yamlExit) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&e.To)
	}
	type plain yamlExit
	return value.Decode((*plain)(e))
}

type yamlLocation struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Items       []string            `yaml:"items"`
	Exits       map[string]yamlExit `yaml:"exits"`
}

type yamlNPC struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Aliases     []string   `yaml:"aliases"`
	Persona     string     `yaml:"persona"`
	SampleLines []string   `yaml:"sample_lines"`
	QuestHook   string     `yaml:"quest_hook"`
	Dialog      yamlDialog `yaml:"dialog"`
}

type yamlInteraction struct {
	ID         string         `yaml:"id"`
	Verb       string         `yaml:"verb"`
	Item       string         `yaml:"item"`
	Target     string         `yaml:"target"`
	Criteria   *yamlCriteria  `yaml:"criteria"`
	Effect     *yamlEffect    `yaml:"effect"`
	Message    yamlResolvable `yaml:"message"`
	Dialog     *yamlNode      `yaml:"dialog"`
	Consumes   bool           `yaml:"consumes"`
	Repeatable bool           `yaml:"repeatable"`
}

type yamlCriteria struct {
	RequiresFlags      []string `yaml:"requires_flags"`
	BlockingFlags      []string `yaml:"blocking_flags"`
	RequiresInventory  []string `yaml:"requires_inventory"`
	RequiresCompanions []string `yaml:"requires_companions"`
}

func (c *yamlCriteria) toCriteria() *types.Criteria {
	if c == nil {
		return nil
	}
	return &types.Criteria{
		RequiresFlags:      c.RequiresFlags,
		BlockingFlags:      c.BlockingFlags,
		RequiresInventory:  c.RequiresInventory,
		RequiresCompanions: c.RequiresCompanions,
	}
}

type yamlEffect struct {
	SetFlags   []string `yaml:"set_flags"`
	ClearFlags []string `yaml:"clear_flags"`
}

func (e *yamlEffect) toEffect() *types.Effect {
	if e == nil {
		return nil
	}
	return &types.Effect{SetFlags: e.SetFlags, ClearFlags: e.ClearFlags}
}

// yamlResolvable accepts a plain string or an ordered clause list.
type yamlResolvable struct {
	text types.ResolvableText
}

func (r *yamlResolvable) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		r.text = types.PlainText(s)
		return nil

	case yaml.SequenceNode:
		var clauses []struct {
			Text     string        `yaml:"text"`
			Criteria *yamlCriteria `yaml:"criteria"`
		}
		if err := value.Decode(&clauses); err != nil {
			return err
		}
		conditional := make(types.ConditionalText, 0, len(clauses))
		for _, c := range clauses {
			conditional = append(conditional, types.TextClause{
				Text:     c.Text,
				Criteria: c.Criteria.toCriteria(),
			})
		}
		r.text = conditional
		return nil
	}
	return fmt.Errorf("line %d: text must be a string or a clause list", value.Line)
}

// yamlDialog accepts a plain string, an ordered clause list, or a dialog
// node mapping.
type yamlDialog struct {
	dialog types.Dialog
}

func (d *yamlDialog) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		var node yamlNode
		if err := value.Decode(&node); err != nil {
			return err
		}
		d.dialog = node.toNode()
		return nil
	}

	var r yamlResolvable
	if err := r.UnmarshalYAML(value); err != nil {
		return err
	}
	switch t := r.text.(type) {
	case types.PlainText:
		d.dialog = t
	case types.ConditionalText:
		d.dialog = t
	}
	return nil
}

type yamlNode struct {
	NPCNarrative    yamlResolvable `yaml:"npc_narrative"`
	PlayerNarrative yamlResolvable `yaml:"player_narrative"`
	Criteria        *yamlCriteria  `yaml:"criteria"`
	Effect          *yamlEffect    `yaml:"effect"`
	Jump            yamlResolvable `yaml:"jump"`
	JumpTarget      string         `yaml:"jump_target"`
	Internal        bool           `yaml:"internal"`
	Responses       yamlResponses  `yaml:"responses"`
}

func (n *yamlNode) toNode() *types.DialogNode {
	if n == nil {
		return nil
	}
	node := &types.DialogNode{
		NPCNarrative:    n.NPCNarrative.text,
		PlayerNarrative: n.PlayerNarrative.text,
		Criteria:        n.Criteria.toCriteria(),
		Effect:          n.Effect.toEffect(),
		Jump:            n.Jump.text,
		JumpTarget:      n.JumpTarget,
		Internal:        n.Internal,
	}
	for _, r := range n.Responses {
		node.Responses = append(node.Responses, types.DialogResponse{
			Keyword: r.keyword,
			Node:    r.node.toNode(),
		})
	}
	return node
}

// yamlResponses decodes a keyword→node mapping while preserving the
// document order of the keys. Reply order is author-visible, so a plain
// Go map would scramble it.
type yamlResponses []yamlResponse

type yamlResponse struct {
	keyword string
	node    *yamlNode
}

func (r *yamlResponses) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: responses must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var keyword string
		if err := value.Content[i].Decode(&keyword); err != nil {
			return err
		}
		var node yamlNode
		if err := value.Content[i+1].Decode(&node); err != nil {
			return err
		}
		*r = append(*r, yamlResponse{keyword: keyword, node: &node})
	}
	return nil
}

func (w *yamlWorld) toWorld() *types.World {
	world := &types.World{
		Header: types.Header{
			Title:             w.World.Title,
			Start:             w.World.Start,
			Intro:             w.World.Intro,
			InitialInventory:  w.World.Inventory,
			InitialCompanions: w.World.Companions,
		},
		Flags:     w.Flags,
		Items:     map[string]types.Item{},
		Locations: map[string]types.Location{},
		NPCs:      map[string]types.NPC{},
	}

	for id, item := range w.Items {
		portable := true
		if item.Portable != nil {
			portable = *item.Portable
		}
		world.Items[id] = types.Item{
			Name:                item.Name,
			Description:         item.Description,
			Portable:            portable,
			Aliases:             item.Aliases,
			LocationDescription: item.LocationDescription.text,
		}
	}

	for id, npc := range w.NPCs {
		world.Items[id] = types.Item{
			Name:        npc.Name,
			Description: npc.Description,
			Portable:    false,
			Aliases:     npc.Aliases,
		}
		world.NPCs[id] = types.NPC{
			Persona:     npc.Persona,
			SampleLines: npc.SampleLines,
			QuestHook:   npc.QuestHook,
			Dialog:      npc.Dialog.dialog,
		}
	}

	for id, location := range w.Locations {
		exits := map[string]types.Exit{}
		for dir, exit := range location.Exits {
			exits[dir] = types.Exit{
				To:                 exit.To,
				Description:        exit.Description,
				Criteria:           exit.Criteria.toCriteria(),
				BlockedDescription: exit.BlockedDescription.text,
			}
		}
		world.Locations[id] = types.Location{
			Name:        location.Name,
			Description: location.Description,
			Items:       location.Items,
			Exits:       exits,
		}
	}

	for _, in := range w.Interactions {
		world.Interactions = append(world.Interactions, types.Interaction{
			ID:         in.ID,
			Verb:       in.Verb,
			Item:       in.Item,
			Target:     in.Target,
			Criteria:   in.Criteria.toCriteria(),
			Effect:     in.Effect.toEffect(),
			Message:    in.Message.text,
			Dialog:     in.Dialog.toNode(),
			Consumes:   in.Consumes,
			Repeatable: in.Repeatable,
		})
	}

	return world
}
