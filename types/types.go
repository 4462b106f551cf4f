// Package types defines the shared data structures for the Slork engine.
// This package contains only type definitions — no logic beyond the
// closed-variant markers.
package types

// ParsedCommand is the structured form of one line of player input.
// Error is set (and the noun fields empty) when parsing failed.
type ParsedCommand struct {
	Raw        string
	Verb       string
	MainNoun   string
	TargetNoun string
	Error      string
}

// ActionStatus classifies the outcome of a command.
type ActionStatus string

const (
	StatusOK       ActionStatus = "ok"
	StatusNoEffect ActionStatus = "no_effect"
	StatusInvalid  ActionStatus = "invalid"
)

// ImageType tags an ImageReference with the kind of subject it depicts.
type ImageType string

const (
	ImageLocation ImageType = "location"
	ImageItem     ImageType = "item"
	ImageNPC      ImageType = "npc"
)

// ImageReference points an external image collaborator at a world entity.
// The engine only emits references; it never resolves media.
type ImageReference struct {
	Type ImageType `json:"type"`
	ID   string    `json:"id"`
}

// ActionResult is the output of a single handled command.
type ActionResult struct {
	Status  ActionStatus    `json:"status"`
	Message string          `json:"message"`
	Image   *ImageReference `json:"image,omitempty"`
}

// Criteria is a conjunctive gating predicate: every required flag, item and
// companion must be present and no blocking flag may be set.
type Criteria struct {
	RequiresFlags      []string
	BlockingFlags      []string
	RequiresInventory  []string
	RequiresCompanions []string
}

// Effect is a flag-set delta applied on a successful interaction or on
// dialog-node entry.
type Effect struct {
	SetFlags   []string
	ClearFlags []string
}

// ResolvableText is text that may vary by currently-satisfied criteria.
// Closed variant: PlainText or ConditionalText.
type ResolvableText interface {
	resolvableText()
}

// PlainText is the unconditional ResolvableText case.
type PlainText string

func (PlainText) resolvableText() {}
func (PlainText) dialog()         {}

// TextClause is one conditional variant of a ConditionalText. A nil
// Criteria marks the unconditional fallback, which must come last.
type TextClause struct {
	Text     string
	Criteria *Criteria
}

// ConditionalText is an ordered clause list resolved first-match.
type ConditionalText []TextClause

func (ConditionalText) resolvableText() {}
func (ConditionalText) dialog()         {}

// Dialog is what an NPC says when talked to: a plain string, conditional
// text, or a full dialog tree. Closed variant over PlainText,
// ConditionalText and *DialogNode.
type Dialog interface {
	dialog()
}

// DialogResponse maps a player reply keyword to a child node, in authored
// order.
type DialogResponse struct {
	Keyword string
	Node    *DialogNode
}

// DialogNode is one node of a conversation tree.
type DialogNode struct {
	NPCNarrative    ResolvableText // optional
	PlayerNarrative ResolvableText // optional
	Criteria        *Criteria      // gates selecting this node as a response
	Effect          *Effect        // applied on entry
	Jump            ResolvableText // optional, resolves to a JumpTarget label
	JumpTarget      string         // optional label, globally unique
	Internal        bool           // reachable only via a jump, never listed
	Responses       []DialogResponse
}

func (*DialogNode) dialog() {}

// Item is a world object. Its identity is the map key in World.Items; an
// NPC shares an id with an Item and layers persona data on top.
type Item struct {
	Name                string
	Description         string
	LocationDescription ResolvableText // optional, shown in room listings
	Portable            bool
	Aliases             []string
}

// Exit connects a location to another. Criteria and BlockedDescription
// must be both present or both absent (validator-enforced).
type Exit struct {
	To                 string
	Description        string
	Criteria           *Criteria
	BlockedDescription ResolvableText
}

// Location is a place in the world. Items is the initial seed only; live
// membership belongs to the session state.
type Location struct {
	Name        string
	Description string
	Exits       map[string]Exit
	Items       []string
}

// NPC holds the persona layered onto an item id.
type NPC struct {
	Persona     string
	SampleLines []string
	QuestHook   string
	Dialog      Dialog // optional
}

// Interaction is an authored (verb, item, optional target) rule. Exactly
// one of Message/Dialog is set (validator-enforced). A target is only
// legal for the verbs "use" and "give".
type Interaction struct {
	ID         string
	Verb       string
	Item       string
	Target     string // optional
	Criteria   *Criteria
	Effect     *Effect
	Message    ResolvableText
	Dialog     *DialogNode
	Consumes   bool
	Repeatable bool
}

// Header is the world preamble.
type Header struct {
	Title             string
	Start             string
	InitialInventory  []string
	InitialCompanions []string
	Intro             string
}

// World is the immutable-after-load world definition.
type World struct {
	Header       Header
	Flags        []string // declared flag vocabulary
	Items        map[string]Item
	Locations    map[string]Location
	NPCs         map[string]NPC
	Interactions []Interaction // authoring order; first match wins
}
