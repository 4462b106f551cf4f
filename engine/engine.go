// Package engine orchestrates parsing, item resolution, criteria checks,
// interactions and dialog into single-command transitions over a session
// state. Every call to HandleCommand is atomic: on an INVALID or NO_EFFECT
// result the session state is left untouched.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/slorkgame/slork/engine/dialog"
	"github.com/slorkgame/slork/engine/logic"
	"github.com/slorkgame/slork/engine/parser"
	"github.com/slorkgame/slork/engine/resolve"
	"github.com/slorkgame/slork/engine/state"
	"github.com/slorkgame/slork/types"
)

// CommandHandler is the surface front ends (and the AI wrapper) talk to.
type CommandHandler interface {
	HandleRawCommand(raw string) types.ActionResult
	DescribeCurrentLocation(verbose bool) types.ActionResult
}

// Engine owns one session's mutable state against a shared read-only world.
type Engine struct {
	World *types.World
	State *state.State

	jumps dialog.JumpIndex

	// Resting conversation node, nil when no dialog is active. Ephemeral:
	// not part of the persisted session snapshot.
	dialogNode *types.DialogNode
	dialogNPC  string
}

// New creates an engine with a fresh session for the given world.
func New(world *types.World) *Engine {
	return &Engine{
		World: world,
		State: state.New(world),
		jumps: dialog.BuildJumpIndex(world),
	}
}

// Intro returns the world's introduction text.
func (e *Engine) Intro() string {
	return e.World.Header.Intro
}

// ReplaceState swaps in a restored session state wholesale. Any active
// conversation is abandoned.
func (e *Engine) ReplaceState(s *state.State) {
	e.State = s
	e.dialogNode = nil
	e.dialogNPC = ""
}

// InDialog reports whether a conversation is waiting for a player reply.
func (e *Engine) InDialog() bool {
	return e.dialogNode != nil
}

// HandleRawCommand parses one line of player input and executes it. While
// a conversation is active the input is first tried as a reply keyword;
// anything else ends the conversation and is handled as a normal command.
func (e *Engine) HandleRawCommand(raw string) types.ActionResult {
	if e.dialogNode != nil {
		if result, ok := e.tryDialogResponse(raw); ok {
			return result
		}
		e.dialogNode = nil
		e.dialogNPC = ""
	}
	return e.HandleCommand(parser.Parse(raw))
}

// HandleDialogResponse continues an active conversation with a reply
// keyword. Front ends that track dialog themselves call this directly.
func (e *Engine) HandleDialogResponse(keyword string) types.ActionResult {
	if e.dialogNode == nil {
		return types.ActionResult{Status: types.StatusInvalid, Message: "You are not in a conversation."}
	}
	if result, ok := e.tryDialogResponse(keyword); ok {
		return result
	}
	return types.ActionResult{Status: types.StatusInvalid, Message: fmt.Sprintf("You cannot reply '%s'.", strings.TrimSpace(keyword))}
}

func (e *Engine) tryDialogResponse(keyword string) (types.ActionResult, bool) {
	step, ok := dialog.Respond(e.dialogNode, keyword, e.State, e.jumps)
	if !ok {
		return types.ActionResult{}, false
	}
	return e.dialogResult(step, e.dialogNPC), true
}

// HandleCommand executes one parsed command and returns the result.
func (e *Engine) HandleCommand(cmd types.ParsedCommand) types.ActionResult {
	if cmd.Error != "" {
		return types.ActionResult{Status: types.StatusInvalid, Message: cmd.Error}
	}

	switch cmd.Verb {
	case "look":
		return e.DescribeCurrentLocation(false)
	case "inventory":
		return e.handleInventory()
	case "go":
		return e.handleGo(cmd.MainNoun)
	case "take":
		return e.handleTake(cmd.MainNoun)
	case "drop":
		return e.handleDrop(cmd.MainNoun)
	case "examine":
		return e.handleExamine(cmd.MainNoun)
	case "talk":
		return e.handleTalk(cmd.MainNoun)
	default:
		return e.handleInteraction(cmd)
	}
}

func (e *Engine) currentLocation() types.Location {
	return e.World.Locations[e.State.Location]
}

// DescribeCurrentLocation builds the full scene description. Verbose mode
// adds the inventory and NPC dossiers for the AI front end.
func (e *Engine) DescribeCurrentLocation(verbose bool) types.ActionResult {
	location := e.currentLocation()

	lines := []string{location.Name, location.Description}
	lines = append(lines, e.describeNPCs(verbose)...)
	lines = append(lines, e.describeItems(verbose)...)
	lines = append(lines, e.describeExits()...)
	if verbose {
		lines = append(lines, e.describeInventory()...)
	}

	return types.ActionResult{
		Status:  types.StatusOK,
		Message: strings.Join(lines, "\n"),
		Image:   &types.ImageReference{Type: types.ImageLocation, ID: e.State.Location},
	}
}

func (e *Engine) describeNPCs(verbose bool) []string {
	var lines []string

	var present []string
	for _, id := range e.State.ItemsAt(e.State.Location) {
		if e.isNPC(id) {
			present = append(present, id)
		}
	}

	var companionNames []string
	for _, id := range present {
		if e.State.IsCompanion(id) {
			companionNames = append(companionNames, e.World.Items[id].Name)
		} else {
			lines = append(lines, e.World.Items[id].Description)
		}
	}
	if len(companionNames) > 0 {
		lines = append(lines, "Your companions: "+strings.Join(companionNames, ", "))
	}

	if verbose && len(present) > 0 {
		lines = append(lines, "Present NPCs:")
		for _, id := range present {
			npc := e.World.NPCs[id]
			lines = append(lines, "  "+e.World.Items[id].Name)
			if npc.Persona != "" {
				lines = append(lines, "    Persona: "+npc.Persona)
			}
			if npc.QuestHook != "" {
				lines = append(lines, "    Quest hook: "+npc.QuestHook)
			}
			if len(npc.SampleLines) > 0 {
				quoted := make([]string, len(npc.SampleLines))
				for i, l := range npc.SampleLines {
					quoted[i] = fmt.Sprintf("%q", l)
				}
				lines = append(lines, "    Sample lines: "+strings.Join(quoted, ", "))
			}
			if e.talkAvailable(id) {
				lines = append(lines, "    TALK interaction: Yes")
			} else {
				lines = append(lines, "    TALK interaction: No")
			}
		}
	}

	return lines
}

// talkAvailable reports whether a talk command on the NPC would currently
// produce something: an open dialog or an unspent matching interaction.
func (e *Engine) talkAvailable(npcID string) bool {
	npc := e.World.NPCs[npcID]
	switch d := npc.Dialog.(type) {
	case *types.DialogNode:
		return logic.Satisfied(d.Criteria, e.State)
	case types.PlainText, types.ConditionalText:
		return logic.Resolve(d.(types.ResolvableText), e.State) != ""
	}
	if in := e.matchInteraction("talk", npcID, ""); in != nil {
		return in.Repeatable || !e.State.Completed[in.ID]
	}
	return false
}

func (e *Engine) describeItems(verbose bool) []string {
	var lines []string

	// Only portable items are listed by name. Fixed items belong in the
	// location description, or carry their own conditional line.
	var names []string
	for _, id := range e.State.ItemsAt(e.State.Location) {
		if e.isNPC(id) {
			continue
		}
		item := e.World.Items[id]
		if text := logic.Resolve(item.LocationDescription, e.State); text != "" {
			lines = append(lines, text)
			continue
		}
		if item.Portable || verbose {
			names = append(names, item.Name)
		}
	}
	if len(names) > 0 {
		lines = append(lines, "You see: "+strings.Join(names, ", "))
	}

	return lines
}

func (e *Engine) describeExits() []string {
	location := e.currentLocation()

	directions := make([]string, 0, len(location.Exits))
	for dir := range location.Exits {
		directions = append(directions, dir)
	}
	sort.Strings(directions) // deterministic order

	var descriptions []string
	for _, dir := range directions {
		exit := location.Exits[dir]
		if !logic.Satisfied(exit.Criteria, e.State) {
			continue
		}
		if exit.Description != "" {
			descriptions = append(descriptions, dir+" - "+exit.Description)
		} else {
			descriptions = append(descriptions, dir)
		}
	}
	if len(descriptions) == 0 {
		return nil
	}
	return []string{"Exits: " + strings.Join(descriptions, ", ")}
}

func (e *Engine) describeInventory() []string {
	names := make([]string, 0, len(e.State.Inventory))
	for _, id := range e.State.Inventory {
		names = append(names, e.World.Items[id].Name)
	}
	if len(names) == 0 {
		return []string{"Inventory: Nothing"}
	}
	return []string{"Inventory: " + strings.Join(names, ", ")}
}

func (e *Engine) handleInventory() types.ActionResult {
	names := make([]string, 0, len(e.State.Inventory))
	for _, id := range e.State.Inventory {
		names = append(names, e.World.Items[id].Name)
	}
	if len(names) == 0 {
		return types.ActionResult{Status: types.StatusOK, Message: "You carry nothing."}
	}
	return types.ActionResult{Status: types.StatusOK, Message: strings.Join(names, ",\n")}
}

func (e *Engine) handleGo(direction string) types.ActionResult {
	location := e.currentLocation()

	exit, ok := location.Exits[direction]
	if !ok {
		return types.ActionResult{Status: types.StatusInvalid, Message: fmt.Sprintf("You cannot go %s.", direction)}
	}

	if !logic.Satisfied(exit.Criteria, e.State) {
		message := logic.Resolve(exit.BlockedDescription, e.State)
		if message == "" {
			message = fmt.Sprintf("You cannot go %s.", direction)
		}
		return types.ActionResult{Status: types.StatusInvalid, Message: message}
	}

	e.State.Location = exit.To
	e.State.MoveCompanions()
	return e.DescribeCurrentLocation(false)
}

func (e *Engine) handleTake(noun string) types.ActionResult {
	id, err := resolve.Item(e.World, e.State, noun, resolve.Scope{Location: true})
	if err != nil {
		return types.ActionResult{Status: types.StatusInvalid, Message: err.Error()}
	}

	item := e.World.Items[id]
	if !item.Portable {
		return types.ActionResult{Status: types.StatusNoEffect, Message: fmt.Sprintf("You cannot take the %s.", item.Name)}
	}

	e.State.TakeItem(id)
	return types.ActionResult{Status: types.StatusOK, Message: fmt.Sprintf("You took the %s.", item.Name)}
}

func (e *Engine) handleDrop(noun string) types.ActionResult {
	id, err := resolve.Item(e.World, e.State, noun, resolve.Scope{Inventory: true})
	if err != nil {
		return types.ActionResult{Status: types.StatusInvalid, Message: err.Error()}
	}

	item := e.World.Items[id]
	e.State.DropItem(id)
	return types.ActionResult{Status: types.StatusOK, Message: fmt.Sprintf("You dropped the %s", item.Name)}
}

func (e *Engine) handleExamine(noun string) types.ActionResult {
	id, err := resolve.Item(e.World, e.State, noun, resolve.Scope{Location: true, Inventory: true})
	if err != nil {
		return types.ActionResult{Status: types.StatusInvalid, Message: err.Error()}
	}

	item := e.World.Items[id]
	return types.ActionResult{
		Status:  types.StatusOK,
		Message: item.Description,
		Image:   e.itemImageRef(id, item),
	}
}

// itemImageRef decides which image an examined item gets. Non-portable
// non-NPC items get none: they are part of the location's description and
// a second image would likely contradict it.
func (e *Engine) itemImageRef(id string, item types.Item) *types.ImageReference {
	if e.isNPC(id) {
		return &types.ImageReference{Type: types.ImageNPC, ID: id}
	}
	if item.Portable {
		return &types.ImageReference{Type: types.ImageItem, ID: id}
	}
	return nil
}

func (e *Engine) handleTalk(noun string) types.ActionResult {
	id, err := resolve.Item(e.World, e.State, noun, resolve.Scope{Location: true})
	if err != nil {
		return types.ActionResult{Status: types.StatusInvalid, Message: err.Error()}
	}

	item := e.World.Items[id]
	if !e.isNPC(id) {
		return types.ActionResult{Status: types.StatusNoEffect, Message: fmt.Sprintf("You cannot talk to the %s.", item.Name)}
	}

	npc := e.World.NPCs[id]
	noReply := types.ActionResult{Status: types.StatusNoEffect, Message: fmt.Sprintf("The %s does not reply.", item.Name)}

	switch d := npc.Dialog.(type) {
	case *types.DialogNode:
		if !logic.Satisfied(d.Criteria, e.State) {
			return noReply
		}
		step := dialog.Enter(d, e.State, e.jumps)
		result := e.dialogResult(step, id)
		result.Image = &types.ImageReference{Type: types.ImageNPC, ID: id}
		return result

	case types.PlainText, types.ConditionalText:
		text := logic.Resolve(d.(types.ResolvableText), e.State)
		if text == "" {
			return noReply
		}
		return types.ActionResult{
			Status:  types.StatusOK,
			Message: text,
			Image:   &types.ImageReference{Type: types.ImageNPC, ID: id},
		}
	}

	// No authored dialog: a talk interaction may still cover this NPC.
	result := e.applyInteraction("talk", id, "")
	if result.Status == types.StatusNoEffect && result.Message == "That didn't work." {
		return noReply
	}
	return result
}

// handleInteraction covers the authored-rule verbs: open, close, use, give.
func (e *Engine) handleInteraction(cmd types.ParsedCommand) types.ActionResult {
	if cmd.MainNoun == "" {
		// The parser guarantees a main noun for every verb routed here.
		panic(fmt.Sprintf("engine: interaction verb %q reached with no main noun", cmd.Verb))
	}

	// With a target present the main noun must come from the inventory.
	mainScope := resolve.Scope{Inventory: true, Location: cmd.TargetNoun == ""}
	itemID, err := resolve.Item(e.World, e.State, cmd.MainNoun, mainScope)
	if err != nil {
		return types.ActionResult{Status: types.StatusInvalid, Message: err.Error()}
	}

	targetID := ""
	if cmd.TargetNoun != "" {
		targetID, err = resolve.Item(e.World, e.State, cmd.TargetNoun, resolve.Scope{Location: true})
		if err != nil {
			return types.ActionResult{Status: types.StatusInvalid, Message: err.Error()}
		}
	}

	return e.applyInteraction(cmd.Verb, itemID, targetID)
}

// matchInteraction finds the first interaction, in authoring order, whose
// verb/item/target triple matches and whose criteria is satisfied.
// Multiple interactions may share a triple and differ only by criteria, so
// declaration order is a deliberate priority rule.
func (e *Engine) matchInteraction(verb, itemID, targetID string) *types.Interaction {
	for i := range e.World.Interactions {
		in := &e.World.Interactions[i]
		if in.Verb != verb || in.Item != itemID || in.Target != targetID {
			continue
		}
		if !logic.Satisfied(in.Criteria, e.State) {
			continue
		}
		return in
	}
	return nil
}

func (e *Engine) applyInteraction(verb, itemID, targetID string) types.ActionResult {
	in := e.matchInteraction(verb, itemID, targetID)
	if in == nil {
		return types.ActionResult{Status: types.StatusNoEffect, Message: "That didn't work."}
	}

	if !in.Repeatable && e.State.Completed[in.ID] {
		return types.ActionResult{Status: types.StatusNoEffect, Message: "You already did that."}
	}

	logic.Apply(in.Effect, e.State)
	if in.Consumes {
		e.State.ConsumeItem(in.Item)
	}
	if !in.Repeatable {
		e.State.Completed[in.ID] = true
	}

	if in.Dialog != nil {
		step := dialog.Enter(in.Dialog, e.State, e.jumps)
		return e.dialogResult(step, itemID)
	}

	return types.ActionResult{Status: types.StatusOK, Message: logic.Resolve(in.Message, e.State)}
}

// dialogResult converts a dialog step into an action result and records
// where the conversation now rests.
func (e *Engine) dialogResult(step dialog.Step, npcID string) types.ActionResult {
	message := step.Message
	if len(step.Responses) > 0 {
		if message != "" {
			message += "\n"
		}
		message += dialog.FormatResponses(step.Responses)
	}

	if step.Done {
		e.dialogNode = nil
		e.dialogNPC = ""
	} else {
		e.dialogNode = step.Node
		e.dialogNPC = npcID
	}

	return types.ActionResult{Status: types.StatusOK, Message: message}
}

func (e *Engine) isNPC(itemID string) bool {
	_, ok := e.World.NPCs[itemID]
	return ok
}
