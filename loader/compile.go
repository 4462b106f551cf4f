package loader

import (
	"fmt"

	"github.com/slorkgame/slork/types"
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game         *lua.LTable
	locations    []rawDef
	items        []rawDef
	npcs         []rawDef
	interactions []rawDef
}

// rawDef holds one id'd definition table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStringList returns an array field as a string slice, or nil.
func getStringList(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

func kindOf(v lua.LValue) (string, *lua.LTable) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return "", nil
	}
	return getString(tbl, kindKey), tbl
}

// compile converts all collected Lua data into a World.
func compile(coll *collector) (*types.World, error) {
	world := &types.World{
		Items:     map[string]types.Item{},
		Locations: map[string]types.Location{},
		NPCs:      map[string]types.NPC{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	world.Header = types.Header{
		Title:             getString(coll.game, "title"),
		Start:             getString(coll.game, "start"),
		Intro:             getString(coll.game, "intro"),
		InitialInventory:  getStringList(coll.game, "inventory"),
		InitialCompanions: getStringList(coll.game, "companions"),
	}
	world.Flags = getStringList(coll.game, "flags")

	for _, raw := range coll.items {
		item, err := compileItem(raw.table)
		if err != nil {
			return nil, fmt.Errorf("compiling item %s: %w", raw.id, err)
		}
		world.Items[raw.id] = item
	}

	for _, raw := range coll.npcs {
		item, npc, err := compileNPC(raw.table)
		if err != nil {
			return nil, fmt.Errorf("compiling npc %s: %w", raw.id, err)
		}
		world.Items[raw.id] = item
		world.NPCs[raw.id] = npc
	}

	for _, raw := range coll.locations {
		location, err := compileLocation(raw.table)
		if err != nil {
			return nil, fmt.Errorf("compiling location %s: %w", raw.id, err)
		}
		world.Locations[raw.id] = location
	}

	for _, raw := range coll.interactions {
		interaction, err := compileInteraction(raw.id, raw.table)
		if err != nil {
			return nil, fmt.Errorf("compiling interaction %s: %w", raw.id, err)
		}
		world.Interactions = append(world.Interactions, interaction)
	}

	return world, nil
}

func compileItem(tbl *lua.LTable) (types.Item, error) {
	locationDesc, err := compileResolvable(tbl.RawGetString("location_description"))
	if err != nil {
		return types.Item{}, err
	}
	return types.Item{
		Name:                getString(tbl, "name"),
		Description:         getString(tbl, "description"),
		Portable:            getBool(tbl, "portable", true),
		Aliases:             getStringList(tbl, "aliases"),
		LocationDescription: locationDesc,
	}, nil
}

func compileNPC(tbl *lua.LTable) (types.Item, types.NPC, error) {
	item := types.Item{
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Portable:    false,
		Aliases:     getStringList(tbl, "aliases"),
	}

	dialog, err := compileDialog(tbl.RawGetString("dialog"))
	if err != nil {
		return types.Item{}, types.NPC{}, err
	}

	npc := types.NPC{
		Persona:     getString(tbl, "persona"),
		SampleLines: getStringList(tbl, "sample_lines"),
		QuestHook:   getString(tbl, "quest_hook"),
		Dialog:      dialog,
	}
	return item, npc, nil
}

func compileLocation(tbl *lua.LTable) (types.Location, error) {
	location := types.Location{
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Items:       getStringList(tbl, "items"),
		Exits:       map[string]types.Exit{},
	}

	exits := getTable(tbl, "exits")
	if exits == nil {
		return location, nil
	}
	var err error
	exits.ForEach(func(k, v lua.LValue) {
		dir, ok := k.(lua.LString)
		if !ok || err != nil {
			return
		}
		exit, exitErr := compileExit(v)
		if exitErr != nil {
			err = fmt.Errorf("exit %s: %w", dir, exitErr)
			return
		}
		location.Exits[string(dir)] = exit
	})
	return location, err
}

func compileExit(v lua.LValue) (types.Exit, error) {
	// Shorthand: north = "cave".
	if to, ok := v.(lua.LString); ok {
		return types.Exit{To: string(to)}, nil
	}

	kind, tbl := kindOf(v)
	if kind != "exit" {
		return types.Exit{}, fmt.Errorf("expected Exit{} or location id, got %s", v.Type())
	}

	blocked, err := compileResolvable(tbl.RawGetString("blocked"))
	if err != nil {
		return types.Exit{}, err
	}
	return types.Exit{
		To:                 getString(tbl, "to"),
		Description:        getString(tbl, "description"),
		Criteria:           compileCriteria(tbl.RawGetString("criteria")),
		BlockedDescription: blocked,
	}, nil
}

func compileInteraction(id string, tbl *lua.LTable) (types.Interaction, error) {
	message, err := compileResolvable(tbl.RawGetString("message"))
	if err != nil {
		return types.Interaction{}, err
	}

	var dialog *types.DialogNode
	if v := tbl.RawGetString("dialog"); v != lua.LNil {
		d, err := compileDialog(v)
		if err != nil {
			return types.Interaction{}, err
		}
		node, ok := d.(*types.DialogNode)
		if !ok {
			return types.Interaction{}, fmt.Errorf("interaction dialog must be a Node{}")
		}
		dialog = node
	}

	return types.Interaction{
		ID:         id,
		Verb:       getString(tbl, "verb"),
		Item:       getString(tbl, "item"),
		Target:     getString(tbl, "target"),
		Criteria:   compileCriteria(tbl.RawGetString("criteria")),
		Effect:     compileEffect(tbl.RawGetString("effect")),
		Message:    message,
		Dialog:     dialog,
		Consumes:   getBool(tbl, "consumes", false),
		Repeatable: getBool(tbl, "repeatable", false),
	}, nil
}

func compileCriteria(v lua.LValue) *types.Criteria {
	kind, tbl := kindOf(v)
	if kind != "criteria" {
		return nil
	}
	return &types.Criteria{
		RequiresFlags:      getStringList(tbl, "requires_flags"),
		BlockingFlags:      getStringList(tbl, "blocking_flags"),
		RequiresInventory:  getStringList(tbl, "requires_inventory"),
		RequiresCompanions: getStringList(tbl, "requires_companions"),
	}
}

func compileEffect(v lua.LValue) *types.Effect {
	kind, tbl := kindOf(v)
	if kind != "effect" {
		return nil
	}
	return &types.Effect{
		SetFlags:   getStringList(tbl, "set"),
		ClearFlags: getStringList(tbl, "clear"),
	}
}

// compileResolvable compiles a plain string or a Conditional{} into
// resolvable text. Absent fields compile to nil.
func compileResolvable(v lua.LValue) (types.ResolvableText, error) {
	if v == lua.LNil {
		return nil, nil
	}
	if s, ok := v.(lua.LString); ok {
		return types.PlainText(string(s)), nil
	}

	kind, tbl := kindOf(v)
	if kind != "conditional" {
		return nil, fmt.Errorf("expected string or Conditional{}, got %s", v.Type())
	}

	var clauses types.ConditionalText
	var err error
	for i := 1; i <= tbl.MaxN(); i++ {
		entry := tbl.RawGetInt(i)
		if text, ok := entry.(lua.LString); ok {
			// Bare string: unconditional fallback clause.
			clauses = append(clauses, types.TextClause{Text: string(text)})
			continue
		}
		entryKind, entryTbl := kindOf(entry)
		if entryKind != "clause" {
			err = fmt.Errorf("Conditional entry %d: expected Clause() or string", i)
			break
		}
		clauses = append(clauses, types.TextClause{
			Text:     getString(entryTbl, "text"),
			Criteria: compileCriteria(entryTbl.RawGetString("criteria")),
		})
	}
	if err != nil {
		return nil, err
	}
	return clauses, nil
}

// compileDialog compiles a string, Conditional{} or Node{} into a dialog.
func compileDialog(v lua.LValue) (types.Dialog, error) {
	if v == lua.LNil {
		return nil, nil
	}
	if kind, _ := kindOf(v); kind == "node" {
		return compileNode(v)
	}

	text, err := compileResolvable(v)
	if err != nil {
		return nil, err
	}
	switch t := text.(type) {
	case types.PlainText:
		return t, nil
	case types.ConditionalText:
		return t, nil
	}
	return nil, fmt.Errorf("expected string, Conditional{} or Node{}, got %s", v.Type())
}

func compileNode(v lua.LValue) (*types.DialogNode, error) {
	kind, tbl := kindOf(v)
	if kind != "node" {
		return nil, fmt.Errorf("expected Node{}, got %s", v.Type())
	}

	npcNarrative, err := compileResolvable(tbl.RawGetString("npc"))
	if err != nil {
		return nil, err
	}
	playerNarrative, err := compileResolvable(tbl.RawGetString("player"))
	if err != nil {
		return nil, err
	}
	jump, err := compileResolvable(tbl.RawGetString("jump"))
	if err != nil {
		return nil, err
	}

	node := &types.DialogNode{
		NPCNarrative:    npcNarrative,
		PlayerNarrative: playerNarrative,
		Criteria:        compileCriteria(tbl.RawGetString("criteria")),
		Effect:          compileEffect(tbl.RawGetString("effect")),
		Jump:            jump,
		JumpTarget:      getString(tbl, "jump_target"),
		Internal:        getBool(tbl, "internal", false),
	}

	responses := getTable(tbl, "responses")
	if responses == nil {
		return node, nil
	}
	for i := 1; i <= responses.MaxN(); i++ {
		entryKind, entryTbl := kindOf(responses.RawGetInt(i))
		if entryKind != "response" {
			return nil, fmt.Errorf("responses entry %d: expected Response()", i)
		}
		child, err := compileNode(entryTbl.RawGetString("node"))
		if err != nil {
			return nil, err
		}
		node.Responses = append(node.Responses, types.DialogResponse{
			Keyword: getString(entryTbl, "keyword"),
			Node:    child,
		})
	}
	return node, nil
}
