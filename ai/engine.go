package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/slorkgame/slork/engine"
	"github.com/slorkgame/slork/engine/parser"
	"github.com/slorkgame/slork/types"
)

// Engine wraps the deterministic game engine with free-text command
// translation: input the parser rejects is handed to the chat backend,
// which restates it in the fixed command grammar. The game rules
// themselves are never delegated to the model.
type Engine struct {
	game   *engine.Engine
	client Client
}

var _ engine.CommandHandler = (*Engine)(nil)

// NewEngine wraps game with the given chat client.
func NewEngine(game *engine.Engine, client Client) *Engine {
	return &Engine{game: game, client: client}
}

func (e *Engine) DescribeCurrentLocation(verbose bool) types.ActionResult {
	return e.game.DescribeCurrentLocation(verbose)
}

// HandleRawCommand executes input directly when it parses, and otherwise
// asks the model to translate it. The translated command is echoed back
// in the result so the player sees what actually ran.
func (e *Engine) HandleRawCommand(raw string) types.ActionResult {
	if e.game.InDialog() {
		// Dialog replies are keyword matches; translation would only
		// get in the way.
		return e.game.HandleRawCommand(raw)
	}

	cmd := parser.Parse(raw)
	if cmd.Error == "" {
		return e.game.HandleCommand(cmd)
	}

	translated, err := e.translate(raw)
	if err != nil {
		log.Warn().Err(err).Str("input", raw).Msg("command translation failed")
		return types.ActionResult{Status: types.StatusInvalid, Message: cmd.Error}
	}

	translatedCmd := parser.Parse(translated)
	if translatedCmd.Error != "" {
		log.Debug().Str("input", raw).Str("translated", translated).Msg("translation did not parse")
		return types.ActionResult{Status: types.StatusInvalid, Message: cmd.Error}
	}

	result := e.game.HandleCommand(translatedCmd)
	result.Message = fmt.Sprintf("(%s)\n%s", translated, result.Message)
	return result
}

// HandleDialogResponse passes dialog replies straight through.
func (e *Engine) HandleDialogResponse(keyword string) types.ActionResult {
	return e.game.HandleDialogResponse(keyword)
}

func (e *Engine) translate(raw string) (string, error) {
	scene := e.game.DescribeCurrentLocation(true)

	resp, err := e.client.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: translationPrompt()},
		{Role: RoleUser, Content: fmt.Sprintf("CURRENT SCENE:\n%s\n\nPLAYER INPUT: %s", scene.Message, raw)},
	})
	if err != nil {
		return "", err
	}

	translated := strings.TrimSpace(resp.Content)
	translated = strings.Trim(translated, "`\"")
	return translated, nil
}

func translationPrompt() string {
	verbs := make([]string, 0, len(parser.ValidVerbs))
	for v := range parser.ValidVerbs {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)

	return fmt.Sprintf(`You translate free-form player input for a text adventure into its fixed command grammar.

Valid verbs: %s.
Command forms:
  <verb>
  <verb> <noun>
  use <noun> on <noun>
  give <noun> to <noun>
  talk to <noun>
Directions north/south/east/west/up/down are used as "go <direction>".

Use only nouns visible in the scene or inventory.
Output ONLY the translated command, nothing else.`, strings.Join(verbs, ", "))
}
