// Package images serves scene art for image references. Images are cached
// as PNGs on disk; missing ones can be generated through the AI backend
// when one is configured. Without a generator the service still serves
// whatever pre-rendered art ships with the world.
package images

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/slorkgame/slork/ai"
	"github.com/slorkgame/slork/types"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Str("component", "images").Logger()

// ErrUnavailable indicates the image is not cached and no generator is
// configured to create it.
var ErrUnavailable = errors.New("image not available")

// Service resolves image references to PNG files on disk.
type Service struct {
	dir       string
	world     *types.World
	client    ai.Client
	generator ai.ImageGenerator
}

// NewService creates a service caching under dir. client may be nil; the
// service then only serves pre-rendered files.
func NewService(dir string, world *types.World, client ai.Client) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory %s: %w", dir, err)
	}

	s := &Service{dir: dir, world: world, client: client}
	if client != nil {
		if gen, ok := client.ImageGenerator(); ok {
			s.generator = gen
		}
	}
	return s, nil
}

// Get returns the PNG path for a reference, generating it on a cache miss
// when a generator is available.
func (s *Service) Get(ctx context.Context, ref *types.ImageReference) (string, error) {
	if ref == nil {
		return "", ErrUnavailable
	}

	path := s.Path(ref)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if s.generator == nil {
		return "", ErrUnavailable
	}

	prompt, err := s.buildPrompt(ctx, ref)
	if err != nil {
		return "", err
	}
	log.Info().Str("type", string(ref.Type)).Str("id", ref.ID).Msg("generating image")
	if err := s.generator.GeneratePNG(ctx, prompt, path); err != nil {
		return "", err
	}
	return path, nil
}

// Path returns the cache location for a reference, whether or not the
// file exists yet.
func (s *Service) Path(ref *types.ImageReference) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.png", ref.Type, ref.ID))
}

// buildPrompt asks the chat backend to write an image prompt from the
// world's own description of the subject.
func (s *Service) buildPrompt(ctx context.Context, ref *types.ImageReference) (string, error) {
	subject, err := s.describe(ref)
	if err != nil {
		return "", err
	}
	if s.client == nil {
		return subject, nil
	}

	resp, err := s.client.Chat(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: promptFor(ref.Type)},
		{Role: ai.RoleUser, Content: subject},
	})
	if err != nil {
		return "", fmt.Errorf("building image prompt: %w", err)
	}
	return resp.Content, nil
}

func (s *Service) describe(ref *types.ImageReference) (string, error) {
	switch ref.Type {
	case types.ImageLocation:
		location, ok := s.world.Locations[ref.ID]
		if !ok {
			return "", fmt.Errorf("unknown location %q", ref.ID)
		}
		return fmt.Sprintf("LOCATION: %s\nDESCRIPTION: %s", location.Name, location.Description), nil

	case types.ImageItem:
		item, ok := s.world.Items[ref.ID]
		if !ok {
			return "", fmt.Errorf("unknown item %q", ref.ID)
		}
		return fmt.Sprintf("ITEM: %s\nDESCRIPTION: %s", item.Name, item.Description), nil

	case types.ImageNPC:
		item, ok := s.world.Items[ref.ID]
		if !ok {
			return "", fmt.Errorf("unknown npc %q", ref.ID)
		}
		description := fmt.Sprintf("CHARACTER: %s\nDESCRIPTION: %s", item.Name, item.Description)
		if npc, ok := s.world.NPCs[ref.ID]; ok && npc.Persona != "" {
			description += "\nPERSONA: " + npc.Persona
		}
		return description, nil
	}
	return "", fmt.Errorf("unknown image type %q", ref.Type)
}

func promptFor(imageType types.ImageType) string {
	switch imageType {
	case types.ImageLocation:
		return locationPrompt
	case types.ImageNPC:
		return npcPrompt
	default:
		return itemPrompt
	}
}

const locationPrompt = `You are an image generator prompt creator.
You create prompts to generate supplementary images for a text adventure
game, based on the text descriptions of locations.

Images should illustrate the content from the original text.

Images should NOT introduce any new content that might mislead the player
into thinking there are items to pick up or interact with that are not
present in the text adventure.

The image must NOT include any characters (human or otherwise). Even
characters mentioned in the original text must NOT be included. The image
should illustrate the LOCATION only.

Do NOT invoke tools, functions, or tool calls.
Output ONLY the prompt to send to the AI image creator.`

const itemPrompt = `You are an image generator prompt creator.
You create prompts to generate close-up images of single items from a text
adventure game, based on their text descriptions.

Show the item alone against a plain backdrop. Do not add other objects,
text, or characters.

Do NOT invoke tools, functions, or tool calls.
Output ONLY the prompt to send to the AI image creator.`

const npcPrompt = `You are an image generator prompt creator.
You create portrait prompts for characters in a text adventure game,
based on their text descriptions.

Show the single character only, matching the description. Do not add
items, text, or other characters.

Do NOT invoke tools, functions, or tool calls.
Output ONLY the prompt to send to the AI image creator.`
