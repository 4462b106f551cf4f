// Package web exposes a single game session over HTTP. It is a thin
// translation layer: every route delegates to the engine and returns its
// ActionResult as JSON, with image references rewritten to URLs this
// server can satisfy.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/slorkgame/slork/engine"
	"github.com/slorkgame/slork/engine/save"
	"github.com/slorkgame/slork/engine/state"
	"github.com/slorkgame/slork/images"
	"github.com/slorkgame/slork/types"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Str("component", "web").Logger()

// Server hosts one game session. The engine is not safe for concurrent
// use, so every handler holds the session lock.
type Server struct {
	mu      sync.Mutex
	handler engine.CommandHandler
	game    *engine.Engine
	images  *images.Service
	saveDir string
}

// New creates a server. handler is the player-facing engine (possibly
// AI-wrapped); game is the underlying deterministic engine that owns the
// session state. images may be nil.
func New(handler engine.CommandHandler, game *engine.Engine, imageService *images.Service, saveDir string) *Server {
	return &Server{
		handler: handler,
		game:    game,
		images:  imageService,
		saveDir: saveDir,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.GET("/scene", s.handleScene)
	api.POST("/command", s.handleCommand)
	api.POST("/dialog", s.handleDialog)
	api.POST("/save", s.handleSave)
	api.POST("/load", s.handleLoad)

	router.GET("/images/:type/:id", s.handleImage)
	return router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	log.Info().Str("addr", addr).Msg("serving")
	return s.Router().Run(addr)
}

type actionResponse struct {
	Status   types.ActionStatus `json:"status"`
	Message  string             `json:"message"`
	ImageURL string             `json:"image_url,omitempty"`
	InDialog bool               `json:"in_dialog"`
}

func (s *Server) respond(c *gin.Context, result types.ActionResult) {
	resp := actionResponse{
		Status:   result.Status,
		Message:  result.Message,
		InDialog: s.game.InDialog(),
	}
	if result.Image != nil {
		resp.ImageURL = fmt.Sprintf("/images/%s/%s", result.Image.Type, result.Image.ID)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleScene(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respond(c, s.handler.DescribeCurrentLocation(false))
}

func (s *Server) handleCommand(c *gin.Context) {
	var req struct {
		Command string `json:"command" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "command is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.respond(c, s.handler.HandleRawCommand(req.Command))
}

func (s *Server) handleDialog(c *gin.Context) {
	var req struct {
		Keyword string `json:"keyword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.respond(c, s.game.HandleDialogResponse(req.Keyword))
}

func (s *Server) handleSave(c *gin.Context) {
	name, ok := s.bindSlot(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := save.Save(s.game.State, s.game.World)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	path, err := s.slotPath(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": name})
}

func (s *Server) handleLoad(c *gin.Context) {
	name, ok := s.bindSlot(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.slotPath(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("save %q does not exist", name)})
		return
	}
	sd, err := save.Load(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	restored := state.New(s.game.World)
	save.ApplySave(restored, sd)
	s.game.ReplaceState(restored)

	s.respond(c, s.handler.DescribeCurrentLocation(false))
}

func (s *Server) handleImage(c *gin.Context) {
	if s.images == nil {
		c.Status(http.StatusNotFound)
		return
	}

	imageType := types.ImageType(c.Param("type"))
	switch imageType {
	case types.ImageLocation, types.ImageItem, types.ImageNPC:
	default:
		c.Status(http.StatusNotFound)
		return
	}

	ref := &types.ImageReference{Type: imageType, ID: c.Param("id")}
	path, err := s.images.Get(c.Request.Context(), ref)
	if errors.Is(err, images.ErrUnavailable) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("id", ref.ID).Msg("image lookup failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.File(path)
}

func (s *Server) bindSlot(c *gin.Context) (string, bool) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return "", false
	}
	return req.Name, true
}

// slotPath maps a slot name to a file under the save directory, rejecting
// names that would escape it.
func (s *Server) slotPath(name string) (string, error) {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid save name %q", name)
	}
	if err := os.MkdirAll(s.saveDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(s.saveDir, name+".json"), nil
}
