package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.AITimeout != 60*time.Second {
		t.Errorf("AITimeout = %v", cfg.AITimeout)
	}
	if cfg.AssetsDir != "assets" {
		t.Errorf("AssetsDir = %q", cfg.AssetsDir)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SLORK_AI_BACKEND", "openai")
	t.Setenv("SLORK_AI_MODEL", "gpt-4o-mini")
	t.Setenv("SLORK_AI_TIMEOUT", "90s")
	t.Setenv("SLORK_LISTEN_ADDR", ":9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AIBackend != "openai" || cfg.AIModel != "gpt-4o-mini" {
		t.Errorf("ai settings = %q %q", cfg.AIBackend, cfg.AIModel)
	}
	if cfg.AITimeout != 90*time.Second {
		t.Errorf("AITimeout = %v", cfg.AITimeout)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
}
