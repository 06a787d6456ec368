package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny grid", func(c *Config) { c.Generation.Width = 5 }},
		{"inverted rooms", func(c *Config) { c.Generation.MinRooms = 9; c.Generation.MaxRooms = 3 }},
		{"room too wide", func(c *Config) { c.Generation.RoomMaxWidth = 90 }},
		{"no attempts", func(c *Config) { c.Generation.MaxPlacementAttempts = 0 }},
		{"zero speed", func(c *Config) { c.PlayerSpeed = 0 }},
		{"negative monsters", func(c *Config) { c.NumMonsters = -1 }},
		{"oversized grid", func(c *Config) { c.Generation.Width = 300 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"seed": 42, "numMonsters": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Seed != 42 || cfg.NumMonsters != 3 {
		t.Errorf("Load() seed=%d monsters=%d, want 42 and 3", cfg.Seed, cfg.NumMonsters)
	}
	if cfg.Generation.Width != 80 {
		t.Errorf("Generation.Width = %d, want default 80", cfg.Generation.Width)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"playerSpeed": -4}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() = %v, want ErrInvalid", err)
	}
}

func TestSchemaMarshals(t *testing.T) {
	data, err := json.Marshal(Schema())
	if err != nil {
		t.Fatalf("Marshal(Schema()) = %v", err)
	}
	if len(data) == 0 {
		t.Error("schema is empty")
	}
}
