// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tomtom215/mingle/internal/schema"
)

func TestConfigValidate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{
			name:      "defaults are valid",
			modify:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "missing input path",
			modify:    func(c *Config) { c.Input.Path = "" },
			wantError: true,
		},
		{
			name:      "missing output dir",
			modify:    func(c *Config) { c.Output.Dir = "" },
			wantError: true,
		},
		{
			name: "unknown association scope variable",
			modify: func(c *Config) {
				c.Pipeline.Association.Scope = []schema.FieldKey{"favorite_color"}
			},
			wantError: true,
		},
		{
			name: "valid narrowed scope",
			modify: func(c *Config) {
				c.Pipeline.Association.Scope = []schema.FieldKey{schema.FieldZodiac, schema.FieldGender}
			},
			wantError: false,
		},
		{
			name: "unknown wall field",
			modify: func(c *Config) {
				c.Wall.Enabled = true
				c.Wall.Fields = []string{"uid"}
			},
			wantError: true,
		},
		{
			name: "valid wall field",
			modify: func(c *Config) {
				c.Wall.Enabled = true
				c.Wall.Fields = []string{"industry"}
			},
			wantError: false,
		},
		{
			name: "metrics enabled without listen address",
			modify: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Listen = ""
			},
			wantError: true,
		},
		{
			name: "bad similarity mode",
			modify: func(c *Config) {
				c.Pipeline.Similarity.Mode = "graph"
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults apply without file or environment", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Input.Path != "guests.csv" {
			t.Errorf("Input.Path = %q, want guests.csv", cfg.Input.Path)
		}
		if cfg.Pipeline.Similarity.TopN != 5 {
			t.Errorf("Similarity.TopN = %d, want 5", cfg.Pipeline.Similarity.TopN)
		}
		if cfg.Metrics.Enabled {
			t.Error("Metrics.Enabled = true, want false")
		}
	})

	t.Run("config file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "input:\n  path: party.csv\npipeline:\n  similarity:\n    top_n: 3\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Input.Path != "party.csv" {
			t.Errorf("Input.Path = %q, want party.csv", cfg.Input.Path)
		}
		if cfg.Pipeline.Similarity.TopN != 3 {
			t.Errorf("Similarity.TopN = %d, want 3", cfg.Pipeline.Similarity.TopN)
		}
		// Untouched keys keep their defaults.
		if cfg.Output.Dir != "artifacts" {
			t.Errorf("Output.Dir = %q, want artifacts", cfg.Output.Dir)
		}
	})

	t.Run("environment overrides the config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("input:\n  path: party.csv\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, path)
		t.Setenv("MINGLE_INPUT_PATH", "env.csv")
		t.Setenv("MINGLE_SIMILARITY_DENSE_MAX_GUESTS", "40")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Input.Path != "env.csv" {
			t.Errorf("Input.Path = %q, want env.csv", cfg.Input.Path)
		}
		if cfg.Pipeline.Similarity.DenseMaxGuests != 40 {
			t.Errorf("DenseMaxGuests = %d, want 40", cfg.Pipeline.Similarity.DenseMaxGuests)
		}
	})

	t.Run("comma-separated env lists become slices", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
		t.Setenv("MINGLE_ASSOCIATION_SCOPE", "zodiac, gender ,industry")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		want := []schema.FieldKey{schema.FieldZodiac, schema.FieldGender, schema.FieldIndustry}
		if !reflect.DeepEqual(cfg.Pipeline.Association.Scope, want) {
			t.Errorf("Scope = %v, want %v", cfg.Pipeline.Association.Scope, want)
		}
	})

	t.Run("invalid configuration is rejected", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
		t.Setenv("MINGLE_SIMILARITY_MODE", "graph")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want validation error")
		}
	})
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"MINGLE_INPUT_PATH", "input.path"},
		{"MINGLE_ASSOCIATION_MIN_SAMPLE_SIZE", "pipeline.association.min_sample_size"},
		{"MINGLE_SIMILARITY_TOP_N", "pipeline.similarity.top_n"},
		{"MINGLE_WALL_ENABLED", "wall.enabled"},
		{"MINGLE_METRICS_LISTEN", "metrics.listen"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.env); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}
