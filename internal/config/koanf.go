// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/mingle/internal/logging"
	"github.com/tomtom215/mingle/internal/pipeline"
)

// DefaultConfigPaths lists where config files are searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mingle/config.yaml",
	"/etc/mingle/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces Mingle's environment variables.
const envPrefix = "MINGLE_"

// defaultConfig returns a Config with all defaults applied. These are layer
// one; config file and environment override them.
func defaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Path: "guests.csv",
		},
		Output: OutputConfig{
			Dir: "artifacts",
		},
		Pipeline: pipeline.DefaultConfig(),
		Wall: WallConfig{
			Enabled: false,
			Fields:  nil,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9464",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load builds the configuration from defaults, optional YAML file, and
// MINGLE_* environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or empty.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (minus prefix, lowercased) to
// config paths. Underscore-to-dot substitution alone cannot recover nested
// keys that themselves contain underscores.
var envMappings = map[string]string{
	"input_path":                   "input.path",
	"output_dir":                   "output.dir",
	"log_level":                    "logging.level",
	"log_format":                   "logging.format",
	"log_caller":                   "logging.caller",
	"codebook_max_label_length":    "pipeline.codebook.max_label_length",
	"codebook_allowed_pattern":     "pipeline.codebook.allowed_pattern",
	"association_scope":            "pipeline.association.scope",
	"association_min_sample_size":  "pipeline.association.min_sample_size",
	"similarity_top_n":             "pipeline.similarity.top_n",
	"similarity_mode":              "pipeline.similarity.mode",
	"similarity_dense_max_guests":  "pipeline.similarity.dense_max_guests",
	"similarity_interest_weight":   "pipeline.similarity.weights.interest",
	"similarity_music_bonus":       "pipeline.similarity.weights.music_bonus",
	"similarity_purchase_bonus":    "pipeline.similarity.weights.purchase_bonus",
	"similarity_at_worst_bonus":    "pipeline.similarity.weights.at_worst_bonus",
	"wall_enabled":                 "wall.enabled",
	"wall_fields":                  "wall.fields",
	"metrics_enabled":              "metrics.enabled",
	"metrics_listen":               "metrics.listen",
}

// envTransform converts MINGLE_* variable names to config paths.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	if path, ok := envMappings[key]; ok {
		return path
	}

	// Fallback for simple keys without nested underscores.
	return strings.ReplaceAll(key, "_", ".")
}

// sliceConfigPaths are the config paths parsed as comma-separated lists when
// they arrive as plain strings from the environment.
var sliceConfigPaths = []string{
	"pipeline.association.scope",
	"wall.fields",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}
