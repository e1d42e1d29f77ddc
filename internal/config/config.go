// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package config holds all application configuration for Mingle.
//
// Configuration loading order (Koanf v2, highest priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (MINGLE_* prefix)
//
// Config is immutable after Load() and safe for concurrent reads.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/mingle/internal/logging"
	"github.com/tomtom215/mingle/internal/pipeline"
	"github.com/tomtom215/mingle/internal/schema"
)

// Config is the root application configuration.
type Config struct {
	Input    InputConfig     `koanf:"input"`
	Output   OutputConfig    `koanf:"output"`
	Pipeline pipeline.Config `koanf:"pipeline"`
	Wall     WallConfig      `koanf:"wall"`    // Optional: Wall display connection lists
	Metrics  MetricsConfig   `koanf:"metrics"` // Optional: Prometheus exposition during a run
	Logging  logging.Config  `koanf:"logging"`
}

// InputConfig locates the eligible-record provider.
type InputConfig struct {
	// Path is the registration sheet export (CSV).
	Path string `koanf:"path" validate:"required"`
}

// OutputConfig locates the artifact sink.
type OutputConfig struct {
	// Dir receives one CSV file per artifact table.
	Dir string `koanf:"dir" validate:"required"`
}

// WallConfig controls the optional Wall connection lists.
type WallConfig struct {
	Enabled bool `koanf:"enabled"`

	// Fields lists the categorical columns to group on.
	Fields []string `koanf:"fields"`
}

// MetricsConfig controls Prometheus exposition while a run is in flight.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`

	// Listen is the address for the /metrics endpoint.
	Listen string `koanf:"listen"`
}

// Validate checks the loaded configuration. Unknown variable keys in the
// association scope or wall fields are configuration errors caught here
// rather than at run time.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config field %s failed %q validation", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("config validation: %w", err)
	}

	for _, f := range c.Pipeline.Association.Scope {
		if _, ok := schema.VariableFor(f); !ok {
			return fmt.Errorf("association scope: unknown variable %q", f)
		}
	}
	for _, f := range c.Wall.Fields {
		if _, ok := schema.VariableFor(schema.FieldKey(f)); !ok {
			return fmt.Errorf("wall fields: unknown variable %q", f)
		}
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics enabled but no listen address configured")
	}

	return nil
}
