// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package detect

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable parts of the detection rules.
type Config struct {
	// LocationConfidence is assigned to tags from location patterns.
	// Default: 0.9
	LocationConfidence float64 `yaml:"location_confidence"`

	// BudgetConfidence is assigned to tags from budget patterns.
	// Default: 0.85
	BudgetConfidence float64 `yaml:"budget_confidence"`

	// RoomsConfidence is assigned to tags from room patterns.
	// Default: 0.9
	RoomsConfidence float64 `yaml:"rooms_confidence"`

	// FeatureConfidence is assigned to tags from feature patterns.
	// Default: 0.8
	FeatureConfidence float64 `yaml:"feature_confidence"`

	// FixValdOise maps département 95 to "Val-d'Oise".
	// When false, 95 maps to "Paris" as deployed clients expect.
	FixValdOise bool `yaml:"fix_val_d_oise"`

	// Misspellings adds whole-word substitutions applied after the built-in table.
	// Keys are matched case-insensitively.
	Misspellings map[string]string `yaml:"misspellings"`

	// ExtraFeatures lists additional feature terms recognised verbatim.
	ExtraFeatures []string `yaml:"extra_features"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithLocationConfidence sets the confidence of location pattern tags.
func WithLocationConfidence(c float64) ConfigOption {
	return func(cfg *Config) {
		cfg.LocationConfidence = c
	}
}

// WithBudgetConfidence sets the confidence of budget pattern tags.
func WithBudgetConfidence(c float64) ConfigOption {
	return func(cfg *Config) {
		cfg.BudgetConfidence = c
	}
}

// WithRoomsConfidence sets the confidence of room pattern tags.
func WithRoomsConfidence(c float64) ConfigOption {
	return func(cfg *Config) {
		cfg.RoomsConfidence = c
	}
}

// WithFeatureConfidence sets the confidence of feature pattern tags.
func WithFeatureConfidence(c float64) ConfigOption {
	return func(cfg *Config) {
		cfg.FeatureConfidence = c
	}
}

// WithFixValdOise makes département 95 resolve to Val-d'Oise.
func WithFixValdOise(fix bool) ConfigOption {
	return func(cfg *Config) {
		cfg.FixValdOise = fix
	}
}

// WithMisspelling registers an extra whole-word substitution.
func WithMisspelling(from, to string) ConfigOption {
	return func(cfg *Config) {
		if cfg.Misspellings == nil {
			cfg.Misspellings = make(map[string]string)
		}
		cfg.Misspellings[from] = to
	}
}

// WithExtraFeatures appends feature terms to recognise.
func WithExtraFeatures(terms ...string) ConfigOption {
	return func(cfg *Config) {
		cfg.ExtraFeatures = append(cfg.ExtraFeatures, terms...)
	}
}

// DefaultConfig returns the confidences the rule families were tuned with.
func DefaultConfig() *Config {
	return &Config{
		LocationConfidence: 0.9,
		BudgetConfidence:   0.85,
		RoomsConfidence:    0.9,
		FeatureConfidence:  0.8,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithFixValdOise(true),
//	    WithExtraFeatures("véranda", "loft"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfig reads a YAML file over the defaults and validates the result.
// Fields absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize trims configured terms and drops empty ones.
func (c *Config) Normalize() {
	if len(c.Misspellings) > 0 {
		cleaned := make(map[string]string, len(c.Misspellings))
		for from, to := range c.Misspellings {
			from = strings.TrimSpace(from)
			to = strings.TrimSpace(to)
			if from == "" || to == "" {
				continue
			}
			cleaned[from] = to
		}
		c.Misspellings = cleaned
	}
	if len(c.ExtraFeatures) > 0 {
		terms := make([]string, 0, len(c.ExtraFeatures))
		for _, term := range c.ExtraFeatures {
			if term = strings.TrimSpace(term); term != "" {
				terms = append(terms, term)
			}
		}
		c.ExtraFeatures = terms
	}
}

// Validate checks that the configuration is usable.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	confidences := []struct {
		name  string
		value float64
	}{
		{"LocationConfidence", c.LocationConfidence},
		{"BudgetConfidence", c.BudgetConfidence},
		{"RoomsConfidence", c.RoomsConfidence},
		{"FeatureConfidence", c.FeatureConfidence},
	}
	for _, conf := range confidences {
		if math.IsNaN(conf.value) || conf.value <= 0 || conf.value > 1 {
			return fmt.Errorf("%w: %s must be in (0,1], got %g", ErrInvalidConfig, conf.name, conf.value)
		}
	}

	for from := range c.Misspellings {
		if strings.ContainsFunc(from, func(r rune) bool { return !isWordRune(r) }) {
			return fmt.Errorf("%w: misspelling %q must be a single word", ErrInvalidConfig, from)
		}
	}
	return nil
}
