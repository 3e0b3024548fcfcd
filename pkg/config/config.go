// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/catnorm/pkg/pipeline"
	"github.com/walteh/catnorm/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// DefaultNames are the config files Discover looks for, in order
var DefaultNames = []string{".catnorm.hcl", ".catnorm.yaml", ".catnorm.yml", ".catnorm.json"}

// 🔄 Replacement rewrites text inside mapped cells
type Replacement struct {
	Fields string `json:"fields,omitempty" yaml:"fields,omitempty"` // Doublestar pattern over canonical field names
	From   string `json:"from" yaml:"from"`                         // Text to replace
	To     string `json:"to" yaml:"to"`                             // Replacement text
}

// 📚 Config represents the complete configuration
type Config struct {
	TemplatesDir string        `json:"templates_dir,omitempty" yaml:"templates_dir,omitempty"`
	OutputDir    string        `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	OnMalformed  string        `json:"on_malformed,omitempty" yaml:"on_malformed,omitempty"`
	Jobs         int           `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	Report       string        `json:"report,omitempty" yaml:"report,omitempty"`
	TrimSpace    bool          `json:"trim_space,omitempty" yaml:"trim_space,omitempty"`
	Replacements []Replacement `json:"replacements,omitempty" yaml:"replacements,omitempty"`

	location string
}

// 🏭 Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Discover loads the first of DefaultNames found in dir, or Default when none exist
func Discover(ctx context.Context, dir string) (*Config, error) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(ctx, path)
		} else if !os.IsNotExist(err) {
			return nil, errors.Errorf("checking config file: %w", err)
		}
	}

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file found, using defaults")
	return Default(), nil
}

// 🔍 Validate checks if the configuration is valid and fills defaults
func (cfg *Config) Validate() error {
	// Set defaults
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "maps"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}

	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must be positive, got %d", cfg.Jobs)
	}

	policy, err := pipeline.ParsePolicy(cfg.OnMalformed)
	if err != nil {
		return errors.Errorf("on_malformed: %w", err)
	}
	cfg.OnMalformed = string(policy)

	if err := text.ValidateRules(cfg.rules()); err != nil {
		return errors.Errorf("replacements: %w", err)
	}

	// Clean up paths
	cfg.TemplatesDir = filepath.Clean(cfg.TemplatesDir)
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	if cfg.Report != "" {
		cfg.Report = filepath.Clean(cfg.Report)
	}

	return nil
}

// Location is the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

func (cfg *Config) rules() []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, len(cfg.Replacements))
	for _, r := range cfg.Replacements {
		rules = append(rules, text.ReplacementRule{
			FieldGlob: r.Fields,
			FromText:  r.From,
			ToText:    r.To,
		})
	}
	return rules
}

// 🔧 PipelineOptions converts the config into pipeline options. Logger and
// Prompter are left for the caller.
func (cfg *Config) PipelineOptions() (pipeline.Options, error) {
	policy, err := pipeline.ParsePolicy(cfg.OnMalformed)
	if err != nil {
		return pipeline.Options{}, errors.Errorf("on_malformed: %w", err)
	}

	opts := pipeline.Options{
		TemplatesDir: cfg.TemplatesDir,
		OutputDir:    cfg.OutputDir,
		Policy:       policy,
		Jobs:         cfg.Jobs,
	}

	replacer, err := text.NewSimpleCellReplacer(cfg.rules(), cfg.TrimSpace)
	if err != nil {
		return pipeline.Options{}, errors.Errorf("building replacer: %w", err)
	}
	if !replacer.Empty() {
		opts.Replacer = replacer
	}

	return opts, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (on_malformed=%s, jobs=%d)", cfg.TemplatesDir, cfg.OutputDir, cfg.OnMalformed, cfg.Jobs)
}
