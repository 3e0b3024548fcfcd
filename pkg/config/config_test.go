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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/catnorm/pkg/pipeline"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "hcl_full",
			filename: ".catnorm.hcl",
			config: `
templates_dir = "vendor-maps"
output_dir    = "out"
on_malformed  = "skip"
jobs          = 3
report        = "out/report.json"
trim_space    = true

replacement {
  fields = "*price"
  from   = "$"
  to     = ""
}

replacement {
  from = "\t"
  to   = " "
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "vendor-maps", cfg.TemplatesDir)
				assert.Equal(t, "out", cfg.OutputDir)
				assert.Equal(t, "skip", cfg.OnMalformed)
				assert.Equal(t, 3, cfg.Jobs)
				assert.Equal(t, filepath.Join("out", "report.json"), cfg.Report)
				assert.True(t, cfg.TrimSpace)
				require.Len(t, cfg.Replacements, 2)
				assert.Equal(t, Replacement{Fields: "*price", From: "$", To: ""}, cfg.Replacements[0])
				assert.Equal(t, "", cfg.Replacements[1].Fields)
			},
		},
		{
			name:     "hcl_env",
			filename: ".catnorm.hcl",
			config:   `output_dir = env.CATNORM_TEST_OUTPUT`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env", cfg.OutputDir)
			},
		},
		{
			name:     "yaml_full",
			filename: ".catnorm.yaml",
			config: `
templates_dir: maps
on_malformed: abort
jobs: 2
replacements:
  - fields: "description"
    from: "&amp;"
    to: "&"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "maps", cfg.TemplatesDir)
				assert.Equal(t, ".", cfg.OutputDir)
				assert.Equal(t, "abort", cfg.OnMalformed)
				assert.Equal(t, 2, cfg.Jobs)
				require.Len(t, cfg.Replacements, 1)
				assert.Equal(t, "&", cfg.Replacements[0].To)
			},
		},
		{
			name:     "empty_yaml_uses_defaults",
			filename: ".catnorm.yml",
			config:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "maps", cfg.TemplatesDir)
				assert.Equal(t, "continue", cfg.OnMalformed)
				assert.Equal(t, 1, cfg.Jobs)
			},
		},
		{
			name:     "json_full",
			filename: ".catnorm.json",
			config:   `{"output_dir": "normalized/", "on_malformed": "prompt"}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "normalized", cfg.OutputDir)
				assert.Equal(t, "prompt", cfg.OnMalformed)
			},
		},
		{
			name:        "json_unknown_field",
			filename:    ".catnorm.json",
			config:      `{"output": "x"}`,
			wantErr:     true,
			errContains: "unknown field",
		},
		{
			name:        "json_array_top_level",
			filename:    ".catnorm.json",
			config:      `[{"jobs": 2}]`,
			wantErr:     true,
			errContains: "config must be an object",
		},
		{
			name:        "json_trailing_object",
			filename:    ".catnorm.json",
			config:      `{"jobs": 2} {"jobs": 3}`,
			wantErr:     true,
			errContains: "unexpected data after config object",
		},
		{
			name:     "json_empty_uses_defaults",
			filename: "settings.JSON",
			config:   "  \n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "continue", cfg.OnMalformed)
				assert.Equal(t, 1, cfg.Jobs)
			},
		},
		{
			name:        "yaml_unknown_field",
			filename:    ".catnorm.yaml",
			config:      "destination: x\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "hcl_syntax_error",
			filename:    ".catnorm.hcl",
			config:      `jobs = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unknown_policy",
			filename:    ".catnorm.hcl",
			config:      `on_malformed = "explode"`,
			wantErr:     true,
			errContains: "unknown malformed row policy",
		},
		{
			name:        "negative_jobs",
			filename:    ".catnorm.yaml",
			config:      "jobs: -2\n",
			wantErr:     true,
			errContains: "jobs must be positive",
		},
		{
			name:     "bad_field_pattern",
			filename: ".catnorm.hcl",
			config: `
replacement {
  fields = "[price"
  from   = "a"
  to     = "b"
}
`,
			wantErr:     true,
			errContains: "replacements",
		},
		{
			name:        "unsupported_extension",
			filename:    "catnorm.toml",
			config:      `jobs = 1`,
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	t.Setenv("CATNORM_TEST_OUTPUT", "from-env")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644))

			cfg, err := Load(context.Background(), path)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, path, cfg.Location())
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), ".catnorm.hcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDiscover(t *testing.T) {
	t.Run("no_file", func(t *testing.T) {
		cfg, err := Discover(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Empty(t, cfg.Location())
	})

	t.Run("hcl_wins_over_json", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".catnorm.json"), []byte(`{"jobs": 9}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".catnorm.hcl"), []byte(`jobs = 4`), 0644))

		cfg, err := Discover(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Jobs)
		assert.Equal(t, filepath.Join(dir, ".catnorm.hcl"), cfg.Location())
	})

	t.Run("invalid_file_is_an_error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".catnorm.yml"), []byte("jobs: [\n"), 0644))

		_, err := Discover(context.Background(), dir)
		require.Error(t, err)
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "maps", cfg.TemplatesDir)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "continue", cfg.OnMalformed)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Empty(t, cfg.Report)
	assert.Empty(t, cfg.Replacements)
}

func TestPipelineOptions(t *testing.T) {
	tests := []struct {
		name         string
		cfg          *Config
		wantReplacer bool
		wantPolicy   pipeline.Policy
	}{
		{
			name:       "defaults",
			cfg:        Default(),
			wantPolicy: pipeline.PolicyContinue,
		},
		{
			name: "with_replacements",
			cfg: &Config{
				OnMalformed:  "skip",
				Replacements: []Replacement{{Fields: "cost", From: "$", To: ""}},
			},
			wantReplacer: true,
			wantPolicy:   pipeline.PolicySkip,
		},
		{
			name:         "trim_only",
			cfg:          &Config{TrimSpace: true},
			wantReplacer: true,
			wantPolicy:   pipeline.PolicyContinue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.cfg.Validate())

			opts, err := tt.cfg.PipelineOptions()
			require.NoError(t, err)
			assert.Equal(t, tt.wantPolicy, opts.Policy)
			assert.Equal(t, tt.cfg.TemplatesDir, opts.TemplatesDir)
			assert.Equal(t, tt.cfg.OutputDir, opts.OutputDir)
			assert.Equal(t, tt.cfg.Jobs, opts.Jobs)
			if tt.wantReplacer {
				assert.NotNil(t, opts.Replacer)
			} else {
				assert.Nil(t, opts.Replacer)
			}
		})
	}
}
