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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/catnorm/cmd/catnorm/opts"
	"github.com/walteh/catnorm/pkg/log"
	"github.com/walteh/catnorm/pkg/pipeline"
	"github.com/walteh/catnorm/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NormalizeFlags holds the flags that override the config file for a run
type NormalizeFlags struct {
	TemplatesDir string
	OutputDir    string
	OnMalformed  string
	Jobs         int
	Report       string
}

// Bind registers the flags on cmd
func (f *NormalizeFlags) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.TemplatesDir, "templates", "", "directory holding <name>.json mapping templates (default \"maps\")")
	cmd.Flags().StringVar(&f.OutputDir, "output", "", "directory for <name>-normalized.csv files (default \".\")")
	cmd.Flags().StringVar(&f.OnMalformed, "on-malformed", "", "malformed row policy: continue, skip, abort or prompt (default \"continue\")")
	cmd.Flags().IntVar(&f.Jobs, "jobs", 0, "files to normalize at once (default 1)")
	cmd.Flags().StringVar(&f.Report, "report", "", "write a JSON run report to this path")
}

// NewNormalizeCmd creates the normalize command
func NewNormalizeCmd(rootOpts *opts.RootOpts) *cobra.Command {
	flags := &NormalizeFlags{}

	cmd := &cobra.Command{
		Use:   "normalize <inputs...>",
		Short: "Normalize vendor CSV files into the canonical schema",
		Long: `Normalize maps every row of each input into the canonical field set.
It will:
1. Expand glob patterns in the arguments
2. Load <templates>/<name>.json for each input
3. Write <output>/<name>-normalized.csv
4. Print a summary of total, completed, empty and incorrect rows`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunNormalize(cmd, rootOpts, flags, args)
		},
	}

	flags.Bind(cmd)

	return cmd
}

// RunNormalize normalizes args using the config in rootOpts overridden by any
// flags set on cmd.
func RunNormalize(cmd *cobra.Command, rootOpts *opts.RootOpts, flags *NormalizeFlags, args []string) error {
	ctx := cmd.Context()
	ctx = zerolog.Ctx(ctx).With().Str("command", "normalize").Logger().WithContext(ctx)
	logger := log.FromContext(ctx)

	cfg := *rootOpts.Config
	if cmd.Flags().Changed("templates") {
		cfg.TemplatesDir = flags.TemplatesDir
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = flags.OutputDir
	}
	if cmd.Flags().Changed("on-malformed") {
		cfg.OnMalformed = flags.OnMalformed
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = flags.Jobs
	}
	if cmd.Flags().Changed("report") {
		cfg.Report = flags.Report
	}
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating flags: %w", err)
	}

	pipelineOpts, err := cfg.PipelineOptions()
	if err != nil {
		return err
	}
	pipelineOpts.Logger = logger
	if pipelineOpts.Policy == pipeline.PolicyPrompt {
		pipelineOpts.Prompter = pipeline.NewReaderPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	inputs, err := pipeline.ExpandInputs(args)
	if err != nil {
		return errors.Errorf("expanding inputs: %w", err)
	}

	if len(inputs) > 1 {
		jobs := pipelineOpts.Jobs
		if pipelineOpts.Policy == pipeline.PolicyPrompt {
			jobs = 1
		}
		logger.Infof("normalizing %d files, %d at a time", len(inputs), jobs)
	}

	summaries, runErr := pipeline.RunAll(ctx, inputs, pipelineOpts)
	if summaries == nil && runErr != nil {
		return runErr
	}

	var finished []*status.Summary
	for _, s := range summaries {
		if s != nil {
			finished = append(finished, s)
		}
	}

	if len(inputs) > 1 {
		logger.Header("batch")
		flagged := 0
		for _, s := range finished {
			logger.Line(status.FormatRun(s))
			if !s.Clean() {
				flagged++
			}
		}
		logger.LogNewline()
		if flagged > 0 {
			logger.Warningf("%d of %d files need attention", flagged, len(inputs))
		} else if runErr == nil {
			logger.Successf("%d files normalized", len(inputs))
		}
	}

	if cfg.Report != "" {
		if err := status.WriteReport(ctx, cfg.Report, finished); err != nil {
			return errors.Errorf("writing report: %w", err)
		}
		logger.Successf("report written to %s", cfg.Report)
	}

	return runErr
}
