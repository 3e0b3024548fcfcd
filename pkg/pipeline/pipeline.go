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

package pipeline

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/catnorm/pkg/log"
	"github.com/walteh/catnorm/pkg/mapper"
	"github.com/walteh/catnorm/pkg/mapping"
	"github.com/walteh/catnorm/pkg/record"
	"github.com/walteh/catnorm/pkg/status"
	"github.com/walteh/catnorm/pkg/text"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrMalformedRow is returned when the abort policy stops a run
	ErrMalformedRow = errors.Base("malformed row")

	// ErrOutputConflict is returned when two inputs would write the same output file
	ErrOutputConflict = errors.Base("inputs share an output file")
)

const defaultProgressEvery = 10000

// 🔧 Options configures a normalization run
type Options struct {
	// TemplatesDir holds <basename>.json mapping templates
	TemplatesDir string
	// OutputDir receives <basename>-normalized.csv files
	OutputDir string
	// Policy decides what happens to malformed rows
	Policy Policy
	// Prompter is required by PolicyPrompt
	Prompter Prompter
	// Replacer optionally rewrites mapped cells
	Replacer text.CellReplacer
	// Logger receives operator-facing diagnostics
	Logger *log.Logger
	// Jobs bounds how many files RunAll normalizes at once
	Jobs int
	// ProgressEvery sets how often, in rows, progress is logged
	ProgressEvery int
}

func (o Options) withDefaults() Options {
	if o.TemplatesDir == "" {
		o.TemplatesDir = "maps"
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Policy == "" {
		o.Policy = PolicyContinue
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, zerolog.Disabled)
	}
	if o.Jobs < 1 {
		o.Jobs = 1
	}
	if o.Policy == PolicyPrompt {
		o.Jobs = 1
	}
	if o.ProgressEvery < 1 {
		o.ProgressEvery = defaultProgressEvery
	}
	return o
}

// Validate checks options that cannot be defaulted
func (o Options) Validate() error {
	if _, err := ParsePolicy(string(o.Policy)); err != nil {
		return err
	}
	if o.Policy == PolicyPrompt && o.Prompter == nil {
		return errors.Errorf("policy %s requires a prompter", PolicyPrompt)
	}
	return nil
}

// OutputPath returns where the normalized file for input is written
func (o Options) OutputPath(input string) string {
	return filepath.Join(o.withDefaults().OutputDir, mapping.OutputName(input))
}

// 🏃 Run normalizes one input file. The template is resolved before any output
// is created, so a missing template leaves the output directory untouched.
// The returned summary is non-nil once options validate, and carries the
// error when the run fails.
func Run(ctx context.Context, input string, opts Options) (summary *status.Summary, err error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, errors.Errorf("validating options: %w", err)
	}

	logger := zerolog.Ctx(ctx).With().Str("input", input).Logger()

	outPath := opts.OutputPath(input)
	summary = status.NewSummary(mapping.Basename(input), input, outPath)
	defer func() {
		if err != nil && summary.Finished.IsZero() {
			summary.Finish(err)
		}
	}()

	tpl, err := mapping.Load(ctx, opts.TemplatesDir, input)
	if err != nil {
		return summary, errors.Errorf("loading mapping template: %w", err)
	}

	in, err := os.Open(input)
	if err != nil {
		return summary, errors.Errorf("opening input: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return summary, errors.Errorf("creating output directory: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return summary, errors.Errorf("creating output: %w", err)
	}
	closed := false
	defer func() {
		if !closed {
			out.Close()
		}
	}()

	opts.Logger.StartRun(ctx, log.RunOperation{
		Input:    input,
		Vendor:   tpl.Name,
		Template: tpl.Path,
		Output:   outPath,
	})

	w := csv.NewWriter(out)
	if err := w.Write(record.Header()); err != nil {
		return summary, errors.Errorf("writing header: %w", err)
	}

	var mopts []mapper.Option
	if opts.Replacer != nil {
		mopts = append(mopts, mapper.WithReplacer(opts.Replacer))
	}
	m := mapper.New(tpl, mopts...)

	err = processRows(ctx, newRowReader(in), w, m, tpl, summary, opts)

	w.Flush()
	if ferr := w.Error(); ferr != nil && err == nil {
		err = errors.Errorf("flushing output: %w", ferr)
	}

	closed = true
	if cerr := out.Close(); cerr != nil && err == nil {
		err = errors.Errorf("closing output: %w", cerr)
	}

	logger.Debug().
		Int("total", summary.Total).
		Int("completed", summary.Completed).
		Int("empty", summary.Empty).
		Int("incorrect", summary.Incorrect).
		Msg("finished reading input")

	summary.Finish(err)
	opts.Logger.EndRun(ctx, summary)

	return summary, err
}

func processRows(ctx context.Context, rows *rowReader, w *csv.Writer, m *mapper.Mapper, tpl *mapping.Template, summary *status.Summary, opts Options) error {
	position := 0

	for {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("normalizing %s: %w", summary.Input, err)
		}

		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Errorf("reading row %d: %w", position+1, err)
		}
		position++

		if position == 1 && tpl.HasHeaderRow {
			continue
		}

		summary.Total++
		res := m.Map(row, position)
		summary.Replacements += res.Replacements

		write := true
		switch res.Outcome {
		case mapper.OutcomeOK:
			summary.Completed++
		case mapper.OutcomeEmpty:
			summary.Empty++
			opts.Logger.LogEmptyRow(ctx, position)
		case mapper.OutcomeMalformed:
			summary.Incorrect++
			write, err = handleMalformed(ctx, w, res.Diagnostic, opts)
			if err != nil {
				return err
			}
			if !write {
				summary.Skipped++
			}
		}

		if write {
			if err := w.Write(res.Record.Values()); err != nil {
				return errors.Errorf("writing row %d: %w", position, err)
			}
		}

		if summary.Total%opts.ProgressEvery == 0 {
			opts.Logger.Progress(ctx, summary)
		}
	}
}

// handleMalformed applies the policy and reports whether the row is written
func handleMalformed(ctx context.Context, w *csv.Writer, diag *mapper.Diagnostic, opts Options) (bool, error) {
	issue := log.RowIssue{
		Index:    diag.Index,
		Expected: diag.Expected,
		Actual:   diag.Actual,
		Field:    diag.Field,
		Cells:    diag.Cells,
		Action:   opts.Policy.action(),
	}
	opts.Logger.LogMalformedRow(ctx, issue)

	switch opts.Policy {
	case PolicySkip:
		return false, nil
	case PolicyAbort:
		return false, errors.Errorf("%w: %s", ErrMalformedRow, diag.String())
	case PolicyPrompt:
		// flush so the operator sees every row written so far
		w.Flush()
		if err := opts.Prompter.Acknowledge(ctx, issue); err != nil {
			return false, errors.Errorf("waiting for acknowledgement: %w", err)
		}
		return true, nil
	default:
		return true, nil
	}
}

// ⚡ RunAll normalizes every input, at most opts.Jobs at a time. Each file is
// processed sequentially; a failing file does not stop the others. Summaries
// are returned in input order.
func RunAll(ctx context.Context, inputs []string, opts Options) ([]*status.Summary, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, errors.Errorf("validating options: %w", err)
	}

	if err := checkOutputs(inputs, opts); err != nil {
		return nil, err
	}

	summaries := make([]*status.Summary, len(inputs))

	var g errgroup.Group
	g.SetLimit(opts.Jobs)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			summary, err := Run(ctx, input, opts)
			summaries[i] = summary
			if err != nil {
				opts.Logger.Errorf("%s: %v", input, err)
				return errors.Errorf("normalizing %s: %w", input, err)
			}
			return nil
		})
	}

	err := g.Wait()
	return summaries, err
}

// checkOutputs rejects batches where two inputs map to one output path, such as
// a/acme.csv and b/acme.csv
func checkOutputs(inputs []string, opts Options) error {
	owners := make(map[string]string, len(inputs))
	for _, input := range inputs {
		out := filepath.Clean(opts.OutputPath(input))
		if prev, ok := owners[out]; ok {
			return errors.Errorf("%w: %s and %s both write %s", ErrOutputConflict, prev, input, out)
		}
		owners[out] = input
	}
	return nil
}

// 🔍 ExpandInputs expands doublestar patterns into a sorted, de-duplicated
// list of files. Arguments without glob syntax are kept as given.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			add(pattern)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return out, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
