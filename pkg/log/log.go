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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/catnorm/pkg/status"
)

// 🎨 Display configuration
const (
	cellIndent = 4 // spaces to indent raw cell dumps
)

// 🩺 RowIssue describes a row the mapper could not project
type RowIssue struct {
	Index    int      // 1-based row position in the input
	Expected int      // Cell count the template expects
	Actual   int      // Cell count the row had
	Field    string   // Field whose index fell outside the row, if any
	Cells    []string // Raw cell values
	Action   string   // What the pipeline did with the row
}

// 📦 RunOperation represents one input file being normalized
type RunOperation struct {
	Input    string // Input CSV path
	Vendor   string // Template basename
	Template string // Template path
	Output   string // Output CSV path
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.SummaryFormatter
	mu        sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultSummaryFormatter(),
		mu:        sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 StartRun prints the header for one input file
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "[normalizing %s]\n",
		color.New(color.FgCyan).Sprint(op.Input))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Vendor),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Template))

	l.zlog.Info().
		Str("input", op.Input).
		Str("vendor", op.Vendor).
		Str("template", op.Template).
		Str("output", op.Output).
		Msg("starting run")
}

// 📝 LogEmptyRow reports a row with fewer than two cells
func (l *Logger) LogEmptyRow(ctx context.Context, index int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "⬜ %s\n", color.New(color.Faint).Sprintf("row %d: empty row encountered", index))

	l.zlog.Debug().Int("row", index).Msg("empty row")
}

// 📝 LogMalformedRow reports a row whose shape did not match the template
func (l *Logger) LogMalformedRow(ctx context.Context, issue RowIssue) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var msg string
	if issue.Field != "" {
		msg = fmt.Sprintf("row %d: column for %s is outside the row (%d cells)", issue.Index, issue.Field, issue.Actual)
	} else {
		msg = fmt.Sprintf("row %d: incorrect number of columns (expected %d, got %d)", issue.Index, issue.Expected, issue.Actual)
	}
	if issue.Action != "" {
		msg += ", " + issue.Action
	}

	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	fmt.Fprintf(l.console, "%s%s\n", strings.Repeat(" ", cellIndent), color.New(color.Faint).Sprint(formatCells(issue.Cells)))

	l.zlog.Warn().
		Int("row", issue.Index).
		Int("expected", issue.Expected).
		Int("actual", issue.Actual).
		Str("field", issue.Field).
		Strs("cells", issue.Cells).
		Str("action", issue.Action).
		Msg("malformed row")
}

// 📝 EndRun prints the summary block for one input file
func (l *Logger) EndRun(ctx context.Context, s *status.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprint(l.console, l.formatter.FormatSummary(s))

	l.zlog.Info().
		Str("run_id", s.RunID).
		Str("input", s.Input).
		Int("total", s.Total).
		Int("completed", s.Completed).
		Int("empty", s.Empty).
		Int("incorrect", s.Incorrect).
		Int("skipped", s.Skipped).
		Dur("elapsed", s.Elapsed()).
		Msg("run complete")
}

// 📝 Progress logs a running row count
func (l *Logger) Progress(ctx context.Context, s *status.Summary) {
	l.zlog.Debug().
		Str("input", s.Input).
		Int("total", s.Total).
		Msg(l.formatter.FormatProgress(s.Total, s.Elapsed()))
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Line prints a preformatted line
func (l *Logger) Line(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, line)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	nameText := color.New(color.Bold, color.FgCyan).Sprint("catnorm")
	fmt.Fprintf(l.console, "\n%s %s\n\n", nameText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// formatCells renders raw cells as a bracketed, quoted list
func formatCells(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return "cells: [" + strings.Join(quoted, ", ") + "]"
}
