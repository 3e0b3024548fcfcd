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

package status

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestSummaryCounters(t *testing.T) {
	s := NewSummary("acme", "acme.csv", "acme-normalized.csv")
	require.NotEmpty(t, s.RunID, "run id should be set")
	assert.False(t, s.Started.IsZero(), "start time should be set")

	s.Total = 5
	s.Completed = 3
	s.Empty = 1
	s.Incorrect = 1
	s.Skipped = 1

	assert.True(t, s.Balanced(), "counters should add up")
	assert.Equal(t, 4, s.Written())
	assert.False(t, s.Clean())

	s.Finish(nil)
	assert.False(t, s.Finished.IsZero())
	assert.GreaterOrEqual(t, s.Elapsed().Nanoseconds(), int64(0))
	assert.Empty(t, s.Error)

	s.Finish(errors.New("stopped"))
	assert.Equal(t, "stopped", s.Error)
}

func TestSummaryRunIDsAreUnique(t *testing.T) {
	a := NewSummary("a", "a.csv", "a-normalized.csv")
	b := NewSummary("a", "a.csv", "a-normalized.csv")
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "run.json")

	first := NewSummary("acme", "acme.csv", "acme-normalized.csv")
	first.Total, first.Completed = 2, 2
	first.Finish(nil)

	second := NewSummary("zeta", "zeta.csv", "zeta-normalized.csv")
	second.Finish(errors.New("mapping template not found"))

	require.NoError(t, WriteReport(context.Background(), path, []*Summary{first, second}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	report, err := ReadReport(path)
	require.NoError(t, err)
	require.Len(t, report.Runs, 2)
	assert.Equal(t, first.RunID, report.Runs[0].RunID)
	assert.Equal(t, 2, report.Runs[0].Completed)
	assert.Equal(t, "mapping template not found", report.Runs[1].Error)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestFormatRun(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name    string
		summary *Summary
		want    string
	}{
		{
			name:    "clean",
			summary: &Summary{Input: "acme.csv", Total: 3, Completed: 3},
			want:    "✓ acme.csv                            3 rows          ok",
		},
		{
			name:    "flagged",
			summary: &Summary{Input: "acme.csv", Total: 3, Completed: 1, Empty: 1, Incorrect: 1},
			want:    "⟳ acme.csv                            3 rows          2 flagged",
		},
		{
			name:    "failed",
			summary: &Summary{Input: "zeta.csv", Error: "boom"},
			want:    "✗ zeta.csv                            0 rows          failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRun(tt.summary)
			assert.True(t, strings.HasPrefix(got, "    "), "line should be indented")
			assert.Equal(t, tt.want, strings.TrimSpace(got))
		})
	}
}
