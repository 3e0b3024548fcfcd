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
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Summary holds the counters of one normalization run
type Summary struct {
	RunID        string    `json:"run_id"`
	Vendor       string    `json:"vendor"`
	Input        string    `json:"input"`
	Output       string    `json:"output"`
	Total        int       `json:"total"`
	Completed    int       `json:"completed"`
	Empty        int       `json:"empty"`
	Incorrect    int       `json:"incorrect"`
	Skipped      int       `json:"skipped"`
	Replacements int       `json:"replacements"`
	Started      time.Time `json:"started"`
	Finished     time.Time `json:"finished"`
	Error        string    `json:"error,omitempty"`
}

// 🏭 NewSummary starts a summary for one input file
func NewSummary(vendor, input, output string) *Summary {
	return &Summary{
		RunID:   uuid.NewString(),
		Vendor:  vendor,
		Input:   input,
		Output:  output,
		Started: time.Now(),
	}
}

// Finish stamps the end time and records err, if any
func (s *Summary) Finish(err error) {
	s.Finished = time.Now()
	if err != nil {
		s.Error = err.Error()
	}
}

// Elapsed is the wall-clock duration of the run
func (s *Summary) Elapsed() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}

// Written is the number of data rows in the output file
func (s *Summary) Written() int {
	return s.Total - s.Skipped
}

// Balanced reports whether every counted row was classified exactly once
func (s *Summary) Balanced() bool {
	return s.Total == s.Completed+s.Empty+s.Incorrect
}

// Clean reports whether the run saw no empty or incorrect rows
func (s *Summary) Clean() bool {
	return s.Empty == 0 && s.Incorrect == 0 && s.Error == ""
}

// 📄 Report is the JSON document written by WriteReport
type Report struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Runs        []*Summary `json:"runs"`
}

// 💾 WriteReport writes summaries as a JSON report at path atomically
func WriteReport(ctx context.Context, path string, summaries []*Summary) error {
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("runs", len(summaries)).Msg("writing run report")

	report := Report{
		GeneratedAt: time.Now(),
		Runs:        summaries,
	}

	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Errorf("encoding report: %w", err)
	}
	content = append(content, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Errorf("creating report directory: %w", err)
		}
	}

	return writeFileAtomic(path, content)
}

// ReadReport loads a report written by WriteReport
func ReadReport(path string) (*Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, errors.Errorf("decoding report: %w", err)
	}
	return &report, nil
}

func writeFileAtomic(path string, content []byte) error {
	tempPath := path + ".tmp"

	// Write to temp file
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
