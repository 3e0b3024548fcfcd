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

package mapper

import (
	"fmt"

	"github.com/walteh/catnorm/pkg/mapping"
	"github.com/walteh/catnorm/pkg/record"
	"github.com/walteh/catnorm/pkg/text"
)

// minCells is the smallest row that is not treated as empty
const minCells = 2

// 📊 Outcome classifies a mapped row
type Outcome int

const (
	OutcomeOK        Outcome = iota // Row matched the template
	OutcomeEmpty                    // Row had fewer than two cells
	OutcomeMalformed                // Row shape did not match the template
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// 🩺 Diagnostic describes why a row was not mapped
type Diagnostic struct {
	Index    int      // 1-based position of the row in the input
	Expected int      // Cell count the template expects
	Actual   int      // Cell count the row had
	Field    string   // Field whose index fell outside the row, if that was the cause
	Cells    []string // Raw cell values
}

func (d *Diagnostic) String() string {
	if d.Field != "" {
		return fmt.Sprintf("row %d: column %s points past a %d cell row", d.Index, d.Field, d.Actual)
	}
	return fmt.Sprintf("row %d: expected %d cells, got %d", d.Index, d.Expected, d.Actual)
}

// 📦 Result is the outcome of mapping one row
type Result struct {
	Record       record.Record
	Outcome      Outcome
	Diagnostic   *Diagnostic // Set for malformed rows
	Replacements int         // Cell replacements applied
}

// column is one entry of the projection table
type column struct {
	field string
	index int
}

// 🗺️ Mapper projects raw rows into canonical records
type Mapper struct {
	expected int
	vendor   string
	columns  []column
	replacer text.CellReplacer
}

// Option configures a Mapper
type Option func(*Mapper)

// WithReplacer rewrites mapped cell values through r
func WithReplacer(r text.CellReplacer) Option {
	return func(m *Mapper) {
		m.replacer = r
	}
}

// 🏭 New builds the projection table for tpl
func New(tpl *mapping.Template, opts ...Option) *Mapper {
	m := &Mapper{
		expected: tpl.ExpectedRowCount,
		vendor:   tpl.Vendor,
	}

	for _, f := range record.Fields() {
		if f.Name == record.Vendor {
			continue
		}
		if idx, ok := tpl.Index(f.Name); ok {
			m.columns = append(m.columns, column{field: f.Name, index: idx})
		}
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// 🎯 Map classifies row and projects it. index is the row's 1-based position
// in the input. Empty and malformed rows yield an all-defaults record.
func (m *Mapper) Map(row []string, index int) Result {
	if len(row) < minCells {
		return Result{Record: record.New(), Outcome: OutcomeEmpty}
	}

	if len(row) != m.expected {
		return m.malformed(row, index, "")
	}

	for _, c := range m.columns {
		if c.index < 0 || c.index >= len(row) {
			return m.malformed(row, index, c.field)
		}
	}

	rec := record.New()
	rec.Set(record.Vendor, m.vendor)

	replacements := 0
	for _, c := range m.columns {
		value := row[c.index]
		if m.replacer != nil {
			var n int
			value, n = m.replacer.ReplaceCell(c.field, value)
			replacements += n
		}
		rec.Set(c.field, value)
	}

	return Result{Record: rec, Outcome: OutcomeOK, Replacements: replacements}
}

func (m *Mapper) malformed(row []string, index int, field string) Result {
	cells := make([]string, len(row))
	copy(cells, row)
	return Result{
		Record:  record.New(),
		Outcome: OutcomeMalformed,
		Diagnostic: &Diagnostic{
			Index:    index,
			Expected: m.expected,
			Actual:   len(row),
			Field:    field,
			Cells:    cells,
		},
	}
}
