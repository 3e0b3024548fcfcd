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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/catnorm/pkg/mapping"
	"github.com/walteh/catnorm/pkg/record"
	"github.com/walteh/catnorm/pkg/text"
)

// 🔧 MockReplacer is a mock implementation of the text.CellReplacer interface
type MockReplacer struct {
	mock.Mock
}

func (m *MockReplacer) ReplaceCell(field, value string) (string, int) {
	result := m.Called(field, value)
	return result.String(0), result.Int(1)
}

func acmeTemplate() *mapping.Template {
	return &mapping.Template{
		Name:             "acme",
		ExpectedRowCount: 4,
		Vendor:           "Acme",
		Columns: map[string]int{
			"sku":      0,
			"upc":      1,
			"quantity": 2,
			"cost":     3,
		},
	}
}

func TestMapScenario(t *testing.T) {
	m := New(acmeTemplate())

	res := m.Map([]string{"SKU1", "UPC1", "5", "9.99"}, 1)
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Nil(t, res.Diagnostic)

	want := map[string]string{
		"vendor":         "Acme",
		"sku":            "SKU1",
		"upc":            "UPC1",
		"quantity":       "5",
		"cost":           "9.99",
		"manufacturer":   "Unknown",
		"model":          "N/A",
		"map":            "0",
		"description":    "No description available",
		"image_location": "No image",
		"sale_end_date":  "",
		"allocated_item": "N/A",
	}
	for field, value := range want {
		assert.Equal(t, value, res.Record.Get(field), "field %s should match", field)
	}
}

func TestMapUnmappedFieldsUseDefaults(t *testing.T) {
	tpl := acmeTemplate()
	res := New(tpl).Map([]string{"a", "b", "c", "d"}, 3)
	require.Equal(t, OutcomeOK, res.Outcome)

	for _, f := range record.Fields() {
		if f.Name == record.Vendor {
			continue
		}
		idx, mapped := tpl.Index(f.Name)
		if mapped {
			assert.Equal(t, []string{"a", "b", "c", "d"}[idx], res.Record.Get(f.Name), "mapped field %s", f.Name)
		} else {
			assert.Equal(t, f.Default, res.Record.Get(f.Name), "unmapped field %s", f.Name)
		}
	}
}

func TestMapOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		row       []string
		want      Outcome
		wantField string
	}{
		{name: "no_cells", row: nil, want: OutcomeEmpty},
		{name: "single_cell", row: []string{"only"}, want: OutcomeEmpty},
		{name: "too_few_cells", row: []string{"a", "b", "c"}, want: OutcomeMalformed},
		{name: "too_many_cells", row: []string{"a", "b", "c", "d", "e"}, want: OutcomeMalformed},
		{name: "exact_cells", row: []string{"a", "b", "c", "d"}, want: OutcomeOK},
	}

	m := New(acmeTemplate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.Map(tt.row, 7)
			assert.Equal(t, tt.want, res.Outcome)

			if tt.want == OutcomeOK {
				return
			}
			assert.True(t, res.Record.IsDefault(), "rejected rows should yield an all-defaults record")

			if tt.want == OutcomeMalformed {
				require.NotNil(t, res.Diagnostic, "malformed rows should carry a diagnostic")
				assert.Equal(t, 7, res.Diagnostic.Index)
				assert.Equal(t, 4, res.Diagnostic.Expected)
				assert.Equal(t, len(tt.row), res.Diagnostic.Actual)
				assert.Equal(t, tt.row, res.Diagnostic.Cells)
			}
		})
	}
}

func TestMapIndexOutOfRange(t *testing.T) {
	tpl := acmeTemplate()
	tpl.Columns["msrp"] = 9

	res := New(tpl).Map([]string{"a", "b", "c", "d"}, 2)
	require.Equal(t, OutcomeMalformed, res.Outcome)
	require.NotNil(t, res.Diagnostic)
	assert.Equal(t, "msrp", res.Diagnostic.Field)
	assert.Contains(t, res.Diagnostic.String(), "msrp")
	assert.True(t, res.Record.IsDefault())
}

func TestMapVendorAbsent(t *testing.T) {
	tpl := acmeTemplate()
	tpl.Vendor = ""

	res := New(tpl).Map([]string{"a", "b", "c", "d"}, 1)
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, "", res.Record.Get("vendor"))
}

func TestMapWithReplacer(t *testing.T) {
	r := &MockReplacer{}
	r.On("ReplaceCell", "sku", " SKU1 ").Return("SKU1", 0)
	r.On("ReplaceCell", "upc", "UPC1").Return("UPC1", 0)
	r.On("ReplaceCell", "quantity", "5").Return("5", 0)
	r.On("ReplaceCell", "cost", "$9.99").Return("9.99", 1)

	res := New(acmeTemplate(), WithReplacer(r)).Map([]string{" SKU1 ", "UPC1", "5", "$9.99"}, 1)
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, "SKU1", res.Record.Get("sku"))
	assert.Equal(t, "9.99", res.Record.Get("cost"))
	assert.Equal(t, 1, res.Replacements)

	r.AssertExpectations(t)
}

func TestMapWithSimpleReplacer(t *testing.T) {
	r, err := text.NewSimpleCellReplacer([]text.ReplacementRule{
		{FieldGlob: "cost", FromText: "$", ToText: ""},
	}, true)
	require.NoError(t, err)

	res := New(acmeTemplate(), WithReplacer(r)).Map([]string{" SKU1", "UPC1", "5", "$9.99"}, 1)
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, "SKU1", res.Record.Get("sku"))
	assert.Equal(t, "9.99", res.Record.Get("cost"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "empty", OutcomeEmpty.String())
	assert.Equal(t, "malformed", OutcomeMalformed.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
