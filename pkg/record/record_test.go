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

package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderMatchesFields(t *testing.T) {
	header := Header()
	fs := Fields()

	require.Len(t, header, Len(), "header should have one column per field")
	require.Len(t, fs, Len(), "field table should have one entry per field")
	for i, f := range fs {
		assert.Equal(t, f.Name, header[i], "column %d should match field table", i)
	}

	assert.Equal(t, Vendor, header[0], "vendor should be the first column")
	assert.Equal(t, "allocated_item", header[len(header)-1], "allocated_item should be the last column")
}

func TestHeaderNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range Header() {
		assert.False(t, seen[name], "field %s should appear once", name)
		seen[name] = true
	}
}

func TestNewRecordDefaults(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{field: "vendor", want: ""},
		{field: "sku", want: ""},
		{field: "quantity", want: "0"},
		{field: "cost", want: "0"},
		{field: "manufacturer", want: "Unknown"},
		{field: "model", want: "N/A"},
		{field: "description", want: "No description available"},
		{field: "image_location", want: "No image"},
		{field: "length", want: ""},
		{field: "allocated_item", want: "N/A"},
	}

	rec := New()
	assert.True(t, rec.IsDefault(), "new record should hold only defaults")

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, rec.Get(tt.field))
		})
	}
}

func TestRecordSet(t *testing.T) {
	rec := New()

	assert.True(t, rec.Set("sku", "SKU1"), "known field should be set")
	assert.False(t, rec.Set("not_a_field", "x"), "unknown field should be rejected")

	assert.Equal(t, "SKU1", rec.Get("sku"))
	assert.Equal(t, "", rec.Get("not_a_field"))
	assert.False(t, rec.IsDefault(), "record should no longer be default")

	pos, ok := Position("sku")
	require.True(t, ok)
	assert.Equal(t, "SKU1", rec.Values()[pos])
}

func TestValuesIsACopy(t *testing.T) {
	rec := New()
	values := rec.Values()
	values[0] = "changed"

	assert.Equal(t, "", rec.Get(Vendor), "mutating Values should not change the record")
}
