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

// 📋 Field is one column of the canonical record
type Field struct {
	Name    string // Column name written to the header row
	Default string // Value used when the template does not map the field
}

// Vendor is the only field that is never read from a row index.
const Vendor = "vendor"

// 🗂️ fields is the canonical column order. The header writer and the
// serializer both read this table.
var fields = []Field{
	{Name: Vendor, Default: ""},
	{Name: "sku", Default: ""},
	{Name: "upc", Default: ""},
	{Name: "quantity", Default: "0"},
	{Name: "cost", Default: "0"},
	{Name: "map", Default: "0"},
	{Name: "msrp", Default: "0"},
	{Name: "sale_price", Default: "0"},
	{Name: "sale_start_date", Default: ""},
	{Name: "sale_end_date", Default: ""},
	{Name: "manufacturer", Default: "Unknown"},
	{Name: "model", Default: "N/A"},
	{Name: "item_name", Default: "N/A"},
	{Name: "description", Default: "No description available"},
	{Name: "category", Default: "N/A"},
	{Name: "gun_type", Default: "N/A"},
	{Name: "caliber", Default: "N/A"},
	{Name: "action", Default: "N/A"},
	{Name: "capacity", Default: "N/A"},
	{Name: "finish", Default: "N/A"},
	{Name: "stock", Default: "N/A"},
	{Name: "sights", Default: "N/A"},
	{Name: "barrel_length", Default: "N/A"},
	{Name: "overall_length", Default: "N/A"},
	{Name: "drop_ship_flag", Default: "N/A"},
	{Name: "drop_ship_price", Default: "0"},
	{Name: "ship_weight", Default: "0"},
	{Name: "image_location", Default: "No image"},
	{Name: "length", Default: ""},
	{Name: "width", Default: ""},
	{Name: "height", Default: ""},
	{Name: "available_drop_ship_delivery_options", Default: ""},
	{Name: "allocated_item", Default: "N/A"},
}

var positions = func() map[string]int {
	m := make(map[string]int, len(fields))
	for i, f := range fields {
		m[f.Name] = i
	}
	return m
}()

// Fields returns a copy of the canonical field table in column order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Header returns the canonical header row
func Header() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// Len is the number of canonical fields.
func Len() int {
	return len(fields)
}

// Position returns the column of the named field.
func Position(name string) (int, bool) {
	i, ok := positions[name]
	return i, ok
}

// 📦 Record holds one normalized row, values in canonical order
type Record struct {
	values []string
}

// 🏭 New creates a record holding every field's default
func New() Record {
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.Default
	}
	return Record{values: values}
}

// Set stores value under the named field. Unknown names are ignored and
// reported as false.
func (r Record) Set(name, value string) bool {
	i, ok := positions[name]
	if !ok {
		return false
	}
	r.values[i] = value
	return true
}

// Get returns the value of the named field
func (r Record) Get(name string) string {
	i, ok := positions[name]
	if !ok {
		return ""
	}
	return r.values[i]
}

// Values returns the row to serialize, in the same order as Header.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// IsDefault reports whether every field still holds its default.
func (r Record) IsDefault() bool {
	for i, f := range fields {
		if r.values[i] != f.Default {
			return false
		}
	}
	return true
}
