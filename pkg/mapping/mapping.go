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

package mapping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/catnorm/pkg/record"
	"gitlab.com/tozd/go/errors"
)

// ErrTemplateNotFound is returned when no template exists for an input's basename.
var ErrTemplateNotFound = errors.Base("mapping template not found")

const (
	keyHasHeaderRow     = "has_header_row"
	keyExpectedRowCount = "expected_row_count"

	// Extension is the file extension of mapping templates
	Extension = ".json"

	outputSuffix = "-normalized.csv"
)

// 🗺️ Template describes how one vendor's raw columns land in the canonical record
type Template struct {
	Name             string         // Basename the template was resolved for
	Path             string         // File the template was read from
	HasHeaderRow     bool           // Whether row 0 of the input is a header
	ExpectedRowCount int            // Exact cell count of a valid data row
	Vendor           string         // Static vendor value for every record
	Columns          map[string]int // Canonical field name -> raw column index
}

// 🔍 Problem is a template issue found by Validate
type Problem struct {
	Field   string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Field, p.Message)
}

// Basename returns the file name without directory or extension.
func Basename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputName returns the normalized output file name for an input path
func OutputName(inputPath string) string {
	return Basename(inputPath) + outputSuffix
}

// TemplatePath returns where the template for inputPath is expected to live
func TemplatePath(templatesDir, inputPath string) string {
	return filepath.Join(templatesDir, Basename(inputPath)+Extension)
}

// 🎯 Load resolves and parses the template for inputPath
func Load(ctx context.Context, templatesDir, inputPath string) (*Template, error) {
	name := Basename(inputPath)
	path := TemplatePath(templatesDir, inputPath)

	zerolog.Ctx(ctx).Debug().Str("vendor", name).Str("path", path).Msg("loading mapping template")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w for %s (looked in %s)", ErrTemplateNotFound, name, path)
		}
		return nil, errors.Errorf("reading mapping template: %w", err)
	}

	tpl, err := Parse(data)
	if err != nil {
		return nil, errors.Errorf("parsing mapping template %s: %w", path, err)
	}
	tpl.Name = name
	tpl.Path = path

	return tpl, nil
}

// 📝 Parse decodes a template from JSON bytes
func Parse(data []byte) (*Template, error) {
	var raw map[string]json.RawMessage
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}

	tpl := &Template{Columns: map[string]int{}}

	for key, value := range raw {
		switch key {
		case keyHasHeaderRow:
			b, err := decodeBool(value)
			if err != nil {
				return nil, errors.Errorf("%s: %w", key, err)
			}
			tpl.HasHeaderRow = b
		case keyExpectedRowCount:
			n, ok, err := decodeIndex(value)
			if err != nil {
				return nil, errors.Errorf("%s: %w", key, err)
			}
			if ok {
				tpl.ExpectedRowCount = n
			}
		case record.Vendor:
			s, err := decodeString(value)
			if err != nil {
				return nil, errors.Errorf("%s: %w", key, err)
			}
			tpl.Vendor = s
		default:
			if _, known := record.Position(key); !known {
				continue
			}
			idx, ok, err := decodeIndex(value)
			if err != nil {
				return nil, errors.Errorf("%s: %w", key, err)
			}
			if ok {
				tpl.Columns[key] = idx
			}
		}
	}

	return tpl, nil
}

// 🔍 Validate reports indices that cannot address a row of ExpectedRowCount cells
func (t *Template) Validate() []Problem {
	var problems []Problem

	if t.ExpectedRowCount <= 0 {
		problems = append(problems, Problem{
			Field:   keyExpectedRowCount,
			Message: fmt.Sprintf("must be positive, got %d", t.ExpectedRowCount),
		})
	}

	for _, f := range record.Fields() {
		idx, ok := t.Columns[f.Name]
		if !ok {
			continue
		}
		switch {
		case idx < 0:
			problems = append(problems, Problem{Field: f.Name, Message: fmt.Sprintf("negative column index %d", idx)})
		case t.ExpectedRowCount > 0 && idx >= t.ExpectedRowCount:
			problems = append(problems, Problem{
				Field:   f.Name,
				Message: fmt.Sprintf("column index %d is outside a %d column row", idx, t.ExpectedRowCount),
			})
		}
	}

	return problems
}

// Index returns the raw column mapped to field, if any.
func (t *Template) Index(field string) (int, bool) {
	idx, ok := t.Columns[field]
	return idx, ok
}

// 📚 List returns the names of every template in templatesDir, sorted
func List(ctx context.Context, templatesDir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(templatesDir), "*"+Extension)
	if err != nil {
		return nil, errors.Errorf("listing templates in %s: %w", templatesDir, err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, Basename(m))
	}
	sort.Strings(names)

	zerolog.Ctx(ctx).Debug().Str("dir", templatesDir).Int("count", len(names)).Msg("listed mapping templates")

	return names, nil
}

func isNull(value json.RawMessage) bool {
	return len(bytes.TrimSpace(value)) == 0 || string(bytes.TrimSpace(value)) == "null"
}

func decodeIndex(value json.RawMessage) (int, bool, error) {
	if isNull(value) {
		return 0, false, nil
	}

	var v interface{}
	decoder := json.NewDecoder(bytes.NewReader(value))
	decoder.UseNumber()
	if err := decoder.Decode(&v); err != nil {
		return 0, false, errors.Errorf("decoding index: %w", err)
	}

	switch x := v.(type) {
	case json.Number:
		n, err := strconv.Atoi(x.String())
		if err != nil {
			return 0, false, errors.Errorf("column index %s is not an integer", x.String())
		}
		return n, true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false, errors.Errorf("column index %q is not an integer", x)
		}
		return n, true, nil
	default:
		return 0, false, errors.Errorf("column index must be an integer or null, got %s", string(value))
	}
}

func decodeBool(value json.RawMessage) (bool, error) {
	if isNull(value) {
		return false, nil
	}

	var v interface{}
	decoder := json.NewDecoder(bytes.NewReader(value))
	decoder.UseNumber()
	if err := decoder.Decode(&v); err != nil {
		return false, errors.Errorf("decoding bool: %w", err)
	}

	switch x := v.(type) {
	case bool:
		return x, nil
	case json.Number:
		return x.String() != "0", nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, errors.Errorf("%q is not a boolean", x)
		}
		return b, nil
	default:
		return false, errors.Errorf("expected a boolean, got %s", string(value))
	}
}

func decodeString(value json.RawMessage) (string, error) {
	if isNull(value) {
		return "", nil
	}

	var v interface{}
	decoder := json.NewDecoder(bytes.NewReader(value))
	decoder.UseNumber()
	if err := decoder.Decode(&v); err != nil {
		return "", errors.Errorf("decoding string: %w", err)
	}

	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	default:
		return "", errors.Errorf("expected a string, got %s", string(value))
	}
}
