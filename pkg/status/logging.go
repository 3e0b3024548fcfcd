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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	rowsWidth   = 15 // Width for row count
	statusWidth = 15 // Width for status text
)

// 🎯 FormatRun formats one run as a single aligned line for batch listings
func FormatRun(s *Summary) string {
	var prefix, state string
	switch {
	case s.Error != "":
		prefix = color.RedString("✗")
		state = "failed"
	case s.Clean():
		prefix = color.GreenString("✓")
		state = "ok"
	default:
		prefix = color.YellowString("⟳")
		state = fmt.Sprintf("%d flagged", s.Empty+s.Incorrect)
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, s.Input)
	rowsPart := fmt.Sprintf("%-*s", rowsWidth, fmt.Sprintf("%d rows", s.Written()))
	statusPart := fmt.Sprintf("%-*s", statusWidth, state)

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		rowsPart,
		statusPart,
	)
}
