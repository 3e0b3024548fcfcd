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
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// 📥 rowReader streams CSV rows and reports blank lines as zero-cell rows.
// encoding/csv drops blank lines; vendors' exports use them as spacer rows and
// they are counted as empty.
type rowReader struct {
	r        *csv.Reader
	lines    *lineCounter
	nextLine int      // line the next record starts on when nothing was skipped
	blanks   int      // blank rows still to hand out before buffered
	buffered []string // record read past a run of blank lines
	drained  bool     // trailing blank lines have been counted
}

func newRowReader(in io.Reader) *rowReader {
	lines := &lineCounter{r: in}
	r := csv.NewReader(lines)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return &rowReader{r: r, lines: lines, nextLine: 1}
}

// lineCounter counts the lines that pass through it
type lineCounter struct {
	r     io.Reader
	count int
	last  byte
}

func (c *lineCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.count += bytes.Count(p[:n], []byte{'\n'})
		c.last = p[n-1]
	}
	return n, err
}

// total is the number of lines read so far, counting an unterminated last line
func (c *lineCounter) total() int {
	if c.last != 0 && c.last != '\n' {
		return c.count + 1
	}
	return c.count
}

// Next returns the next row, or io.EOF when the input is exhausted
func (rr *rowReader) Next() ([]string, error) {
	if rr.blanks > 0 {
		rr.blanks--
		return []string{}, nil
	}
	if rr.buffered != nil {
		row := rr.buffered
		rr.buffered = nil
		return row, nil
	}

	row, err := rr.r.Read()
	if errors.Is(err, io.EOF) && !rr.drained {
		rr.drained = true
		if trailing := rr.lines.total() - (rr.nextLine - 1); trailing > 0 {
			rr.blanks = trailing - 1
			return []string{}, nil
		}
	}
	if err != nil {
		return nil, err
	}

	start, _ := rr.r.FieldPos(0)
	last := len(row) - 1
	lastLine, _ := rr.r.FieldPos(last)
	end := lastLine + strings.Count(row[last], "\n")

	skipped := start - rr.nextLine
	rr.nextLine = end + 1

	if skipped > 0 {
		rr.blanks = skipped - 1
		rr.buffered = row
		return []string{}, nil
	}

	return row, nil
}
