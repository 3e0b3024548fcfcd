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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/walteh/catnorm/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// ⚙️ Policy decides what happens to a malformed row
type Policy string

const (
	PolicyContinue Policy = "continue" // log and write an all-defaults row
	PolicySkip     Policy = "skip"     // log and write nothing
	PolicyAbort    Policy = "abort"    // log and stop the run
	PolicyPrompt   Policy = "prompt"   // log, wait for the operator, write an all-defaults row
)

// Policies lists every accepted policy
var Policies = []Policy{PolicyContinue, PolicySkip, PolicyAbort, PolicyPrompt}

// ParsePolicy converts a config or flag value into a Policy. Empty selects PolicyContinue.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PolicyContinue, nil
	}
	for _, p := range Policies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", errors.Errorf("unknown malformed row policy %q (want one of %s)", s, policyList())
}

func policyList() string {
	names := make([]string, len(Policies))
	for i, p := range Policies {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// action describes what the policy does to a row, for diagnostics
func (p Policy) action() string {
	switch p {
	case PolicySkip:
		return "skipping row"
	case PolicyAbort:
		return "aborting run"
	default:
		return "writing defaults"
	}
}

// 🙋 Prompter blocks until the operator acknowledges a malformed row
type Prompter interface {
	Acknowledge(ctx context.Context, issue log.RowIssue) error
}

// ReaderPrompter prompts on out and waits for a line on in
type ReaderPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewReaderPrompter creates a Prompter reading acknowledgements from in
func NewReaderPrompter(in io.Reader, out io.Writer) *ReaderPrompter {
	return &ReaderPrompter{in: bufio.NewReader(in), out: out}
}

// Acknowledge implements Prompter. End of input counts as acknowledgement.
func (p *ReaderPrompter) Acknowledge(ctx context.Context, issue log.RowIssue) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Press enter to continue past row %d...", issue.Index)

	_, err := p.in.ReadString('\n')
	fmt.Fprintln(p.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Errorf("reading acknowledgement: %w", err)
	}
	return nil
}
