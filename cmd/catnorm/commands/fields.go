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

package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/catnorm/cmd/catnorm/opts"
	"github.com/walteh/catnorm/pkg/record"
	"gitlab.com/tozd/go/errors"
)

// NewFieldsCmd creates the fields command
func NewFieldsCmd(rootOpts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the canonical output fields and their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := pterm.TableData{{"#", "Field", "Default"}}
			for i, f := range record.Fields() {
				def := f.Default
				if f.Name == record.Vendor {
					def = "(template vendor)"
				} else if def == "" {
					def = `""`
				}
				data = append(data, []string{fmt.Sprint(i), f.Name, def})
			}

			if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render(); err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			return nil
		},
	}
}
