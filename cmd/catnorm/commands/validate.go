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
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/catnorm/cmd/catnorm/opts"
	"github.com/walteh/catnorm/pkg/mapping"
	"gitlab.com/tozd/go/errors"
)

// NewValidateCmd creates the validate command
func NewValidateCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var templatesDir string

	cmd := &cobra.Command{
		Use:   "validate [names...]",
		Short: "Check mapping templates for unusable column indices",
		Long: `Validate loads mapping templates and reports indices that cannot address
a row of expected_row_count columns. Without arguments every template in the
templates directory is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dir := rootOpts.Config.TemplatesDir
			if cmd.Flags().Changed("templates") {
				dir = templatesDir
			}

			names := args
			if len(names) == 0 {
				listed, err := mapping.List(ctx, dir)
				if err != nil {
					return err
				}
				if len(listed) == 0 {
					return errors.Errorf("no templates found in %s", dir)
				}
				names = listed
			}

			data := pterm.TableData{{"Template", "Vendor", "Columns", "Status"}}
			failed := 0

			for _, name := range names {
				tpl, err := mapping.Load(ctx, dir, strings.TrimSuffix(name, mapping.Extension)+mapping.Extension)
				if err != nil {
					failed++
					data = append(data, []string{name, "", "", pterm.Red(err.Error())})
					continue
				}

				state := pterm.Green("ok")
				if problems := tpl.Validate(); len(problems) > 0 {
					failed++
					msgs := make([]string, 0, len(problems))
					for _, p := range problems {
						msgs = append(msgs, p.String())
					}
					state = pterm.Red(strings.Join(msgs, "\n"))
				}

				data = append(data, []string{
					tpl.Name,
					tpl.Vendor,
					fmt.Sprintf("%d of %d", len(tpl.Columns), tpl.ExpectedRowCount),
					state,
				})
			}

			if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render(); err != nil {
				return errors.Errorf("rendering table: %w", err)
			}

			if failed > 0 {
				return errors.Errorf("%d of %d templates have problems", failed, len(names))
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%d templates ok", len(names))
			return nil
		},
	}

	cmd.Flags().StringVar(&templatesDir, "templates", "", "directory holding <name>.json mapping templates")

	return cmd
}
