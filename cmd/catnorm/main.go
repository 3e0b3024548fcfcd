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

package main

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/catnorm/cmd/catnorm/commands"
	"github.com/walteh/catnorm/cmd/catnorm/opts"
)

func main() {
	ctx := context.Background()

	rootOpts := &opts.RootOpts{}
	rootCmd := newRootCmd(rootOpts)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		os.Exit(1)
	}
}

func newRootCmd(rootOpts *opts.RootOpts) *cobra.Command {
	normalize := &commands.NormalizeFlags{}

	rootCmd := &cobra.Command{
		Use:   "catnorm [inputs...]",
		Short: "Normalize vendor product catalog CSV files",
		Long: `catnorm rewrites vendor catalog exports into one canonical CSV schema.

Each input's file name selects a mapping template, <templates>/<name>.json,
which says where every canonical field lives in the vendor's rows. Running
catnorm with inputs is the same as running catnorm normalize.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := initRootOpts(setupLogging(cmd.Context()), cmd, rootOpts)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return commands.RunNormalize(cmd, rootOpts, normalize, args)
		},
	}

	addRootFlags(rootCmd)
	normalize.Bind(rootCmd)

	rootCmd.AddCommand(
		commands.NewNormalizeCmd(rootOpts),
		commands.NewValidateCmd(rootOpts),
		commands.NewFieldsCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

func setupLogging(ctx context.Context) context.Context {
	if debugLogging {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger.WithContext(ctx)
}
