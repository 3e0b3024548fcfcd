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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/catnorm/cmd/catnorm/opts"
	"github.com/walteh/catnorm/pkg/config"
	"github.com/walteh/catnorm/pkg/log"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile   string
	debugLogging bool
)

// initRootOpts loads the config and puts the console logger on the returned
// context. An explicit --config must exist; otherwise the working directory is
// searched and defaults apply when nothing is found.
func initRootOpts(ctx context.Context, cmd *cobra.Command, rootOpts *opts.RootOpts) (context.Context, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(ctx, configFile)
	} else {
		cfg, err = config.Discover(ctx, ".")
	}
	if err != nil {
		return ctx, errors.Errorf("loading config: %w", err)
	}

	level := zerolog.ErrorLevel
	if debugLogging {
		level = zerolog.DebugLevel
	}

	rootOpts.Config = cfg
	ctx = log.NewContext(ctx, log.New(cmd.OutOrStdout(), level))

	zerolog.Ctx(ctx).Debug().Str("config", cfg.Location()).Str("settings", cfg.String()).Msg("configuration ready")

	return ctx, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".catnorm.hcl", "config file path")
	cmd.PersistentFlags().BoolVarP(&debugLogging, "debug", "d", false, "enable debug logging")
}
