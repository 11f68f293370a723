// Copyright 2026 PingCAP, Inc.
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
	"fmt"
	"os"

	"github.com/pingcap/tidb-catalog/pkg/config"
	"github.com/pingcap/tidb-catalog/pkg/domain"
	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type globalOptions struct {
	configFile string
	storePath  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Inspect and change a catalog store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.storePath, "store", "", "catalog store directory, overrides store.path of the config file")
	cmd.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "L", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newExecCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newGCCmd(opts))
	cmd.AddCommand(newMetricsCmd(opts))
	return cmd
}

func (opts *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	if opts.configFile != "" {
		if err := cfg.Load(opts.configFile); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("store") {
		cfg.Store.Path = opts.storePath
	}
	switch {
	case opts.logLevel != "":
		cfg.Log.Level = opts.logLevel
	case opts.configFile == "":
		cfg.Log.Level = "warn"
	}
	// one-shot commands never need background GC
	cfg.Catalog.GCInterval = config.Duration{}
	if err := logutil.InitLogger(cfg.Log.ToLogConfig()); err != nil {
		return nil, err
	}
	config.StoreGlobalConfig(cfg)
	return cfg, nil
}

// withDomain bootstraps a domain for the duration of fn.
func (opts *globalOptions) withDomain(cmd *cobra.Command, fn func(ctx context.Context, do *domain.Domain) error) (err error) {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	do, err := domain.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, do.Close())
	}()
	return fn(ctx, do)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
