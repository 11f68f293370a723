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

	"github.com/pingcap/tidb-catalog/pkg/domain"
	"github.com/spf13/cobra"
)

func newGCCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Reclaim superseded entry versions and old schema diffs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withDomain(cmd, func(ctx context.Context, do *domain.Domain) error {
				pruned, err := do.GC(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "pruned %d versions, safe version %d\n", pruned, do.Catalog().GCSafeVersion())
				return err
			})
		},
	}
}
