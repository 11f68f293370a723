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

func newExecCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <ddl> [<ddl>...]",
		Short: "Run DDL statements in one transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDomain(cmd, func(ctx context.Context, do *domain.Domain) error {
				txn := do.Catalog().Begin()
				ctx = txn.WithLogger(ctx)
				for _, sql := range args {
					if err := do.DDL().Execute(ctx, txn, sql); err != nil {
						txn.Rollback()
						return err
					}
				}
				if err := txn.Commit(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", do.Catalog().SchemaVersion())
				return err
			})
		},
	}
}
