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
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pingcap/tidb-catalog/pkg/domain"
	"github.com/pingcap/tidb-catalog/pkg/infoschema"
	"github.com/spf13/cobra"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list [schemata|tables|views|columns]",
		Short: "List catalog entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := infoschema.TableTables
			if len(args) > 0 {
				name = strings.ToLower(args[0])
			}
			cols, ok := infoschema.ColumnNames(name)
			if !ok {
				return fmt.Errorf("unknown table %q: expected one of %s", name, strings.Join(infoschema.TableNames(), ", "))
			}
			return opts.withDomain(cmd, func(_ context.Context, do *domain.Domain) error {
				txn := do.Catalog().Begin()
				defer txn.Rollback()
				rows, err := infoschema.Rows(txn, name)
				if err != nil {
					return err
				}
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				header := make(table.Row, 0, len(cols))
				for _, col := range cols {
					header = append(header, col)
				}
				t.AppendHeader(header)
				for _, row := range rows {
					if !all && internalRow(cols, row) {
						continue
					}
					line := make(table.Row, 0, len(row))
					for _, cell := range row {
						line = append(line, strings.TrimSuffix(strings.ReplaceAll(cell, "\n", " "), " "))
					}
					t.AppendRow(line)
				}
				t.Render()
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include internal entries")
	return cmd
}

func internalRow(cols, row []string) bool {
	for i, col := range cols {
		if col == "internal" {
			return row[i] == "YES"
		}
	}
	return false
}
