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

	"github.com/pingcap/tidb-catalog/pkg/catalog"
	"github.com/pingcap/tidb-catalog/pkg/domain"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/spf13/cobra"
)

var showSets = map[string]model.EntrySet{
	"relation": model.RelationSet,
	"index":    model.IndexSet,
	"macro":    model.FunctionSet,
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	var (
		kind    string
		version int64
	)
	cmd := &cobra.Command{
		Use:   "show [<schema>.]<name>",
		Short: "Print the statement that recreates an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, ok := showSets[kind]
			if !ok {
				return fmt.Errorf("unknown kind %q: expected relation, index, or macro", kind)
			}
			schema, name := splitName(args[0])
			return opts.withDomain(cmd, func(_ context.Context, do *domain.Domain) error {
				var txn *catalog.Txn
				if cmd.Flags().Changed("version") {
					var err error
					if txn, err = do.Catalog().BeginAt(version); err != nil {
						return err
					}
				} else {
					txn = do.Catalog().Begin()
				}
				defer txn.Rollback()
				entry, found, err := txn.LookupEntry(set, schema, name)
				if err != nil {
					return err
				}
				if !found {
					return dbterror.ErrTableNotExists.GenWithStackByArgs(schema, name)
				}
				sql, err := entry.ToSQL()
				if err != nil {
					return err
				}
				if sql == "" {
					sql = fmt.Sprintf("-- %s %s.%s is internal\n", entry.Type(), schema, entry.Name())
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), sql)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "relation", "entry kind: relation, index, or macro")
	cmd.Flags().Int64Var(&version, "version", 0, "read the entry as of this schema version")
	return cmd
}

func splitName(s string) (schema, name string) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return model.DefaultSchemaName, s
}
