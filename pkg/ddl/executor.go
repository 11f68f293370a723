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

package ddl

import (
	"context"
	"strings"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-catalog/pkg/catalog"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/metrics"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
	"go.uber.org/zap"
)

// Executor runs DDL statements against a catalog.
type Executor struct {
	catalog *catalog.Catalog
}

// NewExecutor creates an executor over c.
func NewExecutor(c *catalog.Catalog) *Executor {
	return &Executor{catalog: c}
}

// Execute runs one statement inside txn. A failed statement may have staged
// part of its writes, so the caller rolls txn back on error.
func (e *Executor) Execute(ctx context.Context, txn *catalog.Txn, sql string) error {
	job, err := BuildJob(sql)
	if err != nil {
		metrics.DDLCounter.WithLabelValues(ActionNone.String(), metrics.LblError).Inc()
		return err
	}
	return e.RunJob(ctx, txn, job)
}

// ExecuteAutoCommit runs one statement in its own transaction and commits it.
func (e *Executor) ExecuteAutoCommit(ctx context.Context, sql string) error {
	txn := e.catalog.Begin()
	ctx = txn.WithLogger(ctx)
	if err := e.Execute(ctx, txn, sql); err != nil {
		txn.Rollback()
		return err
	}
	return txn.Commit(ctx)
}

// RunJob applies job to txn.
func (e *Executor) RunJob(ctx context.Context, txn *catalog.Txn, job *Job) (err error) {
	defer func() {
		metrics.DDLCounter.WithLabelValues(job.Type.String(), metrics.ResultLabel(err)).Inc()
		if err != nil {
			logutil.Logger(ctx).Info("run DDL job failed", zap.Stringer("job", job), zap.Error(err))
		}
	}()
	switch job.Type {
	case ActionCreateSchema:
		info, ok := job.Create.(*model.CreateSchemaInfo)
		if !ok {
			return dbterror.ErrInternal.GenWithStackByArgs("CREATE SCHEMA job without schema info")
		}
		_, err = txn.CreateSchema(ctx, info)
	case ActionCreateTable, ActionCreateView, ActionCreateIndex, ActionCreateMacro:
		_, err = txn.CreateEntry(ctx, job.Create)
	case ActionDropSchema:
		for _, info := range job.Drops {
			if err = txn.DropSchema(ctx, info); err != nil {
				break
			}
		}
	case ActionDropTable, ActionDropView, ActionDropMacro:
		for _, info := range job.Drops {
			if err = txn.DropEntry(ctx, info); err != nil {
				break
			}
		}
	case ActionDropIndex:
		err = dropIndex(ctx, txn, job)
	case ActionRenameTable:
		err = renameTables(ctx, txn, job.Renames)
	case ActionAlterTable, ActionAlterView:
		for _, info := range job.Alters {
			if _, err = txn.AlterEntry(ctx, info); err != nil {
				break
			}
		}
	default:
		err = dbterror.ErrUnsupportedDDL.GenWithStackByArgs(job.Type.String())
	}
	return errors.Trace(err)
}

func dropIndex(ctx context.Context, txn *catalog.Txn, job *Job) error {
	for _, info := range job.Drops {
		if job.Table != "" {
			entry, ok, err := txn.LookupEntry(model.IndexSet, info.Schema, info.Name)
			if err != nil {
				return err
			}
			if ok {
				idx, isIndex := entry.(*catalog.IndexEntry)
				if isIndex && !strings.EqualFold(idx.TableName(), job.Table) {
					return dbterror.ErrIndexNotExists.GenWithStackByArgs(info.Name, job.Table)
				}
			}
		}
		if err := txn.DropEntry(ctx, info); err != nil {
			return err
		}
	}
	return nil
}

// renameTables renames tables and views alike, RENAME TABLE accepts both.
func renameTables(ctx context.Context, txn *catalog.Txn, pairs []RenamePair) error {
	for _, p := range pairs {
		entry, ok, err := txn.LookupEntry(model.RelationSet, p.Schema, p.Name)
		if err != nil {
			return err
		}
		if !ok {
			return dbterror.ErrTableNotExists.GenWithStackByArgs(p.Schema, p.Name)
		}
		var info model.AlterInfo
		if entry.Type() == model.ViewEntry {
			info = model.NewRenameViewInfo(p.Schema, p.Name, p.NewName)
		} else {
			info = model.NewRenameTableInfo(p.Schema, p.Name, p.NewName)
		}
		if _, err := txn.AlterEntry(ctx, info); err != nil {
			return err
		}
	}
	return nil
}
