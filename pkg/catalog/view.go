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

package catalog

import (
	"context"

	"github.com/pingcap/parser/ast"
	"github.com/pingcap/parser/types"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"go.uber.org/zap"
)

// ViewEntry is a named query bound to optional column aliases and types.
type ViewEntry struct {
	StandardEntry
	query   ast.StmtNode
	aliases []string
	types   []*types.FieldType
}

// NewViewEntry builds a view from info.
//
// The entry takes ownership of info.Query without copying it and sets the
// field to nil. Callers must not use the statement after this call.
func NewViewEntry(schema SchemaRef, id int64, info *model.CreateViewInfo) (*ViewEntry, error) {
	if !model.IsQueryStmt(info.Query) {
		return nil, dbterror.ErrNotQueryStmt.GenWithStackByArgs(info.ViewName, info.Query)
	}
	v := &ViewEntry{
		StandardEntry: newStandardEntry(id, schema, info.ViewName, &info.CreateInfoBase),
		aliases:       append([]string(nil), info.Aliases...),
		types:         model.CloneFieldTypes(info.Types),
	}
	v.query = info.TakeQuery()
	return v, nil
}

// Query returns the view definition. The statement belongs to the entry and
// must not be modified.
func (v *ViewEntry) Query() ast.StmtNode {
	return v.query
}

// Aliases returns a copy of the declared column aliases.
func (v *ViewEntry) Aliases() []string {
	return append([]string(nil), v.aliases...)
}

// Types returns a copy of the declared column types.
func (v *ViewEntry) Types() []*types.FieldType {
	return model.CloneFieldTypes(v.types)
}

func (v *ViewEntry) copyQuery(ctx context.Context) (ast.StmtNode, error) {
	if !model.IsQueryStmt(v.query) {
		return nil, invariantViolation(ctx, dbterror.ErrNotQueryStmt.GenWithStackByArgs(v.name, v.query),
			zap.String("view", v.name))
	}
	query, err := model.CopyQuery(v.query)
	if err != nil {
		if dbterror.IsInvariantViolation(err) {
			return nil, invariantViolation(ctx, err, zap.String("view", v.name))
		}
		return nil, err
	}
	return query, nil
}

func (v *ViewEntry) clone(ctx context.Context) (*ViewEntry, error) {
	query, err := v.copyQuery(ctx)
	if err != nil {
		return nil, err
	}
	return &ViewEntry{
		StandardEntry: v.StandardEntry,
		query:         query,
		aliases:       v.Aliases(),
		types:         v.Types(),
	}, nil
}

// Copy implements CatalogEntry.
func (v *ViewEntry) Copy(ctx context.Context) (CatalogEntry, error) {
	if err := v.checkCopyable(ctx, "copy"); err != nil {
		return nil, err
	}
	return v.clone(ctx)
}

// AlterEntry implements CatalogEntry. RENAME is the only view alter.
func (v *ViewEntry) AlterEntry(ctx context.Context, info model.AlterInfo) (CatalogEntry, error) {
	if err := v.checkAlter(ctx, info); err != nil {
		return nil, err
	}
	viewInfo, ok := info.(*model.AlterViewInfo)
	if !ok {
		return nil, invariantViolation(ctx, dbterror.ErrInternal.GenWithStackByArgs("ALTER VIEW carries a non view alter info"))
	}
	switch viewInfo.Tp {
	case model.RenameView:
		if viewInfo.NewViewName == "" {
			return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("RENAME VIEW without new name")
		}
		nv, err := v.clone(ctx)
		if err != nil {
			return nil, err
		}
		nv.name = viewInfo.NewViewName
		return nv, nil
	}
	return nil, unknownAlter(ctx, v.tp, byte(viewInfo.Tp))
}

// GetInfo implements CatalogEntry.
func (v *ViewEntry) GetInfo() (model.CreateInfo, error) {
	query, err := v.copyQuery(context.Background())
	if err != nil {
		return nil, err
	}
	return &model.CreateViewInfo{
		CreateInfoBase: v.infoBase(),
		ViewName:       v.name,
		Aliases:        v.Aliases(),
		Types:          v.Types(),
		Query:          query,
	}, nil
}

// ToSQL implements CatalogEntry.
func (v *ViewEntry) ToSQL() (string, error) {
	return entryToSQL(v.sql, v.GetInfo)
}
