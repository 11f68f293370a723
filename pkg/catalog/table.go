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

	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
)

// TableEntry is a table definition: an ordered list of columns.
type TableEntry struct {
	StandardEntry
	columns []*model.ColumnDefinition
}

// NewTableEntry builds a table from info. The columns are copied.
func NewTableEntry(schema SchemaRef, id int64, info *model.CreateTableInfo) *TableEntry {
	return &TableEntry{
		StandardEntry: newStandardEntry(id, schema, info.TableName, &info.CreateInfoBase),
		columns:       model.CloneColumns(info.Columns),
	}
}

// Columns returns a copy of the column definitions.
func (t *TableEntry) Columns() []*model.ColumnDefinition {
	return model.CloneColumns(t.columns)
}

// FindColumn returns the offset of the column named name, or -1.
func (t *TableEntry) FindColumn(name string) int {
	return model.FindColumn(t.columns, name)
}

func (t *TableEntry) clone() *TableEntry {
	return &TableEntry{
		StandardEntry: t.StandardEntry,
		columns:       model.CloneColumns(t.columns),
	}
}

// Copy implements CatalogEntry.
func (t *TableEntry) Copy(ctx context.Context) (CatalogEntry, error) {
	if err := t.checkCopyable(ctx, "copy"); err != nil {
		return nil, err
	}
	return t.clone(), nil
}

// AlterEntry implements CatalogEntry.
func (t *TableEntry) AlterEntry(ctx context.Context, info model.AlterInfo) (CatalogEntry, error) {
	if err := t.checkAlter(ctx, info); err != nil {
		return nil, err
	}
	tblInfo, ok := info.(*model.AlterTableInfo)
	if !ok {
		return nil, invariantViolation(ctx, dbterror.ErrInternal.GenWithStackByArgs("ALTER TABLE carries a non table alter info"))
	}
	switch tblInfo.Tp {
	case model.RenameTable:
		if tblInfo.NewTableName == "" {
			return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("RENAME TABLE without new name")
		}
		nt := t.clone()
		nt.name = tblInfo.NewTableName
		return nt, nil
	case model.RenameColumn:
		offset := t.FindColumn(tblInfo.ColumnName)
		if offset < 0 {
			return nil, dbterror.ErrBadField.GenWithStackByArgs(tblInfo.ColumnName, t.name)
		}
		if tblInfo.NewColumnName == "" {
			return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("RENAME COLUMN without new name")
		}
		if other := t.FindColumn(tblInfo.NewColumnName); other >= 0 && other != offset {
			return nil, dbterror.ErrDupFieldName.GenWithStackByArgs(tblInfo.NewColumnName)
		}
		nt := t.clone()
		nt.columns[offset].Name = tblInfo.NewColumnName
		return nt, nil
	case model.AddColumn:
		col := tblInfo.Column
		if col == nil || col.Name == "" || col.Type == nil {
			return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("ADD COLUMN without column definition")
		}
		nt := t.clone()
		if t.FindColumn(col.Name) >= 0 {
			if tblInfo.IfColumnNotExists {
				return nt, nil
			}
			return nil, dbterror.ErrDupFieldName.GenWithStackByArgs(col.Name)
		}
		nt.columns = append(nt.columns, col.Clone())
		return nt, nil
	case model.DropColumn:
		offset := t.FindColumn(tblInfo.ColumnName)
		nt := t.clone()
		if offset < 0 {
			if tblInfo.IfColumnNotExists {
				return nt, nil
			}
			return nil, dbterror.ErrCantDropFieldOrKey.GenWithStackByArgs(tblInfo.ColumnName)
		}
		if len(t.columns) == 1 {
			return nil, dbterror.ErrCantRemoveAllFields.GenWithStackByArgs()
		}
		nt.columns = append(nt.columns[:offset], nt.columns[offset+1:]...)
		return nt, nil
	case model.SetTableComment:
		nt := t.clone()
		nt.comment = tblInfo.Comment
		return nt, nil
	}
	return nil, unknownAlter(ctx, t.tp, byte(tblInfo.Tp))
}

// GetInfo implements CatalogEntry.
func (t *TableEntry) GetInfo() (model.CreateInfo, error) {
	return &model.CreateTableInfo{
		CreateInfoBase: t.infoBase(),
		TableName:      t.name,
		Columns:        t.Columns(),
	}, nil
}

// ToSQL implements CatalogEntry.
func (t *TableEntry) ToSQL() (string, error) {
	return entryToSQL(t.sql, t.GetInfo)
}
