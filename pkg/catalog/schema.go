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
	"strings"

	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
	"go.uber.org/zap"
)

// SchemaEntry is a schema. It resolves the names of its entries for a
// transaction and stages their creation, alteration and removal.
type SchemaEntry struct {
	StandardEntry
}

// NewSchemaEntry builds a schema from info.
func NewSchemaEntry(id int64, info *model.CreateSchemaInfo) *SchemaEntry {
	s := &SchemaEntry{StandardEntry: newStandardEntry(id, SchemaRef{}, info.Schema, &info.CreateInfoBase)}
	s.schema = s.ref()
	return s
}

func (s *SchemaEntry) ref() SchemaRef {
	return SchemaRef{ID: s.id, Name: s.name}
}

// Copy implements CatalogEntry.
func (s *SchemaEntry) Copy(ctx context.Context) (CatalogEntry, error) {
	if err := s.checkCopyable(ctx, "copy"); err != nil {
		return nil, err
	}
	ns := *s
	return &ns, nil
}

// AlterEntry implements CatalogEntry. Schemas have no alter operations.
func (s *SchemaEntry) AlterEntry(ctx context.Context, info model.AlterInfo) (CatalogEntry, error) {
	if err := s.checkAlter(ctx, info); err != nil {
		return nil, err
	}
	return nil, unknownAlter(ctx, s.tp, byte(info.AlterType()))
}

// GetInfo implements CatalogEntry.
func (s *SchemaEntry) GetInfo() (model.CreateInfo, error) {
	return &model.CreateSchemaInfo{CreateInfoBase: s.infoBase()}, nil
}

// ToSQL implements CatalogEntry.
func (s *SchemaEntry) ToSQL() (string, error) {
	return entryToSQL(s.sql, s.GetInfo)
}

// GetEntry returns the entry named name in set as txn sees it.
func (s *SchemaEntry) GetEntry(txn *Txn, set model.EntrySet, name string) (CatalogEntry, bool) {
	return txn.get(childKey(s.name, set, name))
}

// Scan calls fn for every entry of set as txn sees it, in name order, until
// fn returns false.
func (s *SchemaEntry) Scan(txn *Txn, set model.EntrySet, fn func(CatalogEntry) bool) {
	txn.scan(strings.ToLower(s.name), set, fn)
}

// indexesOf returns the indexes on table as txn sees them.
func (s *SchemaEntry) indexesOf(txn *Txn, table string) []*IndexEntry {
	var res []*IndexEntry
	s.Scan(txn, model.IndexSet, func(e CatalogEntry) bool {
		if idx := e.(*IndexEntry); strings.EqualFold(idx.tableName, table) {
			res = append(res, idx)
		}
		return true
	})
	return res
}

func (s *SchemaEntry) stage(txn *Txn, entry CatalogEntry, action model.DiffAction) {
	txn.put(childKey(s.name, entry.Type().Set(), entry.Name()), entry.Type(), s.name, entry.Name(), entry, action)
}

func (s *SchemaEntry) stageDrop(txn *Txn, entry CatalogEntry) {
	txn.put(childKey(s.name, entry.Type().Set(), entry.Name()), entry.Type(), s.name, entry.Name(), nil, model.DiffActionDrop)
}

// CreateEntry stages the entry described by info. A view descriptor hands
// its query over to the new entry once all checks pass.
func (s *SchemaEntry) CreateEntry(ctx context.Context, txn *Txn, info model.CreateInfo) (CatalogEntry, error) {
	if err := txn.checkWritable("CREATE"); err != nil {
		return nil, err
	}
	if err := model.CheckCreateInfo(info); err != nil {
		return nil, err
	}
	base := info.Base()
	if base.Type == model.SchemaEntry {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("schema created inside a schema")
	}
	name := info.EntryName()
	existing, exists := s.GetEntry(txn, base.Type.Set(), name)
	if exists {
		switch base.OnConflict {
		case model.OnConflictIgnore:
			return existing, nil
		case model.OnConflictReplace:
			if existing.Type() != base.Type {
				return nil, dbterror.ErrWrongObject.GenWithStackByArgs(s.name, name, kindKeyword(base.Type))
			}
			if existing.IsInternal() {
				return nil, dbterror.ErrDropInternalEntry.GenWithStackByArgs(existing.Name())
			}
		default:
			return nil, existsErr(base.Type, s.name, name)
		}
	}
	if idxInfo, ok := info.(*model.CreateIndexInfo); ok {
		if err := s.checkIndexTarget(txn, idxInfo); err != nil {
			return nil, err
		}
	}

	entry, err := NewEntry(s.ref(), txn.c.allocID(), info)
	if err != nil {
		return nil, err
	}
	txn.noteSchema(s)
	if exists && existing.Type() == model.TableEntry {
		for _, idx := range s.indexesOf(txn, existing.Name()) {
			s.stageDrop(txn, idx)
		}
	}
	s.stage(txn, entry, model.DiffActionCreate)
	logutil.Logger(ctx).Debug("create catalog entry",
		zap.String("schema", s.name), zap.String("name", entry.Name()), zap.Stringer("type", entry.Type()))
	return entry, nil
}

func (s *SchemaEntry) checkIndexTarget(txn *Txn, info *model.CreateIndexInfo) error {
	rel, ok := s.GetEntry(txn, model.RelationSet, info.TableName)
	if !ok {
		return dbterror.ErrTableNotExists.GenWithStackByArgs(s.name, info.TableName)
	}
	tbl, ok := rel.(*TableEntry)
	if !ok {
		return dbterror.ErrWrongObject.GenWithStackByArgs(s.name, info.TableName, kindKeyword(model.TableEntry))
	}
	if len(info.Columns) == 0 {
		return dbterror.ErrWrongArguments.GenWithStackByArgs("CREATE INDEX without columns")
	}
	for _, col := range info.Columns {
		if tbl.FindColumn(col) < 0 {
			return dbterror.ErrBadField.GenWithStackByArgs(col, info.TableName)
		}
	}
	return nil
}

// Alter applies info to the entry it targets and stages the successor in
// place of the old version. Renames move the entry to its new name and
// tables carry their indexes along.
func (s *SchemaEntry) Alter(ctx context.Context, txn *Txn, info model.AlterInfo) (CatalogEntry, error) {
	if err := txn.checkWritable("ALTER"); err != nil {
		return nil, err
	}
	target := info.Target()
	tp := info.AlterType().EntryType()
	if tp == model.InvalidEntry {
		return nil, unknownAlter(ctx, tp, byte(info.AlterType()))
	}
	old, ok := s.GetEntry(txn, tp.Set(), target.Name)
	if !ok {
		if target.IfExists {
			return nil, nil
		}
		return nil, notExistsErr(tp, s.name, target.Name)
	}
	newEntry, err := old.AlterEntry(ctx, info)
	if err != nil {
		return nil, err
	}
	renamed := !strings.EqualFold(old.Name(), newEntry.Name())
	if renamed {
		if _, taken := s.GetEntry(txn, tp.Set(), newEntry.Name()); taken {
			return nil, existsErr(tp, s.name, newEntry.Name())
		}
	}

	var dependents []*IndexEntry
	if tblInfo, ok := info.(*model.AlterTableInfo); ok {
		dependents, err = s.alterIndexes(txn, old.Name(), tblInfo)
		if err != nil {
			return nil, err
		}
	}

	txn.noteSchema(s)
	if renamed {
		s.stageDrop(txn, old)
		s.stage(txn, newEntry, model.DiffActionCreate)
	} else {
		s.stage(txn, newEntry, model.DiffActionAlter)
	}
	for _, idx := range dependents {
		s.stage(txn, idx, model.DiffActionAlter)
	}
	logutil.Logger(ctx).Debug("alter catalog entry",
		zap.String("schema", s.name), zap.String("name", old.Name()), zap.String("newName", newEntry.Name()))
	return newEntry, nil
}

// alterIndexes returns the index successors a table alter requires, or an
// error when the alter would leave an index dangling.
func (s *SchemaEntry) alterIndexes(txn *Txn, table string, info *model.AlterTableInfo) ([]*IndexEntry, error) {
	indexes := s.indexesOf(txn, table)
	var res []*IndexEntry
	switch info.Tp {
	case model.RenameTable:
		for _, idx := range indexes {
			res = append(res, idx.retarget(info.NewTableName, "", ""))
		}
	case model.RenameColumn:
		for _, idx := range indexes {
			if idx.Covers(info.ColumnName) {
				res = append(res, idx.retarget("", info.ColumnName, info.NewColumnName))
			}
		}
	case model.DropColumn:
		for _, idx := range indexes {
			if idx.Covers(info.ColumnName) {
				return nil, dbterror.ErrColumnInIndex.GenWithStackByArgs(info.ColumnName, idx.name)
			}
		}
	}
	return res, nil
}

// DropEntry stages the removal of the entry info names. Dropping a table
// drops its indexes too.
func (s *SchemaEntry) DropEntry(ctx context.Context, txn *Txn, info *model.DropInfo) error {
	if err := txn.checkWritable("DROP"); err != nil {
		return err
	}
	existing, ok := s.GetEntry(txn, info.Type.Set(), info.Name)
	if !ok {
		if info.IfExists {
			return nil
		}
		return notExistsErr(info.Type, s.name, info.Name)
	}
	if existing.Type() != info.Type {
		return dbterror.ErrWrongObject.GenWithStackByArgs(s.name, info.Name, kindKeyword(info.Type))
	}
	if existing.IsInternal() {
		return dbterror.ErrDropInternalEntry.GenWithStackByArgs(existing.Name())
	}
	txn.noteSchema(s)
	if existing.Type() == model.TableEntry {
		for _, idx := range s.indexesOf(txn, existing.Name()) {
			s.stageDrop(txn, idx)
		}
	}
	s.stageDrop(txn, existing)
	logutil.Logger(ctx).Debug("drop catalog entry",
		zap.String("schema", s.name), zap.String("name", existing.Name()), zap.Stringer("type", existing.Type()))
	return nil
}

func kindKeyword(tp model.CatalogType) string {
	if tp == model.TableEntry {
		return "BASE TABLE"
	}
	return alterKeyword(tp)
}

func notExistsErr(tp model.CatalogType, schema, name string) error {
	switch tp.Set() {
	case model.RelationSet:
		return dbterror.ErrTableNotExists.GenWithStackByArgs(schema, name)
	case model.IndexSet:
		return dbterror.ErrIndexNotExists.GenWithStackByArgs(name, schema)
	case model.FunctionSet:
		return dbterror.ErrFunctionNotExists.GenWithStackByArgs("FUNCTION", schema+"."+name)
	}
	return dbterror.ErrSchemaNotExists.GenWithStackByArgs(name)
}

func existsErr(tp model.CatalogType, schema, name string) error {
	switch tp.Set() {
	case model.RelationSet:
		return dbterror.ErrTableExists.GenWithStackByArgs(name)
	case model.IndexSet:
		return dbterror.ErrIndexExists.GenWithStackByArgs(name)
	case model.FunctionSet:
		return dbterror.ErrFunctionExists.GenWithStackByArgs("FUNCTION", schema+"."+name)
	}
	return dbterror.ErrSchemaExists.GenWithStackByArgs(name)
}
