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
	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
	"go.uber.org/zap"
)

// SchemaRef identifies the schema publishing an entry. It is a lookup
// handle, the entry does not keep the schema alive.
type SchemaRef struct {
	ID   int64
	Name string
}

// CatalogEntry is one immutable version of one named catalog object.
//
// Once an entry is published it is never modified. Copy and AlterEntry
// build new entries; the caller publishes them through a Txn.
type CatalogEntry interface {
	ID() int64
	Type() model.CatalogType
	Name() string
	Schema() SchemaRef
	IsInternal() bool
	IsTemporary() bool
	Comment() string
	// SQL returns the defining statement the entry was created with, or ""
	// when it has none.
	SQL() string

	// Copy returns an independent entry with the same logical content.
	// It fails for internal entries.
	Copy(ctx context.Context) (CatalogEntry, error)
	// AlterEntry returns the successor of the entry with info applied.
	// The receiver is left untouched.
	AlterEntry(ctx context.Context, info model.AlterInfo) (CatalogEntry, error)
	// GetInfo returns a descriptor that recreates the entry. It shares no
	// mutable state with the entry.
	GetInfo() (model.CreateInfo, error)
	// ToSQL renders the entry as replayable DDL terminated by ";\n", or
	// returns "" when the entry has no defining statement.
	ToSQL() (string, error)
}

// StandardEntry holds the header every entry kind carries. Entry kinds
// embed it by value so copying an entry copies the header.
type StandardEntry struct {
	id        int64
	tp        model.CatalogType
	name      string
	schema    SchemaRef
	internal  bool
	temporary bool
	comment   string
	sql       string
}

func newStandardEntry(id int64, schema SchemaRef, name string, base *model.CreateInfoBase) StandardEntry {
	return StandardEntry{
		id:        id,
		tp:        base.Type,
		name:      name,
		schema:    schema,
		internal:  base.Internal,
		temporary: base.Temporary,
		comment:   base.Comment,
		sql:       base.SQL,
	}
}

// ID implements CatalogEntry.
func (e *StandardEntry) ID() int64 { return e.id }

// Type implements CatalogEntry.
func (e *StandardEntry) Type() model.CatalogType { return e.tp }

// Name implements CatalogEntry.
func (e *StandardEntry) Name() string { return e.name }

// Schema implements CatalogEntry.
func (e *StandardEntry) Schema() SchemaRef { return e.schema }

// IsInternal implements CatalogEntry.
func (e *StandardEntry) IsInternal() bool { return e.internal }

// IsTemporary implements CatalogEntry.
func (e *StandardEntry) IsTemporary() bool { return e.temporary }

// Comment implements CatalogEntry.
func (e *StandardEntry) Comment() string { return e.comment }

// SQL implements CatalogEntry.
func (e *StandardEntry) SQL() string { return e.sql }

// infoBase returns the shared descriptor fields of the entry.
func (e *StandardEntry) infoBase() model.CreateInfoBase {
	return model.CreateInfoBase{
		Type:      e.tp,
		Schema:    e.schema.Name,
		Temporary: e.temporary,
		SQL:       e.sql,
		Comment:   e.comment,
	}
}

// checkCopyable fails when op must not be applied to the entry.
func (e *StandardEntry) checkCopyable(ctx context.Context, op string) error {
	if !e.internal {
		return nil
	}
	return invariantViolation(ctx, dbterror.ErrInternalEntry.GenWithStackByArgs(op, e.name),
		zap.String("entry", e.name), zap.Stringer("type", e.tp))
}

// checkAlter runs the checks shared by every AlterEntry: the entry must not
// be internal and info must target the entry's kind.
func (e *StandardEntry) checkAlter(ctx context.Context, info model.AlterInfo) error {
	if err := e.checkCopyable(ctx, "alter"); err != nil {
		return err
	}
	if info == nil {
		return dbterror.ErrWrongArguments.GenWithStackByArgs("ALTER without alter info")
	}
	if info.AlterType().EntryType() != e.tp {
		return dbterror.ErrAlterKindMismatch.GenWithStackByArgs(e.tp.String(), alterKeyword(e.tp))
	}
	return nil
}

func alterKeyword(tp model.CatalogType) string {
	switch tp {
	case model.TableEntry:
		return "TABLE"
	case model.ViewEntry:
		return "VIEW"
	case model.IndexEntry:
		return "INDEX"
	case model.FunctionEntry:
		return "FUNCTION"
	case model.SchemaEntry:
		return "SCHEMA"
	}
	return tp.String()
}

// unknownAlter reports an alter sub-operation the entry kind does not know.
func unknownAlter(ctx context.Context, tp model.CatalogType, subType byte) error {
	return invariantViolation(ctx, dbterror.ErrUnknownAlterType.GenWithStackByArgs(tp.String(), subType),
		zap.Stringer("type", tp), zap.Uint8("alterType", subType))
}

// invariantViolation logs a broken catalog invariant and returns err. The
// statement hitting it must be aborted.
func invariantViolation(ctx context.Context, err error, fields ...zap.Field) error {
	logutil.Logger(ctx).Error("catalog invariant violated", append(fields, zap.Error(err))...)
	return err
}

// entryToSQL renders info, or returns "" when sql is empty.
func entryToSQL(sql string, getInfo func() (model.CreateInfo, error)) (string, error) {
	if sql == "" {
		return "", nil
	}
	info, err := getInfo()
	if err != nil {
		return "", err
	}
	ddl, err := info.DDL()
	if err != nil {
		return "", err
	}
	return ddl + ";\n", nil
}

// NewEntry builds an entry from a descriptor. View descriptors hand their
// query over to the entry, see NewViewEntry.
func NewEntry(schema SchemaRef, id int64, info model.CreateInfo) (CatalogEntry, error) {
	if err := model.CheckCreateInfo(info); err != nil {
		return nil, err
	}
	switch x := info.(type) {
	case *model.CreateViewInfo:
		return NewViewEntry(schema, id, x)
	case *model.CreateTableInfo:
		return NewTableEntry(schema, id, x), nil
	case *model.CreateIndexInfo:
		return NewIndexEntry(schema, id, x), nil
	case *model.CreateFunctionInfo:
		return NewFunctionEntry(schema, id, x), nil
	case *model.CreateSchemaInfo:
		return NewSchemaEntry(id, x), nil
	}
	return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("create info type " + info.Base().Type.String())
}
