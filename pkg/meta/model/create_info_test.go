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

package model

import (
	"testing"

	"github.com/pingcap/parser/ast"
	"github.com/pingcap/parser/mysql"
	"github.com/pingcap/parser/types"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/stretchr/testify/require"
)

func newTestViewInfo(t *testing.T, schema, name, query string) *CreateViewInfo {
	stmt, err := ParseQuery(query)
	require.NoError(t, err)
	return NewCreateViewInfo(schema, name, stmt)
}

func varcharType(flen int) *types.FieldType {
	ft := types.NewFieldType(mysql.TypeVarchar)
	ft.Flen = flen
	return ft
}

func TestCreateViewInfoDDL(t *testing.T) {
	info := newTestViewInfo(t, DefaultSchemaName, "v1", "SELECT 1 AS x")
	ddl, err := info.DDL()
	require.NoError(t, err)
	require.Equal(t, "CREATE VIEW v1 AS SELECT 1 AS x", ddl)

	info = newTestViewInfo(t, "s", "v1", "SELECT 1 AS x")
	info.OnConflict = OnConflictReplace
	info.Temporary = true
	info.Aliases = []string{"y"}
	ddl, err = info.DDL()
	require.NoError(t, err)
	require.Equal(t, "CREATE OR REPLACE TEMPORARY VIEW s.v1 (y) AS SELECT 1 AS x", ddl)

	info.Query = nil
	_, err = info.DDL()
	require.True(t, dbterror.ErrWrongArguments.Equal(err))
}

func TestCreateViewInfoClone(t *testing.T) {
	info := newTestViewInfo(t, DefaultSchemaName, "v1", "SELECT 1 AS x")
	info.Aliases = []string{"a"}
	info.Types = []*types.FieldType{varcharType(10)}
	info.Comment = "c"

	cloned, err := info.Clone()
	require.NoError(t, err)
	cp := cloned.(*CreateViewInfo)
	require.Equal(t, info.CreateInfoBase, cp.CreateInfoBase)
	require.NotSame(t, info.Query, cp.Query)
	require.NotSame(t, info.Types[0], cp.Types[0])

	cp.Aliases[0] = "b"
	cp.Types[0].Flen = 20
	require.Equal(t, "a", info.Aliases[0])
	require.Equal(t, 10, info.Types[0].Flen)

	q := info.TakeQuery()
	require.NotNil(t, q)
	require.Nil(t, info.Query)
}

func TestCreateTableInfoDDL(t *testing.T) {
	info := &CreateTableInfo{
		CreateInfoBase: CreateInfoBase{Type: TableEntry, Schema: DefaultSchemaName, Comment: "it's"},
		TableName:      "t",
		Columns: []*ColumnDefinition{
			{Name: "a", Type: types.NewFieldType(mysql.TypeLong), NotNull: true},
			{Name: "b", Type: varcharType(10), Comment: "x"},
		},
	}
	require.NoError(t, CheckCreateInfo(info))
	ddl, err := info.DDL()
	require.NoError(t, err)
	require.Equal(t, "CREATE TABLE t (a int NOT NULL, b varchar(10) COMMENT 'x') COMMENT = 'it''s'", ddl)

	// the rendered text is accepted by the parser
	stmt, err := ParseStmt(ddl)
	require.NoError(t, err)
	require.IsType(t, &ast.CreateTableStmt{}, stmt)

	require.Equal(t, 1, info.FindColumn("B"))
	require.Equal(t, -1, info.FindColumn("c"))

	info.Columns = append(info.Columns, &ColumnDefinition{Name: "A", Type: types.NewFieldType(mysql.TypeLong)})
	require.True(t, dbterror.ErrDupFieldName.Equal(CheckCreateInfo(info)))
}

func TestCreateIndexAndSchemaDDL(t *testing.T) {
	idx := &CreateIndexInfo{
		CreateInfoBase: CreateInfoBase{Type: IndexEntry, Schema: "s", OnConflict: OnConflictIgnore},
		IndexName:      "idx",
		TableName:      "t",
		Columns:        []string{"a", "b"},
		Unique:         true,
	}
	ddl, err := idx.DDL()
	require.NoError(t, err)
	require.Equal(t, "CREATE UNIQUE INDEX IF NOT EXISTS idx ON s.t (a, b)", ddl)

	sc := NewCreateSchemaInfo("s")
	ddl, err = sc.DDL()
	require.NoError(t, err)
	require.Equal(t, "CREATE SCHEMA s", ddl)
	require.Equal(t, "s", sc.EntryName())

	fn := &CreateFunctionInfo{
		CreateInfoBase: CreateInfoBase{Type: FunctionEntry, Schema: DefaultSchemaName},
		FunctionName:   "add_one",
		Params:         []string{"a"},
		Body:           "a + 1",
	}
	ddl, err = fn.DDL()
	require.NoError(t, err)
	require.Equal(t, "CREATE MACRO add_one(a) AS a + 1", ddl)
}

func TestCheckCreateInfo(t *testing.T) {
	require.True(t, dbterror.ErrWrongArguments.Equal(CheckCreateInfo(nil)))

	info := newTestViewInfo(t, "", "v1", "SELECT 1")
	require.True(t, dbterror.ErrWrongArguments.Equal(CheckCreateInfo(info)))

	info = newTestViewInfo(t, DefaultSchemaName, "", "SELECT 1")
	require.True(t, dbterror.ErrWrongArguments.Equal(CheckCreateInfo(info)))

	info = newTestViewInfo(t, DefaultSchemaName, "v1", "SELECT 1")
	info.Type = TableEntry
	require.True(t, dbterror.ErrWrongArguments.Equal(CheckCreateInfo(info)))

	info.Type = ViewEntry
	require.NoError(t, CheckCreateInfo(info))
}

func TestAlterInfoDDL(t *testing.T) {
	require.Equal(t, "ALTER VIEW v1 RENAME TO v2", NewRenameViewInfo(DefaultSchemaName, "v1", "v2").DDL())
	require.Equal(t, "ALTER TABLE s.t RENAME TO t2", NewRenameTableInfo("s", "t", "t2").DDL())
	require.Equal(t, "ALTER TABLE t RENAME COLUMN a TO b", NewRenameColumnInfo(DefaultSchemaName, "t", "a", "b").DDL())
	require.Equal(t, "ALTER TABLE t DROP COLUMN a", NewDropColumnInfo(DefaultSchemaName, "t", "a").DDL())
	require.Equal(t, "ALTER TABLE t COMMENT = 'c'", NewSetTableCommentInfo(DefaultSchemaName, "t", "c").DDL())

	add := NewAddColumnInfo(DefaultSchemaName, "t", &ColumnDefinition{Name: "c", Type: types.NewFieldType(mysql.TypeLong)})
	require.Equal(t, "ALTER TABLE t ADD COLUMN c int", add.DDL())

	cp := add.Clone().(*AlterTableInfo)
	cp.Column.Name = "d"
	require.Equal(t, "c", add.Column.Name)

	require.Equal(t, ViewEntry, AlterView.EntryType())
	require.Equal(t, TableEntry, AlterTable.EntryType())
	require.Equal(t, InvalidEntry, AlterInvalid.EntryType())
}
