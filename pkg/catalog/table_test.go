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
	"testing"

	"github.com/pingcap/parser/mysql"
	"github.com/pingcap/parser/types"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/stretchr/testify/require"
)

func columnNames(tbl *TableEntry) []string {
	var names []string
	for _, col := range tbl.Columns() {
		names = append(names, col.Name)
	}
	return names
}

func TestTableAlters(t *testing.T) {
	ctx := context.Background()
	tbl := NewTableEntry(testSchema, 10, newTableInfo(model.DefaultSchemaName, "t", "a", "b"))

	e, err := tbl.AlterEntry(ctx, model.NewRenameColumnInfo(model.DefaultSchemaName, "t", "A", "c"))
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b"}, columnNames(e.(*TableEntry)))
	require.Equal(t, []string{"a", "b"}, columnNames(tbl))

	_, err = tbl.AlterEntry(ctx, model.NewRenameColumnInfo(model.DefaultSchemaName, "t", "a", "b"))
	require.True(t, dbterror.ErrDupFieldName.Equal(err))
	_, err = tbl.AlterEntry(ctx, model.NewRenameColumnInfo(model.DefaultSchemaName, "t", "x", "y"))
	require.True(t, dbterror.ErrBadField.Equal(err))

	add := model.NewAddColumnInfo(model.DefaultSchemaName, "t", &model.ColumnDefinition{Name: "d", Type: types.NewFieldType(mysql.TypeLong)})
	e, err = tbl.AlterEntry(ctx, add)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "d"}, columnNames(e.(*TableEntry)))
	add.Column.Name = "changed"
	require.Equal(t, []string{"a", "b", "d"}, columnNames(e.(*TableEntry)))

	dup := model.NewAddColumnInfo(model.DefaultSchemaName, "t", &model.ColumnDefinition{Name: "a", Type: types.NewFieldType(mysql.TypeLong)})
	_, err = tbl.AlterEntry(ctx, dup)
	require.True(t, dbterror.ErrDupFieldName.Equal(err))
	dup.IfColumnNotExists = true
	e, err = tbl.AlterEntry(ctx, dup)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, columnNames(e.(*TableEntry)))

	e, err = tbl.AlterEntry(ctx, model.NewDropColumnInfo(model.DefaultSchemaName, "t", "a"))
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, columnNames(e.(*TableEntry)))
	_, err = e.AlterEntry(ctx, model.NewDropColumnInfo(model.DefaultSchemaName, "t", "b"))
	require.True(t, dbterror.ErrCantRemoveAllFields.Equal(err))
	_, err = tbl.AlterEntry(ctx, model.NewDropColumnInfo(model.DefaultSchemaName, "t", "z"))
	require.True(t, dbterror.ErrCantDropFieldOrKey.Equal(err))

	e, err = tbl.AlterEntry(ctx, model.NewSetTableCommentInfo(model.DefaultSchemaName, "t", "hello"))
	require.NoError(t, err)
	require.Equal(t, "hello", e.Comment())
	require.Equal(t, "", tbl.Comment())

	e, err = tbl.AlterEntry(ctx, model.NewRenameTableInfo(model.DefaultSchemaName, "t", "t2"))
	require.NoError(t, err)
	sql, err := e.ToSQL()
	require.NoError(t, err)
	require.Equal(t, "CREATE TABLE t2 (a int, b int);\n", sql)
}
