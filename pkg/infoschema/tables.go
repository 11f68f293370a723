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

package infoschema

import (
	"strconv"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-catalog/pkg/catalog"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
)

// Introspection table names.
const (
	// TableSchemata is the string constant of infoschema table.
	TableSchemata = "schemata"
	// TableTables is the string constant of infoschema table.
	TableTables = "tables"
	// TableViews is the string constant of infoschema table.
	TableViews = "views"
	// TableColumns is the string constant of infoschema table.
	TableColumns = "columns"
)

// Table types.
const (
	TypeBaseTable  = "BASE TABLE"
	TypeView       = "VIEW"
	TypeSystemView = "SYSTEM VIEW"
)

var tableNameToColumns = map[string][]string{
	TableSchemata: {"schema_name", "internal", "comment", "sql"},
	TableTables:   {"schema_name", "table_name", "table_type", "internal", "temporary", "comment", "sql"},
	TableViews:    {"schema_name", "view_name", "internal", "temporary", "sql"},
	TableColumns:  {"schema_name", "table_name", "column_name", "ordinal_position", "data_type", "is_nullable", "comment"},
}

// SchemaRow is a row of information_schema.schemata.
type SchemaRow struct {
	Name     string
	Internal bool
	Comment  string
	SQL      string
}

// TableRow is a row of information_schema.tables. Views are listed too.
type TableRow struct {
	Schema    string
	Name      string
	Type      string
	Internal  bool
	Temporary bool
	Comment   string
	SQL       string
}

// ViewRow is a row of information_schema.views.
type ViewRow struct {
	Schema    string
	Name      string
	Internal  bool
	Temporary bool
	// SQL is the statement that recreates the view, empty for system views.
	SQL string
}

// ColumnRow is a row of information_schema.columns.
type ColumnRow struct {
	Schema   string
	Table    string
	Column   string
	Ordinal  int
	DataType string
	Nullable bool
	Comment  string
}

// ColumnNames returns the columns of the introspection table name.
func ColumnNames(name string) ([]string, bool) {
	cols, ok := tableNameToColumns[name]
	return cols, ok
}

// TableNames returns the names of the introspection tables.
func TableNames() []string {
	return []string{TableSchemata, TableTables, TableViews, TableColumns}
}

// Schemata lists the schemas visible to txn.
func Schemata(txn *catalog.Txn) ([]SchemaRow, error) {
	schemas, err := txn.Schemas()
	if err != nil {
		return nil, err
	}
	rows := make([]SchemaRow, 0, len(schemas))
	for _, s := range schemas {
		sql, err := s.ToSQL()
		if err != nil {
			return nil, err
		}
		rows = append(rows, SchemaRow{Name: s.Name(), Internal: s.IsInternal(), Comment: s.Comment(), SQL: sql})
	}
	return rows, nil
}

// scanRelations calls fn for every table and view visible to txn.
func scanRelations(txn *catalog.Txn, fn func(catalog.CatalogEntry) error) error {
	schemas, err := txn.Schemas()
	if err != nil {
		return err
	}
	for _, s := range schemas {
		var scanErr error
		err = txn.ScanEntries(s.Name(), model.RelationSet, func(e catalog.CatalogEntry) bool {
			scanErr = fn(e)
			return scanErr == nil
		})
		if err != nil {
			return err
		}
		if scanErr != nil {
			return scanErr
		}
	}
	return nil
}

// Tables lists the tables and views visible to txn.
func Tables(txn *catalog.Txn) ([]TableRow, error) {
	var rows []TableRow
	err := scanRelations(txn, func(e catalog.CatalogEntry) error {
		sql, err := e.ToSQL()
		if err != nil {
			return err
		}
		rows = append(rows, TableRow{
			Schema:    e.Schema().Name,
			Name:      e.Name(),
			Type:      tableType(e),
			Internal:  e.IsInternal(),
			Temporary: e.IsTemporary(),
			Comment:   e.Comment(),
			SQL:       sql,
		})
		return nil
	})
	return rows, err
}

// Views lists the views visible to txn.
func Views(txn *catalog.Txn) ([]ViewRow, error) {
	var rows []ViewRow
	err := scanRelations(txn, func(e catalog.CatalogEntry) error {
		if e.Type() != model.ViewEntry {
			return nil
		}
		sql, err := e.ToSQL()
		if err != nil {
			return err
		}
		rows = append(rows, ViewRow{
			Schema:    e.Schema().Name,
			Name:      e.Name(),
			Internal:  e.IsInternal(),
			Temporary: e.IsTemporary(),
			SQL:       sql,
		})
		return nil
	})
	return rows, err
}

// Columns lists the declared columns of tables, and the aliased columns of
// views, visible to txn.
func Columns(txn *catalog.Txn) ([]ColumnRow, error) {
	var rows []ColumnRow
	err := scanRelations(txn, func(e catalog.CatalogEntry) error {
		switch x := e.(type) {
		case *catalog.TableEntry:
			for i, col := range x.Columns() {
				rows = append(rows, ColumnRow{
					Schema:   x.Schema().Name,
					Table:    x.Name(),
					Column:   col.Name,
					Ordinal:  i + 1,
					DataType: model.TypeString(col.Type),
					Nullable: !col.NotNull,
					Comment:  col.Comment,
				})
			}
		case *catalog.ViewEntry:
			types := x.Types()
			for i, alias := range x.Aliases() {
				row := ColumnRow{
					Schema:   x.Schema().Name,
					Table:    x.Name(),
					Column:   alias,
					Ordinal:  i + 1,
					Nullable: true,
				}
				if i < len(types) && types[i] != nil {
					row.DataType = model.TypeString(types[i])
				}
				rows = append(rows, row)
			}
		}
		return nil
	})
	return rows, err
}

func tableType(e catalog.CatalogEntry) string {
	switch {
	case e.Type() == model.TableEntry:
		return TypeBaseTable
	case e.IsInternal():
		return TypeSystemView
	}
	return TypeView
}

// Rows returns the rows of the introspection table name as text.
func Rows(txn *catalog.Txn, name string) ([][]string, error) {
	var rows [][]string
	switch name {
	case TableSchemata:
		schemas, err := Schemata(txn)
		if err != nil {
			return nil, err
		}
		for _, r := range schemas {
			rows = append(rows, []string{r.Name, yesNo(r.Internal), r.Comment, r.SQL})
		}
	case TableTables:
		tables, err := Tables(txn)
		if err != nil {
			return nil, err
		}
		for _, r := range tables {
			rows = append(rows, []string{r.Schema, r.Name, r.Type, yesNo(r.Internal), yesNo(r.Temporary), r.Comment, r.SQL})
		}
	case TableViews:
		views, err := Views(txn)
		if err != nil {
			return nil, err
		}
		for _, r := range views {
			rows = append(rows, []string{r.Schema, r.Name, yesNo(r.Internal), yesNo(r.Temporary), r.SQL})
		}
	case TableColumns:
		cols, err := Columns(txn)
		if err != nil {
			return nil, err
		}
		for _, r := range cols {
			rows = append(rows, []string{r.Schema, r.Table, r.Column, strconv.Itoa(r.Ordinal), r.DataType, yesNo(r.Nullable), r.Comment})
		}
	default:
		return nil, errors.Trace(dbterror.ErrTableNotExists.GenWithStackByArgs(catalog.InformationSchemaName, name))
	}
	return rows, nil
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
