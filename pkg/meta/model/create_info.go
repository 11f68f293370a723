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
	"strings"

	"github.com/pingcap/errors"
	"github.com/pingcap/parser/ast"
	"github.com/pingcap/parser/types"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
)

// CreateInfo describes an entry to create. It is a plain value: it never
// references a live entry and is safe to persist, replicate, or hand to an
// unrelated create call.
type CreateInfo interface {
	// Base returns the fields shared by every kind.
	Base() *CreateInfoBase
	// EntryName returns the name of the entry to create.
	EntryName() string
	// Clone returns a deep copy of the descriptor.
	Clone() (CreateInfo, error)
	// DDL renders the descriptor as a CREATE statement without terminator.
	DDL() (string, error)
}

// CreateInfoBase holds the fields every CreateInfo carries.
type CreateInfoBase struct {
	Type       CatalogType      `json:"type"`
	Schema     string           `json:"schema"`
	Temporary  bool             `json:"temporary,omitempty"`
	Internal   bool             `json:"internal,omitempty"`
	OnConflict OnCreateConflict `json:"on_conflict,omitempty"`
	// SQL is the defining statement text, empty when the entry has none.
	SQL     string `json:"sql,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Base implements CreateInfo.
func (b *CreateInfoBase) Base() *CreateInfoBase {
	return b
}

func (b *CreateInfoBase) createPrefix(kind string) string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if b.OnConflict == OnConflictReplace {
		sb.WriteString("OR REPLACE ")
	}
	if b.Temporary {
		sb.WriteString("TEMPORARY ")
	}
	sb.WriteString(kind)
	sb.WriteString(" ")
	if b.OnConflict == OnConflictIgnore {
		sb.WriteString("IF NOT EXISTS ")
	}
	return sb.String()
}

// CreateViewInfo describes a view.
type CreateViewInfo struct {
	CreateInfoBase
	ViewName string `json:"view_name"`
	// Aliases overrides the names of the projected columns, in order.
	Aliases []string `json:"aliases,omitempty"`
	// Types declares the projected column types, in order.
	Types []*types.FieldType `json:"types,omitempty"`
	// Query is the view definition. Constructing an entry from the
	// descriptor takes ownership of it and leaves this field nil; callers
	// must not keep using the statement afterwards.
	Query ast.StmtNode `json:"-"`
}

// NewCreateViewInfo creates a view descriptor in schema.
func NewCreateViewInfo(schema, name string, query ast.StmtNode) *CreateViewInfo {
	return &CreateViewInfo{
		CreateInfoBase: CreateInfoBase{Type: ViewEntry, Schema: schema},
		ViewName:       name,
		Query:          query,
	}
}

// EntryName implements CreateInfo.
func (info *CreateViewInfo) EntryName() string {
	return info.ViewName
}

// TakeQuery transfers ownership of the query out of the descriptor.
func (info *CreateViewInfo) TakeQuery() ast.StmtNode {
	q := info.Query
	info.Query = nil
	return q
}

// Clone implements CreateInfo.
func (info *CreateViewInfo) Clone() (CreateInfo, error) {
	query, err := CopyQuery(info.Query)
	if err != nil {
		return nil, err
	}
	return &CreateViewInfo{
		CreateInfoBase: info.CreateInfoBase,
		ViewName:       info.ViewName,
		Aliases:        cloneStrings(info.Aliases),
		Types:          CloneFieldTypes(info.Types),
		Query:          query,
	}, nil
}

// DDL implements CreateInfo.
func (info *CreateViewInfo) DDL() (string, error) {
	if info.Query == nil {
		return "", dbterror.ErrWrongArguments.GenWithStackByArgs("CREATE VIEW without query")
	}
	query, err := FormatQuery(info.Query)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(info.createPrefix("VIEW"))
	sb.WriteString(QualifiedName(info.Schema, info.ViewName))
	if len(info.Aliases) > 0 {
		sb.WriteString(" (")
		writeIdentList(&sb, info.Aliases)
		sb.WriteString(")")
	}
	sb.WriteString(" AS ")
	sb.WriteString(query)
	return sb.String(), nil
}

// ColumnDefinition describes a table column.
type ColumnDefinition struct {
	Name    string           `json:"name"`
	Type    *types.FieldType `json:"type"`
	NotNull bool             `json:"not_null,omitempty"`
	Comment string           `json:"comment,omitempty"`
}

// Clone returns a deep copy of the column.
func (c *ColumnDefinition) Clone() *ColumnDefinition {
	if c == nil {
		return nil
	}
	nc := *c
	nc.Type = CloneFieldType(c.Type)
	return &nc
}

func (c *ColumnDefinition) ddl() string {
	var sb strings.Builder
	sb.WriteString(QuoteIdent(c.Name))
	sb.WriteString(" ")
	sb.WriteString(TypeString(c.Type))
	if c.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if c.Comment != "" {
		sb.WriteString(" COMMENT ")
		sb.WriteString(QuoteString(c.Comment))
	}
	return sb.String()
}

// CreateTableInfo describes a table.
type CreateTableInfo struct {
	CreateInfoBase
	TableName string              `json:"table_name"`
	Columns   []*ColumnDefinition `json:"columns"`
}

// EntryName implements CreateInfo.
func (info *CreateTableInfo) EntryName() string {
	return info.TableName
}

// Clone implements CreateInfo.
func (info *CreateTableInfo) Clone() (CreateInfo, error) {
	return &CreateTableInfo{
		CreateInfoBase: info.CreateInfoBase,
		TableName:      info.TableName,
		Columns:        CloneColumns(info.Columns),
	}, nil
}

// DDL implements CreateInfo.
func (info *CreateTableInfo) DDL() (string, error) {
	if len(info.Columns) == 0 {
		return "", dbterror.ErrWrongArguments.GenWithStackByArgs("CREATE TABLE without columns")
	}
	var sb strings.Builder
	sb.WriteString(info.createPrefix("TABLE"))
	sb.WriteString(QualifiedName(info.Schema, info.TableName))
	sb.WriteString(" (")
	for i, col := range info.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col.ddl())
	}
	sb.WriteString(")")
	if info.Comment != "" {
		sb.WriteString(" COMMENT = ")
		sb.WriteString(QuoteString(info.Comment))
	}
	return sb.String(), nil
}

// FindColumn returns the offset of the column named name, or -1.
func (info *CreateTableInfo) FindColumn(name string) int {
	return FindColumn(info.Columns, name)
}

// CreateIndexInfo describes an index on a table.
type CreateIndexInfo struct {
	CreateInfoBase
	IndexName string   `json:"index_name"`
	TableName string   `json:"table_name"`
	Columns   []string `json:"columns"`
	Unique    bool     `json:"unique,omitempty"`
}

// EntryName implements CreateInfo.
func (info *CreateIndexInfo) EntryName() string {
	return info.IndexName
}

// Clone implements CreateInfo.
func (info *CreateIndexInfo) Clone() (CreateInfo, error) {
	nc := *info
	nc.Columns = cloneStrings(info.Columns)
	return &nc, nil
}

// DDL implements CreateInfo.
func (info *CreateIndexInfo) DDL() (string, error) {
	if len(info.Columns) == 0 {
		return "", dbterror.ErrWrongArguments.GenWithStackByArgs("CREATE INDEX without columns")
	}
	kind := "INDEX"
	if info.Unique {
		kind = "UNIQUE INDEX"
	}
	var sb strings.Builder
	sb.WriteString(info.createPrefix(kind))
	sb.WriteString(QuoteIdent(info.IndexName))
	sb.WriteString(" ON ")
	sb.WriteString(QualifiedName(info.Schema, info.TableName))
	sb.WriteString(" (")
	writeIdentList(&sb, info.Columns)
	sb.WriteString(")")
	return sb.String(), nil
}

// CreateFunctionInfo describes a scalar macro: a named expression over
// positional parameters.
type CreateFunctionInfo struct {
	CreateInfoBase
	FunctionName string   `json:"function_name"`
	Params       []string `json:"params,omitempty"`
	// Body is the expression text of the macro.
	Body string `json:"body"`
}

// EntryName implements CreateInfo.
func (info *CreateFunctionInfo) EntryName() string {
	return info.FunctionName
}

// Clone implements CreateInfo.
func (info *CreateFunctionInfo) Clone() (CreateInfo, error) {
	nc := *info
	nc.Params = cloneStrings(info.Params)
	return &nc, nil
}

// DDL implements CreateInfo.
func (info *CreateFunctionInfo) DDL() (string, error) {
	if info.Body == "" {
		return "", dbterror.ErrWrongArguments.GenWithStackByArgs("CREATE MACRO without body")
	}
	var sb strings.Builder
	sb.WriteString(info.createPrefix("MACRO"))
	sb.WriteString(QualifiedName(info.Schema, info.FunctionName))
	sb.WriteString("(")
	writeIdentList(&sb, info.Params)
	sb.WriteString(") AS ")
	sb.WriteString(info.Body)
	return sb.String(), nil
}

// CreateSchemaInfo describes a schema. Base().Schema is the schema name.
type CreateSchemaInfo struct {
	CreateInfoBase
}

// NewCreateSchemaInfo creates a schema descriptor.
func NewCreateSchemaInfo(name string) *CreateSchemaInfo {
	return &CreateSchemaInfo{CreateInfoBase: CreateInfoBase{Type: SchemaEntry, Schema: name}}
}

// EntryName implements CreateInfo.
func (info *CreateSchemaInfo) EntryName() string {
	return info.Schema
}

// Clone implements CreateInfo.
func (info *CreateSchemaInfo) Clone() (CreateInfo, error) {
	nc := *info
	return &nc, nil
}

// DDL implements CreateInfo.
func (info *CreateSchemaInfo) DDL() (string, error) {
	return info.createPrefix("SCHEMA") + QuoteIdent(info.Schema), nil
}

// DropInfo describes an entry to drop.
type DropInfo struct {
	Type     CatalogType `json:"type"`
	Schema   string      `json:"schema"`
	Name     string      `json:"name"`
	IfExists bool        `json:"if_exists,omitempty"`
	// Cascade also drops entries that depend on the dropped one.
	Cascade bool `json:"cascade,omitempty"`
}

// CloneFieldType returns a deep copy of ft.
func CloneFieldType(ft *types.FieldType) *types.FieldType {
	if ft == nil {
		return nil
	}
	nft := *ft
	nft.Elems = cloneStrings(ft.Elems)
	return &nft
}

// CloneFieldTypes returns a deep copy of fts.
func CloneFieldTypes(fts []*types.FieldType) []*types.FieldType {
	if fts == nil {
		return nil
	}
	res := make([]*types.FieldType, len(fts))
	for i, ft := range fts {
		res[i] = CloneFieldType(ft)
	}
	return res
}

// CloneColumns returns a deep copy of cols.
func CloneColumns(cols []*ColumnDefinition) []*ColumnDefinition {
	if cols == nil {
		return nil
	}
	res := make([]*ColumnDefinition, len(cols))
	for i, col := range cols {
		res[i] = col.Clone()
	}
	return res
}

// FindColumn returns the offset of the column named name, or -1.
func FindColumn(cols []*ColumnDefinition, name string) int {
	for i, col := range cols {
		if strings.EqualFold(col.Name, name) {
			return i
		}
	}
	return -1
}

// QuoteString renders s as a single quoted SQL string literal.
func QuoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func writeIdentList(sb *strings.Builder, names []string) {
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(QuoteIdent(name))
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// CheckCreateInfo validates the fields every descriptor needs.
func CheckCreateInfo(info CreateInfo) error {
	if info == nil {
		return dbterror.ErrWrongArguments.GenWithStackByArgs("nil create info")
	}
	b := info.Base()
	if b.Schema == "" {
		return dbterror.ErrWrongArguments.GenWithStackByArgs(b.Type.String() + " without schema")
	}
	if info.EntryName() == "" {
		return dbterror.ErrWrongArguments.GenWithStackByArgs(b.Type.String() + " without name")
	}
	if expected := typeOfCreateInfo(info); expected != b.Type {
		return errors.Trace(dbterror.ErrWrongArguments.GenWithStackByArgs(
			"descriptor of " + expected.String() + " tagged as " + b.Type.String()))
	}
	if tbl, ok := info.(*CreateTableInfo); ok {
		if len(tbl.Columns) == 0 {
			return dbterror.ErrWrongArguments.GenWithStackByArgs("table without columns")
		}
		for i, col := range tbl.Columns {
			if col == nil || col.Name == "" || col.Type == nil {
				return dbterror.ErrWrongArguments.GenWithStackByArgs("column definition")
			}
			if FindColumn(tbl.Columns[:i], col.Name) >= 0 {
				return dbterror.ErrDupFieldName.GenWithStackByArgs(col.Name)
			}
		}
	}
	return nil
}

func typeOfCreateInfo(info CreateInfo) CatalogType {
	switch info.(type) {
	case *CreateViewInfo:
		return ViewEntry
	case *CreateTableInfo:
		return TableEntry
	case *CreateIndexInfo:
		return IndexEntry
	case *CreateFunctionInfo:
		return FunctionEntry
	case *CreateSchemaInfo:
		return SchemaEntry
	}
	return InvalidEntry
}
