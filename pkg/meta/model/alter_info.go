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
	"fmt"
	"strings"
)

// AlterType is the kind of entry an AlterInfo targets.
type AlterType byte

// List of alter kinds.
const (
	AlterInvalid AlterType = iota
	AlterTable
	AlterView
)

// String implements fmt.Stringer interface.
func (t AlterType) String() string {
	switch t {
	case AlterTable:
		return "ALTER TABLE"
	case AlterView:
		return "ALTER VIEW"
	}
	return fmt.Sprintf("ALTER unknown(%d)", t)
}

// EntryType returns the entry kind the alter applies to.
func (t AlterType) EntryType() CatalogType {
	switch t {
	case AlterTable:
		return TableEntry
	case AlterView:
		return ViewEntry
	}
	return InvalidEntry
}

// AlterEntryData names the entry an alter applies to.
type AlterEntryData struct {
	Schema   string `json:"schema"`
	Name     string `json:"name"`
	IfExists bool   `json:"if_exists,omitempty"`
}

// Target implements AlterInfo.
func (d *AlterEntryData) Target() *AlterEntryData {
	return d
}

// AlterInfo describes a modification of one entry. It carries no reference to
// the entry itself.
type AlterInfo interface {
	AlterType() AlterType
	Target() *AlterEntryData
	Clone() AlterInfo
	// DDL renders the alter as a statement without terminator.
	DDL() string
}

// AlterViewType is the sub operation of an AlterViewInfo.
type AlterViewType byte

// List of view alters.
const (
	AlterViewInvalid AlterViewType = iota
	RenameView
)

// AlterViewInfo modifies a view.
type AlterViewInfo struct {
	AlterEntryData
	Tp          AlterViewType `json:"alter_view_type"`
	NewViewName string        `json:"new_view_name,omitempty"`
}

// NewRenameViewInfo returns an alter renaming view schema.name to newName.
func NewRenameViewInfo(schema, name, newName string) *AlterViewInfo {
	return &AlterViewInfo{
		AlterEntryData: AlterEntryData{Schema: schema, Name: name},
		Tp:             RenameView,
		NewViewName:    newName,
	}
}

// AlterType implements AlterInfo.
func (*AlterViewInfo) AlterType() AlterType {
	return AlterView
}

// Clone implements AlterInfo.
func (info *AlterViewInfo) Clone() AlterInfo {
	nc := *info
	return &nc
}

// DDL implements AlterInfo.
func (info *AlterViewInfo) DDL() string {
	prefix := alterPrefix("VIEW", &info.AlterEntryData)
	switch info.Tp {
	case RenameView:
		return prefix + " RENAME TO " + QuoteIdent(info.NewViewName)
	}
	return prefix + fmt.Sprintf(" /* unknown alter %d */", info.Tp)
}

// AlterTableType is the sub operation of an AlterTableInfo.
type AlterTableType byte

// List of table alters.
const (
	AlterTableInvalid AlterTableType = iota
	RenameTable
	RenameColumn
	AddColumn
	DropColumn
	SetTableComment
)

// AlterTableInfo modifies a table. Which fields are set depends on Tp.
type AlterTableInfo struct {
	AlterEntryData
	Tp            AlterTableType    `json:"alter_table_type"`
	NewTableName  string            `json:"new_table_name,omitempty"`
	ColumnName    string            `json:"column_name,omitempty"`
	NewColumnName string            `json:"new_column_name,omitempty"`
	Column        *ColumnDefinition `json:"column,omitempty"`
	// IfColumnNotExists makes ADD COLUMN a no-op and DROP COLUMN tolerant of
	// missing columns.
	IfColumnNotExists bool   `json:"if_column_not_exists,omitempty"`
	Comment           string `json:"comment,omitempty"`
}

// NewRenameTableInfo returns an alter renaming table schema.name to newName.
func NewRenameTableInfo(schema, name, newName string) *AlterTableInfo {
	return &AlterTableInfo{
		AlterEntryData: AlterEntryData{Schema: schema, Name: name},
		Tp:             RenameTable,
		NewTableName:   newName,
	}
}

// NewRenameColumnInfo returns an alter renaming a column of table schema.name.
func NewRenameColumnInfo(schema, name, column, newColumn string) *AlterTableInfo {
	return &AlterTableInfo{
		AlterEntryData: AlterEntryData{Schema: schema, Name: name},
		Tp:             RenameColumn,
		ColumnName:     column,
		NewColumnName:  newColumn,
	}
}

// NewAddColumnInfo returns an alter appending col to table schema.name.
func NewAddColumnInfo(schema, name string, col *ColumnDefinition) *AlterTableInfo {
	return &AlterTableInfo{
		AlterEntryData: AlterEntryData{Schema: schema, Name: name},
		Tp:             AddColumn,
		Column:         col,
	}
}

// NewDropColumnInfo returns an alter removing a column of table schema.name.
func NewDropColumnInfo(schema, name, column string) *AlterTableInfo {
	return &AlterTableInfo{
		AlterEntryData: AlterEntryData{Schema: schema, Name: name},
		Tp:             DropColumn,
		ColumnName:     column,
	}
}

// NewSetTableCommentInfo returns an alter replacing the comment of table schema.name.
func NewSetTableCommentInfo(schema, name, comment string) *AlterTableInfo {
	return &AlterTableInfo{
		AlterEntryData: AlterEntryData{Schema: schema, Name: name},
		Tp:             SetTableComment,
		Comment:        comment,
	}
}

// AlterType implements AlterInfo.
func (*AlterTableInfo) AlterType() AlterType {
	return AlterTable
}

// Clone implements AlterInfo.
func (info *AlterTableInfo) Clone() AlterInfo {
	nc := *info
	nc.Column = info.Column.Clone()
	return &nc
}

// DDL implements AlterInfo.
func (info *AlterTableInfo) DDL() string {
	prefix := alterPrefix("TABLE", &info.AlterEntryData)
	switch info.Tp {
	case RenameTable:
		return prefix + " RENAME TO " + QuoteIdent(info.NewTableName)
	case RenameColumn:
		return prefix + " RENAME COLUMN " + QuoteIdent(info.ColumnName) + " TO " + QuoteIdent(info.NewColumnName)
	case AddColumn:
		if info.Column == nil || info.Column.Type == nil {
			return prefix + " ADD COLUMN"
		}
		return prefix + " ADD COLUMN " + ifNotExists(info.IfColumnNotExists) + info.Column.ddl()
	case DropColumn:
		return prefix + " DROP COLUMN " + ifExists(info.IfColumnNotExists) + QuoteIdent(info.ColumnName)
	case SetTableComment:
		return prefix + " COMMENT = " + QuoteString(info.Comment)
	}
	return prefix + fmt.Sprintf(" /* unknown alter %d */", info.Tp)
}

func alterPrefix(kind string, d *AlterEntryData) string {
	var sb strings.Builder
	sb.WriteString("ALTER ")
	sb.WriteString(kind)
	sb.WriteString(" ")
	sb.WriteString(ifExists(d.IfExists))
	sb.WriteString(QualifiedName(d.Schema, d.Name))
	return sb.String()
}

func ifExists(b bool) string {
	if b {
		return "IF EXISTS "
	}
	return ""
}

func ifNotExists(b bool) string {
	if b {
		return "IF NOT EXISTS "
	}
	return ""
}
