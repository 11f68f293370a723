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
)

// IndexEntry is an index over columns of a table in the same schema.
type IndexEntry struct {
	StandardEntry
	tableName string
	columns   []string
	unique    bool
}

// NewIndexEntry builds an index from info.
func NewIndexEntry(schema SchemaRef, id int64, info *model.CreateIndexInfo) *IndexEntry {
	return &IndexEntry{
		StandardEntry: newStandardEntry(id, schema, info.IndexName, &info.CreateInfoBase),
		tableName:     info.TableName,
		columns:       append([]string(nil), info.Columns...),
		unique:        info.Unique,
	}
}

// TableName returns the name of the indexed table.
func (i *IndexEntry) TableName() string { return i.tableName }

// Columns returns a copy of the indexed column names.
func (i *IndexEntry) Columns() []string { return append([]string(nil), i.columns...) }

// IsUnique reports whether the index is unique.
func (i *IndexEntry) IsUnique() bool { return i.unique }

// Covers reports whether column is one of the indexed columns.
func (i *IndexEntry) Covers(column string) bool {
	for _, c := range i.columns {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}

func (i *IndexEntry) clone() *IndexEntry {
	ni := *i
	ni.columns = i.Columns()
	return &ni
}

// retarget returns a successor following a rename of the indexed table or
// of one of its columns. An empty argument leaves that part unchanged.
func (i *IndexEntry) retarget(tableName, oldColumn, newColumn string) *IndexEntry {
	ni := i.clone()
	if tableName != "" {
		ni.tableName = tableName
	}
	if oldColumn != "" {
		for k, c := range ni.columns {
			if strings.EqualFold(c, oldColumn) {
				ni.columns[k] = newColumn
			}
		}
	}
	return ni
}

// Copy implements CatalogEntry.
func (i *IndexEntry) Copy(ctx context.Context) (CatalogEntry, error) {
	if err := i.checkCopyable(ctx, "copy"); err != nil {
		return nil, err
	}
	return i.clone(), nil
}

// AlterEntry implements CatalogEntry. Indexes have no alter operations.
func (i *IndexEntry) AlterEntry(ctx context.Context, info model.AlterInfo) (CatalogEntry, error) {
	if err := i.checkAlter(ctx, info); err != nil {
		return nil, err
	}
	return nil, unknownAlter(ctx, i.tp, byte(info.AlterType()))
}

// GetInfo implements CatalogEntry.
func (i *IndexEntry) GetInfo() (model.CreateInfo, error) {
	return &model.CreateIndexInfo{
		CreateInfoBase: i.infoBase(),
		IndexName:      i.name,
		TableName:      i.tableName,
		Columns:        i.Columns(),
		Unique:         i.unique,
	}, nil
}

// ToSQL implements CatalogEntry.
func (i *IndexEntry) ToSQL() (string, error) {
	return entryToSQL(i.sql, i.GetInfo)
}
