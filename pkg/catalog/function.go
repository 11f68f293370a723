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
)

// FunctionEntry is a scalar macro.
type FunctionEntry struct {
	StandardEntry
	params []string
	body   string
}

// NewFunctionEntry builds a macro from info.
func NewFunctionEntry(schema SchemaRef, id int64, info *model.CreateFunctionInfo) *FunctionEntry {
	return &FunctionEntry{
		StandardEntry: newStandardEntry(id, schema, info.FunctionName, &info.CreateInfoBase),
		params:        append([]string(nil), info.Params...),
		body:          info.Body,
	}
}

// Params returns a copy of the parameter names.
func (f *FunctionEntry) Params() []string { return append([]string(nil), f.params...) }

// Body returns the macro expression.
func (f *FunctionEntry) Body() string { return f.body }

// Copy implements CatalogEntry.
func (f *FunctionEntry) Copy(ctx context.Context) (CatalogEntry, error) {
	if err := f.checkCopyable(ctx, "copy"); err != nil {
		return nil, err
	}
	nf := *f
	nf.params = f.Params()
	return &nf, nil
}

// AlterEntry implements CatalogEntry. Functions have no alter operations.
func (f *FunctionEntry) AlterEntry(ctx context.Context, info model.AlterInfo) (CatalogEntry, error) {
	if err := f.checkAlter(ctx, info); err != nil {
		return nil, err
	}
	return nil, unknownAlter(ctx, f.tp, byte(info.AlterType()))
}

// GetInfo implements CatalogEntry.
func (f *FunctionEntry) GetInfo() (model.CreateInfo, error) {
	return &model.CreateFunctionInfo{
		CreateInfoBase: f.infoBase(),
		FunctionName:   f.name,
		Params:         f.Params(),
		Body:           f.body,
	}, nil
}

// ToSQL implements CatalogEntry.
func (f *FunctionEntry) ToSQL() (string, error) {
	return entryToSQL(f.sql, f.GetInfo)
}
