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
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
)

// InformationSchemaName is the schema holding the system views.
const InformationSchemaName = "information_schema"

var systemViews = []struct {
	name  string
	query string
}{
	{"schemata", "SELECT schema_name, internal, `comment`, `sql` FROM catalog_schemas"},
	{"tables", "SELECT schema_name, table_name, table_type, internal, `temporary`, `comment`, `sql` FROM catalog_relations"},
	{"views", "SELECT schema_name, view_name, internal, `temporary`, `sql` FROM catalog_relations WHERE table_type = 'VIEW'"},
	{"columns", "SELECT schema_name, table_name, column_name, ordinal_position, data_type, is_nullable, `comment` FROM catalog_columns"},
}

var systemMacros = []struct {
	name   string
	params []string
	body   string
}{
	{"nullifzero", []string{"x"}, "NULLIF(x, 0)"},
	{"zeroifnull", []string{"x"}, "IFNULL(x, 0)"},
	{"array_length", []string{"arr"}, "JSON_LENGTH(arr)"},
}

// SystemEntries returns the descriptors of the entries every catalog holds:
// the default schema, the information schema and its views, and the builtin
// macros. They are internal and carry no defining SQL.
func SystemEntries() ([]model.CreateInfo, error) {
	mainSchema := model.NewCreateSchemaInfo(model.DefaultSchemaName)
	mainSchema.Internal = true
	infoSchema := model.NewCreateSchemaInfo(InformationSchemaName)
	infoSchema.Internal = true
	infos := []model.CreateInfo{mainSchema, infoSchema}

	for _, v := range systemViews {
		query, err := model.ParseQuery(v.query)
		if err != nil {
			return nil, err
		}
		info := model.NewCreateViewInfo(InformationSchemaName, v.name, query)
		info.Internal = true
		infos = append(infos, info)
	}
	for _, m := range systemMacros {
		infos = append(infos, &model.CreateFunctionInfo{
			CreateInfoBase: model.CreateInfoBase{Type: model.FunctionEntry, Schema: model.DefaultSchemaName, Internal: true},
			FunctionName:   m.name,
			Params:         m.params,
			Body:           m.body,
		})
	}
	return infos, nil
}
