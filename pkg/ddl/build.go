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

package ddl

import (
	"fmt"
	"strings"

	"github.com/pingcap/parser/ast"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
)

// BuildJob parses one DDL statement into a job.
func BuildJob(sql string) (*Job, error) {
	query := trimStmt(sql)
	if query == "" {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("empty statement")
	}
	job, err := buildExtJob(query)
	if job != nil || err != nil {
		return job, err
	}
	text, flags := rewrite(query)
	stmt, err := model.ParseStmt(text)
	if err != nil {
		return nil, dbterror.ErrParse.GenWithStackByArgs("cannot parse DDL:", err.Error())
	}
	job = &Job{Query: query}
	switch x := stmt.(type) {
	case *ast.CreateDatabaseStmt:
		job.Type = ActionCreateSchema
		info := model.NewCreateSchemaInfo(x.Name)
		if x.IfNotExists {
			info.OnConflict = model.OnConflictIgnore
		}
		job.Create = info
	case *ast.DropDatabaseStmt:
		job.Type = ActionDropSchema
		job.Drops = []*model.DropInfo{{
			Type:     model.SchemaEntry,
			Schema:   x.Name,
			Name:     x.Name,
			IfExists: x.IfExists,
			Cascade:  flags.cascade,
		}}
	case *ast.CreateTableStmt:
		job.Type = ActionCreateTable
		job.Create, err = buildCreateTable(x, flags)
	case *ast.CreateViewStmt:
		job.Type = ActionCreateView
		job.Create, err = buildCreateView(x, flags)
	case *ast.CreateIndexStmt:
		job.Type = ActionCreateIndex
		job.Create, err = buildCreateIndex(x)
	case *ast.DropTableStmt:
		job.Type, job.Drops = buildDropTable(x)
	case *ast.DropIndexStmt:
		job.Type = ActionDropIndex
		job.Table = x.Table.Name.O
		job.Drops = []*model.DropInfo{{
			Type:     model.IndexEntry,
			Schema:   schemaName(x.Table),
			Name:     x.IndexName,
			IfExists: x.IfExists,
		}}
	case *ast.RenameTableStmt:
		job.Type = ActionRenameTable
		job.Renames, err = buildRenames(x)
	case *ast.AlterTableStmt:
		job.Type = ActionAlterTable
		job.Alters, err = buildAlterTable(x)
	default:
		return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs(fmt.Sprintf("statement %T", stmt))
	}
	if err != nil {
		return nil, err
	}
	if job.Create != nil {
		job.Create.Base().SQL = query
	}
	return job, nil
}

// buildExtJob builds the statements recognized ahead of the parser. It
// returns a nil job when query is none of them.
func buildExtJob(query string) (*Job, error) {
	if m := createMacroRe.FindStringSubmatch(query); m != nil {
		info := &model.CreateFunctionInfo{
			CreateInfoBase: model.CreateInfoBase{
				Type:      model.FunctionEntry,
				Schema:    orDefault(m[4]),
				Temporary: m[2] != "",
				SQL:       query,
			},
			FunctionName: m[5],
			Params:       splitParams(m[6]),
			Body:         strings.TrimSpace(m[7]),
		}
		info.OnConflict = onConflict(m[1] != "", m[3] != "")
		if err := checkMacro(info); err != nil {
			return nil, err
		}
		return &Job{Type: ActionCreateMacro, Query: query, Create: info}, nil
	}
	if m := dropMacroRe.FindStringSubmatch(query); m != nil {
		return &Job{
			Type:  ActionDropMacro,
			Query: query,
			Drops: []*model.DropInfo{{
				Type:     model.FunctionEntry,
				Schema:   orDefault(m[2]),
				Name:     m[3],
				IfExists: m[1] != "",
			}},
		}, nil
	}
	if m := alterViewRe.FindStringSubmatch(query); m != nil {
		schema := orDefault(m[2])
		if m[4] != "" && !strings.EqualFold(m[4], schema) {
			return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("ALTER VIEW RENAME across schemas")
		}
		info := model.NewRenameViewInfo(schema, m[3], m[5])
		info.IfExists = m[1] != ""
		return &Job{Type: ActionAlterView, Query: query, Alters: []model.AlterInfo{info}}, nil
	}
	return nil, nil
}

func checkMacro(info *model.CreateFunctionInfo) error {
	seen := make(map[string]struct{}, len(info.Params))
	for _, p := range info.Params {
		if p == "" {
			return dbterror.ErrWrongArguments.GenWithStackByArgs("MACRO " + info.FunctionName)
		}
		lower := strings.ToLower(p)
		if _, ok := seen[lower]; ok {
			return dbterror.ErrDupFieldName.GenWithStackByArgs(p)
		}
		seen[lower] = struct{}{}
	}
	if _, err := model.ParseStmt("SELECT " + info.Body); err != nil {
		return dbterror.ErrParse.GenWithStackByArgs("cannot parse macro body:", err.Error())
	}
	return nil
}

func buildCreateTable(stmt *ast.CreateTableStmt, flags stmtFlags) (*model.CreateTableInfo, error) {
	if stmt.ReferTable != nil || stmt.Select != nil {
		return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("CREATE TABLE from another relation")
	}
	if len(stmt.Constraints) > 0 {
		return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("table constraints")
	}
	info := &model.CreateTableInfo{
		CreateInfoBase: model.CreateInfoBase{
			Type:       model.TableEntry,
			Schema:     schemaName(stmt.Table),
			Temporary:  flags.temporary,
			OnConflict: onConflict(false, stmt.IfNotExists),
		},
		TableName: stmt.Table.Name.O,
	}
	for _, def := range stmt.Cols {
		col, err := buildColumn(def)
		if err != nil {
			return nil, err
		}
		info.Columns = append(info.Columns, col)
	}
	for _, opt := range stmt.Options {
		if opt.Tp == ast.TableOptionComment {
			info.Comment = opt.StrValue
		}
	}
	return info, nil
}

func buildColumn(def *ast.ColumnDef) (*model.ColumnDefinition, error) {
	col := &model.ColumnDefinition{
		Name: def.Name.Name.O,
		Type: model.CloneFieldType(def.Tp),
	}
	for _, opt := range def.Options {
		switch opt.Tp {
		case ast.ColumnOptionNotNull:
			col.NotNull = true
		case ast.ColumnOptionNull:
			col.NotNull = false
		case ast.ColumnOptionComment:
			v, ok := opt.Expr.(ast.ValueExpr)
			if !ok {
				return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("COMMENT of column " + col.Name)
			}
			col.Comment = v.GetString()
		default:
			return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("option of column " + col.Name)
		}
	}
	return col, nil
}

func buildCreateView(stmt *ast.CreateViewStmt, flags stmtFlags) (*model.CreateViewInfo, error) {
	if !model.IsQueryStmt(stmt.Select) {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("CREATE VIEW without query")
	}
	if stmt.OrReplace && flags.ifNotExists {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("CREATE OR REPLACE VIEW IF NOT EXISTS")
	}
	info := model.NewCreateViewInfo(schemaName(stmt.ViewName), stmt.ViewName.Name.O, stmt.Select)
	info.Temporary = flags.temporary
	info.OnConflict = onConflict(stmt.OrReplace, flags.ifNotExists)
	for _, col := range stmt.Cols {
		info.Aliases = append(info.Aliases, col.O)
	}
	return info, nil
}

func buildCreateIndex(stmt *ast.CreateIndexStmt) (*model.CreateIndexInfo, error) {
	info := &model.CreateIndexInfo{
		CreateInfoBase: model.CreateInfoBase{
			Type:       model.IndexEntry,
			Schema:     schemaName(stmt.Table),
			OnConflict: onConflict(false, stmt.IfNotExists),
		},
		IndexName: stmt.IndexName,
		TableName: stmt.Table.Name.O,
		Unique:    stmt.KeyType == ast.IndexKeyTypeUnique,
	}
	for _, part := range stmt.IndexPartSpecifications {
		if part.Column == nil {
			return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("expression index")
		}
		info.Columns = append(info.Columns, part.Column.Name.O)
	}
	return info, nil
}

func buildDropTable(stmt *ast.DropTableStmt) (ActionType, []*model.DropInfo) {
	action, tp := ActionDropTable, model.TableEntry
	if stmt.IsView {
		action, tp = ActionDropView, model.ViewEntry
	}
	drops := make([]*model.DropInfo, 0, len(stmt.Tables))
	for _, tn := range stmt.Tables {
		drops = append(drops, &model.DropInfo{
			Type:     tp,
			Schema:   schemaName(tn),
			Name:     tn.Name.O,
			IfExists: stmt.IfExists,
		})
	}
	return action, drops
}

func buildRenames(stmt *ast.RenameTableStmt) ([]RenamePair, error) {
	pairs := make([]RenamePair, 0, len(stmt.TableToTables))
	for _, t2t := range stmt.TableToTables {
		schema := schemaName(t2t.OldTable)
		if !strings.EqualFold(schema, targetSchema(t2t.NewTable, schema)) {
			return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("RENAME TABLE across schemas")
		}
		pairs = append(pairs, RenamePair{Schema: schema, Name: t2t.OldTable.Name.O, NewName: t2t.NewTable.Name.O})
	}
	return pairs, nil
}

func buildAlterTable(stmt *ast.AlterTableStmt) ([]model.AlterInfo, error) {
	schema, name := schemaName(stmt.Table), stmt.Table.Name.O
	var alters []model.AlterInfo
	for _, spec := range stmt.Specs {
		switch spec.Tp {
		case ast.AlterTableRenameTable:
			if !strings.EqualFold(schema, targetSchema(spec.NewTable, schema)) {
				return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("RENAME TABLE across schemas")
			}
			alters = append(alters, model.NewRenameTableInfo(schema, name, spec.NewTable.Name.O))
			name = spec.NewTable.Name.O
		case ast.AlterTableRenameColumn:
			alters = append(alters, model.NewRenameColumnInfo(schema, name, spec.OldColumnName.Name.O, spec.NewColumnName.Name.O))
		case ast.AlterTableAddColumns:
			if spec.Position != nil && spec.Position.Tp != ast.ColumnPositionNone {
				return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("column position")
			}
			for _, def := range spec.NewColumns {
				col, err := buildColumn(def)
				if err != nil {
					return nil, err
				}
				info := model.NewAddColumnInfo(schema, name, col)
				info.IfColumnNotExists = spec.IfNotExists
				alters = append(alters, info)
			}
		case ast.AlterTableDropColumn:
			info := model.NewDropColumnInfo(schema, name, spec.OldColumnName.Name.O)
			info.IfColumnNotExists = spec.IfExists
			alters = append(alters, info)
		case ast.AlterTableOption:
			for _, opt := range spec.Options {
				if opt.Tp != ast.TableOptionComment {
					return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("table option")
				}
				alters = append(alters, model.NewSetTableCommentInfo(schema, name, opt.StrValue))
			}
		default:
			return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("ALTER TABLE clause")
		}
	}
	if len(alters) == 0 {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("ALTER TABLE")
	}
	return alters, nil
}

func schemaName(tn *ast.TableName) string {
	return orDefault(tn.Schema.O)
}

// targetSchema resolves the schema of a rename target. An unqualified target
// stays in the schema of the renamed table.
func targetSchema(tn *ast.TableName, source string) string {
	if tn.Schema.O == "" {
		return source
	}
	return tn.Schema.O
}

func orDefault(schema string) string {
	if schema == "" {
		return model.DefaultSchemaName
	}
	return schema
}

func onConflict(replace, ifNotExists bool) model.OnCreateConflict {
	switch {
	case replace:
		return model.OnConflictReplace
	case ifNotExists:
		return model.OnConflictIgnore
	}
	return model.OnConflictError
}
