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

	"github.com/pingcap/tidb-catalog/pkg/meta/model"
)

// ActionType is the type of a DDL job.
type ActionType byte

// List of DDL job types.
const (
	ActionNone ActionType = iota
	ActionCreateSchema
	ActionDropSchema
	ActionCreateTable
	ActionCreateView
	ActionCreateIndex
	ActionCreateMacro
	ActionDropTable
	ActionDropView
	ActionDropIndex
	ActionDropMacro
	ActionRenameTable
	ActionAlterTable
	ActionAlterView
)

var actionMap = map[ActionType]string{
	ActionNone:         "none",
	ActionCreateSchema: "create schema",
	ActionDropSchema:   "drop schema",
	ActionCreateTable:  "create table",
	ActionCreateView:   "create view",
	ActionCreateIndex:  "create index",
	ActionCreateMacro:  "create macro",
	ActionDropTable:    "drop table",
	ActionDropView:     "drop view",
	ActionDropIndex:    "drop index",
	ActionDropMacro:    "drop macro",
	ActionRenameTable:  "rename table",
	ActionAlterTable:   "alter table",
	ActionAlterView:    "alter view",
}

// String implements fmt.Stringer interface.
func (action ActionType) String() string {
	if v, ok := actionMap[action]; ok {
		return v
	}
	return "none"
}

// RenamePair is one old name to new name mapping of RENAME TABLE.
type RenamePair struct {
	Schema  string
	Name    string
	NewName string
}

// Job is a parsed DDL statement ready to run against a catalog transaction.
type Job struct {
	Type  ActionType
	Query string

	Create  model.CreateInfo
	Alters  []model.AlterInfo
	Drops   []*model.DropInfo
	Renames []RenamePair
	// Table is the target of DROP INDEX, empty when the statement names none.
	Table string
}

// String implements fmt.Stringer interface.
func (job *Job) String() string {
	return fmt.Sprintf("Type:%s, Query:%s", job.Type, job.Query)
}
