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

package infoschema_test

import (
	"testing"

	"github.com/pingcap/tidb-catalog/pkg/errno"
	"github.com/pingcap/tidb-catalog/pkg/infoschema"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/testkit"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/stretchr/testify/require"
)

func TestViewsInTxn(t *testing.T) {
	dom := testkit.CreateMockDomain(t)
	tk := testkit.NewTestKit(t, dom)
	tk2 := testkit.NewTestKit(t, dom)

	v1Row := [][]string{{"s1", "v1", "NO", "NO", "CREATE VIEW s1.v1 AS SELECT 1 AS x;\n"}}
	tk.MustExec("create schema s1")
	tk.MustExec("begin")
	tk.MustExec("create view s1.v1 as select 1 as x")
	tk.MustExec("create macro s1.twice(a) as a * 2")
	tk.MustQuery(infoschema.TableViews).Filter(0, "s1").Check(v1Row)
	// not committed yet
	tk2.MustQuery(infoschema.TableViews).Filter(0, "s1").Check(nil)

	tk.MustExec("commit")
	tk2.MustQuery(infoschema.TableViews).Filter(0, "s1").Check(v1Row)
	tk2.MustQuery(infoschema.TableTables).Filter(0, "s1").CheckContain("VIEW")
	tk2.MustQuery(infoschema.TableSchemata).Filter(0, "s1").Check([][]string{{"s1", "NO", "", "CREATE SCHEMA s1;\n"}})

	tk.MustExec("begin")
	tk2.MustExec("alter view s1.v1 rename to v2")
	tk.MustExec("alter view s1.v1 rename to v3")
	tk.MustGetDBError("commit", dbterror.ErrWriteConflict)
	require.Equal(t, "CREATE VIEW s1.v2 AS SELECT 1 AS x;\n", tk2.MustShow(model.ViewEntry, "s1", "v2"))
	tk.MustGetDBError("alter table s1.v2 rename to v4", dbterror.ErrAlterKindMismatch)
	tk.MustGetDBError("drop schema s1", dbterror.ErrSchemaNotEmpty)
	tk.MustExec("drop schema s1 cascade")
}

func TestColumnsAndStatementErrors(t *testing.T) {
	dom := testkit.CreateMockDomain(t)
	tk := testkit.NewTestKit(t, dom)
	require.Same(t, dom, tk.Domain())

	tk.MustExec("create schema s2")
	tk.MustExec("create table s2.t (b int, a int not null)")
	tk.MustQuery(infoschema.TableColumns).Filter(0, "s2").Sort().Check(testkit.Rows(
		"s2 t a 2 int NO ",
		"s2 t b 1 int YES ",
	))

	tk.MustGetErrCode("create table s2.t (x int)", errno.ErrTableExists)
	tk.MustContainErrMsg("alter table s2.t rename column zz to yy", "Unknown column 'zz'")
	err := tk.ExecToErr("create table s2.t2 (x int, x int)")
	require.True(t, dbterror.ErrDupFieldName.Equal(err))

	tk.MustExec("begin")
	require.NotNil(t, tk.Txn())
	tk.MustExec("alter table s2.t drop column b")
	tk.MustExec("rollback")
	require.Nil(t, tk.Txn())
	tk.MustQuery(infoschema.TableColumns).Filter(0, "s2").Filter(2, "b").CheckContain("YES")
}
