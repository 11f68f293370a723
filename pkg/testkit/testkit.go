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

package testkit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/pingcap/errors"
	"github.com/pingcap/parser/terror"
	"github.com/pingcap/tidb-catalog/pkg/catalog"
	"github.com/pingcap/tidb-catalog/pkg/config"
	"github.com/pingcap/tidb-catalog/pkg/domain"
	"github.com/pingcap/tidb-catalog/pkg/infoschema"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CreateMockDomain bootstraps a domain on an in-memory store. It is closed
// when the test finishes.
func CreateMockDomain(t testing.TB) *domain.Domain {
	cfg := config.NewConfig()
	cfg.Store.SyncWrites = false
	cfg.Catalog.GCInterval = config.Duration{}
	dom, err := domain.Bootstrap(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, dom.Close())
	})
	return dom
}

// TestKit is a utility to run DDL tests.
type TestKit struct {
	require *require.Assertions
	assert  *assert.Assertions
	t       testing.TB
	dom     *domain.Domain
	txn     *catalog.Txn
}

// NewTestKit returns a new *TestKit.
func NewTestKit(t testing.TB, dom *domain.Domain) *TestKit {
	tk := &TestKit{
		require: require.New(t),
		assert:  assert.New(t),
		t:       t,
		dom:     dom,
	}
	t.Cleanup(func() {
		if tk.txn != nil {
			tk.txn.Rollback()
		}
	})
	return tk
}

// Domain returns the domain of the testkit.
func (tk *TestKit) Domain() *domain.Domain {
	return tk.dom
}

// Txn returns the explicit transaction in progress, or nil.
func (tk *TestKit) Txn() *catalog.Txn {
	return tk.txn
}

// Exec executes a statement. BEGIN, COMMIT and ROLLBACK control an explicit
// transaction, any other statement runs in it when one is open.
func (tk *TestKit) Exec(sql string) error {
	ctx := context.Background()
	switch strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(sql), ";")) {
	case "BEGIN", "START TRANSACTION":
		if tk.txn != nil {
			tk.txn.Rollback()
		}
		tk.txn = tk.dom.Catalog().Begin()
		return nil
	case "COMMIT":
		if tk.txn == nil {
			return nil
		}
		txn := tk.txn
		tk.txn = nil
		return txn.Commit(ctx)
	case "ROLLBACK":
		if tk.txn != nil {
			tk.txn.Rollback()
			tk.txn = nil
		}
		return nil
	}
	if tk.txn != nil {
		return tk.dom.DDL().Execute(tk.txn.WithLogger(ctx), tk.txn, sql)
	}
	return tk.dom.DDL().ExecuteAutoCommit(ctx, sql)
}

// MustExec executes a sql statement and asserts nil error.
func (tk *TestKit) MustExec(sql string) {
	err := tk.Exec(sql)
	tk.require.NoError(err, fmt.Sprintf("sql:%s, error stack %v", sql, errors.ErrorStack(err)))
}

// ExecToErr executes a sql statement and returns its error.
func (tk *TestKit) ExecToErr(sql string) error {
	return tk.Exec(sql)
}

// MustGetErrCode executes a sql statement and assert it's error code.
func (tk *TestKit) MustGetErrCode(sql string, errCode int) {
	err := tk.Exec(sql)
	tk.require.Errorf(err, "sql: %s", sql)
	originErr := errors.Cause(err)
	tErr, ok := originErr.(*terror.Error)
	tk.require.Truef(ok, "sql: %s, expect type 'terror.Error', but obtain '%T': %v", sql, originErr, originErr)
	tk.require.Equalf(errCode, int(tErr.Code()), "sql: %s, Assertion failed, origin err:\n  %v", sql, tErr)
}

// MustGetDBError executes a sql statement and assert its terror.
func (tk *TestKit) MustGetDBError(sql string, dberr *terror.Error) {
	err := tk.Exec(sql)
	tk.require.Truef(terror.ErrorEqual(err, dberr), "err %v", err)
}

// MustContainErrMsg executes a sql statement and assert its error message containing errStr.
func (tk *TestKit) MustContainErrMsg(sql string, errStr string) {
	err := tk.Exec(sql)
	tk.require.Error(err)
	tk.require.Contains(err.Error(), errStr)
}

// reader returns the transaction reads go through and a release func.
func (tk *TestKit) reader() (*catalog.Txn, func()) {
	if tk.txn != nil {
		return tk.txn, func() {}
	}
	txn := tk.dom.Catalog().Begin()
	return txn, txn.Rollback
}

// MustShow returns the statement recreating the entry.
func (tk *TestKit) MustShow(tp model.CatalogType, schema, name string) string {
	txn, release := tk.reader()
	defer release()
	entry, err := txn.GetEntry(tp, schema, name)
	tk.require.NoError(err)
	sql, err := entry.ToSQL()
	tk.require.NoError(err)
	return sql
}

// MustQuery reads the introspection table name and returns its rows.
func (tk *TestKit) MustQuery(name string) *Result {
	txn, release := tk.reader()
	defer release()
	rows, err := infoschema.Rows(txn, name)
	tk.require.NoError(err, "table:%s", name)
	return &Result{rows: rows, comment: name, require: tk.require, assert: tk.assert}
}

// Result is the result returned by MustQuery.
type Result struct {
	rows    [][]string
	comment string
	require *require.Assertions
	assert  *assert.Assertions
}

// Rows returns the result data.
func (res *Result) Rows() [][]string {
	return res.rows
}

// Filter keeps the rows whose column col equals value.
func (res *Result) Filter(col int, value string) *Result {
	var rows [][]string
	for _, row := range res.rows {
		if row[col] == value {
			rows = append(rows, row)
		}
	}
	return &Result{rows: rows, comment: res.comment, require: res.require, assert: res.assert}
}

// Sort sorts and return the result.
func (res *Result) Sort() *Result {
	sort.Slice(res.rows, func(i, j int) bool {
		a, b := res.rows[i], res.rows[j]
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return res
}

// Check asserts the result equals the expected results.
func (res *Result) Check(expected [][]string) {
	if len(expected) == 0 && len(res.rows) == 0 {
		return
	}
	res.require.Equal(expected, res.rows, res.comment)
}

// CheckContain checks whether the result contains the expected string.
func (res *Result) CheckContain(expected string) {
	for _, row := range res.rows {
		for _, col := range row {
			if strings.Contains(col, expected) {
				return
			}
		}
	}
	res.assert.Failf("result doesn't contain the expected string", "expected %q in %v", expected, res.rows)
}

// Rows is a convenient function to wrap args to a slice of rows.
func Rows(args ...string) [][]string {
	rows := make([][]string, 0, len(args))
	for _, arg := range args {
		rows = append(rows, strings.Split(arg, " "))
	}
	return rows
}
