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
	"testing"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestCatalog(t *testing.T, opts Options) *Catalog {
	c := New(opts)
	infos, err := SystemEntries()
	require.NoError(t, err)
	entries := make([]RestoredEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, RestoredEntry{Info: info})
	}
	require.NoError(t, c.Restore(context.Background(), 0, entries))
	return c
}

func mustExec(t *testing.T, c *Catalog, fn func(txn *Txn) error) {
	txn := c.Begin()
	require.NoError(t, fn(txn))
	require.NoError(t, txn.Commit(context.Background()))
}

func createView(t *testing.T, c *Catalog, schema, name, query string) {
	mustExec(t, c, func(txn *Txn) error {
		_, err := txn.CreateEntry(context.Background(), newViewInfo(t, schema, name, query))
		return err
	})
}

func TestSystemEntries(t *testing.T) {
	infos, err := SystemEntries()
	require.NoError(t, err)
	views := 0
	for _, info := range infos {
		require.True(t, info.Base().Internal)
		require.NoError(t, model.CheckCreateInfo(info))
		if _, ok := info.(*model.CreateViewInfo); ok {
			views++
		}
	}
	require.Equal(t, len(systemViews), views)

	c := newTestCatalog(t, Options{})
	txn := c.Begin()
	defer txn.Rollback()
	s, err := txn.Schema(InformationSchemaName)
	require.NoError(t, err)
	require.True(t, s.IsInternal())
	seen := 0
	s.Scan(txn, model.RelationSet, func(e CatalogEntry) bool {
		seen++
		require.Equal(t, model.ViewEntry, e.Type())
		require.True(t, e.IsInternal())
		sql, err := e.ToSQL()
		require.NoError(t, err)
		require.Equal(t, "", sql)
		_, err = e.Copy(context.Background())
		require.True(t, dbterror.ErrInternalEntry.Equal(err))
		return true
	})
	require.Equal(t, len(systemViews), seen)
}

func TestRenameViewSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	createView(t, c, model.DefaultSchemaName, "v1", "SELECT 1 AS x")

	before := c.Begin()
	defer before.Rollback()

	txn := c.Begin()
	renamed, err := txn.AlterEntry(ctx, model.NewRenameViewInfo(model.DefaultSchemaName, "v1", "v2"))
	require.NoError(t, err)
	require.NoError(t, txn.Commit(ctx))

	info, err := renamed.GetInfo()
	require.NoError(t, err)
	require.Equal(t, "v2", info.(*model.CreateViewInfo).ViewName)
	sql, err := renamed.ToSQL()
	require.NoError(t, err)
	require.Regexp(t, "^CREATE VIEW v2 AS SELECT 1 AS x", sql)

	// the old snapshot still resolves v1 to the original entry
	old, err := before.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v1")
	require.NoError(t, err)
	require.Equal(t, "v1", old.Name())
	_, err = before.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v2")
	require.True(t, dbterror.ErrTableNotExists.Equal(err))

	after := c.Begin()
	defer after.Rollback()
	_, err = after.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v1")
	require.True(t, dbterror.ErrTableNotExists.Equal(err))
	cur, err := after.GetEntry(model.ViewEntry, model.DefaultSchemaName, "V2")
	require.NoError(t, err)
	require.Same(t, renamed, cur)
}

func TestWriteConflict(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	createView(t, c, model.DefaultSchemaName, "v1", "SELECT 1 AS x")
	version := c.SchemaVersion()

	txn1 := c.Begin()
	txn2 := c.Begin()
	_, err := txn1.AlterEntry(ctx, model.NewRenameViewInfo(model.DefaultSchemaName, "v1", "v2"))
	require.NoError(t, err)
	_, err = txn2.AlterEntry(ctx, model.NewRenameViewInfo(model.DefaultSchemaName, "v1", "v3"))
	require.NoError(t, err)

	require.NoError(t, txn1.Commit(ctx))
	err = txn2.Commit(ctx)
	require.True(t, dbterror.ErrWriteConflict.Equal(err))
	require.Equal(t, version+1, c.SchemaVersion())

	check := c.Begin()
	defer check.Rollback()
	_, err = check.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v3")
	require.True(t, dbterror.ErrTableNotExists.Equal(err))
	_, err = check.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v2")
	require.NoError(t, err)

	// the failed transaction is finished
	require.True(t, dbterror.ErrTxnDone.Equal(txn2.Commit(ctx)))
	_, err = txn2.Schema(model.DefaultSchemaName)
	require.True(t, dbterror.ErrTxnDone.Equal(err))
}

func TestConcurrentAlters(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	mustExec(t, c, func(txn *Txn) error {
		_, err := txn.CreateEntry(ctx, newTableInfo(model.DefaultSchemaName, "t", "a"))
		return err
	})
	version := c.SchemaVersion()

	const workers = 16
	results := make([]error, workers)
	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		eg.Go(func() error {
			txn := c.Begin()
			_, err := txn.AlterEntry(ctx, model.NewSetTableCommentInfo(model.DefaultSchemaName, "t", "c"))
			if err != nil {
				txn.Rollback()
				return err
			}
			results[i] = txn.Commit(ctx)
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	committed := 0
	for _, err := range results {
		if err == nil {
			committed++
			continue
		}
		require.True(t, dbterror.ErrWriteConflict.Equal(err), err.Error())
	}
	require.GreaterOrEqual(t, committed, 1)
	require.Equal(t, version+int64(committed), c.SchemaVersion())
}

func TestCreateConflictPolicy(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	createView(t, c, model.DefaultSchemaName, "v1", "SELECT 1 AS x")

	txn := c.Begin()
	defer txn.Rollback()
	_, err := txn.CreateEntry(ctx, newViewInfo(t, model.DefaultSchemaName, "V1", "SELECT 2 AS y"))
	require.True(t, dbterror.ErrTableExists.Equal(err))

	ignore := newViewInfo(t, model.DefaultSchemaName, "v1", "SELECT 2 AS y")
	ignore.OnConflict = model.OnConflictIgnore
	existing, err := txn.CreateEntry(ctx, ignore)
	require.NoError(t, err)
	require.Equal(t, "v1", existing.Name())
	require.NotNil(t, ignore.Query)

	replace := newViewInfo(t, model.DefaultSchemaName, "v1", "SELECT 2 AS y")
	replace.OnConflict = model.OnConflictReplace
	replaced, err := txn.CreateEntry(ctx, replace)
	require.NoError(t, err)
	require.NotEqual(t, existing.ID(), replaced.ID())
	sql, err := replaced.ToSQL()
	require.NoError(t, err)
	require.Equal(t, "CREATE VIEW v1 AS SELECT 2 AS y;\n", sql)

	tbl := newTableInfo(model.DefaultSchemaName, "v1", "a")
	tbl.OnConflict = model.OnConflictReplace
	_, err = txn.CreateEntry(ctx, tbl)
	require.True(t, dbterror.ErrWrongObject.Equal(err))

	sys := newViewInfo(t, InformationSchemaName, "tables", "SELECT 1")
	sys.OnConflict = model.OnConflictReplace
	_, err = txn.CreateEntry(ctx, sys)
	require.True(t, dbterror.ErrDropInternalEntry.Equal(err))
}

func TestTableIndexes(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	mustExec(t, c, func(txn *Txn) error {
		if _, err := txn.CreateEntry(ctx, newTableInfo(model.DefaultSchemaName, "t", "a", "b")); err != nil {
			return err
		}
		_, err := txn.CreateEntry(ctx, &model.CreateIndexInfo{
			CreateInfoBase: model.CreateInfoBase{Type: model.IndexEntry, Schema: model.DefaultSchemaName},
			IndexName:      "idx_a", TableName: "t", Columns: []string{"a"},
		})
		return err
	})

	txn := c.Begin()
	_, err := txn.CreateEntry(ctx, &model.CreateIndexInfo{
		CreateInfoBase: model.CreateInfoBase{Type: model.IndexEntry, Schema: model.DefaultSchemaName},
		IndexName:      "idx_c", TableName: "t", Columns: []string{"c"},
	})
	require.True(t, dbterror.ErrBadField.Equal(err))
	_, err = txn.AlterEntry(ctx, model.NewDropColumnInfo(model.DefaultSchemaName, "t", "a"))
	require.True(t, dbterror.ErrColumnInIndex.Equal(err))

	_, err = txn.AlterEntry(ctx, model.NewRenameColumnInfo(model.DefaultSchemaName, "t", "a", "a2"))
	require.NoError(t, err)
	_, err = txn.AlterEntry(ctx, model.NewRenameTableInfo(model.DefaultSchemaName, "t", "t2"))
	require.NoError(t, err)
	require.NoError(t, txn.Commit(ctx))

	txn = c.Begin()
	idx, err := txn.GetEntry(model.IndexEntry, model.DefaultSchemaName, "idx_a")
	require.NoError(t, err)
	require.Equal(t, "t2", idx.(*IndexEntry).TableName())
	require.Equal(t, []string{"a2"}, idx.(*IndexEntry).Columns())

	require.NoError(t, txn.DropEntry(ctx, &model.DropInfo{Type: model.TableEntry, Schema: model.DefaultSchemaName, Name: "t2"}))
	require.NoError(t, txn.Commit(ctx))

	txn = c.Begin()
	defer txn.Rollback()
	_, err = txn.GetEntry(model.IndexEntry, model.DefaultSchemaName, "idx_a")
	require.True(t, dbterror.ErrIndexNotExists.Equal(err))
}

func TestDropEntry(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	createView(t, c, model.DefaultSchemaName, "v1", "SELECT 1 AS x")

	txn := c.Begin()
	defer txn.Rollback()
	err := txn.DropEntry(ctx, &model.DropInfo{Type: model.TableEntry, Schema: model.DefaultSchemaName, Name: "v1"})
	require.True(t, dbterror.ErrWrongObject.Equal(err))
	require.Contains(t, err.Error(), "is not BASE TABLE")

	err = txn.DropEntry(ctx, &model.DropInfo{Type: model.ViewEntry, Schema: model.DefaultSchemaName, Name: "nope"})
	require.True(t, dbterror.ErrTableNotExists.Equal(err))
	require.NoError(t, txn.DropEntry(ctx, &model.DropInfo{Type: model.ViewEntry, Schema: model.DefaultSchemaName, Name: "nope", IfExists: true}))

	err = txn.DropEntry(ctx, &model.DropInfo{Type: model.ViewEntry, Schema: InformationSchemaName, Name: "tables"})
	require.True(t, dbterror.ErrDropInternalEntry.Equal(err))

	require.NoError(t, txn.DropEntry(ctx, &model.DropInfo{Type: model.ViewEntry, Schema: model.DefaultSchemaName, Name: "v1"}))
	_, err = txn.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v1")
	require.True(t, dbterror.ErrTableNotExists.Equal(err))

	// the drop is not visible outside the transaction before commit
	other := c.Begin()
	defer other.Rollback()
	_, err = other.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v1")
	require.NoError(t, err)
}

func TestSchemas(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})

	mustExec(t, c, func(txn *Txn) error {
		_, err := txn.CreateSchema(ctx, model.NewCreateSchemaInfo("s"))
		return err
	})
	createView(t, c, "s", "v1", "SELECT 1 AS x")

	txn := c.Begin()
	_, err := txn.CreateSchema(ctx, model.NewCreateSchemaInfo("S"))
	require.True(t, dbterror.ErrSchemaExists.Equal(err))
	err = txn.DropSchema(ctx, &model.DropInfo{Type: model.SchemaEntry, Name: "s"})
	require.True(t, dbterror.ErrSchemaNotEmpty.Equal(err))
	err = txn.DropSchema(ctx, &model.DropInfo{Type: model.SchemaEntry, Name: model.DefaultSchemaName})
	require.True(t, dbterror.ErrDropInternalEntry.Equal(err))
	require.NoError(t, txn.DropSchema(ctx, &model.DropInfo{Type: model.SchemaEntry, Name: "s", Cascade: true}))
	require.NoError(t, txn.Commit(ctx))

	txn = c.Begin()
	defer txn.Rollback()
	schemas, err := txn.Schemas()
	require.NoError(t, err)
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name())
	}
	require.Equal(t, []string{InformationSchemaName, model.DefaultSchemaName}, names)
	_, err = txn.GetEntry(model.ViewEntry, "s", "v1")
	require.True(t, dbterror.ErrSchemaNotExists.Equal(err))
}

func TestCreateInDroppedSchemaConflicts(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	mustExec(t, c, func(txn *Txn) error {
		_, err := txn.CreateSchema(ctx, model.NewCreateSchemaInfo("s"))
		return err
	})

	creator := c.Begin()
	_, err := creator.CreateEntry(ctx, newViewInfo(t, "s", "v1", "SELECT 1"))
	require.NoError(t, err)

	dropper := c.Begin()
	require.NoError(t, dropper.DropSchema(ctx, &model.DropInfo{Type: model.SchemaEntry, Name: "s"}))
	require.NoError(t, dropper.Commit(ctx))

	require.True(t, dbterror.ErrWriteConflict.Equal(creator.Commit(ctx)))

	// and the other way around
	mustExec(t, c, func(txn *Txn) error {
		_, err := txn.CreateSchema(ctx, model.NewCreateSchemaInfo("s2"))
		return err
	})
	dropper = c.Begin()
	require.NoError(t, dropper.DropSchema(ctx, &model.DropInfo{Type: model.SchemaEntry, Name: "s2"}))
	createView(t, c, "s2", "v1", "SELECT 1")
	require.True(t, dbterror.ErrWriteConflict.Equal(dropper.Commit(ctx)))
}

func TestScanSeesOwnWrites(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	createView(t, c, model.DefaultSchemaName, "b", "SELECT 1")
	createView(t, c, model.DefaultSchemaName, "d", "SELECT 1")

	txn := c.Begin()
	defer txn.Rollback()
	_, err := txn.CreateEntry(ctx, newViewInfo(t, model.DefaultSchemaName, "a", "SELECT 1"))
	require.NoError(t, err)
	_, err = txn.CreateEntry(ctx, newViewInfo(t, model.DefaultSchemaName, "c", "SELECT 1"))
	require.NoError(t, err)
	require.NoError(t, txn.DropEntry(ctx, &model.DropInfo{Type: model.ViewEntry, Schema: model.DefaultSchemaName, Name: "d"}))

	var names []string
	require.NoError(t, txn.ScanEntries(model.DefaultSchemaName, model.RelationSet, func(e CatalogEntry) bool {
		names = append(names, e.Name())
		return true
	}))
	require.Equal(t, []string{"a", "b", "c"}, names)
}

func TestHistoricalSnapshots(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{SnapshotCacheCapacity: 4})
	createView(t, c, model.DefaultSchemaName, "v1", "SELECT 1 AS x")
	v1Version := c.SchemaVersion()
	v1TS := c.latest.Load().commitTS
	require.NotZero(t, v1TS)

	txn := c.Begin()
	_, err := txn.AlterEntry(ctx, model.NewRenameViewInfo(model.DefaultSchemaName, "v1", "v2"))
	require.NoError(t, err)
	require.NoError(t, txn.Commit(ctx))

	past, err := c.BeginAt(v1Version)
	require.NoError(t, err)
	require.True(t, past.ReadOnly())
	_, err = past.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v1")
	require.NoError(t, err)
	_, err = past.CreateEntry(ctx, newViewInfo(t, model.DefaultSchemaName, "v3", "SELECT 1"))
	require.True(t, dbterror.ErrReadOnlySnapshot.Equal(err))
	past.Rollback()

	byTS, err := c.BeginAtTS(v1TS)
	require.NoError(t, err)
	require.Equal(t, v1Version, byTS.StartVersion())
	byTS.Rollback()

	beforeV1, err := c.BeginAtTS(v1TS - 1)
	require.NoError(t, err)
	require.Equal(t, v1Version-1, beforeV1.StartVersion())
	beforeV1.Rollback()

	for i := 0; i < 8; i++ {
		createView(t, c, model.DefaultSchemaName, "x"+string(rune('a'+i)), "SELECT 1")
	}
	require.Equal(t, 4, c.cache.len())
	c.GC(ctx)
	_, err = c.BeginAt(v1Version)
	require.True(t, dbterror.ErrSnapshotNotAvailable.Equal(err))
	_, err = c.BeginAtTS(v1TS)
	require.True(t, dbterror.ErrSnapshotNotAvailable.Equal(err))
}

func TestGC(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	createView(t, c, model.DefaultSchemaName, "v1", "SELECT 1 AS x")

	reader := c.Begin()
	for _, rename := range [][2]string{{"v1", "v2"}, {"v2", "v3"}} {
		txn := c.Begin()
		_, err := txn.AlterEntry(ctx, model.NewRenameViewInfo(model.DefaultSchemaName, rename[0], rename[1]))
		require.NoError(t, err)
		require.NoError(t, txn.Commit(ctx))
	}
	sizeBefore := c.latest.Load().tree.Len()

	// the reader pins v1
	require.Equal(t, 0, c.GC(ctx))
	_, err := reader.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v1")
	require.NoError(t, err)
	reader.Rollback()

	// v1 (create, tomb), v2 (create, tomb) are reclaimed
	require.Equal(t, 4, c.GC(ctx))
	require.Equal(t, sizeBefore-4, c.latest.Load().tree.Len())
	require.Equal(t, c.SchemaVersion(), c.GCSafeVersion())

	txn := c.Begin()
	defer txn.Rollback()
	_, err = txn.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v3")
	require.NoError(t, err)
	_, err = txn.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v1")
	require.True(t, dbterror.ErrTableNotExists.Equal(err))
}

func TestDiffsSince(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	base := c.SchemaVersion()
	createView(t, c, model.DefaultSchemaName, "v1", "SELECT 1 AS x")
	txn := c.Begin()
	_, err := txn.AlterEntry(ctx, model.NewRenameViewInfo(model.DefaultSchemaName, "v1", "V2"))
	require.NoError(t, err)
	require.NoError(t, txn.Commit(ctx))

	diffs, err := c.DiffsSince(base)
	require.NoError(t, err)
	require.Len(t, diffs, 2)
	require.Equal(t, []model.DiffKey{
		{Schema: model.DefaultSchemaName, Set: model.RelationSet, Name: "v1", Type: model.ViewEntry, Action: model.DiffActionCreate},
	}, diffs[0].Keys)
	require.Equal(t, []model.DiffKey{
		{Schema: model.DefaultSchemaName, Set: model.RelationSet, Name: "v1", Type: model.ViewEntry, Action: model.DiffActionDrop},
		{Schema: model.DefaultSchemaName, Set: model.RelationSet, Name: "V2", Type: model.ViewEntry, Action: model.DiffActionCreate},
	}, diffs[1].Keys)

	diffs, err = c.DiffsSince(c.SchemaVersion())
	require.NoError(t, err)
	require.Empty(t, diffs)
	_, err = c.DiffsSince(-5)
	require.True(t, dbterror.ErrSnapshotNotAvailable.Equal(err))
}

type failingPersister struct {
	calls int
}

func (p *failingPersister) SaveVersion(context.Context, *model.SchemaDiff, []Change) error {
	p.calls++
	return errors.New("disk full")
}

func TestPersistFailurePublishesNothing(t *testing.T) {
	ctx := context.Background()
	p := &failingPersister{}
	c := newTestCatalog(t, Options{Persister: p})
	version := c.SchemaVersion()

	txn := c.Begin()
	_, err := txn.CreateEntry(ctx, newViewInfo(t, model.DefaultSchemaName, "v1", "SELECT 1"))
	require.NoError(t, err)
	require.ErrorContains(t, txn.Commit(ctx), "disk full")
	require.Equal(t, 1, p.calls)
	require.Equal(t, version, c.SchemaVersion())

	check := c.Begin()
	defer check.Rollback()
	_, err = check.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v1")
	require.True(t, dbterror.ErrTableNotExists.Equal(err))
}

func TestCreateThenDropInOneTxn(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, Options{})
	version := c.SchemaVersion()
	txn := c.Begin()
	_, err := txn.CreateEntry(ctx, newViewInfo(t, model.DefaultSchemaName, "v1", "SELECT 1"))
	require.NoError(t, err)
	require.NoError(t, txn.DropEntry(ctx, &model.DropInfo{Type: model.ViewEntry, Schema: model.DefaultSchemaName, Name: "v1"}))
	require.NoError(t, txn.Commit(ctx))
	require.Equal(t, version, c.SchemaVersion())
}
