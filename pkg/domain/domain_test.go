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

package domain

import (
	"context"
	"testing"
	"time"

	"github.com/pingcap/tidb-catalog/pkg/config"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/stretchr/testify/require"
)

func newTestConfig(path string) *config.Config {
	cfg := config.NewConfig()
	cfg.Store.Path = path
	cfg.Store.SyncWrites = false
	cfg.Catalog.GCInterval = config.Duration{Duration: 0}
	return cfg
}

func viewSQL(t *testing.T, do *Domain, name string) string {
	txn := do.Catalog().Begin()
	defer txn.Rollback()
	v, err := txn.GetEntry(model.ViewEntry, model.DefaultSchemaName, name)
	require.NoError(t, err)
	sql, err := v.ToSQL()
	require.NoError(t, err)
	return sql
}

func TestBootstrapInMemory(t *testing.T) {
	ctx := context.Background()
	do, err := Bootstrap(ctx, newTestConfig(""))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, do.Close())
	}()
	require.Equal(t, int64(0), do.Catalog().SchemaVersion())

	require.NoError(t, do.DDL().ExecuteAutoCommit(ctx, "CREATE VIEW v1 AS SELECT 1 AS x"))
	require.Equal(t, int64(1), do.Catalog().SchemaVersion())
	version, err := do.Store().SchemaVersion()
	require.NoError(t, err)
	require.Equal(t, int64(1), version)
	require.Equal(t, "CREATE VIEW v1 AS SELECT 1 AS x;\n", viewSQL(t, do, "v1"))
}

func TestReopenRestoresCatalog(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t.TempDir())

	do, err := Bootstrap(ctx, cfg)
	require.NoError(t, err)
	for _, sql := range []string{
		"CREATE SCHEMA s1",
		"CREATE TABLE s1.t (a INT)",
		"CREATE VIEW v1 AS SELECT 1 AS x",
		"ALTER VIEW v1 RENAME TO v2",
		"CREATE TEMPORARY VIEW tv AS SELECT 1",
	} {
		require.NoError(t, do.DDL().ExecuteAutoCommit(ctx, sql), sql)
	}
	version := do.Catalog().SchemaVersion()
	want := viewSQL(t, do, "v2")
	require.NoError(t, do.Close())
	require.NoError(t, do.Close())

	do, err = Bootstrap(ctx, cfg)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, do.Close())
	}()
	require.Equal(t, version, do.Catalog().SchemaVersion())
	require.Equal(t, want, viewSQL(t, do, "v2"))

	txn := do.Catalog().Begin()
	defer txn.Rollback()
	_, err = txn.GetEntry(model.ViewEntry, model.DefaultSchemaName, "v1")
	require.True(t, dbterror.ErrTableNotExists.Equal(err))
	_, err = txn.GetEntry(model.ViewEntry, model.DefaultSchemaName, "tv")
	require.True(t, dbterror.ErrTableNotExists.Equal(err))
	_, err = txn.GetEntry(model.TableEntry, "s1", "t")
	require.NoError(t, err)

	// builtins survive a restart and stay protected
	err = do.DDL().ExecuteAutoCommit(ctx, "DROP MACRO nullifzero")
	require.True(t, dbterror.ErrDropInternalEntry.Equal(err))
}

func TestGCLoop(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig("")
	cfg.Catalog.GCInterval = config.Duration{Duration: 10 * time.Millisecond}
	do, err := Bootstrap(ctx, cfg)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, do.Close())
	}()

	require.NoError(t, do.DDL().ExecuteAutoCommit(ctx, "CREATE VIEW v1 AS SELECT 1 AS x"))
	require.NoError(t, do.DDL().ExecuteAutoCommit(ctx, "ALTER VIEW v1 RENAME TO v2"))
	require.Eventually(t, func() bool {
		return do.Catalog().GCSafeVersion() == do.Catalog().SchemaVersion()
	}, 5*time.Second, 10*time.Millisecond)

	diff, err := do.Store().GetSchemaDiff(1)
	require.NoError(t, err)
	require.Nil(t, diff)
	diff, err = do.Store().GetSchemaDiff(2)
	require.NoError(t, err)
	require.NotNil(t, diff)
}

func TestInvalidConfig(t *testing.T) {
	cfg := newTestConfig("")
	cfg.Catalog.VersionCacheCapacity = 0
	_, err := Bootstrap(context.Background(), cfg)
	require.Error(t, err)
}
