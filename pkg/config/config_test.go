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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Valid())
	require.Equal(t, DefVersionCacheCapacity, conf.Catalog.VersionCacheCapacity)
	require.Equal(t, DefGCInterval, conf.Catalog.GCInterval.Duration)
	require.Equal(t, "", conf.Store.Path)

	// NewConfig returns a copy.
	conf.Catalog.VersionCacheCapacity = 1
	require.Equal(t, DefVersionCacheCapacity, NewConfig().Catalog.VersionCacheCapacity)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[catalog]
version-cache-capacity = 4
gc-interval = "30s"

[store]
path = "/tmp/catalog"
sync-writes = false

[log]
level = "debug"
`), 0o644))

	conf := NewConfig()
	require.NoError(t, conf.Load(path))
	require.Equal(t, 4, conf.Catalog.VersionCacheCapacity)
	require.Equal(t, 30*time.Second, conf.Catalog.GCInterval.Duration)
	require.Equal(t, "/tmp/catalog", conf.Store.Path)
	require.False(t, conf.Store.SyncWrites)
	require.Equal(t, "debug", conf.Log.Level)
	require.Equal(t, "debug", conf.Log.ToLogConfig().Level)
}

func TestLoadConfigRejectsUnknownAndInvalid(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("[catalog]\nno-such-option = 1\n"), 0o644))
	require.ErrorContains(t, NewConfig().Load(unknown), "unknown configuration options")

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[catalog]\nversion-cache-capacity = 0\n"), 0o644))
	require.ErrorContains(t, NewConfig().Load(invalid), "version-cache-capacity")

	badDuration := filepath.Join(dir, "duration.toml")
	require.NoError(t, os.WriteFile(badDuration, []byte("[catalog]\ngc-interval = \"soon\"\n"), 0o644))
	require.Error(t, NewConfig().Load(badDuration))
}

func TestGlobalConfig(t *testing.T) {
	orig := GetGlobalConfig()
	defer StoreGlobalConfig(orig)

	conf := NewConfig()
	conf.Catalog.VersionCacheCapacity = 2
	StoreGlobalConfig(conf)
	require.Equal(t, 2, GetGlobalConfig().Catalog.VersionCacheCapacity)
}
