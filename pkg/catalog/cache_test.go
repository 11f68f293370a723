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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotCache(t *testing.T) {
	c := newSnapshotCache(3)
	require.Equal(t, 0, c.len())
	require.Equal(t, int64(-1), c.oldestVersion())

	for v := int64(1); v <= 5; v++ {
		require.True(t, c.insert(&snapshot{version: v, commitTS: uint64(v * 10)}))
	}
	require.Equal(t, 3, c.len())
	require.Equal(t, int64(3), c.oldestVersion())

	require.Nil(t, c.getByVersion(2))
	require.Equal(t, uint64(40), c.getByVersion(4).commitTS)

	require.Equal(t, int64(4), c.getBySnapshotTS(45).version)
	require.Equal(t, int64(5), c.getBySnapshotTS(50).version)
	require.Nil(t, c.getBySnapshotTS(25))

	// older than everything cached and no free space
	require.False(t, c.insert(&snapshot{version: 1, commitTS: 10}))

	// a cached version is replaced in place
	require.True(t, c.insert(&snapshot{version: 4, commitTS: 41}))
	require.Equal(t, 3, c.len())
	require.Equal(t, uint64(41), c.getByVersion(4).commitTS)

	c.reset()
	require.Equal(t, 0, c.len())
	require.Nil(t, c.getByVersion(5))
}
