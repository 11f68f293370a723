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
	"sort"
	"sync"

	"github.com/pingcap/tidb-catalog/pkg/metrics"
	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
	"go.uber.org/zap"
)

// snapshotCache keeps the most recent published snapshots so transactions
// can start at a past version or commit timestamp.
// It only promises to cache a snapshot if it is newer than all the cached.
type snapshotCache struct {
	mu sync.RWMutex
	// cache is sorted by both version and commit ts in descending order, they have the same order
	cache []*snapshot
}

func newSnapshotCache(capacity int) *snapshotCache {
	if capacity < 1 {
		capacity = 1
	}
	return &snapshotCache{
		cache: make([]*snapshot, 0, capacity),
	}
}

// oldestVersion returns the version of the oldest cached snapshot, or -1.
func (h *snapshotCache) oldestVersion() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.cache) == 0 {
		return -1
	}
	return h.cache[len(h.cache)-1].version
}

func (h *snapshotCache) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.cache)
}

// getByVersion gets the snapshot for version. Returns nil if it is not cached.
func (h *snapshotCache) getByVersion(version int64) *snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	metrics.SnapshotCacheCounters.WithLabelValues(metrics.LblGet, metrics.LblVersion).Inc()
	i := sort.Search(len(h.cache), func(i int) bool {
		return h.cache[i].version <= version
	})
	// Versions are published without gaps, so a cached snapshot answers
	// version only when it is exactly that version.
	if i < len(h.cache) && h.cache[i].version == version {
		metrics.SnapshotCacheCounters.WithLabelValues(metrics.LblHit, metrics.LblVersion).Inc()
		return h.cache[i]
	}
	return nil
}

// getBySnapshotTS finds the snapshot with the largest commit ts that is
// equal to or smaller than ts.
func (h *snapshotCache) getBySnapshotTS(ts uint64) *snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	metrics.SnapshotCacheCounters.WithLabelValues(metrics.LblGet, metrics.LblTS).Inc()
	// the cache is small and the newest element is the likely hit, so scan
	for i, snap := range h.cache {
		if snap.commitTS == 0 || (i > 0 && h.cache[i-1].version != snap.version+1) {
			// no commit ts or a gap in the cache, the versions from here on
			// cannot be proven to be the one in effect at ts
			break
		}
		if ts >= snap.commitTS {
			metrics.SnapshotCacheCounters.WithLabelValues(metrics.LblHit, metrics.LblTS).Inc()
			return snap
		}
	}
	logutil.BgLogger().Debug("catalog snapshot cache miss", zap.Uint64("ts", ts))
	return nil
}

// insert tries to cache snap. A snapshot with a cached version replaces the
// cached one. It returns false when snap is older than everything cached
// and the cache is full.
func (h *snapshotCache) insert(snap *snapshot) bool {
	logutil.BgLogger().Debug("catalog snapshot cache insert",
		zap.Int64("version", snap.version), zap.Uint64("commitTS", snap.commitTS))
	h.mu.Lock()
	defer h.mu.Unlock()

	i := sort.Search(len(h.cache), func(i int) bool {
		return h.cache[i].version <= snap.version
	})

	if i < len(h.cache) && h.cache[i].version == snap.version {
		h.cache[i] = snap
		return true
	}

	if len(h.cache) < cap(h.cache) {
		// has free space, grow the slice
		h.cache = h.cache[:len(h.cache)+1]
		copy(h.cache[i+1:], h.cache[i:])
		h.cache[i] = snap
	} else if i < len(h.cache) {
		// drop the oldest snapshot
		copy(h.cache[i+1:], h.cache[i:])
		h.cache[i] = snap
	} else {
		return false
	}
	return true
}

// reset drops every cached snapshot.
func (h *snapshotCache) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache = h.cache[:0]
}
