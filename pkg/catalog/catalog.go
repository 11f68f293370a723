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
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/pingcap/errors"
	"github.com/pingcap/failpoint"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/metrics"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// DefaultSnapshotCacheCapacity is the number of recent snapshots kept for
// historical reads when Options leaves it unset.
const DefaultSnapshotCacheCapacity = 16

// itemKey identifies a name in a namespace. Names are compared case
// insensitively, so the key holds them lower cased.
type itemKey struct {
	schema string
	set    model.EntrySet
	name   string
}

func schemaKey(name string) itemKey {
	return itemKey{set: model.SchemaSet, name: strings.ToLower(name)}
}

func childKey(schema string, set model.EntrySet, name string) itemKey {
	return itemKey{schema: strings.ToLower(schema), set: set, name: strings.ToLower(name)}
}

func (k itemKey) String() string {
	if k.set == model.SchemaSet {
		return "schema " + k.name
	}
	return fmt.Sprintf("%s %s.%s", k.set, k.schema, k.name)
}

func compareKey(a, b itemKey) int {
	if c := strings.Compare(a.schema, b.schema); c != 0 {
		return c
	}
	if a.set != b.set {
		if a.set < b.set {
			return -1
		}
		return 1
	}
	return strings.Compare(a.name, b.name)
}

// item is one version of one name. A tomb item marks the name dropped as
// of its version.
type item struct {
	key     itemKey
	version int64
	entry   CatalogEntry
	tomb    bool
}

func compareItem(a, b *item) bool {
	if c := compareKey(a.key, b.key); c != 0 {
		return c < 0
	}
	return a.version < b.version
}

// snapshot is an immutable published state of the catalog. The tree holds
// every version not yet reclaimed, reads filter by version.
type snapshot struct {
	version  int64
	commitTS uint64
	tree     *btree.BTreeG[*item]
}

// get returns the item for key visible at version, tombs included.
func (s *snapshot) get(key itemKey, version int64) *item {
	var found *item
	s.tree.DescendLessOrEqual(&item{key: key, version: version}, func(it *item) bool {
		if it.key == key {
			found = it
		}
		return false
	})
	return found
}

// scan calls fn for every live entry of schema.set visible at version, in
// name order.
func (s *snapshot) scan(schema string, set model.EntrySet, version int64, fn func(*item)) {
	var cur *item
	flush := func() {
		if cur != nil && !cur.tomb {
			fn(cur)
		}
		cur = nil
	}
	pivot := &item{key: itemKey{schema: schema, set: set}, version: math.MinInt64}
	s.tree.AscendGreaterOrEqual(pivot, func(it *item) bool {
		if it.key.schema != schema || it.key.set != set {
			return false
		}
		if cur != nil && cur.key != it.key {
			flush()
		}
		if it.version <= version {
			cur = it
		}
		return true
	})
	flush()
}

// Change is one published key handed to a Persister. Entry is nil when the
// key was dropped.
type Change struct {
	Key   model.DiffKey
	Entry CatalogEntry
}

// Persister makes published versions durable. A failing SaveVersion aborts
// the commit and nothing is published.
type Persister interface {
	SaveVersion(ctx context.Context, diff *model.SchemaDiff, changes []Change) error
}

// Options configures a Catalog.
type Options struct {
	// SnapshotCacheCapacity bounds the recent snapshots kept for BeginAt and BeginAtTS.
	SnapshotCacheCapacity int
	// Persister, when set, is called before every publish.
	Persister Persister
}

// Catalog is the registry of schemas and their entries.
//
// Readers never lock: a transaction reads the snapshot it captured at begin.
// Commits are serialized and publish a new snapshot with a single pointer
// swap after the write conflict check.
type Catalog struct {
	// mu serializes commit, GC and restore.
	mu        sync.Mutex
	latest    atomic.Pointer[snapshot]
	cache     *snapshotCache
	persister Persister

	idAlloc    atomic.Int64
	txnIDAlloc atomic.Uint64
	// lastTS is the commit ts of the latest publish, protected by mu.
	lastTS uint64
	// gcSafeVersion is the oldest version the latest tree can still serve.
	gcSafeVersion atomic.Int64
	// diffs holds the schema diffs newer than the GC horizon, protected by mu.
	diffs []*model.SchemaDiff

	active struct {
		sync.Mutex
		txns map[uint64]int64
	}
}

// New creates an empty catalog at version 0.
func New(opts Options) *Catalog {
	capacity := opts.SnapshotCacheCapacity
	if capacity <= 0 {
		capacity = DefaultSnapshotCacheCapacity
	}
	c := &Catalog{
		cache:     newSnapshotCache(capacity),
		persister: opts.Persister,
	}
	c.active.txns = make(map[uint64]int64)
	snap := &snapshot{tree: btree.NewG[*item](32, compareItem)}
	c.latest.Store(snap)
	c.cache.insert(snap)
	return c
}

// SchemaVersion returns the latest published version.
func (c *Catalog) SchemaVersion() int64 {
	return c.latest.Load().version
}

// GCSafeVersion returns the oldest version a transaction can still begin at
// without a cached snapshot.
func (c *Catalog) GCSafeVersion() int64 {
	return c.gcSafeVersion.Load()
}

func (c *Catalog) allocID() int64 {
	return c.idAlloc.Inc()
}

// Begin starts a transaction reading the latest published snapshot.
func (c *Catalog) Begin() *Txn {
	return c.begin(c.latest.Load(), -1, false)
}

// BeginAt starts a read-only transaction at a past version.
func (c *Catalog) BeginAt(version int64) (*Txn, error) {
	if snap := c.cache.getByVersion(version); snap != nil {
		return c.begin(snap, version, true), nil
	}
	latest := c.latest.Load()
	if version >= c.gcSafeVersion.Load() && version <= latest.version {
		return c.begin(latest, version, true), nil
	}
	return nil, dbterror.ErrSnapshotNotAvailable.GenWithStackByArgs("version", version)
}

// BeginAtTS starts a read-only transaction at the version in effect at ts.
func (c *Catalog) BeginAtTS(ts uint64) (*Txn, error) {
	snap := c.cache.getBySnapshotTS(ts)
	if snap == nil {
		return nil, dbterror.ErrSnapshotNotAvailable.GenWithStackByArgs("ts", ts)
	}
	return c.begin(snap, snap.version, true), nil
}

func (c *Catalog) begin(snap *snapshot, readVersion int64, readOnly bool) *Txn {
	if readVersion < 0 {
		readVersion = snap.version
	}
	txn := &Txn{
		id:          c.txnIDAlloc.Inc(),
		c:           c,
		snap:        snap,
		readVersion: readVersion,
		readOnly:    readOnly,
		writes:      make(map[itemKey]*pendingWrite),
		schemaDeps:  make(map[itemKey]int64),
	}
	c.active.Lock()
	c.active.txns[txn.id] = readVersion
	metrics.ActiveTxnGauge.Set(float64(len(c.active.txns)))
	c.active.Unlock()
	return txn
}

func (c *Catalog) finish(txn *Txn) {
	c.active.Lock()
	delete(c.active.txns, txn.id)
	metrics.ActiveTxnGauge.Set(float64(len(c.active.txns)))
	c.active.Unlock()
}

// minActiveVersion returns the oldest version an active transaction reads,
// or upper when none is older.
func (c *Catalog) minActiveVersion(upper int64) int64 {
	c.active.Lock()
	defer c.active.Unlock()
	minVer := upper
	for _, v := range c.active.txns {
		if v < minVer {
			minVer = v
		}
	}
	return minVer
}

func (c *Catalog) nextTS() uint64 {
	ts := uint64(time.Now().UnixNano())
	if ts <= c.lastTS {
		ts = c.lastTS + 1
	}
	c.lastTS = ts
	return ts
}

// commit checks txn against the latest snapshot and publishes its writes as
// the next version.
func (c *Catalog) commit(ctx context.Context, txn *Txn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	latest := c.latest.Load()
	if err := c.checkConflicts(latest, txn); err != nil {
		metrics.WriteConflictCounter.Inc()
		logutil.Logger(ctx).Warn("catalog write conflict", zap.Error(err))
		return err
	}

	newVersion := latest.version + 1
	tree := latest.tree.Clone()
	diff := &model.SchemaDiff{Version: newVersion, TxnID: txn.id}
	changes := make([]Change, 0, len(txn.order))
	for _, key := range txn.order {
		w := txn.writes[key]
		if w.action == model.DiffActionNone {
			continue
		}
		tree.ReplaceOrInsert(&item{key: key, version: newVersion, entry: w.entry, tomb: w.entry == nil})
		dk := model.DiffKey{Schema: w.schema, Set: key.set, Name: w.name, Type: w.tp, Action: w.action}
		diff.Keys = append(diff.Keys, dk)
		changes = append(changes, Change{Key: dk, Entry: w.entry})
	}
	if len(diff.Keys) == 0 {
		return nil
	}

	failpoint.Inject("beforePublishSchemaVersion", func(val failpoint.Value) {
		if val.(bool) {
			failpoint.Return(errors.New("injected error before publishing schema version"))
		}
	})

	diff.CommitTS = c.nextTS()
	if c.persister != nil {
		if err := c.persister.SaveVersion(ctx, diff, changes); err != nil {
			return errors.Trace(err)
		}
	}
	snap := &snapshot{version: newVersion, commitTS: diff.CommitTS, tree: tree}
	c.latest.Store(snap)
	c.cache.insert(snap)
	c.diffs = append(c.diffs, diff)
	metrics.SchemaVersionGauge.Set(float64(newVersion))
	logutil.Logger(ctx).Info("publish catalog schema version",
		zap.Int64("version", newVersion), zap.Int("keys", len(diff.Keys)))
	return nil
}

func (c *Catalog) checkConflicts(latest *snapshot, txn *Txn) error {
	conflict := func(key itemKey, version int64) error {
		return dbterror.ErrWriteConflict.GenWithStackByArgs(key.String(), txn.readVersion, version)
	}
	for _, key := range txn.order {
		if txn.writes[key].action == model.DiffActionNone {
			continue
		}
		if it := latest.get(key, math.MaxInt64); it != nil && it.version > txn.readVersion {
			return conflict(key, it.version)
		}
	}
	for key, id := range txn.schemaDeps {
		if _, ok := txn.writes[key]; ok {
			continue
		}
		it := latest.get(key, math.MaxInt64)
		if it == nil || it.tomb || it.entry.ID() != id {
			var version int64
			if it != nil {
				version = it.version
			}
			return conflict(key, version)
		}
	}
	for _, schema := range txn.droppedSchemas {
		for set := model.RelationSet; set <= model.FunctionSet; set++ {
			var err error
			latest.scan(schema, set, math.MaxInt64, func(it *item) {
				if err == nil && it.version > txn.readVersion {
					err = conflict(it.key, it.version)
				}
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// RestoredEntry is a persisted entry handed to Restore.
type RestoredEntry struct {
	// ID is the persisted entry id, 0 allocates a new one.
	ID   int64
	Info model.CreateInfo
}

// Restore installs entries as the state at version. It is only valid on a
// catalog that has not published anything yet. Schemas must precede the
// entries they hold.
func (c *Catalog) Restore(ctx context.Context, version int64, entries []RestoredEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	latest := c.latest.Load()
	if latest.version != 0 || latest.tree.Len() != 0 {
		return dbterror.ErrInternal.GenWithStackByArgs("restore into a used catalog")
	}
	for _, e := range entries {
		if e.ID > c.idAlloc.Load() {
			c.idAlloc.Store(e.ID)
		}
	}
	tree := latest.tree.Clone()
	schemas := make(map[string]SchemaRef)
	for _, e := range entries {
		id := e.ID
		if id == 0 {
			id = c.allocID()
		}
		base := e.Info.Base()
		var ref SchemaRef
		if base.Type != model.SchemaEntry {
			var ok bool
			ref, ok = schemas[strings.ToLower(base.Schema)]
			if !ok {
				return dbterror.ErrSchemaNotExists.GenWithStackByArgs(base.Schema)
			}
		}
		entry, err := NewEntry(ref, id, e.Info)
		if err != nil {
			return err
		}
		key := childKey(base.Schema, base.Type.Set(), entry.Name())
		if base.Type == model.SchemaEntry {
			key = schemaKey(entry.Name())
			schemas[key.name] = SchemaRef{ID: id, Name: entry.Name()}
		}
		tree.ReplaceOrInsert(&item{key: key, version: version, entry: entry})
	}
	c.lastTS = uint64(time.Now().UnixNano())
	snap := &snapshot{version: version, commitTS: c.lastTS, tree: tree}
	c.latest.Store(snap)
	c.cache.reset()
	c.cache.insert(snap)
	c.gcSafeVersion.Store(version)
	metrics.SchemaVersionGauge.Set(float64(version))
	logutil.Logger(ctx).Info("restore catalog",
		zap.Int64("version", version), zap.Int("entries", len(entries)))
	return nil
}

// DiffsSince returns the diffs of every version after version, oldest first.
func (c *Catalog) DiffsSince(version int64) ([]*model.SchemaDiff, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	latest := c.latest.Load().version
	if version >= latest {
		return nil, nil
	}
	if len(c.diffs) == 0 || c.diffs[0].Version > version+1 {
		return nil, dbterror.ErrSnapshotNotAvailable.GenWithStackByArgs("diff after version", version)
	}
	res := make([]*model.SchemaDiff, 0, latest-version)
	for _, diff := range c.diffs {
		if diff.Version > version {
			res = append(res, diff)
		}
	}
	return res, nil
}

// GC reclaims entry versions no transaction can reach anymore. It returns
// the number of reclaimed versions.
func (c *Catalog) GC(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	latest := c.latest.Load()
	horizon := c.minActiveVersion(latest.version)

	var (
		victims []*item
		prev    *item
	)
	flush := func() {
		if prev != nil && prev.tomb {
			victims = append(victims, prev)
		}
		prev = nil
	}
	latest.tree.Ascend(func(it *item) bool {
		if prev != nil && prev.key != it.key {
			flush()
		}
		if it.version <= horizon {
			if prev != nil {
				victims = append(victims, prev)
			}
			prev = it
		}
		return true
	})
	flush()

	diffHorizon := horizon
	if oldest := c.cache.oldestVersion(); oldest >= 0 && oldest < diffHorizon {
		diffHorizon = oldest
	}
	trimmed := 0
	for trimmed < len(c.diffs) && c.diffs[trimmed].Version <= diffHorizon {
		trimmed++
	}
	c.diffs = append(c.diffs[:0:0], c.diffs[trimmed:]...)

	if horizon > c.gcSafeVersion.Load() {
		c.gcSafeVersion.Store(horizon)
	}
	if len(victims) == 0 {
		return 0
	}
	tree := latest.tree.Clone()
	for _, v := range victims {
		tree.Delete(v)
	}
	snap := &snapshot{version: latest.version, commitTS: latest.commitTS, tree: tree}
	c.latest.Store(snap)
	c.cache.insert(snap)
	metrics.GCPrunedVersionCounter.Add(float64(len(victims)))
	logutil.Logger(ctx).Info("catalog gc",
		zap.Int64("horizon", horizon), zap.Int("prunedVersions", len(victims)),
		zap.Int("cachedSnapshots", c.cache.len()))
	return len(victims)
}
