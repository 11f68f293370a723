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
	"sort"
	"time"

	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/metrics"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
	"go.uber.org/zap"
)

type pendingWrite struct {
	// entry is nil when the key is dropped.
	entry  CatalogEntry
	tp     model.CatalogType
	schema string
	name   string
	action model.DiffAction
	// existed reports whether the key was live in the snapshot.
	existed bool
}

// Txn is a catalog transaction. It reads the snapshot captured when it
// began overlaid with its own writes, and publishes the writes as one new
// version on Commit. A Txn is not safe for concurrent use.
type Txn struct {
	id          uint64
	c           *Catalog
	snap        *snapshot
	readVersion int64
	readOnly    bool

	writes map[itemKey]*pendingWrite
	order  []itemKey
	// schemaDeps maps the schemas the writes live in to the schema ids seen.
	schemaDeps     map[itemKey]int64
	droppedSchemas []string

	done  bool
	state string
}

// ID returns the transaction id.
func (txn *Txn) ID() uint64 {
	return txn.id
}

// StartVersion returns the version the transaction reads.
func (txn *Txn) StartVersion() int64 {
	return txn.readVersion
}

// ReadOnly reports whether the transaction reads a historical snapshot.
func (txn *Txn) ReadOnly() bool {
	return txn.readOnly
}

// Valid reports whether the transaction is still open.
func (txn *Txn) Valid() bool {
	return !txn.done
}

// WithLogger attaches the transaction identity to the logger of ctx.
func (txn *Txn) WithLogger(ctx context.Context) context.Context {
	return logutil.WithTxn(ctx, txn.id, txn.readVersion)
}

func (txn *Txn) checkValid() error {
	if txn.done {
		return dbterror.ErrTxnDone.GenWithStackByArgs(txn.state)
	}
	return nil
}

func (txn *Txn) checkWritable(op string) error {
	if err := txn.checkValid(); err != nil {
		return err
	}
	if txn.readOnly {
		return dbterror.ErrReadOnlySnapshot.GenWithStackByArgs(op)
	}
	return nil
}

// committedGet returns the live entry for key in the snapshot.
func (txn *Txn) committedGet(key itemKey) (CatalogEntry, bool) {
	it := txn.snap.get(key, txn.readVersion)
	if it == nil || it.tomb {
		return nil, false
	}
	return it.entry, true
}

// get returns the live entry for key, own writes first.
func (txn *Txn) get(key itemKey) (CatalogEntry, bool) {
	if w, ok := txn.writes[key]; ok {
		return w.entry, w.entry != nil
	}
	return txn.committedGet(key)
}

// scan calls fn for every live entry of schema.set in name order until fn
// returns false.
func (txn *Txn) scan(schema string, set model.EntrySet, fn func(CatalogEntry) bool) {
	type named struct {
		name  string
		entry CatalogEntry
	}
	var entries []named
	seen := make(map[string]struct{})
	txn.snap.scan(schema, set, txn.readVersion, func(it *item) {
		seen[it.key.name] = struct{}{}
		if w, ok := txn.writes[it.key]; ok {
			if w.entry != nil {
				entries = append(entries, named{it.key.name, w.entry})
			}
			return
		}
		entries = append(entries, named{it.key.name, it.entry})
	})
	for _, key := range txn.order {
		if key.schema != schema || key.set != set {
			continue
		}
		if _, ok := seen[key.name]; ok {
			continue
		}
		if w := txn.writes[key]; w.entry != nil {
			entries = append(entries, named{key.name, w.entry})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	for _, e := range entries {
		if !fn(e.entry) {
			return
		}
	}
}

// put records a write of key. A nil entry drops the key.
func (txn *Txn) put(key itemKey, tp model.CatalogType, schema, name string, entry CatalogEntry, action model.DiffAction) {
	w, ok := txn.writes[key]
	if !ok {
		_, existed := txn.committedGet(key)
		w = &pendingWrite{existed: existed}
		txn.writes[key] = w
		txn.order = append(txn.order, key)
	}
	w.entry, w.tp, w.schema, w.name = entry, tp, schema, name
	switch {
	case entry == nil && w.existed:
		w.action = model.DiffActionDrop
	case entry == nil:
		// created and dropped again by this transaction
		w.action = model.DiffActionNone
	case !w.existed:
		w.action = model.DiffActionCreate
	default:
		w.action = action
	}
}

func (txn *Txn) noteSchema(s *SchemaEntry) {
	txn.schemaDeps[schemaKey(s.name)] = s.id
}

func normalizeSchema(name string) string {
	if name == "" {
		return model.DefaultSchemaName
	}
	return name
}

// Schema returns the schema named name. An empty name is the default schema.
func (txn *Txn) Schema(name string) (*SchemaEntry, error) {
	if err := txn.checkValid(); err != nil {
		return nil, err
	}
	name = normalizeSchema(name)
	entry, ok := txn.get(schemaKey(name))
	if !ok {
		return nil, dbterror.ErrSchemaNotExists.GenWithStackByArgs(name)
	}
	return entry.(*SchemaEntry), nil
}

// Schemas returns every visible schema in name order.
func (txn *Txn) Schemas() ([]*SchemaEntry, error) {
	if err := txn.checkValid(); err != nil {
		return nil, err
	}
	var res []*SchemaEntry
	txn.scan("", model.SchemaSet, func(e CatalogEntry) bool {
		res = append(res, e.(*SchemaEntry))
		return true
	})
	return res, nil
}

// GetEntry returns the entry of kind tp named schema.name. A table or view
// of the other kind yields ErrWrongObject.
func (txn *Txn) GetEntry(tp model.CatalogType, schema, name string) (CatalogEntry, error) {
	s, err := txn.Schema(schema)
	if err != nil {
		return nil, err
	}
	entry, ok := s.GetEntry(txn, tp.Set(), name)
	if !ok {
		return nil, notExistsErr(tp, s.name, name)
	}
	if entry.Type() != tp {
		return nil, dbterror.ErrWrongObject.GenWithStackByArgs(s.name, name, kindKeyword(tp))
	}
	return entry, nil
}

// LookupEntry returns the entry named schema.name in set, whatever its kind.
func (txn *Txn) LookupEntry(set model.EntrySet, schema, name string) (CatalogEntry, bool, error) {
	s, err := txn.Schema(schema)
	if err != nil {
		return nil, false, err
	}
	entry, ok := s.GetEntry(txn, set, name)
	return entry, ok, nil
}

// ScanEntries calls fn for every entry of set in schema, in name order,
// until fn returns false.
func (txn *Txn) ScanEntries(schema string, set model.EntrySet, fn func(CatalogEntry) bool) error {
	s, err := txn.Schema(schema)
	if err != nil {
		return err
	}
	s.Scan(txn, set, fn)
	return nil
}

// CreateSchema registers a new schema.
func (txn *Txn) CreateSchema(ctx context.Context, info *model.CreateSchemaInfo) (*SchemaEntry, error) {
	if err := txn.checkWritable("CREATE SCHEMA"); err != nil {
		return nil, err
	}
	if err := model.CheckCreateInfo(info); err != nil {
		return nil, err
	}
	key := schemaKey(info.Schema)
	if existing, ok := txn.get(key); ok {
		switch info.OnConflict {
		case model.OnConflictIgnore:
			return existing.(*SchemaEntry), nil
		case model.OnConflictReplace:
			return nil, dbterror.ErrUnsupportedDDL.GenWithStackByArgs("CREATE OR REPLACE SCHEMA")
		}
		return nil, dbterror.ErrSchemaExists.GenWithStackByArgs(info.Schema)
	}
	s := NewSchemaEntry(txn.c.allocID(), info)
	txn.put(key, model.SchemaEntry, s.name, s.name, s, model.DiffActionCreate)
	logutil.Logger(ctx).Debug("create schema", zap.String("schema", s.name))
	return s, nil
}

// DropSchema drops a schema. Unless info.Cascade is set the schema must be
// empty, otherwise its entries are dropped with it.
func (txn *Txn) DropSchema(ctx context.Context, info *model.DropInfo) error {
	if err := txn.checkWritable("DROP SCHEMA"); err != nil {
		return err
	}
	key := schemaKey(info.Name)
	entry, ok := txn.get(key)
	if !ok {
		if info.IfExists {
			return nil
		}
		return dbterror.ErrSchemaDropNotExists.GenWithStackByArgs(info.Name)
	}
	s := entry.(*SchemaEntry)
	if s.internal {
		return dbterror.ErrDropInternalEntry.GenWithStackByArgs(s.name)
	}
	var children []CatalogEntry
	for _, set := range []model.EntrySet{model.RelationSet, model.IndexSet, model.FunctionSet} {
		s.Scan(txn, set, func(e CatalogEntry) bool {
			children = append(children, e)
			return true
		})
	}
	if len(children) > 0 && !info.Cascade {
		return dbterror.ErrSchemaNotEmpty.GenWithStackByArgs(s.name)
	}
	for _, child := range children {
		if child.IsInternal() {
			return dbterror.ErrDropInternalEntry.GenWithStackByArgs(child.Name())
		}
	}
	for _, child := range children {
		txn.put(childKey(s.name, child.Type().Set(), child.Name()), child.Type(), s.name, child.Name(), nil, model.DiffActionDrop)
	}
	txn.put(key, model.SchemaEntry, s.name, s.name, nil, model.DiffActionDrop)
	txn.droppedSchemas = append(txn.droppedSchemas, key.name)
	logutil.Logger(ctx).Debug("drop schema", zap.String("schema", s.name), zap.Int("children", len(children)))
	return nil
}

// CreateEntry creates the entry described by info in its schema.
func (txn *Txn) CreateEntry(ctx context.Context, info model.CreateInfo) (CatalogEntry, error) {
	if err := model.CheckCreateInfo(info); err != nil {
		return nil, err
	}
	if schemaInfo, ok := info.(*model.CreateSchemaInfo); ok {
		return txn.CreateSchema(ctx, schemaInfo)
	}
	s, err := txn.Schema(info.Base().Schema)
	if err != nil {
		return nil, err
	}
	return s.CreateEntry(ctx, txn, info)
}

// AlterEntry applies info to the entry it targets and stages the successor.
// It returns nil without error when the target is missing and
// info.Target().IfExists is set.
func (txn *Txn) AlterEntry(ctx context.Context, info model.AlterInfo) (CatalogEntry, error) {
	if info == nil {
		return nil, dbterror.ErrWrongArguments.GenWithStackByArgs("ALTER without alter info")
	}
	s, err := txn.Schema(info.Target().Schema)
	if err != nil {
		return nil, err
	}
	return s.Alter(ctx, txn, info)
}

// DropEntry drops the entry info names.
func (txn *Txn) DropEntry(ctx context.Context, info *model.DropInfo) error {
	if info.Type == model.SchemaEntry {
		return txn.DropSchema(ctx, info)
	}
	s, err := txn.Schema(info.Schema)
	if err != nil {
		if info.IfExists && dbterror.ErrSchemaNotExists.Equal(err) {
			return nil
		}
		return err
	}
	return s.DropEntry(ctx, txn, info)
}

// Commit publishes the writes of the transaction as one new version. It
// fails with ErrWriteConflict when another transaction published any of the
// written names after this one began. The transaction is finished either way.
func (txn *Txn) Commit(ctx context.Context) error {
	if err := txn.checkValid(); err != nil {
		return err
	}
	if len(txn.order) == 0 {
		txn.finish("committed")
		return nil
	}
	ctx = txn.WithLogger(ctx)
	start := time.Now()
	err := txn.c.commit(ctx, txn)
	result := metrics.LblOK
	switch {
	case err == nil:
	case dbterror.ErrWriteConflict.Equal(err):
		result = metrics.LblConflict
	default:
		result = metrics.LblError
	}
	metrics.CommitDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	if err != nil {
		txn.finish("rolled back")
		return err
	}
	txn.finish("committed")
	return nil
}

// Rollback discards the writes of the transaction.
func (txn *Txn) Rollback() {
	if txn.done {
		return
	}
	txn.finish("rolled back")
}

func (txn *Txn) finish(state string) {
	txn.done = true
	txn.state = state
	txn.c.finish(txn)
}
