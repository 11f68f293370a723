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

package meta

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/pingcap/errors"
	"github.com/pingcap/failpoint"
	"github.com/pingcap/tidb-catalog/pkg/catalog"
	"github.com/pingcap/tidb-catalog/pkg/meta/model"
	"github.com/pingcap/tidb-catalog/pkg/metrics"
	"github.com/pingcap/tidb-catalog/pkg/util/dbterror"
	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
	"go.uber.org/zap"
)

// Meta structure:
//
//	m/SchemaVersion -> int64
//	d/<version>     -> schema diff
//	e/s/<schema>    -> schema record
//	e/c/<schema>\x00<set>\x00<name> -> entry record
//
// Names in keys are lower cased, the record keeps the original spelling.
var (
	mSchemaVersionKey = []byte("m/SchemaVersion")
	mDiffPrefix       = []byte("d/")
	mSchemaPrefix     = []byte("e/s/")
	mChildPrefix      = []byte("e/c/")
	mNameSep          = []byte("\x00")
)

// Store keeps the published catalog in a pebble database.
type Store struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
}

// Open opens the store in dir. An empty dir keeps everything in memory.
func Open(dir string, syncWrites bool) (*Store, error) {
	opts := &pebble.Options{}
	if dir == "" {
		opts.FS = vfs.NewMem()
	}
	return OpenWithOptions(dir, opts, syncWrites)
}

// OpenWithOptions opens the store with custom pebble options.
func OpenWithOptions(dir string, opts *pebble.Options, syncWrites bool) (*Store, error) {
	db, err := pebble.Open(dir, opts.EnsureDefaults())
	if err != nil {
		return nil, errors.Trace(err)
	}
	s := &Store{db: db, writeOpts: pebble.NoSync}
	if syncWrites {
		s.writeOpts = pebble.Sync
	}
	return s, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return errors.Trace(s.db.Close())
}

// SchemaVersion returns the last saved version, 0 for an empty store.
func (s *Store) SchemaVersion() (int64, error) {
	val, closer, err := s.db.Get(mSchemaVersionKey)
	if err == pebble.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Trace(err)
	}
	defer closer.Close()
	if len(val) != 8 {
		return 0, dbterror.ErrStoreCorrupt.GenWithStackByArgs(fmt.Sprintf("schema version has %d bytes", len(val)))
	}
	return int64(binary.BigEndian.Uint64(val)), nil
}

// SaveVersion implements catalog.Persister. The diff, the entry records and
// the new version are written in one batch.
func (s *Store) SaveVersion(ctx context.Context, diff *model.SchemaDiff, changes []catalog.Change) (err error) {
	defer func() {
		metrics.StoreOpCounter.WithLabelValues("save", metrics.ResultLabel(err)).Inc()
	}()
	failpoint.Inject("mockSaveVersionErr", func(val failpoint.Value) {
		if val.(bool) {
			failpoint.Return(errors.New("mock save version error"))
		}
	})

	b := s.db.NewBatch()
	defer b.Close()
	for _, ch := range changes {
		key := entryKey(ch.Key.Schema, ch.Key.Set, ch.Key.Name)
		if ch.Entry == nil || ch.Entry.IsTemporary() || ch.Entry.IsInternal() {
			if err = b.Delete(key, nil); err != nil {
				return errors.Trace(err)
			}
			continue
		}
		var val []byte
		val, err = encodeEntry(ch.Entry)
		if err != nil {
			return errors.Trace(err)
		}
		if err = b.Set(key, val, nil); err != nil {
			return errors.Trace(err)
		}
	}
	data, err := model.EncodeSchemaDiff(diff)
	if err != nil {
		return errors.Trace(err)
	}
	if err = b.Set(diffKey(diff.Version), data, nil); err != nil {
		return errors.Trace(err)
	}
	if err = b.Set(mSchemaVersionKey, encodeInt(diff.Version), nil); err != nil {
		return errors.Trace(err)
	}
	if err = b.Commit(s.writeOpts); err != nil {
		return errors.Trace(err)
	}
	logutil.Logger(ctx).Debug("save schema version",
		zap.Int64("version", diff.Version), zap.Int("changes", len(changes)))
	return nil
}

// GetSchemaDiff returns the diff saved for version, or nil.
func (s *Store) GetSchemaDiff(version int64) (*model.SchemaDiff, error) {
	val, closer, err := s.db.Get(diffKey(version))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer closer.Close()
	diff, err := model.DecodeSchemaDiff(val)
	if err != nil {
		return nil, dbterror.ErrStoreCorrupt.GenWithStackByArgs(err.Error())
	}
	return diff, nil
}

// TrimDiffs deletes the diffs of every version below version.
func (s *Store) TrimDiffs(version int64) error {
	err := s.db.DeleteRange(diffKey(0), diffKey(version), s.writeOpts)
	metrics.StoreOpCounter.WithLabelValues("trim", metrics.ResultLabel(err)).Inc()
	return errors.Trace(err)
}

// Load returns the saved version and its entries, schemas first.
func (s *Store) Load(ctx context.Context) (version int64, entries []catalog.RestoredEntry, err error) {
	defer func() {
		metrics.StoreOpCounter.WithLabelValues("load", metrics.ResultLabel(err)).Inc()
	}()
	version, err = s.SchemaVersion()
	if err != nil {
		return 0, nil, err
	}
	for _, prefix := range [][]byte{mSchemaPrefix, mChildPrefix} {
		err = s.iterate(prefix, func(key, val []byte) error {
			e, err := decodeEntry(val)
			if err != nil {
				return errors.Annotatef(err, "decode %q", key)
			}
			entries = append(entries, e)
			return nil
		})
		if err != nil {
			return 0, nil, err
		}
	}
	logutil.Logger(ctx).Info("load catalog store",
		zap.Int64("version", version), zap.Int("entries", len(entries)))
	return version, entries, nil
}

func (s *Store) iterate(prefix []byte, fn func(key, val []byte) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return errors.Trace(err)
	}
	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			_ = iter.Close()
			return err
		}
	}
	if err := iter.Error(); err != nil {
		_ = iter.Close()
		return errors.Trace(err)
	}
	return errors.Trace(iter.Close())
}

func diffKey(version int64) []byte {
	return append(append([]byte{}, mDiffPrefix...), encodeInt(version)...)
}

func encodeInt(v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return buf[:]
}

func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	end[len(end)-1]++
	return end
}
