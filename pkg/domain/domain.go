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
	"sync"
	"time"

	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-catalog/pkg/catalog"
	"github.com/pingcap/tidb-catalog/pkg/config"
	"github.com/pingcap/tidb-catalog/pkg/ddl"
	"github.com/pingcap/tidb-catalog/pkg/meta"
	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Domain represents a storage space. It owns the descriptor store, the
// catalog built on it and the background work keeping the catalog tidy.
type Domain struct {
	cfg     *config.Config
	store   *meta.Store
	catalog *catalog.Catalog
	ddl     *ddl.Executor

	cancel    context.CancelFunc
	eg        *errgroup.Group
	closeOnce sync.Once
	closeErr  error
}

// NewDomain creates a new domain. Init must be called before use.
func NewDomain(cfg *config.Config) *Domain {
	return &Domain{cfg: cfg}
}

// Bootstrap creates and initializes a domain.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Domain, error) {
	do := NewDomain(cfg)
	if err := do.Init(ctx); err != nil {
		return nil, multierr.Append(err, do.Close())
	}
	return do, nil
}

// Init opens the store, rebuilds the catalog from it and starts the GC loop.
func (do *Domain) Init(ctx context.Context) error {
	if err := do.cfg.Valid(); err != nil {
		return err
	}
	store, err := meta.Open(do.cfg.Store.Path, do.cfg.Store.SyncWrites)
	if err != nil {
		return err
	}
	do.store = store
	logutil.BgLogger().Info("open catalog store",
		zap.String("path", do.cfg.Store.Path), zap.Bool("sync-writes", do.cfg.Store.SyncWrites))

	version, stored, err := store.Load(ctx)
	if err != nil {
		return err
	}
	infos, err := catalog.SystemEntries()
	if err != nil {
		return err
	}
	entries := make([]catalog.RestoredEntry, 0, len(infos)+len(stored))
	for _, info := range infos {
		entries = append(entries, catalog.RestoredEntry{Info: info})
	}
	entries = append(entries, stored...)

	do.catalog = catalog.New(catalog.Options{
		SnapshotCacheCapacity: do.cfg.Catalog.VersionCacheCapacity,
		Persister:             store,
	})
	if err := do.catalog.Restore(ctx, version, entries); err != nil {
		return errors.Annotate(err, "restore catalog")
	}
	do.ddl = ddl.NewExecutor(do.catalog)

	loopCtx, cancel := context.WithCancel(context.Background())
	do.cancel = cancel
	do.eg, loopCtx = errgroup.WithContext(loopCtx)
	if interval := do.cfg.Catalog.GCInterval.Duration; interval > 0 {
		do.eg.Go(func() error {
			return do.gcLoop(loopCtx, interval)
		})
	}
	return nil
}

// Catalog returns the catalog.
func (do *Domain) Catalog() *catalog.Catalog {
	return do.catalog
}

// DDL returns the DDL executor.
func (do *Domain) DDL() *ddl.Executor {
	return do.ddl
}

// Store returns the descriptor store.
func (do *Domain) Store() *meta.Store {
	return do.store
}

// GC reclaims superseded entry versions and the diffs no reader needs any more.
func (do *Domain) GC(ctx context.Context) (int, error) {
	pruned := do.catalog.GC(ctx)
	if err := do.store.TrimDiffs(do.catalog.GCSafeVersion()); err != nil {
		return pruned, err
	}
	return pruned, nil
}

func (do *Domain) gcLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ctx = logutil.WithCategory(ctx, "catalog-gc")
	logger := logutil.Logger(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("gc loop exited")
			return nil
		case <-ticker.C:
			pruned, err := do.GC(ctx)
			if err != nil {
				logger.Warn("trim schema diffs failed", zap.Error(err))
				continue
			}
			if pruned > 0 {
				logger.Info("gc catalog", zap.Int("pruned", pruned),
					zap.Int64("safeVersion", do.catalog.GCSafeVersion()))
			}
		}
	}
}

// Close stops the background work and closes the store. It is safe to call
// more than once.
func (do *Domain) Close() error {
	if do == nil {
		return nil
	}
	do.closeOnce.Do(func() {
		startTime := time.Now()
		if do.cancel != nil {
			do.cancel()
		}
		if do.eg != nil {
			do.closeErr = multierr.Append(do.closeErr, do.eg.Wait())
		}
		if do.store != nil {
			do.closeErr = multierr.Append(do.closeErr, do.store.Close())
		}
		logutil.BgLogger().Info("domain closed", zap.Duration("take time", time.Since(startTime)))
	})
	return do.closeErr
}
