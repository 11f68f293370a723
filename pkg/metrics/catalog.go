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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label values.
const (
	LblOK       = "ok"
	LblError    = "error"
	LblConflict = "conflict"

	LblGet     = "get"
	LblHit     = "hit"
	LblVersion = "version"
	LblTS      = "ts"
)

// Catalog metrics.
var (
	SnapshotCacheCounters  *prometheus.CounterVec
	DDLCounter             *prometheus.CounterVec
	CommitDuration         *prometheus.HistogramVec
	WriteConflictCounter   prometheus.Counter
	SchemaVersionGauge     prometheus.Gauge
	ActiveTxnGauge         prometheus.Gauge
	GCPrunedVersionCounter prometheus.Counter
	StoreOpCounter         *prometheus.CounterVec
)

func init() {
	InitCatalogMetrics()
}

// InitCatalogMetrics initializes catalog metrics.
func InitCatalogMetrics() {
	SnapshotCacheCounters = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tidb",
			Subsystem: "catalog",
			Name:      "snapshot_cache_counter",
			Help:      "Counter of catalog snapshot cache lookups.",
		}, []string{"action", "type"})

	DDLCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tidb",
			Subsystem: "catalog",
			Name:      "ddl_total",
			Help:      "Counter of catalog DDL operations.",
		}, []string{"type", "result"})

	CommitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tidb",
			Subsystem: "catalog",
			Name:      "commit_duration_seconds",
			Help:      "Bucketed histogram of catalog transaction commit time.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 20), // 50us ~ 26s
		}, []string{"result"})

	WriteConflictCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tidb",
			Subsystem: "catalog",
			Name:      "write_conflict_total",
			Help:      "Counter of catalog commits rejected by the write conflict check.",
		})

	SchemaVersionGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tidb",
			Subsystem: "catalog",
			Name:      "schema_version",
			Help:      "Latest published catalog schema version.",
		})

	ActiveTxnGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tidb",
			Subsystem: "catalog",
			Name:      "active_txns",
			Help:      "Number of catalog transactions holding a snapshot.",
		})

	GCPrunedVersionCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tidb",
			Subsystem: "catalog",
			Name:      "gc_pruned_versions_total",
			Help:      "Counter of superseded entry versions reclaimed by catalog GC.",
		})

	StoreOpCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tidb",
			Subsystem: "catalog",
			Name:      "store_op_total",
			Help:      "Counter of catalog store operations.",
		}, []string{"op", "result"})
}

// RegisterMetrics registers the catalog metrics to the registerer.
func RegisterMetrics(r prometheus.Registerer) {
	r.MustRegister(SnapshotCacheCounters)
	r.MustRegister(DDLCounter)
	r.MustRegister(CommitDuration)
	r.MustRegister(WriteConflictCounter)
	r.MustRegister(SchemaVersionGauge)
	r.MustRegister(ActiveTxnGauge)
	r.MustRegister(GCPrunedVersionCounter)
	r.MustRegister(StoreOpCounter)
}

// ResultLabel maps an error to the result label.
func ResultLabel(err error) string {
	if err != nil {
		return LblError
	}
	return LblOK
}
