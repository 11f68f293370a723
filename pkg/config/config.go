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
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"github.com/pingcap/tidb-catalog/pkg/util/logutil"
	"go.uber.org/atomic"
)

// Config contains configuration options.
type Config struct {
	Catalog Catalog `toml:"catalog" json:"catalog"`
	Store   Store   `toml:"store" json:"store"`
	Log     Log     `toml:"log" json:"log"`
}

// Catalog is the catalog section of config.
type Catalog struct {
	// VersionCacheCapacity is the number of published snapshots kept for
	// historical reads.
	VersionCacheCapacity int `toml:"version-cache-capacity" json:"version-cache-capacity"`
	// GCInterval is the interval of reclaiming superseded entry versions.
	GCInterval Duration `toml:"gc-interval" json:"gc-interval"`
}

// Store is the store section of config.
type Store struct {
	// Path is the directory of the descriptor store, empty means in-memory.
	Path string `toml:"path" json:"path"`
	// SyncWrites makes every published version durable before commit returns.
	SyncWrites bool `toml:"sync-writes" json:"sync-writes"`
}

// Log is the log section of config.
type Log struct {
	// Log level.
	Level string `toml:"level" json:"level"`
	// Log format. one of json, text, or console.
	Format string `toml:"format" json:"format"`
	// Disable automatic timestamps in output.
	DisableTimestamp bool `toml:"disable-timestamp" json:"disable-timestamp"`
	// File log config.
	File logutil.FileLogConfig `toml:"file" json:"file"`
}

// Duration is a toml friendly time.Duration.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return errors.Trace(err)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

const (
	// DefVersionCacheCapacity is the default capacity of the snapshot cache.
	DefVersionCacheCapacity = 16
	// DefGCInterval is the default GC interval.
	DefGCInterval = time.Minute
)

var defaultConf = Config{
	Catalog: Catalog{
		VersionCacheCapacity: DefVersionCacheCapacity,
		GCInterval:           Duration{DefGCInterval},
	},
	Store: Store{
		SyncWrites: true,
	},
	Log: Log{
		Level:  "info",
		Format: logutil.DefaultLogFormat,
		File:   logutil.NewFileLogConfig(logutil.DefaultLogMaxSize),
	},
}

var globalConf atomic.Pointer[Config]

func init() {
	conf := defaultConf
	globalConf.Store(&conf)
}

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// GetGlobalConfig returns the global configuration for this server.
// It should store configuration from command line and configuration file.
// Other parts of the system can read the global configuration use this function.
func GetGlobalConfig() *Config {
	return globalConf.Load()
}

// StoreGlobalConfig stores a new config to the globalConf. It mostly uses in the test to avoid some data races.
func StoreGlobalConfig(config *Config) {
	globalConf.Store(config)
}

// Load loads config options from a toml file.
func (c *Config) Load(confFile string) error {
	metaData, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return errors.Trace(err)
	}
	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("config file %s contained unknown configuration options: %v", confFile, undecoded)
	}
	return c.Valid()
}

// Valid checks if this config is valid.
func (c *Config) Valid() error {
	if c.Catalog.VersionCacheCapacity <= 0 {
		return errors.Errorf("catalog.version-cache-capacity should be positive, got %d", c.Catalog.VersionCacheCapacity)
	}
	if c.Catalog.GCInterval.Duration < 0 {
		return errors.Errorf("catalog.gc-interval should not be negative, got %s", c.Catalog.GCInterval)
	}
	return nil
}

// ToLogConfig converts *Log to *logutil.LogConfig.
func (l *Log) ToLogConfig() *logutil.LogConfig {
	return logutil.NewLogConfig(l.Level, l.Format, l.File, l.DisableTimestamp)
}
