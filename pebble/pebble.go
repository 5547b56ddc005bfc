// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/countervm/state"
)

var (
	ErrClosed = errors.New("database closed")

	_ state.Mutable = (*Database)(nil)
)

type Config struct {
	CacheSize    int  `json:"cacheSize" yaml:"cacheSize"`
	MaxOpenFiles int  `json:"maxOpenFiles" yaml:"maxOpenFiles"`
	Sync         bool `json:"sync" yaml:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:    64 * units.MiB,
		MaxOpenFiles: 4_096,
		Sync:         true,
	}
}

// Database persists counter accounts. Single writes go through
// [Insert]/[Remove]; the host commits each request's write set atomically
// with [Commit].
type Database struct {
	lock   sync.RWMutex
	closed bool

	db           *pebble.DB
	writeOptions *pebble.WriteOptions
	metrics      *metrics
}

func New(file string, cfg Config) (*Database, prometheus.Gatherer, error) {
	// These default settings are based on https://github.com/ethereum/go-ethereum/blob/master/ethdb/pebble/pebble.go
	cache := pebble.NewCache(int64(cfg.CacheSize))
	defer cache.Unref()
	db, err := pebble.Open(file, &pebble.Options{
		Cache:        cache,
		MaxOpenFiles: cfg.MaxOpenFiles,
	})
	if err != nil {
		return nil, nil, err
	}
	registry, metrics, err := newMetrics()
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	wo := pebble.NoSync
	if cfg.Sync {
		wo = pebble.Sync
	}
	return &Database{
		db:           db,
		writeOptions: wo,
		metrics:      metrics,
	}, registry, nil
}

func (db *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}
	start := time.Now()
	defer func() {
		db.metrics.getLatency.Observe(float64(time.Since(start)))
	}()
	v, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return slices.Clone(v), nil
}

func (db *Database) Insert(_ context.Context, key []byte, value []byte) error {
	return db.Commit(map[string]maybe.Maybe[[]byte]{string(key): maybe.Some(value)})
}

func (db *Database) Remove(_ context.Context, key []byte) error {
	return db.Commit(map[string]maybe.Maybe[[]byte]{string(key): maybe.Nothing[[]byte]()})
}

// Commit writes [changes] in a single batch. A Nothing value deletes the key.
func (db *Database) Commit(changes map[string]maybe.Maybe[[]byte]) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return ErrClosed
	}
	batch := db.db.NewBatch()
	defer batch.Close()

	var size int
	for k, v := range changes {
		if v.IsNothing() {
			if err := batch.Delete([]byte(k), nil); err != nil {
				return err
			}
			continue
		}
		size += len(k) + len(v.Value())
		if err := batch.Set([]byte(k), v.Value(), nil); err != nil {
			return err
		}
	}
	start := time.Now()
	if err := batch.Commit(db.writeOptions); err != nil {
		return err
	}
	db.metrics.writeLatency.Observe(float64(time.Since(start)))
	db.metrics.batches.Inc()
	db.metrics.bytesWritten.Add(float64(size))
	return nil
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return ErrClosed
	}
	db.closed = true
	return db.db.Close()
}
