// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/lockmap"
	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/storage"

	htrace "github.com/ava-labs/countervm/trace"
)

const dbFolder = "db"

// DatabasePath is where the VM keeps its pebble database under [dataDir].
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, dbFolder)
}

// VM is the execution host for counter accounts. It grants each action the
// state capabilities it declares, serialises requests that touch the same
// account, and persists the write set of every successful action.
type VM struct {
	config Config
	log    logging.Logger
	tracer trace.Tracer

	db        *pebble.Database
	processor *chain.Processor
	locks     *lockmap.Lockmap

	gatherer prometheus.Gatherer
	metrics  *Metrics

	shutdownOnce sync.Once
	shutdownErr  error
}

func New(log logging.Logger, config Config) (*VM, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	tracer, err := htrace.New(config.TraceConfig)
	if err != nil {
		return nil, err
	}
	db, dbGatherer, err := pebble.New(DatabasePath(config.DataDir), config.StorageConfig)
	if err != nil {
		_ = tracer.Close()
		return nil, err
	}
	registry, metrics, err := newMetrics()
	if err != nil {
		_ = db.Close()
		_ = tracer.Close()
		return nil, err
	}

	log.Info("initialized vm",
		zap.String("name", consts.Name),
		zap.Stringer("id", consts.ID),
		zap.String("dataDir", config.DataDir),
		zap.Bool("tracing", config.TraceConfig.Enabled),
	)
	return &VM{
		config:    config,
		log:       log,
		tracer:    tracer,
		db:        db,
		processor: chain.NewProcessor(tracer),
		locks:     lockmap.New(config.LockMapSize),
		gatherer:  prometheus.Gatherers{registry, dbGatherer},
		metrics:   metrics,
	}, nil
}

func (vm *VM) Logger() logging.Logger {
	return vm.log
}

func (vm *VM) Tracer() trace.Tracer {
	return vm.tracer
}

// Gatherer exposes the vm and storage metrics.
func (vm *VM) Gatherer() prometheus.Gatherer {
	return vm.gatherer
}

// Execute runs [action] on behalf of [actor]. Requests touching the same
// state keys are serialised; on success the action's writes are persisted
// atomically, on failure nothing is written and the action's error is
// returned unchanged.
func (vm *VM) Execute(
	ctx context.Context,
	action chain.Action,
	actor codec.Address,
) (*chain.Result, error) {
	if action == nil {
		return nil, chain.ErrNilAction
	}
	ctx, span := vm.tracer.Start(ctx, "VM.Execute")
	defer span.End()

	start := time.Now()
	defer func() {
		vm.metrics.executeTime.Observe(float64(time.Since(start)))
	}()

	keys := action.StateKeys(actor).Sorted()
	vm.locks.LockAll(keys)
	defer vm.locks.UnlockAll(keys)

	result, changes, err := vm.processor.Execute(ctx, vm.db, action, actor)
	if err != nil {
		vm.recordFailure(action, actor, err)
		return nil, err
	}
	if err := vm.db.Commit(changes); err != nil {
		vm.log.Error("failed to commit changes",
			zap.Uint8("typeID", action.GetTypeID()),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return nil, err
	}

	switch action.GetTypeID() {
	case consts.InitializeID:
		vm.metrics.initialized.Inc()
	case consts.IncrementID:
		vm.metrics.increments.Inc()
	}
	vm.log.Debug("executed action",
		zap.Uint8("typeID", action.GetTypeID()),
		zap.Stringer("account", result.Account),
		zap.Uint64("count", result.Count),
		zap.Int("changes", len(changes)),
	)
	return result, nil
}

func (vm *VM) recordFailure(action chain.Action, actor codec.Address, err error) {
	if errors.Is(err, counter.ErrOverflow) {
		vm.metrics.overflows.Inc()
		vm.log.Warn("increment overflowed",
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return
	}
	vm.metrics.rejected.Inc()
	vm.log.Debug("rejected action",
		zap.Uint8("typeID", action.GetTypeID()),
		zap.Stringer("actor", actor),
		zap.Error(err),
	)
}

// Initialize creates the counter account at [addr].
func (vm *VM) Initialize(ctx context.Context, addr codec.Address) error {
	_, err := vm.Execute(ctx, &actions.Initialize{Account: addr}, addr)
	return err
}

// Increment increments the counter at [addr] and returns the new count.
func (vm *VM) Increment(ctx context.Context, addr codec.Address) (uint64, error) {
	result, err := vm.Execute(ctx, &actions.Increment{Account: addr}, addr)
	if err != nil {
		return 0, err
	}
	return result.Count, nil
}

// GetCounter reads the persisted count at [addr].
func (vm *VM) GetCounter(ctx context.Context, addr codec.Address) (uint64, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.GetCounter")
	defer span.End()

	return storage.GetCounterFromState(ctx, vm.db, addr)
}

func (vm *VM) Shutdown() error {
	vm.shutdownOnce.Do(func() {
		errs := wrappers.Errs{}
		errs.Add(
			vm.db.Close(),
			vm.tracer.Close(),
		)
		vm.shutdownErr = errs.Err
		vm.log.Info("vm shut down", zap.Error(vm.shutdownErr))
	})
	return vm.shutdownErr
}
