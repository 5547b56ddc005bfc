// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/trace"
)

var _ state.Mutable = (*InMemoryStore)(nil)

// InMemoryStore is an in-memory implementation of `state.Mutable`
type InMemoryStore struct {
	Storage map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		Storage: make(map[string][]byte),
	}
}

func (i *InMemoryStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	val, ok := i.Storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return val, nil
}

func (i *InMemoryStore) Insert(_ context.Context, key []byte, value []byte) error {
	i.Storage[string(key)] = value
	return nil
}

func (i *InMemoryStore) Remove(_ context.Context, key []byte) error {
	delete(i.Storage, string(key))
	return nil
}

// Apply writes [changes] into the store, as a host would after a successful
// action.
func (i *InMemoryStore) Apply(changes chain.Changes) {
	for k, v := range changes {
		if v.IsNothing() {
			delete(i.Storage, k)
			continue
		}
		i.Storage[k] = v.Value()
	}
}

// ActionTest is a single parameterized test. It runs the action through a
// [chain.Processor] with the passed parameters, applies the resulting
// changes on success, and checks that all assertions pass.
type ActionTest struct {
	Name string

	Action chain.Action

	State *InMemoryStore
	Actor codec.Address

	ExpectedOutputs *chain.Result
	ExpectedErr     error

	Assertion func(context.Context, *testing.T, state.Mutable)
}

// Run executes the [ActionTest] and make sure all assertions pass.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		before := len(test.State.Storage)
		processor := chain.NewProcessor(trace.Noop(test.Name))
		output, changes, err := processor.Execute(ctx, test.State, test.Action, test.Actor)

		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutputs, output)
		if err != nil {
			require.Nil(changes)
			require.Len(test.State.Storage, before)
		} else {
			test.State.Apply(changes)
		}

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}

// ActionBenchmark is a parameterized benchmark. To avoid using shared state
// between runs, a new state is created for each iteration using the provided
// `CreateState` function.
type ActionBenchmark struct {
	Name   string
	Action chain.Action

	CreateState func() *InMemoryStore
	Actor       codec.Address

	ExpectedOutputs *chain.Result
	ExpectedErr     error
}

// Run executes the [ActionBenchmark] and make sure all the benchmark assertions pass.
func (test *ActionBenchmark) Run(ctx context.Context, b *testing.B) {
	require := require.New(b)

	states := make([]*InMemoryStore, b.N)
	for i := 0; i < b.N; i++ {
		states[i] = test.CreateState()
	}
	processor := chain.NewProcessor(trace.Noop(test.Name))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		output, _, err := processor.Execute(ctx, states[i], test.Action, test.Actor)
		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutputs, output)
	}
}
