// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/chain/chaintest"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

func newTestAddress() codec.Address {
	return codec.CreateAddress(0, ids.GenerateTestID())
}

func requireCount(ctx context.Context, t *testing.T, im state.Immutable, addr codec.Address, want uint64) {
	count, err := storage.GetCounterFromState(ctx, im, addr)
	require.NoError(t, err)
	require.Equal(t, want, count)
}

func TestIncrementAction(t *testing.T) {
	addr := newTestAddress()
	anotherAddr := newTestAddress()
	maxAddr := newTestAddress()
	missingAddr := newTestAddress()

	ctx := context.Background()
	store := chaintest.NewInMemoryStore()
	require.NoError(t, storage.InitializeCounter(ctx, store, addr))
	require.NoError(t, storage.SetCounter(ctx, store, anotherAddr, &counter.Counter{Count: 41}))
	require.NoError(t, storage.SetCounter(ctx, store, maxAddr, &counter.Counter{Count: math.MaxUint64}))

	tests := []chaintest.ActionTest{
		{
			Name:   "IncrementZero",
			Actor:  addr,
			Action: &Increment{Account: addr},
			State:  store,
			Assertion: func(ctx context.Context, t *testing.T, store state.Mutable) {
				requireCount(ctx, t, store, addr, 1)
			},
			ExpectedOutputs: &chain.Result{
				TypeID:  consts.IncrementID,
				Account: addr,
				Count:   1,
			},
		},
		{
			Name:   "IncrementTwice",
			Actor:  addr,
			Action: &Increment{Account: addr},
			State:  store,
			Assertion: func(ctx context.Context, t *testing.T, store state.Mutable) {
				requireCount(ctx, t, store, addr, 2)
			},
			ExpectedOutputs: &chain.Result{
				TypeID:  consts.IncrementID,
				Account: addr,
				Count:   2,
			},
		},
		{
			Name:   "IncrementDifferentActor",
			Actor:  addr,
			Action: &Increment{Account: anotherAddr},
			State:  store,
			Assertion: func(ctx context.Context, t *testing.T, store state.Mutable) {
				requireCount(ctx, t, store, addr, 2)
				requireCount(ctx, t, store, anotherAddr, 42)
			},
			ExpectedOutputs: &chain.Result{
				TypeID:  consts.IncrementID,
				Account: anotherAddr,
				Count:   42,
			},
		},
		{
			Name:        "Overflow",
			Actor:       addr,
			Action:      &Increment{Account: maxAddr},
			State:       store,
			ExpectedErr: counter.ErrOverflow,
			Assertion: func(ctx context.Context, t *testing.T, store state.Mutable) {
				requireCount(ctx, t, store, maxAddr, math.MaxUint64)
			},
		},
		{
			Name:        "MissingAccount",
			Actor:       addr,
			Action:      &Increment{Account: missingAddr},
			State:       store,
			ExpectedErr: storage.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestIncrementWrongAccountType(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	addr := newTestAddress()
	store := chaintest.NewInMemoryStore()
	// Same key, different record type
	require.NoError(store.Insert(ctx, storage.CounterKey(addr), make([]byte, storage.DiscriminatorLen+8)))

	test := chaintest.ActionTest{
		Name:        "WrongType",
		Actor:       addr,
		Action:      &Increment{Account: addr},
		State:       store,
		ExpectedErr: storage.ErrInvalidDiscriminator,
	}
	test.Run(ctx, t)
}

func TestIncrementStateKeys(t *testing.T) {
	require := require.New(t)

	addr := newTestAddress()
	keys := (&Increment{Account: addr}).StateKeys(newTestAddress())
	require.Len(keys, 1)
	perm := keys[string(storage.CounterKey(addr))]
	require.True(perm.Has(state.Write))
	require.False(perm.Has(state.Allocate))
}

func BenchmarkIncrement(b *testing.B) {
	addr := newTestAddress()
	bench := &chaintest.ActionBenchmark{
		Name:   "Increment",
		Action: &Increment{Account: addr},
		Actor:  addr,
		CreateState: func() *chaintest.InMemoryStore {
			store := chaintest.NewInMemoryStore()
			if err := storage.InitializeCounter(context.Background(), store, addr); err != nil {
				b.Fatal(err)
			}
			return store
		},
		ExpectedOutputs: &chain.Result{
			TypeID:  consts.IncrementID,
			Account: addr,
			Count:   1,
		},
	}
	bench.Run(context.Background(), b)
}
