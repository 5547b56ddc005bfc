// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

var _ chain.Action = (*Increment)(nil)

type Increment struct {
	// Account is the counter being incremented.
	Account codec.Address `json:"account"`
}

func (*Increment) GetTypeID() uint8 {
	return consts.IncrementID
}

func (i *Increment) StateKeys(codec.Address) state.Keys {
	return state.Keys{
		string(storage.CounterKey(i.Account)): state.Read | state.Write,
	}
}

func (i *Increment) Execute(
	ctx context.Context,
	mu state.Mutable,
	_ codec.Address,
) (*chain.Result, error) {
	c, err := storage.GetCounter(ctx, mu, i.Account)
	if err != nil {
		return nil, err
	}
	if err := counter.Increment(c); err != nil {
		return nil, err
	}
	if err := storage.SetCounter(ctx, mu, i.Account, c); err != nil {
		return nil, err
	}
	return &chain.Result{
		TypeID:  consts.IncrementID,
		Account: i.Account,
		Count:   c.Count,
	}, nil
}
