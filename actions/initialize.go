// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

var _ chain.Action = (*Initialize)(nil)

// Initialize creates a counter account with a count of zero.
type Initialize struct {
	Account codec.Address `json:"account"`
}

func (*Initialize) GetTypeID() uint8 {
	return consts.InitializeID
}

func (i *Initialize) StateKeys(codec.Address) state.Keys {
	return state.Keys{
		string(storage.CounterKey(i.Account)): state.All,
	}
}

func (i *Initialize) Execute(
	ctx context.Context,
	mu state.Mutable,
	_ codec.Address,
) (*chain.Result, error) {
	if err := storage.InitializeCounter(ctx, mu, i.Account); err != nil {
		return nil, err
	}
	return &chain.Result{
		TypeID:  consts.InitializeID,
		Account: i.Account,
	}, nil
}
