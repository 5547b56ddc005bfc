// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/state"
)

type Action interface {
	// GetTypeID uniquely identifies each supported [Action].
	GetTypeID() uint8

	// StateKeys is the full enumeration of state keys the [Action] may touch
	// and the permissions it needs on each. The host grants exactly these
	// capabilities for the duration of [Execute]; anything else is rejected
	// by the view the action runs against.
	StateKeys(actor codec.Address) state.Keys

	// Execute applies the [Action] to [mu]. If an error is returned, every
	// write made through [mu] is discarded by the host.
	Execute(
		ctx context.Context,
		mu state.Mutable,
		actor codec.Address,
	) (*Result, error)
}

// Result is returned by a successful [Action].
type Result struct {
	TypeID  uint8         `json:"typeId"`
	Account codec.Address `json:"account"`
	Count   uint64        `json:"count"`
}
