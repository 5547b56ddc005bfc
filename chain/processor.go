// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/tstate"
)

// Processor runs a single [Action] against a scoped view of state. It does
// not persist anything; the caller commits the returned changes.
type Processor struct {
	tracer trace.Tracer
}

func NewProcessor(tracer trace.Tracer) *Processor {
	return &Processor{tracer: tracer}
}

// Changes is the write set produced by a successful [Action]. A Nothing
// value marks a deleted key.
type Changes map[string]maybe.Maybe[[]byte]

func VerifyStateKeys(stateKeys state.Keys) error {
	if len(stateKeys) == 0 {
		return fmt.Errorf("%w: no keys declared", ErrInvalidStateKeys)
	}
	for k, perm := range stateKeys {
		if !keys.Valid([]byte(k)) {
			return fmt.Errorf("%w: key %x is malformed", ErrInvalidStateKeys, k)
		}
		if perm == state.None {
			return fmt.Errorf("%w: key %x has no permissions", ErrInvalidStateKeys, k)
		}
	}
	return nil
}

// Execute grants [action] the capabilities it declared, runs it, and returns
// its result with the resulting write set. On any error the view is rolled
// back and no changes are returned.
func (p *Processor) Execute(
	ctx context.Context,
	base state.Immutable,
	action Action,
	actor codec.Address,
) (*Result, Changes, error) {
	if action == nil {
		return nil, nil, ErrNilAction
	}
	ctx, span := p.tracer.Start(ctx, "Processor.Execute")
	defer span.End()

	stateKeys := action.StateKeys(actor)
	if err := VerifyStateKeys(stateKeys); err != nil {
		return nil, nil, err
	}
	span.SetAttributes(
		attribute.Int("typeID", int(action.GetTypeID())),
		attribute.Int("stateKeys", len(stateKeys)),
	)

	tsv := tstate.NewView(stateKeys, base)
	result, err := action.Execute(ctx, tsv, actor)
	if err != nil {
		tsv.Rollback(ctx, 0)
		return nil, nil, err
	}
	return result, Changes(tsv.Changes()), nil
}
