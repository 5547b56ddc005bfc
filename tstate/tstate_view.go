// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
)

const defaultOps = 4

var (
	ErrInvalidKeyOrPermission = errors.New("invalid key or key permission")
	ErrInvalidKeyValue        = errors.New("invalid key or value")

	_ state.Mutable = (*TStateView)(nil)
)

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool
}

// TStateView is a scoped, permission-checked overlay on top of an immutable
// base. Every access is checked against the [state.Keys] the request
// declared up front; writes stay pending until the caller exports them with
// [Changes].
type TStateView struct {
	scope state.Keys
	base  state.Immutable

	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// Ops is a record of all operations performed on the view. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op
}

func NewView(scope state.Keys, base state.Immutable) *TStateView {
	return &TStateView{
		scope:              scope,
		base:               base,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte], len(scope)),
		ops:                make([]*op, 0, defaultOps),
	}
}

// Rollback restores the view to the ts.ops[restorePoint] operation.
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]
		switch {
		case !op.pastChanged:
			delete(ts.pendingChangedKeys, op.k)
		case !op.pastExists:
			ts.pendingChangedKeys[op.k] = maybe.Nothing[[]byte]()
		default:
			ts.pendingChangedKeys[op.k] = maybe.Some(op.pastV)
		}
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

func (ts *TStateView) checkScope(key []byte, perm state.Permissions) bool {
	return ts.scope[string(key)].Has(perm)
}

// GetValue returns the value associated with [key]. If [key] was not
// declared readable an error is returned.
func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if !ts.checkScope(key, state.Read) {
		return nil, ErrInvalidKeyOrPermission
	}
	v, _, exists, err := ts.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (ts *TStateView) getValue(ctx context.Context, key string) ([]byte, bool, bool, error) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false, nil
		}
		return v.Value(), true, true, nil
	}
	v, err := ts.base.GetValue(ctx, []byte(key))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, false, nil
	}
	if err != nil {
		return nil, false, false, err
	}
	return v, false, true, nil
}

// Insert sets or updates [key] to [value]. Updating an existing key needs
// [state.Write]; creating a new one needs [state.Allocate].
//
// Any bytes passed into [Insert] will be consumed by the view and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(ctx context.Context, key []byte, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	required := state.Write
	if !exists {
		required = state.Allocate
	}
	if !ts.checkScope(key, required) {
		return ErrInvalidKeyOrPermission
	}
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,
	})
	ts.pendingChangedKeys[k] = maybe.Some(value)
	return nil
}

// Remove deletes [key]. Removing a key that does not exist is a no-op.
func (ts *TStateView) Remove(ctx context.Context, key []byte) error {
	if !ts.checkScope(key, state.Write) {
		return ErrInvalidKeyOrPermission
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastExists:  true,
		pastV:       past,
		pastChanged: changed,
	})
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	return nil
}

// Changes returns the pending write set. A Nothing value marks a deletion.
func (ts *TStateView) Changes() map[string]maybe.Maybe[[]byte] {
	return ts.pendingChangedKeys
}

// PendingChanges returns the number of keys modified so far.
func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}
