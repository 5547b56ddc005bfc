// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package counter holds the counter account record and the increment
// transition applied to it. Callers are expected to have verified that the
// record is writable and correctly typed before calling [Increment].
package counter

import (
	"errors"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var ErrOverflow = errors.New("counter overflow")

// Counter is the persisted state of a counter account.
type Counter struct {
	Count uint64 `json:"count"`
}

// Increment adds one to [c.Count]. If the count is already at the maximum
// uint64 it returns [ErrOverflow] and leaves [c] untouched.
func Increment(c *Counter) error {
	next, err := smath.Add(c.Count, 1)
	if err != nil {
		return ErrOverflow
	}
	c.Count = next
	return nil
}
