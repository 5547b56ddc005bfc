// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrInvalidStateKeys = errors.New("invalid state keys")
	ErrNilAction        = errors.New("nil action")
)
