// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountExists        = errors.New("account already exists")
	ErrInvalidDiscriminator = errors.New("account discriminator mismatch")
	ErrInvalidAccountData   = errors.New("invalid account data")
)
