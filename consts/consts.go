// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/ids"

const (
	ByteLen   = 1
	Uint16Len = 2
	Uint64Len = 8
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)
)

const (
	Name = "countervm"

	// Action TypeIDs
	InitializeID uint8 = 0
	IncrementID  uint8 = 1
)

var ID ids.ID

func init() {
	b := make([]byte, ids.IDLen)
	copy(b, []byte(Name))
	vmID, err := ids.ToID(b)
	if err != nil {
		panic(err)
	}
	ID = vmID
}
