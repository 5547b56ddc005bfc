// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/near/borsh-go"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
)

// State
// 0x0/ (counter)
//   -> [address] => discriminator | borsh(counter)

const (
	counterPrefix byte = 0x0

	DiscriminatorLen = 8

	CounterChunks uint16 = 1
)

// CounterDiscriminator tags every counter account so a key that resolves to
// some other record type is rejected before it is decoded.
var CounterDiscriminator = discriminator("Counter")

func discriminator(name string) [DiscriminatorLen]byte {
	var d [DiscriminatorLen]byte
	h := sha256.Sum256([]byte("account:" + name))
	copy(d[:], h[:DiscriminatorLen])
	return d
}

// [counterPrefix] + [address] + [chunks]
func CounterKey(addr codec.Address) []byte {
	k := make([]byte, 0, consts.ByteLen+codec.AddressLen+consts.Uint16Len)
	k = append(k, counterPrefix)
	k = append(k, addr[:]...)
	return keys.EncodeChunks(k, CounterChunks)
}

func EncodeCounter(c *counter.Counter) ([]byte, error) {
	body, err := borsh.Serialize(*c)
	if err != nil {
		return nil, err
	}
	v := make([]byte, 0, DiscriminatorLen+len(body))
	v = append(v, CounterDiscriminator[:]...)
	return append(v, body...), nil
}

func DecodeCounter(v []byte) (*counter.Counter, error) {
	if len(v) < DiscriminatorLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidAccountData, len(v))
	}
	if !bytes.Equal(v[:DiscriminatorLen], CounterDiscriminator[:]) {
		return nil, ErrInvalidDiscriminator
	}
	body := v[DiscriminatorLen:]
	if len(body) != consts.Uint64Len {
		return nil, fmt.Errorf("%w: body is %d bytes", ErrInvalidAccountData, len(body))
	}
	c := new(counter.Counter)
	if err := borsh.Deserialize(c, body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccountData, err)
	}
	return c, nil
}

// GetCounter resolves [addr] to a counter record. A missing account is
// reported as [ErrAccountNotFound]; the caller decides whether that is fatal.
func GetCounter(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
) (*counter.Counter, error) {
	v, err := im.GetValue(ctx, CounterKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeCounter(v)
}

func SetCounter(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	c *counter.Counter,
) error {
	v, err := EncodeCounter(c)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, CounterKey(addr), v)
}

// InitializeCounter creates a zeroed counter at [addr].
func InitializeCounter(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
) error {
	_, err := GetCounter(ctx, mu, addr)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrAccountExists, addr)
	case !errors.Is(err, ErrAccountNotFound):
		return err
	}
	return SetCounter(ctx, mu, addr, &counter.Counter{})
}

// Used to serve RPC queries
func GetCounterFromState(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
) (uint64, error) {
	c, err := GetCounter(ctx, im, addr)
	if err != nil {
		return 0, err
	}
	return c.Count, nil
}
