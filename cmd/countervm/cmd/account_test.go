// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/storage"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	root := NewRootCmd()
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestAccountCommands(t *testing.T) {
	require := require.New(t)
	dataDir := t.TempDir()

	addrStr, err := run(t, "address")
	require.NoError(err)
	_, err = codec.ParseAddress(addrStr)
	require.NoError(err)

	_, err = run(t, "--data-dir", dataDir, "--log-level", "error", "increment", addrStr)
	require.ErrorIs(err, storage.ErrAccountNotFound)

	out, err := run(t, "--data-dir", dataDir, "--log-level", "error", "init", addrStr)
	require.NoError(err)
	require.Equal("initialized "+addrStr, out)

	for _, want := range []string{"1", "2", "3"} {
		out, err = run(t, "--data-dir", dataDir, "--log-level", "error", "increment", addrStr)
		require.NoError(err)
		require.Equal(want, out)
	}

	out, err = run(t, "--data-dir", dataDir, "--log-level", "error", "count", addrStr)
	require.NoError(err)
	require.Equal("3", out)
}

func TestAccountCommandsRejectBadAddress(t *testing.T) {
	_, err := run(t, "--data-dir", t.TempDir(), "count", "0x1234")
	require.ErrorIs(t, err, codec.ErrInvalidAddressLength)
}
