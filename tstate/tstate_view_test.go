// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/keys"
	"github.com/ava-labs/countervm/state"
)

var (
	testVal  = []byte("value")
	testVal2 = []byte("value2")

	key1    = keys.EncodeChunks([]byte("key1"), 1)
	key1str = string(key1)
	key2    = keys.EncodeChunks([]byte("key2"), 1)
	key2str = string(key2)
)

type TestDB struct {
	storage map[string][]byte
}

func NewTestDB() *TestDB {
	return &TestDB{
		storage: make(map[string][]byte),
	}
}

func (db *TestDB) GetValue(_ context.Context, key []byte) ([]byte, error) {
	val, ok := db.storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return val, nil
}

func TestScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	// No Scope
	tsv := NewView(state.Keys{}, NewTestDB())
	val, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, ErrInvalidKeyOrPermission)
	require.Nil(val)
	require.ErrorIs(tsv.Insert(ctx, key1, testVal), ErrInvalidKeyOrPermission)
	require.ErrorIs(tsv.Remove(ctx, key1), ErrInvalidKeyOrPermission)
}

func TestGetValue(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	db := NewTestDB()
	db.storage[key1str] = testVal
	tsv := NewView(state.Keys{key1str: state.Read, key2str: state.Read}, db)

	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)

	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestInsertPermissions(t *testing.T) {
	tests := []struct {
		name    string
		perm    state.Permissions
		exists  bool
		wantErr error
	}{
		{
			name:    "read only existing",
			perm:    state.Read,
			exists:  true,
			wantErr: ErrInvalidKeyOrPermission,
		},
		{
			name:   "write existing",
			perm:   state.Write,
			exists: true,
		},
		{
			name:    "write new",
			perm:    state.Write,
			wantErr: ErrInvalidKeyOrPermission,
		},
		{
			name: "allocate new",
			perm: state.Allocate,
		},
		{
			name:    "allocate existing",
			perm:    state.Allocate,
			exists:  true,
			wantErr: ErrInvalidKeyOrPermission,
		},
		{
			name:   "all existing",
			perm:   state.All,
			exists: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.TODO()

			db := NewTestDB()
			if tt.exists {
				db.storage[key1str] = testVal
			}
			tsv := NewView(state.Keys{key1str: tt.perm}, db)
			err := tsv.Insert(ctx, key1, testVal2)
			require.ErrorIs(err, tt.wantErr)
			if tt.wantErr != nil {
				require.Zero(tsv.PendingChanges())
				return
			}
			require.Equal(1, tsv.PendingChanges())
			require.True(tsv.Changes()[key1str].HasValue())
		})
	}
}

func TestInsertInvalidValue(t *testing.T) {
	require := require.New(t)

	tsv := NewView(state.Keys{key1str: state.All}, NewTestDB())
	require.ErrorIs(tsv.Insert(context.TODO(), key1, make([]byte, 128)), ErrInvalidKeyValue)
}

func TestRemove(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	db := NewTestDB()
	db.storage[key1str] = testVal
	tsv := NewView(state.Keys{key1str: state.Write, key2str: state.Write}, db)

	require.NoError(tsv.Remove(ctx, key1))
	_, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
	require.True(tsv.Changes()[key1str].IsNothing())

	// Missing keys are a no-op
	require.NoError(tsv.Remove(ctx, key2))
	require.Equal(1, tsv.OpIndex())
}

func TestRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	db := NewTestDB()
	db.storage[key1str] = testVal
	tsv := NewView(state.Keys{key1str: state.All, key2str: state.All}, db)

	require.NoError(tsv.Insert(ctx, key1, testVal2))
	restore := tsv.OpIndex()
	require.NoError(tsv.Insert(ctx, key1, []byte("value3")))
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.Equal(3, tsv.OpIndex())

	tsv.Rollback(ctx, restore)
	require.Equal(restore, tsv.OpIndex())
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal2, val)
	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)

	tsv.Rollback(ctx, 0)
	require.Zero(tsv.PendingChanges())
	val, err = tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)
}
