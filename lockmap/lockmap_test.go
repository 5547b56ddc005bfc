// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLockUnlock(t *testing.T) {
	require := require.New(t)

	l := New(2)
	l.Lock("a")
	l.Lock("b")
	require.Equal(2, l.Locks())
	l.Unlock("a")
	require.Equal(1, l.Locks())
	l.Unlock("b")
	require.Zero(l.Locks())

	require.Panics(func() { l.Unlock("a") })
}

func TestLockSerializesSameKey(t *testing.T) {
	require := require.New(t)

	l := New(1)
	l.Lock("a")

	acquired := make(chan struct{})
	go func() {
		l.Lock("a")
		close(acquired)
	}()

	select {
	case <-acquired:
		require.FailNow("second lock acquired while first held")
	case <-time.After(50 * time.Millisecond):
	}

	l.Unlock("a")
	<-acquired
	require.Equal(1, l.Locks())
	l.Unlock("a")
	require.Zero(l.Locks())
}

func TestLockAllConcurrent(t *testing.T) {
	require := require.New(t)

	var (
		l       = New(4)
		keys    = []string{"a", "b", "c"}
		counter int
	)
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			l.LockAll(keys)
			counter++
			l.UnlockAll(keys)
			return nil
		})
	}
	require.NoError(g.Wait())
	require.Equal(100, counter)
	require.Zero(l.Locks())
}
