// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

func TestServerRoutes(t *testing.T) {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)

	s := New("/ext", logging.NoLog{}, listener, HTTPConfig{}, []string{"*"}, time.Second)
	hello := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	require.NoError(s.AddRoute(hello, "test", ""))
	require.ErrorIs(s.AddRoute(hello, "test", ""), ErrDuplicateRoute)

	done := make(chan error, 1)
	go func() {
		done <- s.Dispatch()
	}()

	resp, err := http.Get("http://" + s.Addr().String() + "/ext/test")
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusOK, resp.StatusCode)
	require.Equal("hello", string(body))

	resp, err = http.Get("http://" + s.Addr().String() + "/ext/missing")
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusNotFound, resp.StatusCode)

	require.NoError(s.Shutdown())
	require.NoError(<-done)
}
