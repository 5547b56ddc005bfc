// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := LoadConfig("")
	require.NoError(err)
	require.Equal(NewConfig(), cfg)
}

func TestLoadConfigOverlay(t *testing.T) {
	require := require.New(t)

	path := writeConfig(t, `
dataDir: /tmp/counters
httpConfig:
  listenAddress: 0.0.0.0:9000
  readTimeout: 5s
storageConfig:
  cacheSize: 1048576
  maxOpenFiles: 16
  sync: false
`)
	cfg, err := LoadConfig(path)
	require.NoError(err)
	require.Equal("/tmp/counters", cfg.DataDir)
	require.Equal("0.0.0.0:9000", cfg.HTTPConfig.ListenAddress)
	require.Equal(5*time.Second, cfg.HTTPConfig.ReadTimeout)
	require.Equal(1048576, cfg.StorageConfig.CacheSize)
	require.False(cfg.StorageConfig.Sync)
	// untouched fields keep defaults
	require.Equal(NewConfig().LockMapSize, cfg.LockMapSize)
	require.Equal("info", cfg.LogConfig.Level)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown field",
			body: "notAField: true\n",
		},
		{
			name: "empty data dir",
			body: "dataDir: \"\"\n",
		},
		{
			name: "zero cache",
			body: "storageConfig:\n  cacheSize: 0\n  maxOpenFiles: 1\n  sync: true\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
