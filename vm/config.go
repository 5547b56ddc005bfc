// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/trace"
)

type HTTPConfig struct {
	ListenAddress     string        `json:"listenAddress" yaml:"listenAddress"`
	AllowedOrigins    []string      `json:"allowedOrigins" yaml:"allowedOrigins"`
	ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
}

type LogConfig struct {
	Level     string `json:"level" yaml:"level"`
	Directory string `json:"directory" yaml:"directory"`
	MaxSize   int    `json:"maxSize" yaml:"maxSize"` // megabytes
	MaxFiles  int    `json:"maxFiles" yaml:"maxFiles"`
	MaxAge    int    `json:"maxAge" yaml:"maxAge"` // days
	Compress  bool   `json:"compress" yaml:"compress"`
}

type Config struct {
	DataDir       string        `json:"dataDir" yaml:"dataDir"`
	LockMapSize   int           `json:"lockMapSize" yaml:"lockMapSize"`
	TraceConfig   trace.Config  `json:"traceConfig" yaml:"traceConfig"`
	StorageConfig pebble.Config `json:"storageConfig" yaml:"storageConfig"`
	HTTPConfig    HTTPConfig    `json:"httpConfig" yaml:"httpConfig"`
	LogConfig     LogConfig     `json:"logConfig" yaml:"logConfig"`
}

func NewConfig() Config {
	return Config{
		DataDir:       ".countervm",
		LockMapSize:   1_024,
		TraceConfig:   trace.NewDefaultConfig(consts.Name),
		StorageConfig: pebble.NewDefaultConfig(),
		HTTPConfig: HTTPConfig{
			ListenAddress:     "127.0.0.1:9650",
			AllowedOrigins:    []string{"*"},
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		LogConfig: LogConfig{
			Level:    "info",
			MaxSize:  8,
			MaxFiles: 7,
			MaxAge:   30,
			Compress: true,
		},
	}
}

// LoadConfig overlays the YAML file at [path] on top of [NewConfig]. Fields
// missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	return cfg, cfg.Verify()
}

func (c Config) Verify() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("%w: dataDir is empty", ErrInvalidConfig)
	case c.LockMapSize < 0:
		return fmt.Errorf("%w: lockMapSize must be non-negative", ErrInvalidConfig)
	case c.StorageConfig.CacheSize <= 0:
		return fmt.Errorf("%w: storageConfig.cacheSize must be positive", ErrInvalidConfig)
	}
	return nil
}
