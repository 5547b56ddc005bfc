// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/countervm/vm"
)

// logFactory builds loggers that write to stderr and, when a directory is
// configured, to a rotating file.
type logFactory struct {
	config vm.LogConfig
	lock   sync.Mutex

	// Logger name --> the logger.
	loggers map[string]logging.Logger
}

func newLogFactory(config vm.LogConfig) *logFactory {
	return &logFactory{
		config:  config,
		loggers: make(map[string]logging.Logger),
	}
}

func (f *logFactory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.loggers[name]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", name)
	}
	level, err := logging.ToLevel(f.config.Level)
	if err != nil {
		return nil, err
	}

	consoleCore := logging.NewWrappedCore(level, os.Stderr, logging.Colors.ConsoleEncoder())
	cores := []logging.WrappedCore{consoleCore}

	if f.config.Directory != "" {
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(f.config.Directory, name+".log"),
			MaxSize:    f.config.MaxSize,  // megabytes
			MaxAge:     f.config.MaxAge,   // days
			MaxBackups: f.config.MaxFiles, // files
			Compress:   f.config.Compress,
		}
		cores = append(cores, logging.NewWrappedCore(level, rw, logging.JSON.FileEncoder()))
	}

	l := logging.NewLogger(fmt.Sprintf("<%s>", name), cores...)
	f.loggers[name] = l
	return l, nil
}

func (f *logFactory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, l := range f.loggers {
		l.Stop()
	}
	f.loggers = nil
}
