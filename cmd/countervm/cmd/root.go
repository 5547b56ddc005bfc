// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/vm"
)

type rootOptions struct {
	configPath string
	dataDir    string
	logLevel   string
	endpoint   string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   consts.Name,
		Short: "Counter account execution host",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "override the data directory")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the log level")
	cmd.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "URI of a running countervm; when set, account commands use RPC")

	cmd.AddCommand(
		newServeCmd(opts),
		newAddressCmd(),
		newInitCmd(opts),
		newIncrementCmd(opts),
		newCountCmd(opts),
	)
	return cmd
}

// loadConfig applies command line overrides on top of the config file.
func (o *rootOptions) loadConfig() (vm.Config, error) {
	cfg, err := vm.LoadConfig(o.configPath)
	if err != nil {
		return vm.Config{}, err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.LogConfig.Level = o.logLevel
	}
	return cfg, cfg.Verify()
}

type localVM struct {
	*vm.VM

	config vm.Config
	log    logging.Logger

	logFactory *logFactory
}

func (l *localVM) Close() {
	_ = l.Shutdown()
	l.logFactory.Close()
}

// newVM opens the VM in the configured data directory. Close releases the
// database and flushes the logger.
func (o *rootOptions) newVM(name string) (*localVM, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logFactory := newLogFactory(cfg.LogConfig)
	log, err := logFactory.Make(name)
	if err != nil {
		logFactory.Close()
		return nil, err
	}
	v, err := vm.New(log, cfg)
	if err != nil {
		logFactory.Close()
		return nil, err
	}
	return &localVM{
		VM:         v,
		config:     cfg,
		log:        log,
		logFactory: logFactory,
	}, nil
}
