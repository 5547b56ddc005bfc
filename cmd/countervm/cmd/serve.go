// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"net"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/server"
)

const metricsBase = "metrics"

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON-RPC API and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}
}

func serve(ctx context.Context, opts *rootOptions) error {
	v, err := opts.newVM("countervm")
	if err != nil {
		return err
	}
	defer v.Close()

	log := v.log
	httpCfg := v.config.HTTPConfig
	listener, err := net.Listen("tcp", httpCfg.ListenAddress)
	if err != nil {
		return err
	}
	srv := server.New(
		rpc.BaseURL,
		log,
		listener,
		server.HTTPConfig{
			ReadTimeout:       httpCfg.ReadTimeout,
			ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
			WriteTimeout:      httpCfg.WriteTimeout,
			IdleTimeout:       httpCfg.IdleTimeout,
		},
		httpCfg.AllowedOrigins,
		httpCfg.ShutdownTimeout,
	)

	handler, err := rpc.NewJSONRPCHandler(rpc.Name, rpc.NewJSONRPCServer(v.VM))
	if err != nil {
		_ = listener.Close()
		return err
	}
	if err := srv.AddRoute(handler, rpc.Name, rpc.Endpoint); err != nil {
		_ = listener.Close()
		return err
	}
	if err := srv.AddRoute(promhttp.HandlerFor(v.Gatherer(), promhttp.HandlerOpts{}), metricsBase, ""); err != nil {
		_ = listener.Close()
		return err
	}

	log.Info("serving",
		zap.Stringer("address", srv.Addr()),
		zap.String("rpc", rpc.JSONRPCPath),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		return srv.Shutdown()
	})
	return g.Wait()
}
