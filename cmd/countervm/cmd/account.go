// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/rpc"
)

// accountClient is satisfied by both the JSON-RPC client and a local VM.
type accountClient interface {
	Initialize(ctx context.Context, addr codec.Address) error
	Increment(ctx context.Context, addr codec.Address) (uint64, error)
	Count(ctx context.Context, addr codec.Address) (uint64, error)
}

type localClient struct {
	*localVM
}

func (l localClient) Count(ctx context.Context, addr codec.Address) (uint64, error) {
	return l.GetCounter(ctx, addr)
}

// withClient runs [f] against the remote endpoint if one is set, otherwise
// against a VM opened on the local data directory.
func (o *rootOptions) withClient(f func(accountClient) error) error {
	if o.endpoint != "" {
		return f(rpc.NewJSONRPCClient(o.endpoint))
	}
	v, err := o.newVM("cli")
	if err != nil {
		return err
	}
	defer v.Close()
	return f(localClient{v})
}

func newAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Generate a new random account address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var id ids.ID
			if _, err := rand.Read(id[:]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), codec.CreateAddress(0, id))
			return nil
		},
	}
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init <address>",
		Short: "Create a counter account with a count of zero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := codec.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return opts.withClient(func(c accountClient) error {
				if err := c.Initialize(cmd.Context(), addr); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", addr)
				return nil
			})
		},
	}
}

func newIncrementCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "increment <address>",
		Short: "Increment a counter account by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := codec.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return opts.withClient(func(c accountClient) error {
				count, err := c.Increment(cmd.Context(), addr)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), count)
				return nil
			})
		},
	}
}

func newCountCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count <address>",
		Short: "Print the current count of a counter account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := codec.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return opts.withClient(func(c accountClient) error {
				count, err := c.Count(cmd.Context(), addr)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), count)
				return nil
			})
		},
	}
}
