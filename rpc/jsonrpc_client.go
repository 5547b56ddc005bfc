// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/storage"
)

// Errors that cross the wire only as messages. The client maps them back to
// their sentinels so callers can use errors.Is.
var remoteErrors = []error{
	counter.ErrOverflow,
	storage.ErrAccountNotFound,
	storage.ErrAccountExists,
	storage.ErrInvalidDiscriminator,
}

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCPath
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) sendRequest(ctx context.Context, method string, params interface{}, reply interface{}) error {
	err := cli.requester.SendRequest(ctx, Name+"."+method, params, reply)
	if err == nil {
		return nil
	}
	for _, remote := range remoteErrors {
		if strings.Contains(err.Error(), remote.Error()) {
			return fmt.Errorf("%w: %s", remote, err)
		}
	}
	return err
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.sendRequest(ctx, "ping", struct{}{}, resp)
	return resp.Success, err
}

func (cli *JSONRPCClient) Network(ctx context.Context) (string, ids.ID, error) {
	resp := new(NetworkReply)
	err := cli.sendRequest(ctx, "network", struct{}{}, resp)
	return resp.Name, resp.ID, err
}

func (cli *JSONRPCClient) Initialize(ctx context.Context, addr codec.Address) error {
	resp := new(InitializeReply)
	return cli.sendRequest(ctx, "initialize", &AccountArgs{Account: addr}, resp)
}

func (cli *JSONRPCClient) Increment(ctx context.Context, addr codec.Address) (uint64, error) {
	resp := new(CountReply)
	err := cli.sendRequest(ctx, "increment", &AccountArgs{Account: addr}, resp)
	return resp.Count, err
}

func (cli *JSONRPCClient) Count(ctx context.Context, addr codec.Address) (uint64, error) {
	resp := new(CountReply)
	err := cli.sendRequest(ctx, "count", &AccountArgs{Account: addr}, resp)
	return resp.Count, err
}
