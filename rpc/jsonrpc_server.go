// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

type VM interface {
	Logger() logging.Logger
	Tracer() trace.Tracer
	Initialize(ctx context.Context, addr codec.Address) error
	Increment(ctx context.Context, addr codec.Address) (uint64, error)
	GetCounter(ctx context.Context, addr codec.Address) (uint64, error)
}

type JSONRPCServer struct {
	vm VM
}

func NewJSONRPCServer(vm VM) *JSONRPCServer {
	return &JSONRPCServer{vm}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.vm.Logger().Info("ping")
	reply.Success = true
	return nil
}

type NetworkReply struct {
	Name string `json:"name"`
	ID   ids.ID `json:"id"`
}

func (*JSONRPCServer) Network(_ *http.Request, _ *struct{}, reply *NetworkReply) error {
	reply.Name = consts.Name
	reply.ID = consts.ID
	return nil
}

type AccountArgs struct {
	Account codec.Address `json:"account"`
}

type InitializeReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Initialize(req *http.Request, args *AccountArgs, reply *InitializeReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Initialize")
	defer span.End()

	if err := j.vm.Initialize(ctx, args.Account); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type CountReply struct {
	Count uint64 `json:"count"`
}

func (j *JSONRPCServer) Increment(req *http.Request, args *AccountArgs, reply *CountReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Increment")
	defer span.End()

	count, err := j.vm.Increment(ctx, args.Account)
	if err != nil {
		j.vm.Logger().Debug("increment failed",
			zap.Stringer("account", args.Account),
			zap.Error(err),
		)
		return err
	}
	reply.Count = count
	return nil
}

func (j *JSONRPCServer) Count(req *http.Request, args *AccountArgs, reply *CountReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Count")
	defer span.End()

	count, err := j.vm.GetCounter(ctx, args.Account)
	if err != nil {
		return err
	}
	reply.Count = count
	return nil
}
