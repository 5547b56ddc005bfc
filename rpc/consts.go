// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "github.com/ava-labs/countervm/consts"

const (
	Name     = consts.Name
	BaseURL  = "/ext"
	Endpoint = "/coreapi"

	// JSONRPCPath is where the service is mounted relative to the host.
	JSONRPCPath = BaseURL + "/" + Name + Endpoint
)
