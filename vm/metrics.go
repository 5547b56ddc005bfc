// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	initialized prometheus.Counter
	increments  prometheus.Counter
	overflows   prometheus.Counter
	rejected    prometheus.Counter
	executeTime metric.Averager
}

func newMetrics() (*prometheus.Registry, *Metrics, error) {
	r := prometheus.NewRegistry()

	executeTime, err := metric.NewAverager(
		"vm_execute",
		"time spent executing an action, including the commit",
		r,
	)
	if err != nil {
		return nil, nil, err
	}

	m := &Metrics{
		initialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "initialized",
			Help:      "number of counter accounts created",
		}),
		increments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "increments",
			Help:      "number of successful increments",
		}),
		overflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "overflows",
			Help:      "number of increments that failed with an overflow",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "rejected",
			Help:      "number of requests rejected before or during execution",
		}),
		executeTime: executeTime,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.initialized),
		r.Register(m.increments),
		r.Register(m.overflows),
		r.Register(m.rejected),
	)
	return r, m, errs.Err
}
