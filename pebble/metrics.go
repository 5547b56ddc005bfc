// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	getLatency   metric.Averager
	writeLatency metric.Averager

	batches      prometheus.Counter
	bytesWritten prometheus.Counter
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	getLatency, err := metric.NewAverager(
		"pebble_read_latency",
		"time spent waiting for db get",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	writeLatency, err := metric.NewAverager(
		"pebble_write_latency",
		"time spent waiting for batch commit",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	m := &metrics{
		getLatency:   getLatency,
		writeLatency: writeLatency,
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pebble",
			Name:      "batches",
			Help:      "number of committed write batches",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pebble",
			Name:      "bytes_written",
			Help:      "number of key and value bytes written",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.batches),
		r.Register(m.bytesWritten),
	)
	return r, m, errs.Err
}
