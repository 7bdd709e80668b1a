// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package metrics holds the lock-free operational counters the ops
// HTTP surface exposes at /metrics.
package metrics

import "sync/atomic"

// Counters is the full set of counters domainsentry tracks. Every
// field is updated exclusively via atomic operations so concurrent
// checker workers never contend on a lock just to bump a number.
type Counters struct {
	ChecksCompleted   atomic.Int64
	ChecksFailed      atomic.Int64
	VerdictsTaken     atomic.Int64
	VerdictsAvailable atomic.Int64
	VerdictsConfirmed atomic.Int64
	VerdictsUnknown   atomic.Int64

	RateTimeouts     atomic.Int64
	NetworkErrors    atomic.Int64
	ProtocolErrors   atomic.Int64
	RemoteFailures   atomic.Int64
	AuthFailures     atomic.Int64
	PersistenceFails atomic.Int64

	CallbacksSent    atomic.Int64
	CallbacksDropped atomic.Int64
}

// Snapshot is a point-in-time, non-atomic copy suitable for JSON
// encoding by the ops API.
type Snapshot struct {
	ChecksCompleted   int64 `json:"checks_completed"`
	ChecksFailed      int64 `json:"checks_failed"`
	VerdictsTaken     int64 `json:"verdicts_likely_taken"`
	VerdictsAvailable int64 `json:"verdicts_likely_available"`
	VerdictsConfirmed int64 `json:"verdicts_confirmed_available"`
	VerdictsUnknown   int64 `json:"verdicts_unknown"`

	RateTimeouts     int64 `json:"rate_timeouts"`
	NetworkErrors    int64 `json:"network_errors"`
	ProtocolErrors   int64 `json:"protocol_errors"`
	RemoteFailures   int64 `json:"remote_failures"`
	AuthFailures     int64 `json:"auth_failures"`
	PersistenceFails int64 `json:"persistence_failures"`

	CallbacksSent    int64 `json:"callbacks_sent"`
	CallbacksDropped int64 `json:"callbacks_dropped"`
}

// Snapshot reads every counter into a plain struct.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		ChecksCompleted:   c.ChecksCompleted.Load(),
		ChecksFailed:      c.ChecksFailed.Load(),
		VerdictsTaken:     c.VerdictsTaken.Load(),
		VerdictsAvailable: c.VerdictsAvailable.Load(),
		VerdictsConfirmed: c.VerdictsConfirmed.Load(),
		VerdictsUnknown:   c.VerdictsUnknown.Load(),
		RateTimeouts:      c.RateTimeouts.Load(),
		NetworkErrors:     c.NetworkErrors.Load(),
		ProtocolErrors:    c.ProtocolErrors.Load(),
		RemoteFailures:    c.RemoteFailures.Load(),
		AuthFailures:      c.AuthFailures.Load(),
		PersistenceFails:  c.PersistenceFails.Load(),
		CallbacksSent:     c.CallbacksSent.Load(),
		CallbacksDropped:  c.CallbacksDropped.Load(),
	}
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	c.ChecksCompleted.Store(0)
	c.ChecksFailed.Store(0)
	c.VerdictsTaken.Store(0)
	c.VerdictsAvailable.Store(0)
	c.VerdictsConfirmed.Store(0)
	c.VerdictsUnknown.Store(0)
	c.RateTimeouts.Store(0)
	c.NetworkErrors.Store(0)
	c.ProtocolErrors.Store(0)
	c.RemoteFailures.Store(0)
	c.AuthFailures.Store(0)
	c.PersistenceFails.Store(0)
	c.CallbacksSent.Store(0)
	c.CallbacksDropped.Store(0)
}

// RecordVerdict bumps the counter matching status.
func (c *Counters) RecordVerdict(status string) {
	switch status {
	case "LIKELY_TAKEN":
		c.VerdictsTaken.Add(1)
	case "LIKELY_AVAILABLE":
		c.VerdictsAvailable.Add(1)
	case "CONFIRMED_AVAILABLE":
		c.VerdictsConfirmed.Add(1)
	default:
		c.VerdictsUnknown.Add(1)
	}
}
