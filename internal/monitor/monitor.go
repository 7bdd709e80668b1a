// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package monitor wires every other component together and owns the
// process lifecycle: startup load, steady-state operation, and a
// graceful shutdown that snapshots state before exit.
package monitor

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/H0llyW00dzZ/domainsentry/internal/callback"
	"github.com/H0llyW00dzZ/domainsentry/internal/checker"
	"github.com/H0llyW00dzZ/domainsentry/internal/config"
	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/metrics"
	"github.com/H0llyW00dzZ/domainsentry/internal/pipeline"
	"github.com/H0llyW00dzZ/domainsentry/internal/ratelimit"
	"github.com/H0llyW00dzZ/domainsentry/internal/reconciler"
	"github.com/H0llyW00dzZ/domainsentry/internal/registry"
	"github.com/H0llyW00dzZ/domainsentry/internal/scheduler"
	"github.com/H0llyW00dzZ/domainsentry/internal/statestore"
)

const snapshotInterval = 300 * time.Second

// Monitor owns the registry, scheduler, pipeline, reconciler, callback
// client, and state store. It writes check results into the registry;
// the reconciler it owns also adds, updates, and deletes registry
// entries directly.
type Monitor struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Counters

	registry *registry.Registry
	sched    *scheduler.Scheduler
	pipe     *pipeline.Pipeline
	rec      *reconciler.Reconciler
	store    *statestore.Store
	cb       *callback.Client

	startedAt time.Time
}

// New constructs a Monitor from cfg. It does not start any background
// loop; call Start for that.
func New(cfg config.Config, log *zap.Logger) *Monitor {
	m := &Monitor{
		cfg:      cfg,
		log:      log,
		metrics:  &metrics.Counters{},
		registry: registry.New(),
		store:    statestore.New(cfg.StateDir),
		cb:       callback.New(nil, cfg.CallbackURL, cfg.CallbackToken),
	}

	rlClasses := make([]ratelimit.Class, 0, len(cfg.RateClasses))
	for _, rc := range cfg.RateClasses {
		rlClasses = append(rlClasses, ratelimit.Class{Name: rc.Name, Capacity: rc.Capacity, RatePerSec: rc.RatePerSec})
	}
	limiter := ratelimit.New(rlClasses...)

	m.pipe = pipeline.New(
		checker.NewDNSChecker(limiter, "", 5*time.Second),
		checker.NewHTTPChecker(limiter, 5*time.Second),
		checker.NewRDAPChecker(limiter, 10*time.Second),
		checker.NewWHOISChecker(limiter),
	)

	m.sched = scheduler.New(m.runCheck,
		scheduler.WithWorkers(cfg.Workers),
		scheduler.WithCadence(scheduler.Cadence{
			TLow:       cfg.TLow,
			THigh:      cfg.THigh,
			TConfirmed: cfg.TConfirmed,
			TCap:       cfg.TCap,
		}),
	)

	m.rec = reconciler.New(&http.Client{Timeout: 15 * time.Second}, cfg.ListAPIURL, cfg.ListAPIInterval, m.registry, m.sched)

	return m
}

// Metrics exposes the counters for the ops API to read.
func (m *Monitor) Metrics() *metrics.Counters { return m.metrics }

// Registry exposes the read-only domain view for the ops API.
func (m *Monitor) Registry() *registry.Registry { return m.registry }

// Scheduler exposes scheduling controls (RefreshAll) for the ops API.
func (m *Monitor) Scheduler() *scheduler.Scheduler { return m.sched }

// Store exposes the state store so the ops API's /health handler can
// report on its writability.
func (m *Monitor) Store() *statestore.Store { return m.store }

// RefreshAll resets every monitored domain's next-check time to now,
// for the ops API's manual /refresh trigger.
func (m *Monitor) RefreshAll() { m.sched.RefreshAll() }

// StoreWritable reports whether the state store can currently persist
// a snapshot, by attempting one and checking for an error.
func (m *Monitor) StoreWritable() bool {
	return m.store.Save(m.registry.Snapshot()) == nil
}

// Uptime reports how long the monitor has been running.
func (m *Monitor) Uptime() time.Duration {
	if m.startedAt.IsZero() {
		return 0
	}
	return time.Since(m.startedAt)
}

// Start loads persisted state, populates the scheduler, and launches
// the scheduler workers, the list reconciler, and the periodic
// snapshot loop. It returns once everything is running; callers stop
// it via Shutdown.
func (m *Monitor) Start(ctx context.Context) error {
	m.startedAt = time.Now()

	domains, err := m.store.Load()
	if err != nil {
		m.metrics.PersistenceFails.Add(1)
		m.log.Error("state snapshot was unreadable, starting with an empty registry", zap.Error(err))
	}
	m.registry.LoadAll(domains)
	for _, d := range domains {
		dueAt := d.NextCheckAt
		if dueAt.IsZero() {
			dueAt = time.Now()
		}
		m.sched.Add(d.Name, d.Priority, dueAt)
	}

	m.sched.Start(ctx)
	go m.rec.Run(ctx)
	go m.snapshotLoop(ctx)

	m.log.Info("monitor started", zap.Int("domains_loaded", len(domains)), zap.Int("workers", m.cfg.Workers))
	return nil
}

// Shutdown stops accepting new dispatches, waits up to grace for
// in-flight checks to settle, and writes a final snapshot.
func (m *Monitor) Shutdown(grace time.Duration) {
	m.sched.Stop()

	done := make(chan struct{})
	go func() {
		m.sched.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
		m.log.Warn("shutdown grace period elapsed with checks still in flight")
	}

	if err := m.store.Save(m.registry.Snapshot()); err != nil {
		m.metrics.PersistenceFails.Add(1)
		m.log.Error("final snapshot failed", zap.Error(err))
	}
}

func (m *Monitor) snapshotLoop(ctx context.Context) {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.store.Save(m.registry.Snapshot()); err != nil {
				m.metrics.PersistenceFails.Add(1)
				m.log.Error("periodic snapshot failed", zap.Error(err))
			}
		}
	}
}

// runCheck is the scheduler's CheckFunc: it runs the pipeline, folds
// the verdict into the registry, reschedules, and emits callbacks —
// unless the domain was removed from the registry while this check
// was in flight, in which case its result is discarded entirely.
func (m *Monitor) runCheck(ctx context.Context, domainName string, priority, deepCheck bool) {
	prev, _ := m.registry.Get(domainName)
	deadline := time.Now().Add(45 * time.Second)

	verdict := m.pipe.Run(ctx, domainName, deadline, prev.LastVerdict, deepCheck)

	failures := prev.ConsecutiveFailures
	if verdict.Status == domainmodel.StatusUnknown {
		failures++
	} else {
		failures = 0
	}

	nextDueAt, removed := m.sched.Complete(domainName, verdict.Status, failures)
	if removed {
		m.registry.Delete(domainName)
		return
	}

	updated := m.registry.Mutate(domainName, func(d domainmodel.Domain) domainmodel.Domain {
		d.LastCheckedAt = time.Now()
		d.NextCheckAt = nextDueAt
		d.LastVerdict = verdict.Status
		d.LastConfidence = verdict.Confidence
		d.ConsecutiveFailures = failures
		return d
	})

	m.metrics.RecordVerdict(string(verdict.Status))
	if verdict.Status == domainmodel.StatusUnknown {
		m.metrics.ChecksFailed.Add(1)
	} else {
		m.metrics.ChecksCompleted.Add(1)
	}

	m.emitCallbacks(ctx, updated, verdict)
}

func (m *Monitor) emitCallbacks(ctx context.Context, d domainmodel.Domain, verdict domainmodel.Verdict) {
	for _, res := range verdict.Contributing {
		ev := callback.PerCheckEvent{
			Domain:     d.Name,
			CheckType:  string(res.CheckerKind),
			Result:     string(res.Outcome),
			Timestamp:  float64(res.StartedAt.UnixNano()) / 1e9,
			Details:    res.Details,
			DurationMs: res.DurationMs,
		}
		if err := m.cb.PostPerCheck(ctx, ev); err != nil {
			m.metrics.CallbacksDropped.Add(1)
		} else {
			m.metrics.CallbacksSent.Add(1)
		}
	}

	if verdict.Status.IsAvailableVariant() && verdict.Status != d.LastReportedStatus {
		m.cb.PostAvailability(ctx, callback.AvailabilityEvent{
			Domain:     d.Name,
			Status:     string(verdict.Status),
			Confidence: verdict.Confidence,
			Timestamp:  float64(time.Now().UnixNano()) / 1e9,
		})
		m.registry.Mutate(d.Name, func(nd domainmodel.Domain) domainmodel.Domain {
			nd.LastReportedStatus = verdict.Status
			return nd
		})
	}
}
