// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package reconciler periodically fetches the remote domain list and
// reconciles it against the local registry: new names are scheduled,
// vanished names are removed, and priority changes are applied without
// resetting timers.
package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/H0llyW00dzZ/domainsentry/internal/domain"
	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/registry"
	"github.com/H0llyW00dzZ/domainsentry/internal/scheduler"
)

// entry is one (name, priority) tuple as decoded from the list API,
// accepting both object and bare-string JSON forms.
type entry struct {
	Name     string
	Priority bool
}

func (e *entry) UnmarshalJSON(b []byte) error {
	var asString string
	if err := json.Unmarshal(b, &asString); err == nil {
		e.Name = asString
		e.Priority = false
		return nil
	}

	var asObject struct {
		Name     string `json:"domain"`
		Priority bool   `json:"priority"`
	}
	if err := json.Unmarshal(b, &asObject); err != nil {
		return err
	}
	e.Name = asObject.Name
	e.Priority = asObject.Priority
	return nil
}

// Reconciler fetches and applies the remote domain list on an interval.
type Reconciler struct {
	client   *http.Client
	url      string
	interval time.Duration
	registry *registry.Registry
	sched    *scheduler.Scheduler

	consecutiveFailures int
	emptyFetchStreak    int
	pendingDeletes      map[string]struct{}
}

// New builds a Reconciler targeting url, fetching every interval.
func New(client *http.Client, url string, interval time.Duration, reg *registry.Registry, sched *scheduler.Scheduler) *Reconciler {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if interval <= 0 {
		interval = 300 * time.Second
	}
	return &Reconciler{
		client:         client,
		url:            url,
		interval:       interval,
		registry:       reg,
		sched:          sched,
		pendingDeletes: make(map[string]struct{}),
	}
}

// Run blocks, fetching on every interval tick until ctx is cancelled.
// The first fetch happens immediately.
func (r *Reconciler) Run(ctx context.Context) {
	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// TickForTest runs one fetch-and-reconcile cycle synchronously. Exposed
// for tests; production callers use Run.
func (r *Reconciler) TickForTest(ctx context.Context) {
	r.tick(ctx)
}

func (r *Reconciler) tick(ctx context.Context) {
	entries, err := r.fetch(ctx)
	if err != nil {
		r.consecutiveFailures++
		return
	}
	r.consecutiveFailures = 0

	if len(entries) == 0 {
		r.emptyFetchStreak++
	} else {
		r.emptyFetchStreak = 0
	}

	// An empty list response honours additions/priority changes (there
	// are none) but only takes effect as a full wipe once it has
	// persisted across two consecutive fetches — a single empty
	// response is far more often a transient upstream hiccup than an
	// operator intentionally emptying the list.
	honourRemovals := len(entries) > 0 || r.emptyFetchStreak >= 2
	r.reconcile(entries, honourRemovals)
}

func (r *Reconciler) fetch(ctx context.Context) ([]entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainmodel.ErrFatal, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list fetch: %v", domainmodel.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list API returned %d", domainmodel.ErrRemoteFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading list body: %v", domainmodel.ErrNetwork, err)
	}

	var envelope struct {
		Domains []entry `json:"domains"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding list body: %v", domainmodel.ErrProtocol, err)
	}
	return envelope.Domains, nil
}

// reconcile applies the set delta between entries and the current
// registry. Additions get a small jittered due time; removals defer to
// the scheduler's in-flight handling; priority changes are applied
// without touching timers.
func (r *Reconciler) reconcile(entries []entry, honourRemovals bool) {
	r.settlePendingDeletes()

	wanted := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := domain.Normalize(e.Name)
		if name == "" || !domain.IsValid(name) {
			continue
		}
		wanted[name] = e.Priority
	}

	existing := r.registry.Names()

	for name, priority := range wanted {
		if _, ok := existing[name]; ok {
			r.registry.Mutate(name, func(d domainmodel.Domain) domainmodel.Domain {
				d.Priority = priority
				return d
			})
			r.sched.UpdatePriority(name, priority)
			continue
		}

		dueAt := time.Now().Add(time.Duration(rand.Int63n(int64(10 * time.Second))))
		r.registry.Upsert(domainmodel.Domain{
			Name:        name,
			Priority:    priority,
			NextCheckAt: dueAt,
			LastVerdict: domainmodel.StatusUnknown,
		})
		r.sched.Add(name, priority, dueAt)
	}

	if !honourRemovals {
		return
	}

	for name := range existing {
		if _, stillWanted := wanted[name]; !stillWanted {
			r.sched.Remove(name)
			if r.sched.IsInFlight(name) {
				r.pendingDeletes[name] = struct{}{}
				continue
			}
			r.registry.Delete(name)
		}
	}
}

// settlePendingDeletes drops registry entries whose removal was
// deferred because a check was in-flight when the list fetch last
// dropped them, now that the check has settled.
func (r *Reconciler) settlePendingDeletes() {
	for name := range r.pendingDeletes {
		if r.sched.IsInFlight(name) {
			continue
		}
		r.registry.Delete(name)
		delete(r.pendingDeletes, name)
	}
}
