// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package scheduler

import (
	"container/heap"
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
)

// Cadence configures the base intervals and backoff cap driving
// reschedule decisions.
type Cadence struct {
	TLow       time.Duration // base interval, non-priority domains
	THigh      time.Duration // base interval, priority domains
	TConfirmed time.Duration // interval after CONFIRMED_AVAILABLE
	TCap       time.Duration // backoff ceiling
}

// DefaultCadence matches the intervals named in the operator config:
// an hour for ordinary domains, five minutes for priority ones.
func DefaultCadence() Cadence {
	return Cadence{
		TLow:       time.Hour,
		THigh:      5 * time.Minute,
		TConfirmed: 24 * time.Hour,
		TCap:       12 * time.Hour,
	}
}

// CheckFunc is invoked once per dispatched domain. deepCheck is set
// when Scheduler.MarkDeepCheck flagged the domain since its previous
// dispatch, asking for a forced full-pipeline pass.
type CheckFunc func(ctx context.Context, domain string, priority, deepCheck bool)

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithWorkers sets the fixed worker pool size. Default 8.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithCadence overrides the default cadence policy.
func WithCadence(c Cadence) Option {
	return func(s *Scheduler) {
		s.cadence = c
	}
}

// Scheduler owns the due-domain queue and a fixed worker pool that
// drains it. It knows nothing about verdicts or registry state beyond
// what it needs to reschedule — ownership of domain data stays with
// the caller.
type Scheduler struct {
	mu             sync.Mutex
	queue          dueQueue
	byDomain       map[string]*entry
	inFlight       map[string]struct{}
	pendingRemoval map[string]struct{}
	deepCheck      map[string]struct{}

	workers int
	cadence Cadence
	checkFn CheckFunc

	wake chan struct{}
	jobs chan dispatch
	stop chan struct{}
	wg   sync.WaitGroup
}

type dispatch struct {
	domain   string
	priority bool
	deep     bool
}

// New builds a Scheduler. checkFn is called from a worker goroutine
// for every due domain; it must itself respect ctx cancellation.
func New(checkFn CheckFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		byDomain:       make(map[string]*entry),
		inFlight:       make(map[string]struct{}),
		pendingRemoval: make(map[string]struct{}),
		deepCheck:      make(map[string]struct{}),
		workers:        8,
		cadence:        DefaultCadence(),
		checkFn:        checkFn,
		wake:           make(chan struct{}, 1),
		stop:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.jobs = make(chan dispatch, s.workers)
	return s
}

// Add inserts or repositions a domain in the due queue at dueAt. If the
// domain is currently in-flight, only its priority is updated and dueAt
// is not kept; Complete assigns its next due time from the cadence
// policy.
func (s *Scheduler) Add(domain string, priority bool, dueAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pendingRemoval, domain)

	if e, ok := s.byDomain[domain]; ok {
		e.priority = priority
		if e.index >= 0 {
			e.dueAt = dueAt
			heap.Fix(&s.queue, e.index)
		}
		s.notify()
		return
	}

	e := &entry{domain: domain, priority: priority, dueAt: dueAt}
	s.byDomain[domain] = e
	heap.Push(&s.queue, e)
	s.notify()
}

// UpdatePriority changes a domain's priority tier without touching its
// next-check timer.
func (s *Scheduler) UpdatePriority(domain string, priority bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.byDomain[domain]; ok {
		e.priority = priority
		if e.index >= 0 {
			heap.Fix(&s.queue, e.index)
		}
	}
}

// Remove deletes a domain from the queue. If the domain is currently
// in-flight, removal is deferred until the check completes.
func (s *Scheduler) Remove(domain string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, inFlight := s.inFlight[domain]; inFlight {
		s.pendingRemoval[domain] = struct{}{}
		return
	}
	s.removeLocked(domain)
}

func (s *Scheduler) removeLocked(domain string) {
	e, ok := s.byDomain[domain]
	if !ok {
		return
	}
	delete(s.byDomain, domain)
	delete(s.pendingRemoval, domain)
	delete(s.deepCheck, domain)
	if e.index >= 0 {
		heap.Remove(&s.queue, e.index)
	}
}

// MarkDeepCheck flags domain for a forced full-pipeline pass on its
// next dispatch, then clears the flag.
func (s *Scheduler) MarkDeepCheck(domain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deepCheck[domain] = struct{}{}
}

// RefreshAll resets every domain's due time to now, spread by a small
// random jitter so a manual /refresh doesn't dispatch the entire
// registry in the same instant.
func (s *Scheduler) RefreshAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, e := range s.byDomain {
		e.dueAt = now.Add(jitter(2 * time.Second))
		if e.index >= 0 {
			heap.Fix(&s.queue, e.index)
		}
	}
	s.notify()
}

// Complete reschedules domain after a check finishes, applying the
// cadence policy for status, and releases the in-flight marker. It
// returns the actual due time the cadence policy computed (callers
// must write this into the domain's persisted NextCheckAt rather than
// any deadline used internally for the check itself) and whether the
// domain was removed instead of rescheduled — either because it was
// flagged for removal while in-flight, or because it is no longer
// tracked at all. When removed is true, the just-completed check's
// result must be discarded: no callback may be posted for it, and
// nextDueAt is the zero value.
func (s *Scheduler) Complete(domain string, status domainmodel.VerdictStatus, consecutiveFailures int) (nextDueAt time.Time, removed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, domain)

	if _, pending := s.pendingRemoval[domain]; pending {
		s.removeLocked(domain)
		return time.Time{}, true
	}

	e, ok := s.byDomain[domain]
	if !ok {
		return time.Time{}, true
	}

	e.dueAt = s.nextDueAt(e.priority, status, consecutiveFailures)
	heap.Push(&s.queue, e)
	s.notify()
	return e.dueAt, false
}

func (s *Scheduler) nextDueAt(priority bool, status domainmodel.VerdictStatus, consecutiveFailures int) time.Time {
	base := s.cadence.TLow
	if priority {
		base = s.cadence.THigh
	}

	switch status {
	case domainmodel.StatusConfirmedAvailable:
		return time.Now().Add(s.cadence.TConfirmed)
	case domainmodel.StatusLikelyTaken, domainmodel.StatusLikelyAvailable:
		return time.Now().Add(base)
	default: // StatusUnknown: exponential backoff with jitter
		backoff := base
		if consecutiveFailures > 0 {
			backoff = base * time.Duration(1<<uint(min(consecutiveFailures, 20)))
		}
		if backoff > s.cadence.TCap {
			backoff = s.cadence.TCap
		}
		return time.Now().Add(jitter(backoff))
	}
}

// jitter returns d adjusted by up to ±10%.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	spread := float64(d) * 0.10
	delta := (rand.Float64()*2 - 1) * spread
	return d + time.Duration(delta)
}

// Start launches the dispatch loop and the worker pool and returns
// immediately. The loop exits when ctx is cancelled or Stop is called;
// each worker exits once ctx is cancelled or the loop has exited,
// finishing its current job first. Wait blocks until all have returned.
func (s *Scheduler) Start(ctx context.Context) {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	s.wg.Add(1)
	go s.dispatchLoop(ctx)
}

// Wait blocks until every worker goroutine has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			s.runJob(ctx, job)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, job dispatch) {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			delete(s.inFlight, job.domain)
			s.mu.Unlock()
		}
	}()
	s.checkFn(ctx, job.domain, job.priority, job.deep)
}

func (s *Scheduler) dispatchLoop(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		wait := s.drainDue()
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-timer.C:
		case <-s.wake:
		}
	}
}

// drainDue dispatches every currently-due entry and returns how long to
// sleep before the next candidate could become due.
func (s *Scheduler) drainDue() time.Duration {
	for {
		s.mu.Lock()
		if s.queue.Len() == 0 {
			s.mu.Unlock()
			return time.Hour
		}
		next := s.queue[0]
		now := time.Now()
		if next.dueAt.After(now) {
			wait := next.dueAt.Sub(now)
			s.mu.Unlock()
			return wait
		}

		heap.Pop(&s.queue)
		s.inFlight[next.domain] = struct{}{}
		_, deep := s.deepCheck[next.domain]
		delete(s.deepCheck, next.domain)
		job := dispatch{domain: next.domain, priority: next.priority, deep: deep}
		s.mu.Unlock()

		select {
		case s.jobs <- job:
		case <-s.stop:
			return time.Millisecond
		}
	}
}

func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stop signals the dispatch loop to exit without waiting for workers.
// Callers should follow with Wait() under a grace-period context.
func (s *Scheduler) Stop() {
	close(s.stop)
}

// Len reports how many domains are currently queued (not counting
// those in-flight).
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// IsInFlight reports whether domain is currently dispatched to a
// worker and has not yet called Complete.
func (s *Scheduler) IsInFlight(domain string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[domain]
	return ok
}
