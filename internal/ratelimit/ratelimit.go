// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package ratelimit provides a token-bucket gate per named service
// class, shared across every concurrent probe of that class. It is the
// only admission-control point for domainsentry's outbound traffic.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
)

// Class configures one named bucket: capacity tokens, refilled at
// RatePerSec tokens/second.
type Class struct {
	Name       string
	Capacity   int
	RatePerSec float64
}

// Limiter owns one token bucket per service class. Buckets are created
// lazily and are individually synchronized by the underlying
// [rate.Limiter], which already serves Wait callers in FIFO order.
type Limiter struct {
	mu       sync.RWMutex
	buckets  map[string]*rate.Limiter
	defaults map[string]Class
}

// New creates a Limiter pre-configured with the given classes. Classes
// not listed here fall back to a conservative default (capacity 5,
// rate 1/s) the first time they are acquired.
func New(classes ...Class) *Limiter {
	l := &Limiter{
		buckets:  make(map[string]*rate.Limiter, len(classes)),
		defaults: make(map[string]Class, len(classes)),
	}
	for _, c := range classes {
		l.defaults[c.Name] = c
		l.buckets[c.Name] = rate.NewLimiter(rate.Limit(c.RatePerSec), c.Capacity)
	}
	return l
}

func (l *Limiter) bucketFor(class string) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[class]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[class]; ok {
		return b
	}
	b = rate.NewLimiter(rate.Limit(1), 5)
	l.buckets[class] = b
	return b
}

// Acquire blocks until n tokens are available for class, the supplied
// context is cancelled, or ctx's deadline elapses, whichever comes
// first. It returns [domainmodel.ErrRateTimeout] when the deadline
// passes before tokens became available.
func (l *Limiter) Acquire(ctx context.Context, class string, n int) error {
	b := l.bucketFor(class)
	if err := b.WaitN(ctx, n); err != nil {
		return fmt.Errorf("%w: class %q: %v", domainmodel.ErrRateTimeout, class, err)
	}
	return nil
}

// SetClass replaces (or adds) the bucket configuration for a class
// without disturbing other classes' in-flight waiters, mirroring the
// hot-reload semantics the checker SDK this is descended from offers
// for its DNS server list.
func (l *Limiter) SetClass(c Class) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defaults[c.Name] = c
	l.buckets[c.Name] = rate.NewLimiter(rate.Limit(c.RatePerSec), c.Capacity)
}

// Classes returns a copy of the currently configured class definitions.
func (l *Limiter) Classes() []Class {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Class, 0, len(l.defaults))
	for _, c := range l.defaults {
		out = append(out, c)
	}
	return out
}
