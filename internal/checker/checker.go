// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package checker implements the single-oracle probes the pipeline
// fuses into a verdict: DNS, HTTP, RDAP, and WHOIS. Each checker is a
// closed, independently testable implementation of the [Checker]
// interface; the pipeline dispatches by layer, never by runtime type
// discovery.
package checker

import (
	"context"
	"time"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/ratelimit"
)

// Checker performs a single oracle probe for one domain and returns a
// typed result. Implementations must never block past deadline and
// must never let a probe error escape as anything but
// [domainmodel.OutcomeError] or [domainmodel.OutcomeInconclusive] —
// checker-level errors never propagate past the pipeline.
type Checker interface {
	Kind() domainmodel.CheckerKind
	Check(ctx context.Context, domain string, deadline time.Time) domainmodel.CheckResult
}

// result builds a CheckResult, stamping StartedAt/DurationMs from start.
func result(kind domainmodel.CheckerKind, start time.Time, outcome domainmodel.Outcome, details map[string]string) domainmodel.CheckResult {
	return domainmodel.CheckResult{
		CheckerKind: kind,
		Outcome:     outcome,
		Details:     details,
		StartedAt:   start,
		DurationMs:  time.Since(start).Milliseconds(),
	}
}

// acquire gates a probe on the shared rate limiter for class, honoring
// deadline. A timed-out acquire is reported as INCONCLUSIVE — the
// caller retries at the next scheduling tick rather than treating
// admission-control backpressure as a hard error.
func acquire(ctx context.Context, limiter *ratelimit.Limiter, class string, deadline time.Time) error {
	acquireCtx := ctx
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}
	return limiter.Acquire(acquireCtx, class, 1)
}
