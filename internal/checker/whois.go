// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package checker

import (
	"context"
	"strings"
	"time"

	"github.com/likexian/whois"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/ratelimit"
)

// RateClassWHOIS names the shared rate-limit bucket for WHOIS lookups.
const RateClassWHOIS = "whois"

// takenMarkers are registry-record fields that only appear once a
// domain has been delegated to a registrant.
var takenMarkers = []string{
	"registrar:",
	"registrant:",
	"creation date:",
	"created:",
	"registry expiry date:",
	"expiration date:",
	"name server:",
	"nameserver:",
	"nserver:",
	"domain status:",
}

// freeMarkers are the conventional "no such registration" strings
// registries use across the WHOIS ecosystem. No RFC standardizes WHOIS
// response text, so this list is inherently best-effort.
var freeMarkers = []string{
	"no match for",
	"not found",
	"no entries found",
	"no data found",
	"status: free",
	"status: available",
	"no object found",
	"object does not exist",
	"nothing found",
	"is available for registration",
	"domain is available",
	"the queried object does not exist",
	"no such domain",
	"domain name has not been registered",
}

// WHOISChecker is the most expensive and final-word checker: a raw
// TCP/43 WHOIS query via the registry (or registrar) of record. It is
// the only checker whose UNREGISTERED outcome is strong enough to
// contribute toward a CONFIRMED_AVAILABLE verdict.
type WHOISChecker struct {
	limiter *ratelimit.Limiter
	lookup  func(domain string) (string, error)
}

// NewWHOISChecker builds a WHOISChecker gated by limiter's "whois" class.
func NewWHOISChecker(limiter *ratelimit.Limiter) *WHOISChecker {
	return NewWHOISCheckerForTest(limiter, whois.Whois)
}

// NewWHOISCheckerForTest builds a WHOISChecker with an injected lookup
// function, so tests can exercise classify() without a live TCP/43
// query.
func NewWHOISCheckerForTest(limiter *ratelimit.Limiter, lookup func(domain string) (string, error)) *WHOISChecker {
	return &WHOISChecker{
		limiter: limiter,
		lookup:  lookup,
	}
}

func (c *WHOISChecker) Kind() domainmodel.CheckerKind { return domainmodel.KindWHOIS }

func (c *WHOISChecker) Check(ctx context.Context, domain string, deadline time.Time) domainmodel.CheckResult {
	start := time.Now()

	if err := acquire(ctx, c.limiter, RateClassWHOIS, deadline); err != nil {
		return result(c.Kind(), start, domainmodel.OutcomeInconclusive, map[string]string{"error": err.Error()})
	}

	type lookupResult struct {
		raw string
		err error
	}
	done := make(chan lookupResult, 1)
	go func() {
		raw, err := c.lookup(domain)
		done <- lookupResult{raw: raw, err: err}
	}()

	waitCtx := ctx
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	select {
	case <-waitCtx.Done():
		return result(c.Kind(), start, domainmodel.OutcomeInconclusive, map[string]string{"error": "whois query did not complete before deadline"})
	case r := <-done:
		if r.err != nil {
			return result(c.Kind(), start, domainmodel.OutcomeInconclusive, map[string]string{"error": r.err.Error()})
		}
		return result(c.Kind(), start, classify(r.raw), nil)
	}
}

func classify(raw string) domainmodel.Outcome {
	lower := strings.ToLower(raw)

	for _, m := range takenMarkers {
		if strings.Contains(lower, m) {
			return domainmodel.OutcomeRegistered
		}
	}

	for _, m := range freeMarkers {
		if strings.Contains(lower, m) {
			return domainmodel.OutcomeUnregistered
		}
	}

	return domainmodel.OutcomeInconclusive
}
