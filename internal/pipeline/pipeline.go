// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package pipeline fuses the independent checker probes into a single
// availability verdict, running cheap layers first and only reaching
// for WHOIS when cheaper evidence can't settle the question.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/domainsentry/internal/checker"
	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
)

// Pipeline holds one checker per layer. Layer 1 (DNS, HTTP) runs
// concurrently; layers 2 (RDAP) and 3 (WHOIS) run only when the
// cheaper evidence leaves the question open.
type Pipeline struct {
	dns   checker.Checker
	http  checker.Checker
	rdap  checker.Checker
	whois checker.Checker
}

// New builds a Pipeline from its four layer checkers.
func New(dns, http, rdap, whois checker.Checker) *Pipeline {
	return &Pipeline{dns: dns, http: http, rdap: rdap, whois: whois}
}

// Run produces a Verdict for domain by deadline. previousStatus lets
// the pipeline detect a registered→available flip that would
// otherwise short-circuit at layer 1; deepCheck forces a full
// layer-1-through-3 pass regardless of what layer 1 finds, for
// priority domains the scheduler wants re-verified end to end.
func (p *Pipeline) Run(ctx context.Context, domain string, deadline time.Time, previousStatus domainmodel.VerdictStatus, deepCheck bool) domainmodel.Verdict {
	dnsRes, httpRes := p.runLayer1(ctx, domain, deadline)
	contributing := []domainmodel.CheckResult{dnsRes, httpRes}

	layer1Registered := dnsRes.Outcome == domainmodel.OutcomeRegistered || httpRes.Outcome == domainmodel.OutcomeRegistered
	layer1Disagrees := dnsRes.Outcome == domainmodel.OutcomeUnregistered && httpRes.Outcome == domainmodel.OutcomeRegistered

	priorWasAvailable := previousStatus.IsAvailableVariant()

	if layer1Registered && !layer1Disagrees && !priorWasAvailable && !deepCheck {
		return domainmodel.Verdict{Status: domainmodel.StatusLikelyTaken, Confidence: 0.7, Contributing: contributing}
	}

	// Either layer 1 suggested UNREGISTERED, was ambiguous, or we're
	// re-verifying a possible flip / running a forced deep check:
	// proceed to RDAP.
	rdapRes := p.rdap.Check(ctx, domain, deadline)
	contributing = append(contributing, rdapRes)

	switch rdapRes.Outcome {
	case domainmodel.OutcomeRegistered:
		taken := domainmodel.Verdict{Status: domainmodel.StatusLikelyTaken, Confidence: 0.9, Contributing: contributing}
		if deepCheck {
			// A forced deep check still reaches WHOIS, which overrides
			// RDAP on direct contradiction.
			return p.confirmWithWHOIS(ctx, domain, deadline, taken)
		}
		return taken
	case domainmodel.OutcomeUnregistered:
		// Layer 1 + 2 agree on UNREGISTERED: proceed to WHOIS for
		// confirmation rather than stopping here.
		tentative := domainmodel.Verdict{Status: domainmodel.StatusLikelyAvailable, Confidence: 0.85, Contributing: contributing}
		return p.confirmWithWHOIS(ctx, domain, deadline, tentative)
	default:
		// RDAP inconclusive: only WHOIS can still settle this.
		tentative := domainmodel.Verdict{Status: domainmodel.StatusUnknown, Confidence: 0, Contributing: contributing}
		return p.confirmWithWHOIS(ctx, domain, deadline, tentative)
	}
}

func (p *Pipeline) runLayer1(ctx context.Context, domain string, deadline time.Time) (domainmodel.CheckResult, domainmodel.CheckResult) {
	var wg sync.WaitGroup
	var dnsRes, httpRes domainmodel.CheckResult

	wg.Add(2)
	go func() {
		defer wg.Done()
		dnsRes = p.dns.Check(ctx, domain, deadline)
	}()
	go func() {
		defer wg.Done()
		httpRes = p.http.Check(ctx, domain, deadline)
	}()
	wg.Wait()

	return dnsRes, httpRes
}

// confirmWithWHOIS runs the WHOIS layer and folds its result into
// tentative. On UNREGISTERED, CONFIRMED_AVAILABLE's confidence counts
// every prior corroborating UNREGISTERED result straight from
// tentative.Contributing.
func (p *Pipeline) confirmWithWHOIS(ctx context.Context, domain string, deadline time.Time, tentative domainmodel.Verdict) domainmodel.Verdict {
	whoisRes := p.whois.Check(ctx, domain, deadline)
	contributing := append(tentative.Contributing, whoisRes)

	switch whoisRes.Outcome {
	case domainmodel.OutcomeRegistered:
		return domainmodel.Verdict{Status: domainmodel.StatusLikelyTaken, Confidence: 0.95, Contributing: contributing}
	case domainmodel.OutcomeUnregistered:
		corroborators := 0
		for _, c := range contributing[:len(contributing)-1] {
			if c.Outcome == domainmodel.OutcomeUnregistered {
				corroborators++
			}
		}
		confidence := 0.85 + 0.05*float64(corroborators)
		if confidence > 0.99 {
			confidence = 0.99
		}
		v := domainmodel.Verdict{Status: domainmodel.StatusConfirmedAvailable, Confidence: confidence, Contributing: contributing}
		return enforceConfirmedAvailableInvariant(v)
	default:
		if tentative.Status != domainmodel.StatusUnknown {
			// Layer 2 already settled on a verdict (LIKELY_AVAILABLE, or
			// LIKELY_TAKEN on a deep check); WHOIS couldn't add to it,
			// but doesn't contradict it.
			return domainmodel.Verdict{Status: tentative.Status, Confidence: tentative.Confidence, Contributing: contributing}
		}
		return domainmodel.Verdict{Status: domainmodel.StatusUnknown, Confidence: 0, Contributing: contributing}
	}
}

// enforceConfirmedAvailableInvariant is the pipeline's last line of
// defense against emitting CONFIRMED_AVAILABLE without a Layer-3
// UNREGISTERED result backing it.
func enforceConfirmedAvailableInvariant(v domainmodel.Verdict) domainmodel.Verdict {
	if v.Status == domainmodel.StatusConfirmedAvailable && !v.HasWHOISUnregistered() {
		v.Status = domainmodel.StatusLikelyAvailable
		v.Confidence = 0.85
	}
	return v
}
