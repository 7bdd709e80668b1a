// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/pipeline"
)

type fakeChecker struct {
	kind    domainmodel.CheckerKind
	outcome domainmodel.Outcome
}

func (f fakeChecker) Kind() domainmodel.CheckerKind { return f.kind }

func (f fakeChecker) Check(ctx context.Context, domain string, deadline time.Time) domainmodel.CheckResult {
	return domainmodel.CheckResult{CheckerKind: f.kind, Outcome: f.outcome, StartedAt: time.Now()}
}

func newPipeline(dns, http, rdap, whois domainmodel.Outcome) *pipeline.Pipeline {
	return pipeline.New(
		fakeChecker{kind: domainmodel.KindDNS, outcome: dns},
		fakeChecker{kind: domainmodel.KindHTTP, outcome: http},
		fakeChecker{kind: domainmodel.KindRDAP, outcome: rdap},
		fakeChecker{kind: domainmodel.KindWHOIS, outcome: whois},
	)
}

func TestPipeline_DNSRegisteredShortCircuitsLikelyTaken(t *testing.T) {
	p := newPipeline(domainmodel.OutcomeRegistered, domainmodel.OutcomeInconclusive, domainmodel.OutcomeError, domainmodel.OutcomeError)
	v := p.Run(context.Background(), "example.com", time.Now().Add(time.Second), domainmodel.StatusUnknown, false)
	assert.Equal(t, domainmodel.StatusLikelyTaken, v.Status)
	assert.Equal(t, 0.7, v.Confidence)
	assert.Len(t, v.Contributing, 2)
}

func TestPipeline_RegisteredSignalStillConfirmsFlipWhenPreviouslyAvailable(t *testing.T) {
	p := newPipeline(domainmodel.OutcomeRegistered, domainmodel.OutcomeInconclusive, domainmodel.OutcomeRegistered, domainmodel.OutcomeInconclusive)
	v := p.Run(context.Background(), "example.com", time.Now().Add(time.Second), domainmodel.StatusLikelyAvailable, false)
	assert.Equal(t, domainmodel.StatusLikelyTaken, v.Status)
	assert.Equal(t, 0.9, v.Confidence)
}

func TestPipeline_RDAPUnregisteredProceedsToWHOISConfirmation(t *testing.T) {
	p := newPipeline(domainmodel.OutcomeUnregistered, domainmodel.OutcomeInconclusive, domainmodel.OutcomeUnregistered, domainmodel.OutcomeUnregistered)
	v := p.Run(context.Background(), "example.com", time.Now().Add(time.Second), domainmodel.StatusUnknown, false)
	assert.Equal(t, domainmodel.StatusConfirmedAvailable, v.Status)
	assert.InDelta(t, 0.95, v.Confidence, 0.0001)
	assert.True(t, v.HasWHOISUnregistered())
}

func TestPipeline_WHOISRegisteredOverridesEverything(t *testing.T) {
	p := newPipeline(domainmodel.OutcomeUnregistered, domainmodel.OutcomeInconclusive, domainmodel.OutcomeUnregistered, domainmodel.OutcomeRegistered)
	v := p.Run(context.Background(), "example.com", time.Now().Add(time.Second), domainmodel.StatusUnknown, false)
	assert.Equal(t, domainmodel.StatusLikelyTaken, v.Status)
	assert.Equal(t, 0.95, v.Confidence)
}

func TestPipeline_AllInconclusiveYieldsUnknown(t *testing.T) {
	p := newPipeline(domainmodel.OutcomeInconclusive, domainmodel.OutcomeInconclusive, domainmodel.OutcomeInconclusive, domainmodel.OutcomeInconclusive)
	v := p.Run(context.Background(), "example.com", time.Now().Add(time.Second), domainmodel.StatusUnknown, false)
	assert.Equal(t, domainmodel.StatusUnknown, v.Status)
	assert.Equal(t, float64(0), v.Confidence)
}

func TestPipeline_RDAPInconclusiveWHOISUnregisteredStillConfirms(t *testing.T) {
	p := newPipeline(domainmodel.OutcomeInconclusive, domainmodel.OutcomeInconclusive, domainmodel.OutcomeInconclusive, domainmodel.OutcomeUnregistered)
	v := p.Run(context.Background(), "example.com", time.Now().Add(time.Second), domainmodel.StatusUnknown, false)
	assert.Equal(t, domainmodel.StatusConfirmedAvailable, v.Status)
	assert.True(t, v.HasWHOISUnregistered())
}

func TestPipeline_DeepCheckForcesFullPassEvenWhenLayer1SaysRegistered(t *testing.T) {
	p := newPipeline(domainmodel.OutcomeRegistered, domainmodel.OutcomeInconclusive, domainmodel.OutcomeUnregistered, domainmodel.OutcomeUnregistered)
	v := p.Run(context.Background(), "example.com", time.Now().Add(time.Second), domainmodel.StatusUnknown, true)
	assert.Equal(t, domainmodel.StatusConfirmedAvailable, v.Status)
}
