// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package checker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/H0llyW00dzZ/domainsentry/internal/checker"
	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/ratelimit"
)

func TestDNSChecker_Kind(t *testing.T) {
	c := checker.NewDNSChecker(ratelimit.New(), "", 0)
	assert.Equal(t, domainmodel.KindDNS, c.Kind())
}

func TestDNSChecker_UnreachableServerIsInconclusiveOrError(t *testing.T) {
	c := checker.NewDNSChecker(ratelimit.New(), "203.0.113.1:53", 200*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res := c.Check(ctx, "example-unreachable-probe.test", time.Now().Add(2*time.Second))
	assert.Contains(t, []domainmodel.Outcome{domainmodel.OutcomeInconclusive, domainmodel.OutcomeError}, res.Outcome)
	assert.Equal(t, domainmodel.KindDNS, res.CheckerKind)
}

func TestDNSChecker_RateLimitTimeoutIsInconclusive(t *testing.T) {
	rl := ratelimit.New(ratelimit.Class{Name: checker.RateClassDNS, Capacity: 1, RatePerSec: 0.01})
	require := assert.New(t)
	require.NoError(rl.Acquire(context.Background(), checker.RateClassDNS, 1))

	c := checker.NewDNSChecker(rl, "", time.Second)
	deadline := time.Now().Add(20 * time.Millisecond)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	res := c.Check(ctx, "example.test", deadline)
	assert.Equal(t, domainmodel.OutcomeInconclusive, res.Outcome)
}
