// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package checker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/H0llyW00dzZ/domainsentry/internal/checker"
	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/ratelimit"
)

func TestWHOISChecker_Kind(t *testing.T) {
	c := checker.NewWHOISChecker(ratelimit.New())
	assert.Equal(t, domainmodel.KindWHOIS, c.Kind())
}

func TestWHOISChecker_RegisteredMarkersClassifyRegistered(t *testing.T) {
	c := checker.NewWHOISCheckerForTest(ratelimit.New(), func(string) (string, error) {
		return "Domain Name: EXAMPLE.COM\nRegistrar: Example Registrar\nCreation Date: 1995-08-14T04:00:00Z\n", nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res := c.Check(ctx, "example.com", time.Now().Add(time.Second))
	assert.Equal(t, domainmodel.OutcomeRegistered, res.Outcome)
}

func TestWHOISChecker_FreeMarkersClassifyUnregistered(t *testing.T) {
	c := checker.NewWHOISCheckerForTest(ratelimit.New(), func(string) (string, error) {
		return "No match for domain \"EXAMPLE-PROBE-NOT-REAL.COM\"\n", nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res := c.Check(ctx, "example-probe-not-real.com", time.Now().Add(time.Second))
	assert.Equal(t, domainmodel.OutcomeUnregistered, res.Outcome)
}

func TestWHOISChecker_LookupErrorIsInconclusive(t *testing.T) {
	c := checker.NewWHOISCheckerForTest(ratelimit.New(), func(string) (string, error) {
		return "", errors.New("connection refused")
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res := c.Check(ctx, "example.com", time.Now().Add(time.Second))
	assert.Equal(t, domainmodel.OutcomeInconclusive, res.Outcome)
}

func TestWHOISChecker_AmbiguousResponseIsInconclusive(t *testing.T) {
	c := checker.NewWHOISCheckerForTest(ratelimit.New(), func(string) (string, error) {
		return "This WHOIS server has nothing meaningful to say.\n", nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res := c.Check(ctx, "example.com", time.Now().Add(time.Second))
	assert.Equal(t, domainmodel.OutcomeInconclusive, res.Outcome)
}
