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

func TestRDAPChecker_Kind(t *testing.T) {
	c := checker.NewRDAPChecker(ratelimit.New(), 0)
	assert.Equal(t, domainmodel.KindRDAP, c.Kind())
}

func TestRDAPChecker_NoBootstrapMatchIsInconclusive(t *testing.T) {
	c := checker.NewRDAPChecker(ratelimit.New(), 500*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res := c.Check(ctx, "example.invalidtldfortesting", time.Now().Add(3*time.Second))
	assert.Equal(t, domainmodel.OutcomeInconclusive, res.Outcome)
}
