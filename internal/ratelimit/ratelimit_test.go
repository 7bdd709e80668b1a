// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/ratelimit"
)

func TestAcquire_WithinCapacity(t *testing.T) {
	l := ratelimit.New(ratelimit.Class{Name: "dns", Capacity: 2, RatePerSec: 1})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, l.Acquire(ctx, "dns", 1))
	require.NoError(t, l.Acquire(ctx, "dns", 1))
}

func TestAcquire_TimesOutWhenExhausted(t *testing.T) {
	l := ratelimit.New(ratelimit.Class{Name: "whois", Capacity: 1, RatePerSec: 0.1})

	ctx := context.Background()
	require.NoError(t, l.Acquire(ctx, "whois", 1))

	deadlineCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Acquire(deadlineCtx, "whois", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainmodel.ErrRateTimeout))
}

func TestAcquire_UnknownClassUsesConservativeDefault(t *testing.T) {
	l := ratelimit.New()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, l.Acquire(ctx, "http", 1))
}

func TestSetClass_HotReload(t *testing.T) {
	l := ratelimit.New(ratelimit.Class{Name: "rdap", Capacity: 1, RatePerSec: 0.01})

	ctx := context.Background()
	require.NoError(t, l.Acquire(ctx, "rdap", 1))

	l.SetClass(ratelimit.Class{Name: "rdap", Capacity: 5, RatePerSec: 100})

	fastCtx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, l.Acquire(fastCtx, "rdap", 1))
}

func TestClasses_ReturnsConfigured(t *testing.T) {
	l := ratelimit.New(
		ratelimit.Class{Name: "dns", Capacity: 10, RatePerSec: 5},
		ratelimit.Class{Name: "whois", Capacity: 2, RatePerSec: 0.5},
	)

	classes := l.Classes()
	assert.Len(t, classes, 2)
}
