// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package reconciler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/reconciler"
	"github.com/H0llyW00dzZ/domainsentry/internal/registry"
	"github.com/H0llyW00dzZ/domainsentry/internal/scheduler"
)

func newTestScheduler() *scheduler.Scheduler {
	return scheduler.New(func(ctx context.Context, domain string, priority, deep bool) {})
}

func registryDomain(name string) domainmodel.Domain {
	return domainmodel.Domain{Name: name, LastVerdict: domainmodel.StatusUnknown}
}

func TestReconciler_AcceptsObjectAndBareStringForms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"domains":[{"domain":"priority-example.com","priority":true},"bare-example.com"]}`))
	}))
	defer srv.Close()

	reg := registry.New()
	sched := newTestScheduler()
	rec := reconciler.New(nil, srv.URL, time.Hour, reg, sched)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rec.TickForTest(ctx)

	d1, ok := reg.Get("priority-example.com")
	require.True(t, ok)
	assert.True(t, d1.Priority)

	d2, ok := reg.Get("bare-example.com")
	require.True(t, ok)
	assert.False(t, d2.Priority)
}

func TestReconciler_EmptyFetchDoesNotDeleteUntilSecondConsecutive(t *testing.T) {
	body := `{"domains":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	reg := registry.New()
	sched := newTestScheduler()
	rec := reconciler.New(nil, srv.URL, time.Hour, reg, sched)
	reg.Upsert(registryDomain("existing.com"))
	sched.Add("existing.com", false, time.Now().Add(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	rec.TickForTest(ctx)
	_, ok := reg.Get("existing.com")
	assert.True(t, ok, "first empty fetch must not delete")

	rec.TickForTest(ctx)
	_, ok = reg.Get("existing.com")
	assert.False(t, ok, "second consecutive empty fetch must delete")
}

func TestReconciler_PriorityChangeDoesNotResetDueTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"domains":[{"domain":"existing.com","priority":true}]}`))
	}))
	defer srv.Close()

	reg := registry.New()
	sched := newTestScheduler()
	rec := reconciler.New(nil, srv.URL, time.Hour, reg, sched)
	due := time.Now().Add(time.Hour)
	existing := registryDomain("existing.com")
	existing.NextCheckAt = due
	reg.Upsert(existing)
	sched.Add("existing.com", false, due)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rec.TickForTest(ctx)

	d, ok := reg.Get("existing.com")
	require.True(t, ok)
	assert.True(t, d.Priority)
	assert.True(t, due.Equal(d.NextCheckAt), "a priority change alone must not move the due time")
}
