// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/registry"
)

func TestRegistry_UpsertAndGet(t *testing.T) {
	r := registry.New()
	r.Upsert(domainmodel.Domain{Name: "example.com", Priority: true})

	d, ok := r.Get("example.com")
	assert.True(t, ok)
	assert.True(t, d.Priority)
}

func TestRegistry_MutateAppliesReadModifyWrite(t *testing.T) {
	r := registry.New()
	r.Upsert(domainmodel.Domain{Name: "example.com"})

	r.Mutate("example.com", func(d domainmodel.Domain) domainmodel.Domain {
		d.ConsecutiveFailures++
		return d
	})

	d, _ := r.Get("example.com")
	assert.Equal(t, 1, d.ConsecutiveFailures)
}

func TestRegistry_DeleteRemoves(t *testing.T) {
	r := registry.New()
	r.Upsert(domainmodel.Domain{Name: "example.com"})
	r.Delete("example.com")

	_, ok := r.Get("example.com")
	assert.False(t, ok)
}

func TestRegistry_SnapshotIsIndependentCopy(t *testing.T) {
	r := registry.New()
	r.Upsert(domainmodel.Domain{Name: "a.com"})
	r.Upsert(domainmodel.Domain{Name: "b.com"})

	snap := r.Snapshot()
	assert.Len(t, snap, 2)

	r.Delete("a.com")
	assert.Len(t, snap, 2)
}
