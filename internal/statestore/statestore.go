// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package statestore persists domain registry state across restarts.
// Writes are atomic (temp file + fsync + rename in the same
// directory); a reader observes either the pre- or post-snapshot
// state, never a partial blend. The rate limiter and scheduler
// in-flight set are intentionally not part of the snapshot — both are
// reconstructed fresh on every boot.
package statestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
)

const snapshotSchemaVersion = 1

// Snapshot is the on-disk representation of registry state.
type Snapshot struct {
	SchemaVersion int                  `json:"schema_version"`
	SavedAt       time.Time            `json:"saved_at"`
	Domains       []domainmodel.Domain `json:"domains"`
}

// Store persists and loads Snapshots under a single canonical path.
// Writes are serialised: the StateStore is a single-writer component.
type Store struct {
	mu   sync.Mutex
	path string
}

// New builds a Store writing to dir/state.json.
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, "state.json")}
}

// Save atomically writes domains as the new canonical snapshot.
func (s *Store) Save(domains []domainmodel.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{SchemaVersion: snapshotSchemaVersion, SavedAt: time.Now(), Domains: domains}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal snapshot: %v", domainmodel.ErrPersistence, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp snapshot file: %v", domainmodel.ErrPersistence, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write temp snapshot file: %v", domainmodel.ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: fsync temp snapshot file: %v", domainmodel.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close temp snapshot file: %v", domainmodel.ErrPersistence, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename snapshot into place: %v", domainmodel.ErrPersistence, err)
	}

	if dirHandle, err := os.Open(dir); err == nil {
		_ = dirHandle.Sync()
		dirHandle.Close()
	}

	return nil
}

// Load reads the canonical snapshot. A missing file returns an empty,
// non-error result. A malformed file is moved aside to
// state.corrupt.<unix-nanos> and an empty result is returned alongside
// the error describing the corruption, so the caller can log it and
// continue starting with an empty registry.
func (s *Store) Load() ([]domainmodel.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read snapshot: %v", domainmodel.ErrPersistence, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		corruptPath := fmt.Sprintf("%s.corrupt.%d", strings.TrimSuffix(s.path, filepath.Ext(s.path)), time.Now().UnixNano())
		_ = os.Rename(s.path, corruptPath)
		return nil, fmt.Errorf("%w: snapshot at %s was malformed, moved to %s: %v", domainmodel.ErrPersistence, s.path, corruptPath, err)
	}

	return snap.Domains, nil
}
