// Package cache implements the persistent JSON-backed key/value stores
// that carry engine state between invocations.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// Store is a string-keyed value store backed by a single JSON file.
//
// Opening never fails: a missing file yields an empty store, and an
// unreadable or corrupt file yields an empty store plus a warning, so
// no cache problem ever aborts a build. Save serializes with stable
// key order and writes only when the content checksum differs from
// what was last loaded or saved.
type Store struct {
	path string
	log  ports.Logger

	mu       sync.RWMutex
	values   map[string]any
	savedSum uint64
}

// Open loads the store persisted at path.
func Open(path string, log ports.Logger) *Store {
	s := &Store{
		path:   filepath.Clean(path),
		log:    log,
		values: make(map[string]any),
	}
	s.load()
	if data, err := json.MarshalIndent(s.values, "", "  "); err == nil {
		s.savedSum = xxhash.Sum64(data)
	}
	return s
}

func (s *Store) load() {
	//nolint:gosec // Path is cleaned and derived from the build root layout.
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn(fmt.Sprintf("cannot read cache file %s, starting empty: %v", s.path, err))
		}
		return
	}

	if len(data) == 0 {
		return
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		s.log.Warn(fmt.Sprintf("discarding corrupt cache file %s: %v", s.path, err))
		s.values = make(map[string]any)
		return
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
}

// Path returns the file the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
}

// SetDefault stores value under key only if the key is absent and
// returns the effective value.
func (s *Store) SetDefault(key string, value any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.values[key]; ok {
		return v
	}
	s.values[key] = value
	return value
}

// Contains reports whether key is present.
func (s *Store) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.values[key]
	return ok
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
}

// Pop removes key and returns the value it held.
func (s *Store) Pop(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	delete(s.values, key)
	return v, ok
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save persists the store. encoding/json writes map keys in sorted
// order, so identical content always produces identical bytes; when
// the checksum matches the last load or save, no file is touched at
// all. Safe to call on every exit path.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal cache store")
	}

	sum := xxhash.Sum64(data)
	if sum == s.savedSum {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}

	//nolint:gosec // Path is cleaned and derived from the build root layout.
	if err := os.WriteFile(s.path, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write cache store")
	}

	s.savedSum = sum
	return nil
}
