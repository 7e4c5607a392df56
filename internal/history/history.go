// Package history keeps the most-recently-used list of command-line strings
// and mirrors it to a settings collection.
//
// The list is ordered most recent first, holds no duplicates and never grows
// beyond its capacity. Every mutation rewrites the persisted collection in
// full: entry i is stored under key strconv.Itoa(i).
package history

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jakoblorz/go-debugargs/internal/settings"
)

const (
	// DefaultMaxCount is the capacity used when none (or a non-positive one)
	// is configured.
	DefaultMaxCount = 15

	// DefaultCollection is the settings collection the list is persisted to.
	DefaultCollection = `DebugCommandLine\RecentCommandLines`
)

// Store is the most-recently-used list of a single session.
type Store struct {
	settings   settings.Store
	collection string
	maxCount   int
	entries    []string
}

// Option configures a Store.
type Option func(*Store)

// WithMaxCount sets the capacity of the list.
func WithMaxCount(n int) Option {
	return func(s *Store) {
		s.maxCount = n
	}
}

// WithCollection sets the settings collection the list is persisted to.
func WithCollection(collection string) Option {
	return func(s *Store) {
		s.collection = collection
	}
}

// New creates an empty list backed by store. Call Load to rehydrate it.
func New(store settings.Store, opts ...Option) *Store {
	s := &Store{
		settings:   store,
		collection: DefaultCollection,
		maxCount:   DefaultMaxCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxCount <= 0 {
		s.maxCount = DefaultMaxCount
	}
	return s
}

// MaxCount returns the capacity of the list.
func (s *Store) MaxCount() int {
	return s.maxCount
}

// Collection returns the settings collection the list is persisted to.
func (s *Store) Collection() string {
	return s.collection
}

// Load replaces the in-memory list with the persisted one. Entries are read
// under keys "0", "1", ... up to the capacity; reading stops at the first
// missing key. A missing collection yields an empty list.
func (s *Store) Load() ([]string, error) {
	exists, err := s.settings.CollectionExists(s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check recent command lines: %w", err)
	}

	entries := make([]string, 0, s.maxCount)
	if exists {
		for i := 0; i < s.maxCount; i++ {
			value, err := s.settings.GetString(s.collection, strconv.Itoa(i))
			if errors.Is(err, settings.ErrPropertyNotFound) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read recent command line %d: %w", i, err)
			}
			if containsString(entries, value) {
				continue
			}
			entries = append(entries, value)
		}
	}

	s.entries = entries
	return s.CurrentList(), nil
}

// Promote moves value to the front of the list, inserting it when new and
// evicting from the tail beyond capacity, then persists the list.
//
// The in-memory list is updated even when persisting fails; the error is
// returned alongside the new list.
func (s *Store) Promote(value string) ([]string, error) {
	entries := make([]string, 0, s.maxCount)
	entries = append(entries, value)
	for _, e := range s.entries {
		if e == value {
			continue
		}
		if len(entries) == s.maxCount {
			break
		}
		entries = append(entries, e)
	}
	s.entries = entries

	if err := s.save(); err != nil {
		return s.CurrentList(), err
	}
	return s.CurrentList(), nil
}

// Clear empties the list and its persisted collection.
func (s *Store) Clear() error {
	s.entries = s.entries[:0]
	return s.save()
}

// CurrentList returns a copy of the list, most recent first. It is never nil.
func (s *Store) CurrentList() []string {
	list := make([]string, len(s.entries))
	copy(list, s.entries)
	return list
}

// Reset discards the in-memory list without touching storage.
func (s *Store) Reset() {
	s.entries = nil
}

// save rewrites the whole collection as one batch.
func (s *Store) save() error {
	return settings.Batch(s.settings, func() error {
		if err := s.settings.DeleteCollection(s.collection); err != nil {
			return fmt.Errorf("failed to delete recent command lines: %w", err)
		}
		if err := s.settings.CreateCollection(s.collection); err != nil {
			return fmt.Errorf("failed to create recent command lines: %w", err)
		}
		for i, value := range s.entries {
			if err := s.settings.SetString(s.collection, strconv.Itoa(i), value); err != nil {
				return fmt.Errorf("failed to write recent command line %d: %w", i, err)
			}
		}
		return nil
	})
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
