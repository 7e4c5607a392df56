// Package settings implements the hierarchical settings store used to persist
// state across sessions. A store holds named collections; each collection
// holds string properties addressed by key. Collection paths use a backslash
// as separator, so "DebugCommandLine\RecentCommandLines" is a sub-collection
// of "DebugCommandLine".
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
)

// Separator separates the segments of a collection path.
const Separator = `\`

var (
	// ErrCollectionNotFound is returned when addressing a collection that does not exist.
	ErrCollectionNotFound = errors.New("settings collection not found")

	// ErrPropertyNotFound is returned when reading a key that does not exist.
	ErrPropertyNotFound = errors.New("settings property not found")

	// ErrInvalidCollection is returned for empty collection paths.
	ErrInvalidCollection = errors.New("invalid settings collection path")
)

// Store provides the collection/key/value operations the rest of the tool
// persists through.
type Store interface {
	CollectionExists(collection string) (bool, error)
	CreateCollection(collection string) error
	// DeleteCollection removes the collection, its properties and all of its
	// sub-collections. Deleting a missing collection is not an error.
	DeleteCollection(collection string) error

	PropertyExists(collection, key string) (bool, error)
	GetString(collection, key string) (string, error)
	SetString(collection, key, value string) error

	Close() error
}

// Batcher is implemented by stores that can apply several mutations as one
// atomic write.
type Batcher interface {
	Batch(fn func() error) error
}

// Batch runs fn as one write when store is a Batcher, and directly otherwise.
func Batch(store Store, fn func() error) error {
	if b, ok := store.(Batcher); ok {
		return b.Batch(fn)
	}
	return fn()
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case BackendFile, "":
		return BackendFile, nil
	case BackendSQLite:
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unknown settings backend %q (expected file or sqlite)", s)
	}
}

// Open opens the store for backend at path.
func Open(fs filesystem.FileSystem, backend Backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite:
		return OpenSQLiteStore(path)
	case BackendFile, "":
		return NewFileStore(fs, path), nil
	default:
		return nil, fmt.Errorf("unknown settings backend %q", backend)
	}
}

// Join builds a collection path from its segments.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.Trim(segment, Separator)
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, Separator)
}

func normalizeCollection(collection string) (string, error) {
	normalized := Join(strings.Split(collection, Separator)...)
	if normalized == "" {
		return "", ErrInvalidCollection
	}
	return normalized, nil
}

// ancestors returns the parent collections of collection, outermost first.
func ancestors(collection string) []string {
	segments := strings.Split(collection, Separator)
	out := make([]string, 0, len(segments)-1)
	for i := 1; i < len(segments); i++ {
		out = append(out, strings.Join(segments[:i], Separator))
	}
	return out
}

func isWithin(collection, root string) bool {
	return collection == root || strings.HasPrefix(collection, root+Separator)
}
