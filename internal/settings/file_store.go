package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gopkg.in/yaml.v3"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
)

const fileStoreVersion = 1

var (
	_ Store   = (*FileStore)(nil)
	_ Batcher = (*FileStore)(nil)
)

// FileStore keeps all collections in a single YAML document. The document is
// read on first use and rewritten after every mutation through a temporary
// file and a rename, so readers only ever see a complete document. Inside a
// Batch the document is written once at the end.
//
// When a write fails the in-memory document is restored to what is on disk.
type FileStore struct {
	fs   filesystem.FileSystem
	path string

	loaded   bool
	doc      fileDocument
	batching bool
}

type fileDocument struct {
	Version     int                          `yaml:"version"`
	Collections map[string]map[string]string `yaml:"collections"`
}

func (d fileDocument) clone() fileDocument {
	c := fileDocument{Version: d.Version, Collections: make(map[string]map[string]string, len(d.Collections))}
	for name, props := range d.Collections {
		copied := make(map[string]string, len(props))
		for k, v := range props {
			copied[k] = v
		}
		c.Collections[name] = copied
	}
	return c
}

// NewFileStore creates a store persisted at path.
func NewFileStore(fs filesystem.FileSystem, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Path returns the location of the settings document.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) CollectionExists(collection string) (bool, error) {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return false, err
	}
	if err := s.load(); err != nil {
		return false, err
	}

	_, ok := s.doc.Collections[collection]
	return ok, nil
}

func (s *FileStore) CreateCollection(collection string) error {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return err
	}
	if err := s.load(); err != nil {
		return err
	}

	return s.mutate(func() bool {
		changed := false
		for _, c := range append(ancestors(collection), collection) {
			if _, ok := s.doc.Collections[c]; !ok {
				s.doc.Collections[c] = map[string]string{}
				changed = true
			}
		}
		return changed
	})
}

func (s *FileStore) DeleteCollection(collection string) error {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return err
	}
	if err := s.load(); err != nil {
		return err
	}

	return s.mutate(func() bool {
		changed := false
		for c := range s.doc.Collections {
			if isWithin(c, collection) {
				delete(s.doc.Collections, c)
				changed = true
			}
		}
		return changed
	})
}

func (s *FileStore) PropertyExists(collection, key string) (bool, error) {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return false, err
	}
	if err := s.load(); err != nil {
		return false, err
	}

	props, ok := s.doc.Collections[collection]
	if !ok {
		return false, nil
	}
	_, ok = props[key]
	return ok, nil
}

func (s *FileStore) GetString(collection, key string) (string, error) {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return "", err
	}
	if err := s.load(); err != nil {
		return "", err
	}

	props, ok := s.doc.Collections[collection]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	value, ok := props[key]
	if !ok {
		return "", fmt.Errorf("%w: %s[%s]", ErrPropertyNotFound, collection, key)
	}
	return value, nil
}

func (s *FileStore) SetString(collection, key, value string) error {
	collection, err := normalizeCollection(collection)
	if err != nil {
		return err
	}
	if err := s.load(); err != nil {
		return err
	}

	if _, ok := s.doc.Collections[collection]; !ok {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	return s.mutate(func() bool {
		s.doc.Collections[collection][key] = value
		return true
	})
}

// Batch applies the mutations fn makes with a single write. When fn or the
// write fails, the document is restored and nothing is written.
func (s *FileStore) Batch(fn func() error) error {
	if s.batching {
		return fn()
	}
	if err := s.load(); err != nil {
		return err
	}

	snapshot := s.doc.clone()
	s.batching = true
	err := fn()
	s.batching = false
	if err == nil {
		err = s.save()
	}
	if err != nil {
		s.doc = snapshot
		return err
	}
	return nil
}

// mutate applies change and persists the document unless a batch is open.
// change reports whether it modified anything.
func (s *FileStore) mutate(change func() bool) error {
	if s.batching {
		change()
		return nil
	}

	snapshot := s.doc.clone()
	if !change() {
		return nil
	}
	if err := s.save(); err != nil {
		s.doc = snapshot
		return err
	}
	return nil
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}

	s.doc = fileDocument{Version: fileStoreVersion, Collections: map[string]map[string]string{}}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", s.path, err)
	}
	if doc.Version > fileStoreVersion {
		return fmt.Errorf("unsupported settings file version %d; expected %d", doc.Version, fileStoreVersion)
	}
	for name, props := range doc.Collections {
		if props == nil {
			props = map[string]string{}
		}
		s.doc.Collections[name] = props
	}

	s.loaded = true
	return nil
}

func (s *FileStore) save() error {
	data, err := yaml.Marshal(&s.doc)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if !s.fs.Exists(dir) {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	suffix, err := gonanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 8)
	if err != nil {
		return fmt.Errorf("failed to generate temp file name: %w", err)
	}
	tmp := s.path + ".tmp-" + suffix

	if err := s.fs.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	return nil
}
