package history

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/settings"
	"github.com/stretchr/testify/require"
)

func newSettings(t *testing.T) settings.Store {
	t.Helper()
	return settings.NewFileStore(filesystem.NewMockFileSystem(), "/home/dev/.config/debugargs/settings.yaml")
}

// failingStore fails every SetString after the collection has been recreated.
type failingStore struct {
	settings.Store
	err error
}

func (s *failingStore) SetString(collection, key, value string) error {
	return s.err
}

func persisted(t *testing.T, store settings.Store) []string {
	t.Helper()

	var values []string
	for i := 0; ; i++ {
		value, err := store.GetString(DefaultCollection, strconv.Itoa(i))
		if errors.Is(err, settings.ErrPropertyNotFound) {
			return values
		}
		require.NoError(t, err)
		values = append(values, value)
	}
}

func TestLoad_MissingCollection(t *testing.T) {
	h := New(newSettings(t))

	list, err := h.Load()
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestLoad_StopsAtFirstGap(t *testing.T) {
	store := newSettings(t)
	require.NoError(t, store.CreateCollection(DefaultCollection))
	require.NoError(t, store.SetString(DefaultCollection, "0", "a"))
	require.NoError(t, store.SetString(DefaultCollection, "1", "b"))
	require.NoError(t, store.SetString(DefaultCollection, "3", "d"))

	list, err := New(store).Load()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, list)
}

func TestLoad_ReadsAtMostMaxCount(t *testing.T) {
	store := newSettings(t)
	require.NoError(t, store.CreateCollection(DefaultCollection))
	for i := 0; i < 5; i++ {
		require.NoError(t, store.SetString(DefaultCollection, strconv.Itoa(i), fmt.Sprintf("-%d", i)))
	}

	list, err := New(store, WithMaxCount(3)).Load()
	require.NoError(t, err)
	require.Equal(t, []string{"-0", "-1", "-2"}, list)
}

func TestLoad_EmptyCollection(t *testing.T) {
	store := newSettings(t)
	require.NoError(t, store.CreateCollection(DefaultCollection))

	list, err := New(store).Load()
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestPromote_InsertsAtFront(t *testing.T) {
	store := newSettings(t)
	h := New(store)

	_, err := h.Promote("-a")
	require.NoError(t, err)
	list, err := h.Promote("-b")
	require.NoError(t, err)

	require.Equal(t, []string{"-b", "-a"}, list)
	require.Equal(t, []string{"-b", "-a"}, persisted(t, store))
}

func TestPromote_MovesExistingEntryToFront(t *testing.T) {
	store := newSettings(t)
	h := New(store)

	for _, v := range []string{"-c", "-b", "-a"} {
		_, err := h.Promote(v)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"-a", "-b", "-c"}, h.CurrentList())

	list, err := h.Promote("-c")
	require.NoError(t, err)
	require.Equal(t, []string{"-c", "-a", "-b"}, list)
	require.Equal(t, []string{"-c", "-a", "-b"}, persisted(t, store))
}

func TestPromote_SameValueTwiceKeepsOneEntry(t *testing.T) {
	h := New(newSettings(t))

	_, err := h.Promote("--foo")
	require.NoError(t, err)
	list, err := h.Promote("--foo")
	require.NoError(t, err)

	require.Equal(t, []string{"--foo"}, list)
}

func TestPromote_EvictsFromTail(t *testing.T) {
	store := newSettings(t)
	h := New(store)

	for i := 1; i <= 15; i++ {
		_, err := h.Promote(fmt.Sprintf("-x%d", i))
		require.NoError(t, err)
	}
	require.Len(t, h.CurrentList(), 15)

	list, err := h.Promote("-y")
	require.NoError(t, err)
	require.Len(t, list, 15)
	require.Equal(t, "-y", list[0])
	require.Equal(t, "-x15", list[1])
	require.Equal(t, "-x2", list[14])
	require.NotContains(t, list, "-x1")

	require.Equal(t, list, persisted(t, store))
}

func TestPromote_ArbitrarySequence(t *testing.T) {
	h := New(newSettings(t), WithMaxCount(4))

	for _, v := range []string{"a", "b", "a", "c", "d", "e", "b", "b", "f", "a"} {
		list, err := h.Promote(v)
		require.NoError(t, err)
		require.Equal(t, v, list[0])
		require.LessOrEqual(t, len(list), 4)

		seen := map[string]bool{}
		for _, e := range list {
			require.False(t, seen[e], "duplicate %q in %v", e, list)
			seen[e] = true
		}
	}
	require.Equal(t, []string{"a", "f", "b", "e"}, h.CurrentList())
}

func TestPromote_EmptyString(t *testing.T) {
	store := newSettings(t)
	h := New(store)

	list, err := h.Promote("")
	require.NoError(t, err)
	require.Equal(t, []string{""}, list)

	reloaded, err := New(store).Load()
	require.NoError(t, err)
	require.Equal(t, []string{""}, reloaded)
}

func TestPromote_PersistenceErrorPropagates(t *testing.T) {
	h := New(&failingStore{Store: newSettings(t), err: errors.New("access denied")})

	list, err := h.Promote("--foo")
	require.Error(t, err)
	require.Contains(t, err.Error(), "access denied")
	require.Equal(t, []string{"--foo"}, list)
	require.Equal(t, []string{"--foo"}, h.CurrentList())
}

func TestPromote_FileWriteErrorPropagates(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.WriteFileError = errors.New("disk full")
	h := New(settings.NewFileStore(fs, "/home/dev/.config/debugargs/settings.yaml"))

	_, err := h.Promote("--foo")
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
}

func TestPromote_FailedWriteKeepsStoredList(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	store := settings.NewFileStore(fs, "/home/dev/.config/debugargs/settings.yaml")
	h := New(store)
	_, err := h.Promote("-a")
	require.NoError(t, err)

	fs.WriteFileError = errors.New("disk full")
	list, err := h.Promote("-b")
	require.Error(t, err)
	require.Equal(t, []string{"-b", "-a"}, list)
	fs.WriteFileError = nil

	stored, err := New(store).Load()
	require.NoError(t, err)
	require.Equal(t, []string{"-a"}, stored)
}

func TestRoundTripAcrossSessions(t *testing.T) {
	store := newSettings(t)

	first := New(store)
	for _, v := range []string{"-a", "-b", "-c"} {
		_, err := first.Promote(v)
		require.NoError(t, err)
	}
	first.Reset()
	require.Empty(t, first.CurrentList())

	second := New(store)
	list, err := second.Load()
	require.NoError(t, err)
	require.Equal(t, []string{"-c", "-b", "-a"}, list)
}

func TestClear(t *testing.T) {
	store := newSettings(t)
	h := New(store)
	_, err := h.Promote("-a")
	require.NoError(t, err)

	require.NoError(t, h.Clear())
	require.Empty(t, h.CurrentList())

	exists, err := store.CollectionExists(DefaultCollection)
	require.NoError(t, err)
	require.True(t, exists)
	require.Empty(t, persisted(t, store))
}

func TestCurrentList_ReturnsCopy(t *testing.T) {
	h := New(newSettings(t))
	_, err := h.Promote("-a")
	require.NoError(t, err)

	list := h.CurrentList()
	list[0] = "mutated"
	require.Equal(t, []string{"-a"}, h.CurrentList())
}

func TestNew_Options(t *testing.T) {
	h := New(newSettings(t), WithMaxCount(0), WithCollection(`Tool\Recent`))
	require.Equal(t, DefaultMaxCount, h.MaxCount())
	require.Equal(t, `Tool\Recent`, h.Collection())

	require.Equal(t, 3, New(newSettings(t), WithMaxCount(3)).MaxCount())
}
