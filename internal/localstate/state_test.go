package localstate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdg312/diet-planner/internal/profiles"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "state.yaml"))
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, State{}, st)

	_, err = s.Handle()
	assert.ErrorIs(t, err, ErrNoHandle)
}

func TestLoginWhoamiLogout(t *testing.T) {
	s := newTestStore(t)

	handle, err := s.Login("  Ana ")
	require.NoError(t, err)
	assert.Equal(t, "ana", handle)

	got, err := s.Handle()
	require.NoError(t, err)
	assert.Equal(t, "ana", got)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "handle: ana")
	assert.Contains(t, string(raw), "2024-06-15T09:00:00Z")

	require.NoError(t, s.Clear())
	_, err = s.Handle()
	assert.ErrorIs(t, err, ErrNoHandle)

	// second clear is a no-op
	assert.NoError(t, s.Clear())
}

func TestLoginKeepsOtherFields(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(State{Handle: "bob", APIURL: "http://localhost:8080"}))

	_, err := s.Login("ana")
	require.NoError(t, err)

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "ana", st.Handle)
	assert.Equal(t, "http://localhost:8080", st.APIURL)
}

func TestLoginRejectsInvalidHandle(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Login("   ")
	assert.ErrorIs(t, err, profiles.ErrEmptyHandle)

	_, err = s.Login("a/b")
	assert.ErrorIs(t, err, profiles.ErrInvalidHandle)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadCorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("handle: [unterminated"), 0o600))

	_, err := s.Load()
	assert.Error(t, err)
}
