package workspace

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "workspace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFileStateRoundTrip(t *testing.T) {
	s := openTestStore(t)

	st, err := s.FileState("/tmp/level.dat")
	require.NoError(t, err)
	require.Nil(t, st, "unknown path should return nil state")

	saved := &FileState{
		Path:       "/tmp/level.dat",
		ScrollRow:  42,
		Expanded:   []string{"0", "0/3", "0/3/1"},
		LastOpened: time.Now().Truncate(time.Second),
	}
	require.NoError(t, s.SaveFileState(saved))

	st, err = s.FileState("/tmp/level.dat")
	require.NoError(t, err)
	require.NotNil(t, st)
	require.Equal(t, saved.ScrollRow, st.ScrollRow)
	require.Equal(t, saved.Expanded, st.Expanded)
	require.True(t, saved.LastOpened.Equal(st.LastOpened))

	saved.ScrollRow = 7
	require.NoError(t, s.SaveFileState(saved))
	st, err = s.FileState("/tmp/level.dat")
	require.NoError(t, err)
	require.Equal(t, 7, st.ScrollRow)

	require.NoError(t, s.ForgetFileState("/tmp/level.dat"))
	st, err = s.FileState("/tmp/level.dat")
	require.NoError(t, err)
	require.Nil(t, st)
}

func TestBackupDeduplication(t *testing.T) {
	s := openTestStore(t)
	content := []byte("nbt document bytes")

	sum1, err := s.SaveBackup("/world/r.0.0.mca", content)
	require.NoError(t, err)
	sum2, err := s.SaveBackup("/world/r.0.0.mca", append([]byte(nil), content...))
	require.NoError(t, err)
	require.Equal(t, sum1, sum2, "identical content must hash identically")

	blob, info, err := s.Backup(sum1)
	require.NoError(t, err)
	require.Equal(t, content, blob)
	require.NotNil(t, info)
	require.Equal(t, "/world/r.0.0.mca", info.Path)
	require.Equal(t, len(content), info.Size)
	require.Equal(t, sum1, info.Sum)

	blob, info, err = s.Backup(sum1 ^ 0xdeadbeef)
	require.NoError(t, err)
	require.Nil(t, blob)
	require.Nil(t, info)
}

func TestBackupsByPath(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SaveBackup("/a", []byte("one"))
	require.NoError(t, err)
	_, err = s.SaveBackup("/a", []byte("two"))
	require.NoError(t, err)
	_, err = s.SaveBackup("/b", []byte("three"))
	require.NoError(t, err)

	backups, err := s.Backups("/a")
	require.NoError(t, err)
	require.Len(t, backups, 2)
	for _, info := range backups {
		require.Equal(t, "/a", info.Path)
		blob, _, err := s.Backup(info.Sum)
		require.NoError(t, err)
		require.Equal(t, info.Size, len(blob))
	}

	backups, err = s.Backups("/missing")
	require.NoError(t, err)
	require.Empty(t, backups)
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveFileState(&FileState{Path: "/x", ScrollRow: 3}))
	sum, err := s.SaveBackup("/x", []byte("payload"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	st, err := s.FileState("/x")
	require.NoError(t, err)
	require.NotNil(t, st)
	require.Equal(t, 3, st.ScrollRow)
	blob, _, err := s.Backup(sum)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), blob)
}
