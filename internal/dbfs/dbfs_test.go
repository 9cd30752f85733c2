package dbfs_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/noxdb/internal/dbfs"
)

// fakeFS is an in-memory stand-in for dbfs.FS, so Exists/ListBucketFiles
// can be tested without touching disk.
type fakeFS struct {
	dirs    map[string]bool
	entries map[string][]fakeDirEntry
}

type fakeDirEntry struct {
	name  string
	isDir bool
}

func (e fakeDirEntry) Name() string              { return e.name }
func (e fakeDirEntry) IsDir() bool                { return e.isDir }
func (e fakeDirEntry) Type() os.FileMode          { return 0 }
func (e fakeDirEntry) Info() (os.FileInfo, error) { return nil, nil }

func (f *fakeFS) Stat(path string) (os.FileInfo, error) {
	if f.dirs[path] {
		return nil, nil
	}
	return nil, os.ErrNotExist
}

func (f *fakeFS) MkdirAll(path string, perm os.FileMode) error {
	f.dirs[path] = true
	return nil
}

func (f *fakeFS) ReadDir(path string) ([]os.DirEntry, error) {
	entries := f.entries[path]
	out := make([]os.DirEntry, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out, nil
}

func Test_Exists_Reports_False_For_Missing_Path(t *testing.T) {
	t.Parallel()

	fsys := &fakeFS{dirs: map[string]bool{}}
	exists, err := dbfs.Exists(fsys, "/nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_Exists_Reports_True_For_Present_Path(t *testing.T) {
	t.Parallel()

	fsys := &fakeFS{dirs: map[string]bool{"/db": true}}
	exists, err := dbfs.Exists(fsys, "/db")
	require.NoError(t, err)
	assert.True(t, exists)
}

func Test_ListBucketFiles_Strips_Extension_And_Skips_Non_Page_Entries(t *testing.T) {
	t.Parallel()

	fsys := &fakeFS{
		entries: map[string][]fakeDirEntry{
			"/db": {
				{name: "accounts.page"},
				{name: "widgets.page"},
				{name: "database.desc"},
				{name: "subdir", isDir: true},
			},
		},
	}

	names, err := dbfs.ListBucketFiles(fsys, "/db")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"accounts", "widgets"}, names)
}
