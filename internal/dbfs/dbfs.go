// Package dbfs provides the directory-lifecycle operations a
// docstore.Database needs (create-if-missing, enumerate bucket files)
// behind an interface, so those directory operations can be tested
// against a fake filesystem. The descriptor and bucket files themselves
// are not accessed through this interface.
package dbfs

import "os"

// FS is the subset of filesystem operations a database directory needs.
// Paths use OS semantics, not slash-separated io/fs paths.
type FS interface {
	// Stat returns file info, or an error satisfying os.IsNotExist if
	// path does not exist.
	Stat(path string) (os.FileInfo, error)

	// MkdirAll creates a directory and all parents. No error if it
	// already exists.
	MkdirAll(path string, perm os.FileMode) error

	// ReadDir reads a directory's entries, sorted by name.
	ReadDir(path string) ([]os.DirEntry, error)
}

// Real implements FS using the real filesystem. All methods are pure
// passthroughs to the os package.
type Real struct{}

// NewReal returns a new Real filesystem.
func NewReal() *Real { return &Real{} }

func (Real) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }

func (Real) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (Real) ReadDir(path string) ([]os.DirEntry, error) { return os.ReadDir(path) }

// Exists reports whether path exists. Returns (false, nil) if not
// found, (false, err) on other stat errors.
func Exists(fsys FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ListBucketFiles returns the base names (without the .page extension)
// of every bucket file directly inside dir.
func ListBucketFiles(fsys FS, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	const ext = ".page"
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			names = append(names, name[:len(name)-len(ext)])
		}
	}

	return names, nil
}

var _ FS = (*Real)(nil)
