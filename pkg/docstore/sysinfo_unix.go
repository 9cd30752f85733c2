//go:build unix

package docstore

import "golang.org/x/sys/unix"

// osPageSize returns the operating system's memory page size.
func osPageSize() int {
	return unix.Getpagesize()
}

// freeBytes returns the number of bytes free on the filesystem holding
// path, via statfs.
func freeBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}
