//go:build !unix

package docstore

// osPageSize falls back to the common 4096-byte page size on
// non-unix platforms, where golang.org/x/sys/unix's Getpagesize is
// unavailable. See DESIGN.md for why this fallback is stdlib-only.
func osPageSize() int {
	return 4096
}

// freeBytes has no portable statfs equivalent outside unix; it reports
// an effectively unbounded value so the free-space check never blocks
// bucket initialization on these platforms. See DESIGN.md.
func freeBytes(path string) (uint64, error) {
	return 1 << 62, nil
}
