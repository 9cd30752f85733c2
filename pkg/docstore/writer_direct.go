package docstore

import (
	"os"
	"sync"
)

// directWriter is a mutex-guarded handle used only during bucket
// initialization to write the header page and seed the initial cursor.
// It is never used on the hot insert path; once a bucket is running,
// all writes to the data region and cursor slot go through the
// [queuedWriter].
type directWriter struct {
	mu sync.Mutex
	f  *os.File
}

func newDirectWriter(f *os.File) *directWriter {
	return &directWriter{f: f}
}

// writeCursor overwrites the cursor slot while holding the writer's
// mutex, used once right after [initBucketPage] has built the rest of
// the header page.
func (w *directWriter) writeCursor(pageSize, cursor uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return writeCursorSlot(w.f, pageSize, cursor)
}
