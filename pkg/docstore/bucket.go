package docstore

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Logger is the diagnostic sink a [Bucket] accepts at construction. It
// is injected rather than imported so callers can wire it to whatever
// output stream they already use; when none is given, a [noopLogger] is
// stored. The background writer does not call it: write failures are
// recorded and exposed only through [Bucket.LastError].
type Logger interface {
	Printf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// Bucket is a single homogeneous collection of documents backed by one
// file on disk. A Bucket is cheap to pass around: all of its state is
// shared by reference, so copying a *Bucket value and using it from
// multiple goroutines is the intended usage.
type Bucket struct {
	name     string
	path     string
	pageSize uint64
	schema   *BucketDescription

	f       *os.File
	tail    atomicOffset
	readers *readerPool
	direct  *directWriter
	writer  *queuedWriter
	logger  Logger
}

// OpenBucketOptions configures [OpenBucket]'s behavior for a bucket file
// that does not yet exist.
type OpenBucketOptions struct {
	// Schema is required when the bucket file does not already exist.
	Schema *BucketDescription
	// Logger, if set, is stored on the bucket; see [Logger] for what
	// is and is not sent to it.
	Logger Logger
}

// OpenBucket opens or creates the bucket file at path. If the file does
// not exist, opts.Schema is required and is used to initialize a fresh
// header page; if it exists, the schema stored in the file is loaded
// and opts.Schema is ignored.
func OpenBucket(name, path string, pageSize uint64, opts OpenBucketOptions) (*Bucket, error) {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	if isNew {
		if opts.Schema == nil {
			return nil, fmt.Errorf("docstore: %w: bucket %q", ErrSchemaMissing, name)
		}
		if err := initBucketPage(path, pageSize, opts.Schema); err != nil {
			return nil, err
		}
	} else if statErr != nil {
		return nil, fmt.Errorf("docstore: %w: stat %s: %w", ErrIoFailure, path, statErr)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w: open %s: %w", ErrIoFailure, path, err)
	}

	direct := newDirectWriter(f)

	if isNew {
		if err := direct.writeCursor(pageSize, pageSize); err != nil {
			f.Close()
			return nil, err
		}
	}

	schema, cursor, err := loadBucketPage(f, pageSize)
	if err != nil {
		f.Close()
		return nil, err
	}

	b := &Bucket{
		name:     name,
		path:     path,
		pageSize: pageSize,
		schema:   schema,
		f:        f,
		direct:   direct,
		logger:   logger,
	}
	b.tail.set(cursor)

	readers, err := newReaderPool(path, pageSize, &b.tail)
	if err != nil {
		f.Close()
		return nil, err
	}
	b.readers = readers

	b.writer = newQueuedWriter(f, pageSize, &b.tail)

	return b, nil
}

// Schema returns the bucket's schema.
func (b *Bucket) Schema() *BucketDescription {
	return b.schema
}

// Insert encodes doc, reserves its byte range with a single atomic
// fetch-add so no two concurrent callers can compute overlapping
// offsets, and enqueues it for the background writer to persist. It
// returns the offset immediately following the newly reserved range and
// a placeholder document id, reserved for a future indexing feature and
// currently always all-zero.
//
// A successful return means the job is enqueued, not that it has
// reached disk; use [Bucket.PendingWrites] to observe when the
// background writer has caught up.
func (b *Bucket) Insert(doc *Document) (newOffset uint64, id [16]byte, err error) {
	body, err := encodeDocument(doc)
	if err != nil {
		return 0, id, err
	}

	padded := roundUp(8+uint64(len(body)), 8)
	record := make([]byte, padded)
	binary.LittleEndian.PutUint64(record, uint64(len(body)))
	copy(record[8:], body)

	start := b.tail.reserve(padded)
	end := start + padded

	if err := b.writer.enqueue(insertJob{start: start, end: end, bytes: record}); err != nil {
		return 0, id, err
	}

	return end, id, nil
}

// CountDocuments scans the bucket file from its data region forward,
// counting length-prefixed records until a short read at EOF. It
// reflects only what has actually reached disk, which may lag behind
// the in-memory tail offset while writes are queued.
func (b *Bucket) CountDocuments() (uint64, error) {
	h := b.readers.acquire()
	defer h.Release()

	return h.Get().countDocuments()
}

// CurrentTailOffset returns the in-memory atomic tail offset.
func (b *Bucket) CurrentTailOffset() uint64 {
	return b.tail.load()
}

// PendingWrites returns the number of enqueued inserts not yet
// persisted to disk.
func (b *Bucket) PendingWrites() uint64 {
	return b.writer.pendingItems()
}

// LastError returns the most recent error observed by the background
// writer, or nil if none has occurred.
func (b *Bucket) LastError() error {
	return b.writer.lastError()
}

// Find is reserved for a future query feature and always fails.
func (b *Bucket) Find(any) error {
	return fmt.Errorf("docstore: %w: Bucket.Find", ErrUnimplemented)
}

// Drop is reserved for a future deletion feature and always fails.
func (b *Bucket) Drop(any) error {
	return fmt.Errorf("docstore: %w: Bucket.Drop", ErrUnimplemented)
}

// Close stops the background writer (draining whatever remains queued),
// closes all pooled readers, and closes the underlying file handle.
func (b *Bucket) Close() error {
	b.writer.stop()
	b.readers.closeAll()
	return b.f.Close()
}
