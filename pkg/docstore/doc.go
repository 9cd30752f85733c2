// Package docstore implements an embedded, append-only document store.
//
// A database is a directory on disk holding one descriptor file and one
// or more bucket files. Each bucket holds a homogeneous collection of
// documents that conform to a user-declared schema. Inserts from many
// goroutines are coalesced by a single background writer per bucket into
// contiguous seek+write operations, while pooled readers observe an
// always-advancing tail offset without ever blocking producers.
//
// # File layout
//
//	<dir>/database.desc     DBDescriptor: page size + header size
//	<dir>/<bucket>.page     header page (descriptor + tail cursor) + records
//
// # Concurrency model
//
// Many goroutines may call [Bucket.Insert] concurrently; each insert only
// performs an atomic fetch-add and a lock-free enqueue, so producers never
// block on I/O. A single background goroutine per bucket drains the queue,
// sorts by offset, coalesces adjacent runs, and persists them. Readers
// pulled from [Bucket]'s reader pool never block on the writer.
//
// # Non-goals
//
// No query language, no secondary indexes, no explicit flush/fsync
// contract, no deletion or in-place update, no cross-bucket transactions,
// no crash recovery beyond the natural append-log scan. [Bucket.Find] and
// [Bucket.Drop] always return [ErrUnimplemented].
package docstore
