package docstore

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/calvinalkan/noxdb/internal/dbfs"
)

// descriptorFileName is the fixed name of a database directory's
// DBDescriptor file.
const descriptorFileName = "database.desc"

// bucketFileExt is the fixed extension of a bucket's on-disk file.
const bucketFileExt = ".page"

// Database is an open document-store directory: one DBDescriptor plus a
// registry of open buckets. All methods are safe for concurrent use.
type Database struct {
	dir        string
	descriptor DBDescriptor
	logger     Logger
	fsys       dbfs.FS

	mu      sync.RWMutex
	buckets map[string]*Bucket
}

// Options configures [Open].
type Options struct {
	// PageSize overrides the page size used for a freshly created
	// database directory. Zero means use the host's OS memory page
	// size. Ignored when opening an existing directory, whose
	// DBDescriptor already fixes its page size.
	PageSize uint64
	// Logger, if set, is passed to each bucket opened through this
	// database; see [Logger] for what is and is not sent to it.
	Logger Logger
	// FS abstracts the directory-lifecycle operations (existence
	// check, creation, enumeration) Open and BucketNames perform.
	// Nil means the real filesystem, via [dbfs.NewReal]. The
	// descriptor file and bucket files are always read and written
	// through the os package, not through FS, so a fake FS does not
	// keep Open off the disk.
	FS dbfs.FS
}

// Open opens the database directory at dir, creating it (and a fresh
// DBDescriptor) if it does not exist. If dir exists but has no
// descriptor file, Open fails with [ErrPathNotFound].
func Open(dir string, opts Options) (*Database, error) {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = dbfs.NewReal()
	}

	descPath := filepath.Join(dir, descriptorFileName)

	dirExists, err := dbfs.Exists(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w: stat %s: %w", ErrIoFailure, dir, err)
	}

	var descriptor DBDescriptor

	if !dirExists {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("docstore: %w: mkdir %s: %w", ErrIoFailure, dir, err)
		}
		if opts.PageSize != 0 {
			descriptor = DBDescriptor{PageSize: opts.PageSize, HeaderSize: dbDescriptorEncodedSize + headerRoom}
		} else {
			descriptor = dynamicDBDescriptor()
		}
		if err := saveDBDescriptor(descPath, descriptor); err != nil {
			return nil, err
		}
	} else {
		d, err := loadDBDescriptor(descPath)
		if err != nil {
			return nil, err
		}
		descriptor = d
	}

	return &Database{
		dir:        dir,
		descriptor: descriptor,
		logger:     logger,
		fsys:       fsys,
		buckets:    make(map[string]*Bucket),
	}, nil
}

// BucketNames returns the names of every bucket file present in the
// database directory, discovered by enumerating the directory rather
// than consulting the in-memory registry — so it also reports buckets
// created by a previous process that this Database has not opened yet.
func (db *Database) BucketNames() ([]string, error) {
	return dbfs.ListBucketFiles(db.fsys, db.dir)
}

// Descriptor returns the database's DBDescriptor.
func (db *Database) Descriptor() DBDescriptor {
	return db.descriptor
}

// OpenBucket opens the bucket called name, creating its file and
// initializing its page with schema if it does not already exist.
// schema is required only for a bucket file that does not yet exist;
// it is ignored (the on-disk schema is used instead) when the file
// already exists. Once opened, the bucket is registered by name and
// subsequent calls to [Database.Insert] can address it.
func (db *Database) OpenBucket(name string, schema *BucketDescription) (*Bucket, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if b, ok := db.buckets[name]; ok {
		return b, nil
	}

	path := filepath.Join(db.dir, name+bucketFileExt)
	b, err := OpenBucket(name, path, db.descriptor.PageSize, OpenBucketOptions{Schema: schema, Logger: db.logger})
	if err != nil {
		return nil, err
	}

	db.buckets[name] = b

	return b, nil
}

// bucket looks up an already-open bucket by name.
func (db *Database) bucket(name string) (*Bucket, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	b, ok := db.buckets[name]
	if !ok {
		return nil, fmt.Errorf("docstore: %w: %q", ErrUnknownBucket, name)
	}

	return b, nil
}

// Converter turns a domain value into a [Document] ready to validate
// against a bucket's schema. Implementations live outside this package;
// see internal/fieldconv for a struct-tag-driven one.
type Converter interface {
	ToDocument() (*Document, error)
}

// Insert looks up bucketName (failing with [ErrUnknownBucket] if it is
// not open), converts value to a [Document] (failing with
// [ErrConversionFailed] if the conversion itself fails), validates the
// result against the bucket's schema, and delegates to the bucket's
// Insert. key is accepted for forward compatibility with a future
// keyed-lookup feature and is not otherwise used.
func (db *Database) Insert(bucketName string, key int64, value Converter) (newOffset uint64, id [16]byte, err error) {
	b, err := db.bucket(bucketName)
	if err != nil {
		return 0, id, err
	}

	doc, err := value.ToDocument()
	if err != nil {
		return 0, id, fmt.Errorf("docstore: %w: %w", ErrConversionFailed, err)
	}

	if err := b.schema.validate(doc); err != nil {
		return 0, id, err
	}

	return b.Insert(doc)
}

// Find is reserved for a future query feature and always fails.
func (db *Database) Find(bucketName string, query any) error {
	if _, err := db.bucket(bucketName); err != nil {
		return err
	}
	return fmt.Errorf("docstore: %w: Database.Find", ErrUnimplemented)
}

// Drop is reserved for a future deletion feature and always fails.
func (db *Database) Drop(bucketName string, query any) error {
	if _, err := db.bucket(bucketName); err != nil {
		return err
	}
	return fmt.Errorf("docstore: %w: Database.Drop", ErrUnimplemented)
}

// Close closes every open bucket.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var firstErr error
	for _, b := range db.buckets {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
