package docstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
)

// headerRoom is the forward-compatibility padding added on top of the
// encoded DBDescriptor's fixed size, so a future field can be added to
// DBDescriptor without relayouting existing database directories.
const headerRoom = 1024

// DBDescriptor is the one-per-database record of the page size and
// header size every bucket in the directory was created with. It is
// written once, at database creation, and never rewritten.
type DBDescriptor struct {
	PageSize   uint64
	HeaderSize uint64
}

// dbDescriptorEncodedSize is the fixed wire size of a DBDescriptor: two
// little-endian uint64 fields.
const dbDescriptorEncodedSize = 16

// defaultDBDescriptor returns a DBDescriptor with a fixed 8192-byte page
// size, independent of the host's actual OS page size. Used by tests
// that need a reproducible layout across machines.
func defaultDBDescriptor() DBDescriptor {
	const pageSize = 8192
	return DBDescriptor{PageSize: pageSize, HeaderSize: dbDescriptorEncodedSize + headerRoom}
}

// dynamicDBDescriptor returns a DBDescriptor sized to the host's actual
// OS memory page size, captured once at database creation. This is what
// [Open] uses for a new database directory.
func dynamicDBDescriptor() DBDescriptor {
	pageSize := uint64(osPageSize())
	return DBDescriptor{PageSize: pageSize, HeaderSize: dbDescriptorEncodedSize + headerRoom}
}

// encode serializes a DBDescriptor to its fixed-size wire form.
func (d DBDescriptor) encode() []byte {
	buf := make([]byte, dbDescriptorEncodedSize)
	binary.LittleEndian.PutUint64(buf[0:8], d.PageSize)
	binary.LittleEndian.PutUint64(buf[8:16], d.HeaderSize)
	return buf
}

// decodeDBDescriptor parses the fixed-size wire form written by encode.
func decodeDBDescriptor(buf []byte) (DBDescriptor, error) {
	if len(buf) != dbDescriptorEncodedSize {
		return DBDescriptor{}, fmt.Errorf("docstore: %w: descriptor is %d bytes, want %d", ErrCodecFailure, len(buf), dbDescriptorEncodedSize)
	}
	return DBDescriptor{
		PageSize:   binary.LittleEndian.Uint64(buf[0:8]),
		HeaderSize: binary.LittleEndian.Uint64(buf[8:16]),
	}, nil
}

// saveDBDescriptor creates path exclusively — it fails if path already
// exists — pre-allocates header_size bytes, and writes the encoded
// length at offset 0 followed by the encoded descriptor starting at
// offset 16. The 8-byte gap between the length prefix and the payload
// is a deliberately preserved quirk of the format this store's layout
// was distilled from, not a bug; [loadDBDescriptor] mirrors it on read.
//
// The file is built in memory and committed with [atomic.WriteFile],
// since this write happens exactly once per database and is never on
// the append hot path.
func saveDBDescriptor(path string, d DBDescriptor) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("docstore: %w: %s already exists", ErrIoFailure, path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("docstore: %w: stat %s: %w", ErrIoFailure, path, err)
	}

	enc := d.encode()

	buf := make([]byte, d.HeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(len(enc)))
	copy(buf[16:16+len(enc)], enc)

	if err := atomic.WriteFile(path, bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("docstore: %w: write %s: %w", ErrIoFailure, path, err)
	}

	return nil
}

// loadDBDescriptor opens an existing descriptor file read/write, reads
// the uint64 LE length at offset 0, then reads that many bytes starting
// at offset 16 (skipping 8 bytes past the length field) and decodes
// them.
func loadDBDescriptor(path string) (DBDescriptor, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return DBDescriptor{}, fmt.Errorf("docstore: %w: %s", ErrPathNotFound, path)
		}
		return DBDescriptor{}, fmt.Errorf("docstore: %w: open %s: %w", ErrIoFailure, path, err)
	}
	defer f.Close()

	lenBuf := make([]byte, 8)
	if _, err := io.ReadFull(f, lenBuf); err != nil {
		return DBDescriptor{}, fmt.Errorf("docstore: %w: read length of %s: %w", ErrIoFailure, path, err)
	}
	length := binary.LittleEndian.Uint64(lenBuf)

	if _, err := f.Seek(16, io.SeekStart); err != nil {
		return DBDescriptor{}, fmt.Errorf("docstore: %w: seek %s: %w", ErrIoFailure, path, err)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(f, payload); err != nil {
		return DBDescriptor{}, fmt.Errorf("docstore: %w: read descriptor body of %s: %w", ErrIoFailure, path, err)
	}

	d, err := decodeDBDescriptor(payload)
	if err != nil {
		return DBDescriptor{}, fmt.Errorf("docstore: %w: decode %s: %w", ErrCodecFailure, path, err)
	}

	return d, nil
}
