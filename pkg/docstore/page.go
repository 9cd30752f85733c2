package docstore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// minFreeBytes is the minimum free filesystem space required to
// initialize a new bucket page.
const minFreeBytes = 1 << 20 // 1 MiB

// cursorSlotReserve is the width reserved for the tail cursor at the end
// of the header page. Only the first 8 bytes are used; the remaining 8
// are left for a future second counter.
const cursorSlotReserve = 16

// encodeBucketDescription serializes a schema using gob, the stdlib's
// self-describing binary codec, a natural fit here since it produces a
// compact length-implied encoding of a plain struct without needing a
// separate schema registry.
func encodeBucketDescription(b *BucketDescription) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, fmt.Errorf("docstore: %w: encode schema: %w", ErrCodecFailure, err)
	}
	return buf.Bytes(), nil
}

func decodeBucketDescription(data []byte) (*BucketDescription, error) {
	var b BucketDescription
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&b); err != nil {
		return nil, fmt.Errorf("docstore: %w: decode schema: %w", ErrCodecFailure, err)
	}
	return &b, nil
}

// initBucketPage builds a freshly created bucket file's header page: the
// free-space check, then the length-prefixed zero-padded schema. It
// leaves the cursor slot zeroed; the caller is responsible for setting
// the initial cursor once the file is open, via [directWriter.writeCursor].
//
// The descriptor portion is written in one shot with [atomic.WriteFile]
// since this only happens once, at bucket creation, never on the append
// hot path.
func initBucketPage(path string, pageSize uint64, schema *BucketDescription) error {
	// path does not exist yet — this function is what creates it — so
	// the free-space check runs against its containing directory instead.
	free, err := freeBytes(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("docstore: %w: statfs %s: %w", ErrIoFailure, path, err)
	}
	if free < minFreeBytes {
		return fmt.Errorf("docstore: %w: %d bytes free, need %d", ErrInsufficientSpace, free, minFreeBytes)
	}

	enc, err := encodeBucketDescription(schema)
	if err != nil {
		return err
	}
	if uint64(len(enc)) > pageSize-2 {
		return fmt.Errorf("docstore: %w: schema encodes to %d bytes, page holds %d", ErrCodecFailure, len(enc), pageSize-2)
	}

	page := make([]byte, pageSize)
	binary.LittleEndian.PutUint16(page[0:2], uint16(len(enc)))
	copy(page[2:2+len(enc)], enc)

	if err := atomic.WriteFile(path, bytes.NewReader(page)); err != nil {
		return fmt.Errorf("docstore: %w: write %s: %w", ErrIoFailure, path, err)
	}

	return nil
}

// loadBucketPage reads an existing bucket file's header page, returning
// the decoded schema and the tail cursor stored in the cursor slot.
func loadBucketPage(f *os.File, pageSize uint64) (*BucketDescription, uint64, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("docstore: %w: seek %w", ErrIoFailure, err)
	}

	lenBuf := make([]byte, 2)
	if _, err := io.ReadFull(f, lenBuf); err != nil {
		return nil, 0, fmt.Errorf("docstore: %w: read schema length: %w", ErrIoFailure, err)
	}
	length := binary.LittleEndian.Uint16(lenBuf)

	enc := make([]byte, length)
	if _, err := io.ReadFull(f, enc); err != nil {
		return nil, 0, fmt.Errorf("docstore: %w: read schema body: %w", ErrIoFailure, err)
	}

	schema, err := decodeBucketDescription(enc)
	if err != nil {
		return nil, 0, err
	}

	cursorBuf := make([]byte, 8)
	if _, err := f.ReadAt(cursorBuf, int64(pageSize-cursorSlotReserve)); err != nil {
		return nil, 0, fmt.Errorf("docstore: %w: read cursor slot: %w", ErrIoFailure, err)
	}
	cursor := binary.LittleEndian.Uint64(cursorBuf)

	return schema, cursor, nil
}

// writeCursorSlot overwrites the tail-cursor slot in place. Used by both
// the direct writer (initialization) and the queued writer (after each
// drain pass flush).
func writeCursorSlot(f *os.File, pageSize uint64, cursor uint64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, cursor)
	if _, err := f.WriteAt(buf, int64(pageSize-cursorSlotReserve)); err != nil {
		return fmt.Errorf("docstore: %w: write cursor slot: %w", ErrIoFailure, err)
	}
	return nil
}
