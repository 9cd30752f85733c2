package docstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
)

// reader owns a read-only file handle into a bucket file. It never
// blocks on the writer: [reader.tailOffset] consults the in-memory
// atomic counter when one is available, falling back to the on-disk
// cursor slot only when constructed standalone (outside a [Bucket]).
type reader struct {
	f         *os.File
	pageSize  uint64
	tailAtomc *atomicOffset // shared with the bucket; nil when standalone
}

// newReader opens path read-only for a pooled reader handle.
func newReader(path string, pageSize uint64, tail *atomicOffset) (*reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w: open %s: %w", ErrIoFailure, path, err)
	}
	return &reader{f: f, pageSize: pageSize, tailAtomc: tail}, nil
}

func (r *reader) close() error {
	return r.f.Close()
}

// tailOffset returns the current tail offset, preferring the shared
// in-memory atomic counter over a disk read.
func (r *reader) tailOffset() (uint64, error) {
	if r.tailAtomc != nil {
		return r.tailAtomc.load(), nil
	}

	buf := make([]byte, 8)
	if _, err := r.f.ReadAt(buf, int64(r.pageSize-cursorSlotReserve)); err != nil {
		return 0, fmt.Errorf("docstore: %w: read cursor slot: %w", ErrIoFailure, err)
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// countDocuments scans the file from pageSize forward, counting
// length-prefixed records until a short read at EOF. Each record's
// advance is the padded record size, 8+S rounded up to a multiple of 8,
// which is what keeps this in lockstep with where the writer actually
// placed the next record's length prefix.
func (r *reader) countDocuments() (uint64, error) {
	if _, err := r.f.Seek(int64(r.pageSize), io.SeekStart); err != nil {
		return 0, fmt.Errorf("docstore: %w: seek: %w", ErrIoFailure, err)
	}

	var count uint64
	lenBuf := make([]byte, 8)

	for {
		if _, err := io.ReadFull(r.f, lenBuf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, fmt.Errorf("docstore: %w: read record length: %w", ErrIoFailure, err)
		}

		s := binary.LittleEndian.Uint64(lenBuf)
		advance := roundUp(8+s, 8) - 8

		if _, err := r.f.Seek(int64(advance), io.SeekCurrent); err != nil {
			return 0, fmt.Errorf("docstore: %w: seek past record: %w", ErrIoFailure, err)
		}

		count++
	}

	return count, nil
}

// readerPool is a [pool] of [reader] handles sized to the number of CPU
// cores, so concurrent readers do not serialize on a single file
// handle.
type readerPool struct {
	p *pool[*reader]
}

// newReaderPool pre-opens one reader per CPU core.
func newReaderPool(path string, pageSize uint64, tail *atomicOffset) (*readerPool, error) {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}

	var openErr error
	p := newPool(n, func() *reader {
		if openErr != nil {
			return nil
		}
		rd, err := newReader(path, pageSize, tail)
		if err != nil {
			openErr = err
			return nil
		}
		return rd
	})
	if openErr != nil {
		return nil, openErr
	}

	return &readerPool{p: p}, nil
}

// acquire pulls a reader handle from the pool. Panics if every reader is
// already checked out, matching [pool.pull]'s programmer-error contract.
func (rp *readerPool) acquire() *reusable[*reader] {
	return rp.p.pull()
}

func (rp *readerPool) closeAll() {
	for !rp.p.isEmpty() {
		h := rp.p.pull()
		_ = h.Get().close()
	}
}
