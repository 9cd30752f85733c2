package docstore

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"
	"time"
)

// drainBatchMin is the minimum number of jobs a drain pass attempts to
// pull per iteration when the queue holds fewer than that many jobs.
const drainBatchMin = 25

// pollInterval is how long the consumer sleeps between drains when no
// wake-up signal is available to wait on; it bounds staleness when a
// signal is somehow missed.
const pollInterval = 20 * time.Nanosecond

// queuedWriter is the single background goroutine per bucket that
// drains the insert queue, sorts and coalesces contiguous runs, and
// persists them with as few seek+write pairs as possible.
type queuedWriter struct {
	f        *os.File
	pageSize uint64

	queue   *mpmcQueue
	wake    *booleanSemaphore
	exit    atomicFlag
	done    chan struct{}
	items   atomic.Int64 // pending job count, the only exposed drain barrier
	lastErr atomicError
	tail    *atomicOffset
}

// newQueuedWriter starts the background drain goroutine and returns a
// handle for producers and for shutdown.
func newQueuedWriter(f *os.File, pageSize uint64, tail *atomicOffset) *queuedWriter {
	w := &queuedWriter{
		f:        f,
		pageSize: pageSize,
		queue:    newMPMCQueue(queueCapacity),
		wake:     newBooleanSemaphore(),
		done:     make(chan struct{}),
		tail:     tail,
	}

	go w.run()

	return w
}

// enqueue pushes the job onto the bounded queue and signals the
// consumer. Returns [ErrQueueFull] if the queue is saturated.
func (w *queuedWriter) enqueue(job insertJob) error {
	if !w.queue.tryPush(job) {
		return ErrQueueFull
	}
	w.items.Add(1)
	w.wake.signal()
	return nil
}

// stop signals the consumer to drain whatever remains and exit, then
// blocks until it has.
func (w *queuedWriter) stop() {
	w.exit.set(true)
	w.wake.signal()
	<-w.done
}

func (w *queuedWriter) lastError() error {
	return w.lastErr.get()
}

// pendingItems returns the number of enqueued jobs not yet persisted,
// the only barrier exposed for observing on-disk durability.
func (w *queuedWriter) pendingItems() uint64 {
	return uint64(w.items.Load())
}

// run is the consumer loop: drain, sort, coalesce, flush, repeat until
// told to exit with an empty queue.
func (w *queuedWriter) run() {
	defer close(w.done)

	batch := make([]insertJob, 0, drainBatchMin)

	for {
		exiting := w.exit.get()

		batch = batch[:0]
		target := w.queue.len()
		if target < drainBatchMin {
			target = drainBatchMin
		}

		for len(batch) < target {
			job, ok := w.queue.tryPop()
			if !ok {
				break
			}
			batch = append(batch, job)
		}

		if len(batch) == 0 {
			if exiting {
				return
			}

			select {
			case <-w.wake.wait():
			case <-time.After(pollInterval):
			}
			continue
		}

		if err := w.flush(batch); err != nil {
			w.lastErr.set(err)
		}
		w.items.Add(-int64(len(batch)))

		if exiting {
			// Loop again: stop() only signals, it doesn't guarantee the
			// queue was empty at the moment of the signal.
			continue
		}
	}
}

// flush sorts the drained batch by start offset, coalesces contiguous
// runs into single seek+write operations, then updates the cursor slot
// once to the maximum end offset observed in this pass rather than
// after every chunk, which would let the cursor regress when a drain
// pass flushes multiple non-contiguous chunks out of order.
func (w *queuedWriter) flush(batch []insertJob) error {
	sort.Slice(batch, func(i, j int) bool { return batch[i].start < batch[j].start })

	var maxEnd uint64

	chunkStart := batch[0].start
	chunkBytes := append([]byte(nil), batch[0].bytes...)
	lastEnd := batch[0].end
	if lastEnd > maxEnd {
		maxEnd = lastEnd
	}

	flushChunk := func(start uint64, data []byte) error {
		if _, err := w.f.WriteAt(data, int64(start)); err != nil {
			return fmt.Errorf("docstore: %w: write chunk at %d: %w", ErrIoFailure, start, err)
		}
		return nil
	}

	for _, job := range batch[1:] {
		if job.end > maxEnd {
			maxEnd = job.end
		}

		if job.start == lastEnd {
			chunkBytes = append(chunkBytes, job.bytes...)
			lastEnd = job.end
			continue
		}

		if err := flushChunk(chunkStart, chunkBytes); err != nil {
			return err
		}

		chunkStart = job.start
		chunkBytes = append([]byte(nil), job.bytes...)
		lastEnd = job.end
	}

	if err := flushChunk(chunkStart, chunkBytes); err != nil {
		return err
	}

	if err := writeCursorSlot(w.f, w.pageSize, maxEnd); err != nil {
		return err
	}

	if cur := w.tail.load(); maxEnd > cur {
		// The in-memory offset was already advanced synchronously by the
		// producer's fetch-add before the job was ever enqueued; this only guards against
		// a flush pass somehow observing a higher end than the producer
		// side ever set, which should not happen but must not regress
		// the counter if it did.
		w.tail.set(maxEnd)
	}

	return nil
}
