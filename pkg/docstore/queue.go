package docstore

import "sync/atomic"

// insertJob is one producer's pending write: the byte range it reserved
// in the file and the fully encoded, padded record to place there.
type insertJob struct {
	start uint64
	end   uint64
	bytes []byte
}

// queueCapacity is the bounded MPMC queue's fixed size. Past this many
// un-drained jobs, producers observe [ErrQueueFull] rather than
// blocking — there is no back-pressure beyond this signal.
const queueCapacity = 10000

// mpmcQueue is a bounded, lock-free, multi-producer/multi-consumer
// queue of [insertJob]. None of the example repos import a queue
// library for this, so it is built directly on sync/atomic using the
// classic Vyukov ring-buffer algorithm: each slot carries its own
// sequence number, letting producers and consumers claim slots with a
// single CompareAndSwap instead of a shared lock.
type mpmcQueue struct {
	mask     uint64
	capacity uint64
	slots    []mpmcSlot

	enqueuePos atomic.Uint64
	dequeuePos atomic.Uint64
	count      atomic.Int64 // outstanding items, gated against capacity
}

type mpmcSlot struct {
	seq  atomic.Uint64
	data insertJob
}

// newMPMCQueue builds a queue that admits at most capacity outstanding
// items. The backing ring is sized to the next power of two at or
// above capacity, since the ring-buffer algorithm needs a power-of-two
// size for its mask-based indexing, but admission is gated on a
// separate logical counter so the queue's observable capacity is
// exactly the requested value, never the rounded-up ring size.
func newMPMCQueue(capacity int) *mpmcQueue {
	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}

	q := &mpmcQueue{
		mask:     size - 1,
		capacity: uint64(capacity),
		slots:    make([]mpmcSlot, size),
	}
	for i := range q.slots {
		q.slots[i].seq.Store(uint64(i))
	}

	return q
}

// tryPush attempts to enqueue a job without blocking. Returns false if
// the queue already holds capacity outstanding items, which callers
// surface to the caller of Insert as [ErrQueueFull].
func (q *mpmcQueue) tryPush(job insertJob) bool {
	if q.count.Add(1) > int64(q.capacity) {
		q.count.Add(-1)
		return false
	}

	pos := q.enqueuePos.Load()

	for {
		slot := &q.slots[pos&q.mask]
		seq := slot.seq.Load()
		diff := int64(seq) - int64(pos)

		switch {
		case diff == 0:
			if q.enqueuePos.CompareAndSwap(pos, pos+1) {
				slot.data = job
				slot.seq.Store(pos + 1)
				return true
			}
			pos = q.enqueuePos.Load()
		case diff < 0:
			// The ring is always sized at or above capacity, so this
			// cannot happen while admission is gated by count above.
			q.count.Add(-1)
			return false
		default:
			pos = q.enqueuePos.Load()
		}
	}
}

// tryPop attempts to dequeue a job without blocking. Returns false if
// the queue is currently empty.
func (q *mpmcQueue) tryPop() (insertJob, bool) {
	pos := q.dequeuePos.Load()

	for {
		slot := &q.slots[pos&q.mask]
		seq := slot.seq.Load()
		diff := int64(seq) - int64(pos+1)

		switch {
		case diff == 0:
			if q.dequeuePos.CompareAndSwap(pos, pos+1) {
				job := slot.data
				slot.seq.Store(pos + q.mask + 1)
				q.count.Add(-1)
				return job, true
			}
			pos = q.dequeuePos.Load()
		case diff < 0:
			return insertJob{}, false
		default:
			pos = q.dequeuePos.Load()
		}
	}
}

// len reports an approximate current occupancy, used only to size a
// drain pass's target batch size; it is not synchronized
// against concurrent push/pop and is advisory.
func (q *mpmcQueue) len() int {
	n := q.count.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}
