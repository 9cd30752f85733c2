package docstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_QueuedWriter_Enqueue_Returns_ErrQueueFull_At_Capacity exercises the
// same enqueue path Bucket.Insert calls, at the production queueCapacity,
// with the drain goroutine deliberately never started so the queue is
// guaranteed to still hold everything pushed to it.
func Test_QueuedWriter_Enqueue_Returns_ErrQueueFull_At_Capacity(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "queue-full-*.page")
	require.NoError(t, err)
	defer f.Close()

	w := &queuedWriter{
		f:        f,
		pageSize: 4096,
		queue:    newMPMCQueue(queueCapacity),
		wake:     newBooleanSemaphore(),
		done:     make(chan struct{}),
		tail:     &atomicOffset{},
	}

	for i := 0; i < queueCapacity; i++ {
		require.NoError(t, w.enqueue(insertJob{start: uint64(i), end: uint64(i) + 1}), "enqueue %d", i)
	}

	err = w.enqueue(insertJob{start: queueCapacity, end: queueCapacity + 1})
	assert.ErrorIs(t, err, ErrQueueFull)
}
