package docstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MPMCQueue_Push_Pop_Preserves_Jobs(t *testing.T) {
	t.Parallel()

	q := newMPMCQueue(4)

	require.True(t, q.tryPush(insertJob{start: 1}))
	require.True(t, q.tryPush(insertJob{start: 2}))

	j1, ok := q.tryPop()
	require.True(t, ok)
	assert.Equal(t, uint64(1), j1.start)

	j2, ok := q.tryPop()
	require.True(t, ok)
	assert.Equal(t, uint64(2), j2.start)

	_, ok = q.tryPop()
	assert.False(t, ok)
}

func Test_MPMCQueue_Full_Rejects_Push(t *testing.T) {
	t.Parallel()

	q := newMPMCQueue(2) // rounds up to 2, a power of two

	require.True(t, q.tryPush(insertJob{start: 1}))
	require.True(t, q.tryPush(insertJob{start: 2}))
	assert.False(t, q.tryPush(insertJob{start: 3}))
}

func Test_MPMCQueue_Rejects_Push_At_Exact_Capacity_Not_Rounded_Ring_Size(t *testing.T) {
	t.Parallel()

	// 5 is not a power of two, so the backing ring is rounded up to 8
	// slots internally. Admission must still stop at exactly 5.
	q := newMPMCQueue(5)

	for i := 0; i < 5; i++ {
		require.True(t, q.tryPush(insertJob{start: uint64(i)}), "push %d should succeed", i)
	}
	assert.False(t, q.tryPush(insertJob{start: 5}), "6th push should be rejected at capacity 5")

	_, ok := q.tryPop()
	require.True(t, ok)
	assert.True(t, q.tryPush(insertJob{start: 6}), "a push after a pop should succeed again")
}

func Test_MPMCQueue_Matches_Production_Capacity_Constant(t *testing.T) {
	t.Parallel()

	q := newMPMCQueue(queueCapacity)

	for i := 0; i < queueCapacity; i++ {
		require.True(t, q.tryPush(insertJob{start: uint64(i)}), "push %d should succeed", i)
	}
	assert.False(t, q.tryPush(insertJob{start: queueCapacity}), "the 10001-st push should be rejected")
}

func Test_MPMCQueue_Concurrent_Producers_Never_Lose_Or_Duplicate_Jobs(t *testing.T) {
	t.Parallel()

	const n = 2000
	q := newMPMCQueue(n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(start uint64) {
			defer wg.Done()
			for !q.tryPush(insertJob{start: start}) {
			}
		}(uint64(i))
	}
	wg.Wait()

	seen := make(map[uint64]bool, n)
	for i := 0; i < n; i++ {
		job, ok := q.tryPop()
		require.True(t, ok)
		assert.False(t, seen[job.start], "duplicate job for start=%d", job.start)
		seen[job.start] = true
	}

	assert.Len(t, seen, n)
}
