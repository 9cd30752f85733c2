package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Pool_Pull_Then_Release_Returns_Value(t *testing.T) {
	t.Parallel()

	p := newPool(2, func() int { return 7 })
	require.False(t, p.isEmpty())

	h := p.pull()
	assert.Equal(t, 7, h.Get())

	h2 := p.pull()
	assert.True(t, p.isEmpty())

	h.Release()
	h2.Release()
	assert.False(t, p.isEmpty())
}

func Test_Pool_Pull_On_Empty_Pool_Panics(t *testing.T) {
	t.Parallel()

	p := newPool(1, func() int { return 1 })
	p.pull()

	assert.Panics(t, func() {
		p.pull()
	})
}
