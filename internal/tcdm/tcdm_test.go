package tcdm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFromGlobalKeepsOnlyLowAddresses(t *testing.T) {
	global := map[uint64]uint32{
		0x0000_0000: 0xdeadbeef,
		0x0000_1000: 0x11223344,
		EndAddress:  0xffffffff, // one word past the end: out of bounds, must be skipped
		0x0004_0000: 0xcafef00d, // well above the end: also out of bounds
	}

	var b Buffer
	assert.NotPanics(t, func() { b.SeedFromGlobal(global) })

	assert.Equal(t, uint32(0xdeadbeef), b.Words[0])
	assert.Equal(t, uint32(0x11223344), b.Words[0x1000/4])
}

func TestNewAllocatesIndependentIdenticallySeededBuffers(t *testing.T) {
	global := map[uint64]uint32{0x100: 42}
	bufs := New(3, global)
	require.Len(t, bufs, 3)

	for _, b := range bufs {
		assert.Equal(t, uint32(42), b.Words[0x100/4])
	}

	bufs[0].Words[0x100/4] = 7
	assert.Equal(t, uint32(42), bufs[1].Words[0x100/4], "buffers must not alias")
}
