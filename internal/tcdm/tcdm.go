// Package tcdm implements the per-cluster tightly-coupled data memory
// scratchpad: a 128 KiB word-aligned buffer shared read/write by every
// Cpu in a cluster, with no locking of its own (the generated code
// accesses it directly through a raw pointer; any intra-cluster
// coherence beyond that is the guest program's responsibility).
package tcdm

// SizeBytes is the size of one cluster's TCDM in bytes.
const SizeBytes = 128 * 1024

// SizeWords is the size of one cluster's TCDM in 32-bit words.
const SizeWords = SizeBytes / 4

// EndAddress is the address one past the last TCDM word, as observed
// through MMIO address 0x4000_0008.
const EndAddress = 0x0002_0000

// Buffer is one cluster's scratchpad.
type Buffer struct {
	Words [SizeWords]uint32
}

// SeedFromGlobal copies every word from global (address -> value) whose
// address is below EndAddress into the buffer at address/4, matching the
// original engine's TCDM-seeding behavior: cluster-local memory is
// primed from the ELF's low address region before any hart runs.
func (b *Buffer) SeedFromGlobal(global map[uint64]uint32) {
	for addr, value := range global {
		if addr < EndAddress {
			b.Words[addr/4] = value
		}
	}
}

// New allocates num buffers, each seeded identically from global.
func New(num int, global map[uint64]uint32) []*Buffer {
	bufs := make([]*Buffer, num)
	for i := range bufs {
		b := &Buffer{}
		b.SeedFromGlobal(global)
		bufs[i] = b
	}
	return bufs
}
