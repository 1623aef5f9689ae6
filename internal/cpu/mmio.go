package cpu

// Magic MMIO addresses, per SPEC_FULL.md §4.5.
const (
	addrTCDMStart        = 0x4000_0000
	addrTCDMEnd          = 0x4000_0008
	addrNumCores         = 0x4000_0010
	addrExitCode         = 0x4000_0020
	addrClusterBaseHartID = 0x4000_0040

	tcdmStartValue = 0x0000_0000
	tcdmEndValue   = 0x0002_0000
)

// BinaryLoad implements the load side of the memory/MMIO contract in
// SPEC_FULL.md §4.5. size is log2(bytes); it has no effect on the decode
// table itself (no alignment fault is raised even on misaligned
// addresses — the Translator is responsible for splitting wide accesses).
func (c *Cpu) BinaryLoad(addr uint32, size uint8) uint32 {
	switch addr {
	case addrTCDMStart:
		return tcdmStartValue
	case addrTCDMEnd:
		return tcdmEndValue
	case addrNumCores:
		return uint32(c.NumCores)
	case addrExitCode:
		return c.Engine.ExitCode()
	case addrClusterBaseHartID:
		return uint32(c.ClusterBaseHartID)
	default:
		return c.Engine.LoadWord(uint64(addr))
	}
}

// BinaryStore implements the store side of the memory/MMIO contract.
// Writes to the read-only magic addresses (tcdm start/end, num_cores,
// cluster_base_hartid) are silently discarded, matching the original
// engine's behavior; see DESIGN.md's open-question decision on this.
func (c *Cpu) BinaryStore(addr uint32, value uint32, size uint8) {
	switch addr {
	case addrTCDMStart, addrTCDMEnd, addrNumCores, addrClusterBaseHartID:
		// read-only, discarded
	case addrExitCode:
		c.Engine.SetExitCode(value)
	default:
		c.Engine.StoreWord(uint64(addr), value)
	}
}
