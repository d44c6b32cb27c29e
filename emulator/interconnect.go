package emulator

// A memory mapped into the address space
type Region struct {
	Range
	Mem    *Memory
	Cached bool // Accessed through the data cache by the core
}

// Address decoder shared by the core and the DMA controller
type Interconnect struct {
	Regions []*Region
}

// Creates a new interconnect over `regions`
func NewInterconnect(regions ...*Region) *Interconnect {
	return &Interconnect{Regions: regions}
}

// Returns the region holding the whole block [addr, addr+length), or
// nil if the block is unmapped or straddles two regions
func (inter *Interconnect) Find(addr, length uint32) *Region {
	for _, region := range inter.Regions {
		if region.ContainsBlock(addr, length) {
			return region
		}
	}
	return nil
}

// Like Find, but panics for unmapped addresses
func (inter *Interconnect) MustFind(addr, length uint32) *Region {
	region := inter.Find(addr, length)
	if region == nil {
		panicFmt("interconnect: unhandled access of %d bytes at address 0x%x", length, addr)
	}
	return region
}
