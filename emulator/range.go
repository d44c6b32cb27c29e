package emulator

import "github.com/zeozeozeo/goscar/bfin"

var (
	// L1 data SRAM bank A, not cacheable
	L1_RANGE = NewRange(bfin.L1_DATA_A_START, bfin.L1_DATA_A_SIZE)
	// Scratchpad SRAM, not cacheable
	SCRATCHPAD_RANGE = NewRange(bfin.SCRATCHPAD_START, bfin.SCRATCHPAD_SIZE)
)

type Range struct {
	Start  uint32 // Start address
	Length uint32 // Length of the mapping
}

func NewRange(start uint32, length uint32) Range {
	return Range{Start: start, Length: length}
}

// Returns whether `addr` is located inside this range
func (r *Range) Contains(addr uint32) bool {
	return addr >= r.Start && uint64(addr) < uint64(r.Start)+uint64(r.Length)
}

// Returns whether the whole block [addr, addr+length) is inside this range
func (r *Range) ContainsBlock(addr, length uint32) bool {
	return r.Contains(addr) && uint64(addr)+uint64(length) <= uint64(r.Start)+uint64(r.Length)
}

// Returns the offset between `addr` and the `Start` of the range.
// Does not check if the range contains the address, so if `addr`
// is smaller than `Start`, there will be an overflow
func (r *Range) Offset(addr uint32) uint32 {
	return addr - r.Start
}
