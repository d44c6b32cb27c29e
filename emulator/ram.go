package emulator

// Fill pattern of freshly created memories, so reads of never written
// locations stand out
const MEMORY_FILL = 0xcd

// A flat little endian memory (SDRAM, L1 SRAM or scratchpad)
type Memory struct {
	Name string
	Data []byte
}

// Creates a new memory of `size` bytes filled with `fill`
func NewMemory(name string, size uint32, fill byte) *Memory {
	mem := &Memory{Name: name, Data: make([]byte, size)}
	for i := 0; i < len(mem.Data); i++ {
		mem.Data[i] = fill
	}
	return mem
}

// Size of the memory in bytes
func (mem *Memory) Size() uint32 {
	return uint32(len(mem.Data))
}

// Loads a value at `offset`
func (mem *Memory) Load(offset uint32, size AccessSize) uint32 {
	var v uint32
	for i := uint32(0); i < uint32(size); i++ {
		v |= uint32(mem.Data[offset+i]) << (i * 8)
	}
	return v
}

// Stores `val` into `offset`
func (mem *Memory) Store(offset uint32, size AccessSize, val uint32) {
	for i := uint32(0); i < uint32(size); i++ {
		mem.Data[offset+i] = byte(val >> (i * 8))
	}
}

// Load a 32 bit little endian word at `offset`
func (mem *Memory) Load32(offset uint32) uint32 {
	return mem.Load(offset, ACCESS_WORD)
}

// Load a 16 bit little endian value at `offset`
func (mem *Memory) Load16(offset uint32) uint16 {
	return uint16(mem.Load(offset, ACCESS_HALFWORD))
}

// Fetches the byte at `offset`
func (mem *Memory) Load8(offset uint32) byte {
	return mem.Data[offset]
}

// Store a 32 bit little endian word `val` into `offset`
func (mem *Memory) Store32(offset, val uint32) {
	mem.Store(offset, ACCESS_WORD, val)
}

// Stores a 16 bit little endian value into `offset`
func (mem *Memory) Store16(offset uint32, val uint16) {
	mem.Store(offset, ACCESS_HALFWORD, uint32(val))
}

// Sets the byte at `offset`
func (mem *Memory) Store8(offset uint32, val byte) {
	mem.Data[offset] = val
}
