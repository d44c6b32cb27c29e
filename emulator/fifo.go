package emulator

// Depth of the memory DMA stream FIFO in bytes
const FIFO_DEPTH = 16

// The pointers count modulo twice the depth so a full FIFO can be told
// apart from an empty one
const fifoPtrMask = 2*FIFO_DEPTH - 1

// Byte FIFO between the source and destination side of the memory DMA
// stream. It lets both sides use different word sizes
type FIFO struct {
	Buffer   [FIFO_DEPTH]byte
	WritePtr uint8
	ReadPtr  uint8
}

func NewFIFO() *FIFO {
	return &FIFO{}
}

func (fifo *FIFO) IsEmpty() bool {
	return fifo.WritePtr == fifo.ReadPtr
}

// Same slot, different lap
func (fifo *FIFO) IsFull() bool {
	return fifo.WritePtr == fifo.ReadPtr^FIFO_DEPTH
}

// Drops the contents
func (fifo *FIFO) Clear() {
	*fifo = FIFO{}
}

// Pushes the low `size` bytes of `val`, least significant first. The
// caller checks Free first
func (fifo *FIFO) PushWord(val uint32, size AccessSize) {
	for i := uint32(0); i < uint32(size); i++ {
		fifo.Buffer[fifo.WritePtr%FIFO_DEPTH] = byte(val >> (i * 8))
		fifo.WritePtr = (fifo.WritePtr + 1) & fifoPtrMask
	}
}

func (fifo *FIFO) Push(val byte) {
	fifo.PushWord(uint32(val), ACCESS_BYTE)
}

// Pops `size` bytes and assembles them into a little endian word
func (fifo *FIFO) PopWord(size AccessSize) uint32 {
	var v uint32
	for i := uint32(0); i < uint32(size); i++ {
		v |= uint32(fifo.Buffer[fifo.ReadPtr%FIFO_DEPTH]) << (i * 8)
		fifo.ReadPtr = (fifo.ReadPtr + 1) & fifoPtrMask
	}
	return v
}

func (fifo *FIFO) Pop() byte {
	return byte(fifo.PopWord(ACCESS_BYTE))
}

// Bytes currently queued
func (fifo *FIFO) Length() uint8 {
	return (fifo.WritePtr - fifo.ReadPtr) & fifoPtrMask
}

// Bytes that can still be pushed
func (fifo *FIFO) Free() uint8 {
	return FIFO_DEPTH - fifo.Length()
}
