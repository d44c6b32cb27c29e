package emulator

import "github.com/zeozeozeo/goscar/bfin"

// DMA transfer direction, decoded from the WNR bit
type Direction uint32

const (
	DIRECTION_READ  Direction = 0 // Memory read (source side)
	DIRECTION_WRITE Direction = 1 // Memory write (destination side)
)

// One array mode descriptor as fetched by the controller
type Descriptor struct {
	Addr    uint32
	Config  uint16
	XCount  uint16
	XModify int16
	YCount  uint16
	YModify int16
}

// Fetches the seven descriptor elements at `offset` of `mem`
func ReadDescriptor(mem *Memory, offset uint32) Descriptor {
	return Descriptor{
		Addr: bfin.JoinAddress(
			mem.Load16(offset+bfin.DESC_SAL),
			mem.Load16(offset+bfin.DESC_SAH),
		),
		Config:  mem.Load16(offset + bfin.DESC_CFG),
		XCount:  mem.Load16(offset + bfin.DESC_XCNT),
		XModify: int16(mem.Load16(offset + bfin.DESC_XMOD)),
		YCount:  mem.Load16(offset + bfin.DESC_YCNT),
		YModify: int16(mem.Load16(offset + bfin.DESC_YMOD)),
	}
}

// Returns true if the descriptor enables the channel. A disabled descriptor
// ends the chain
func (desc *Descriptor) Enabled() bool {
	return desc.Config&bfin.DMAEN != 0
}

func (desc *Descriptor) Direction() Direction {
	if desc.Config&bfin.WNR != 0 {
		return DIRECTION_WRITE
	}
	return DIRECTION_READ
}

// Returns true for 2D transfers
func (desc *Descriptor) TwoD() bool {
	return desc.Config&bfin.DMA2D != 0
}

// Returns the flow mode (bfin.FLOW_*)
func (desc *Descriptor) Flow() uint16 {
	return desc.Config & bfin.FLOW_MSK
}

// Bytes per transfer word
func (desc *Descriptor) WordBytes() uint32 {
	return bfin.WordBytes(desc.Config)
}

// A count of 0 means 65536 on the hardware
func countOrMax(count uint16) uint32 {
	if count == 0 {
		return 0x10000
	}
	return uint32(count)
}

// Returns the number of words moved by this descriptor
func (desc *Descriptor) Words() uint32 {
	rows := uint32(1)
	if desc.TwoD() {
		rows = countOrMax(desc.YCount)
	}
	return countOrMax(desc.XCount) * rows
}

// Returns the transfer size in bytes
func (desc *Descriptor) TransferSize() uint64 {
	return uint64(desc.Words()) * uint64(desc.WordBytes())
}

// Walks the addresses touched by a descriptor. XMODIFY is added between
// the words of a row, YMODIFY replaces it after the last word of a row
type addressWalker struct {
	desc *Descriptor
	addr uint32
	x, y uint32
	done bool
}

func newAddressWalker(desc *Descriptor) *addressWalker {
	return &addressWalker{desc: desc, addr: desc.Addr}
}

// Returns the next address, or false once the descriptor is exhausted
func (w *addressWalker) next() (uint32, bool) {
	if w.done {
		return 0, false
	}
	addr := w.addr

	rows := uint32(1)
	if w.desc.TwoD() {
		rows = countOrMax(w.desc.YCount)
	}
	w.x++
	if w.x < countOrMax(w.desc.XCount) {
		w.addr = uint32(int64(w.addr) + int64(w.desc.XModify))
	} else {
		w.x = 0
		w.y++
		if w.y >= rows {
			w.done = true
		} else {
			w.addr = uint32(int64(w.addr) + int64(w.desc.YModify))
		}
	}
	return addr, true
}
