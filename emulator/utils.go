package emulator

import (
	"fmt"
)

// Formatted panic()
func panicFmt(format string, a ...interface{}) {
	panic(fmt.Sprintf(format, a...))
}

type AccessSize uint32

// Bus access widths
const (
	ACCESS_BYTE     AccessSize = 1 // 8 bit
	ACCESS_HALFWORD AccessSize = 2 // 16 bit
	ACCESS_WORD     AccessSize = 4 // 32 bit
)

// Returns the access size matching a DMA word width in bytes
func accessSizeFromBytes(n uint32) AccessSize {
	switch n {
	case 1:
		return ACCESS_BYTE
	case 2:
		return ACCESS_HALFWORD
	case 4:
		return ACCESS_WORD
	default:
		panicFmt("invalid access width %d", n)
		return 0
	}
}

// Truncates `val` to the width of `size`
func maskAccess(size AccessSize, val uint32) uint32 {
	switch size {
	case ACCESS_BYTE:
		return val & 0xff
	case ACCESS_HALFWORD:
		return val & 0xffff
	default:
		return val
	}
}

// Rounds `x` up to a multiple of `align`, which must be a power of two
func alignUp(x, align uint64) uint64 {
	return (x + align - 1) &^ (align - 1)
}
