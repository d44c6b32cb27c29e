package emulator

import "github.com/zeozeozeo/goscar/bfin"

type Exception uint32

const (
	// Hands a descriptor chain to the memory DMA controller. Operands: source
	// descriptor, destination descriptor, merged config (dst<<16 | src)
	EXCEPTION_MDMA_START Exception = Exception(bfin.EXCPT_MDMA_START)
)

// Software exception handler. Unknown exceptions are fatal
func (board *Board) raise(exc Exception, r0, r1, r2 uint32) {
	switch exc {
	case EXCEPTION_MDMA_START:
		board.Mdma.start(r0, r1, r2)
	default:
		panicFmt("board: unhandled exception 0x%x", uint32(exc))
	}
}
