// Package bfin holds the Blackfin hardware definitions shared by the DMA
// driver and the board emulator: memory map, cache geometry, the DMA
// configuration word and the array-mode descriptor layout.
package bfin

// Memory map (BF537-class part)
const (
	SDRAM_START      uint32 = 0x00000000
	SDRAM_SIZE       uint32 = 8 * 1024 * 1024
	L1_DATA_A_START  uint32 = 0xff800000
	L1_DATA_A_SIZE   uint32 = 32 * 1024
	SCRATCHPAD_START uint32 = 0xffb00000
	SCRATCHPAD_SIZE  uint32 = 4 * 1024
)

// Data cache geometry
const CACHE_LINE_SIZE uint32 = 32

// Core clock of the reference board
const CORE_CLOCK_HZ uint64 = 500_000_000

// DMAx_CONFIG bits
const (
	DMAEN      uint16 = 0x0001 // Channel enable
	WNR        uint16 = 0x0002 // Direction: memory write
	WDSIZE_8   uint16 = 0x0000 // Transfer word size 8 bit
	WDSIZE_16  uint16 = 0x0004 // Transfer word size 16 bit
	WDSIZE_32  uint16 = 0x0008 // Transfer word size 32 bit
	WDSIZE_MSK uint16 = 0x000c
	DMA2D      uint16 = 0x0010 // 2D mode
	RESTART    uint16 = 0x0020 // Flush the DMA FIFO before start
	DI_SEL     uint16 = 0x0040 // Interrupt after each row
	DI_EN      uint16 = 0x0080 // Interrupt on completion
	NDSIZE_MSK uint16 = 0x0f00
	NDSIZE_7   uint16 = 0x0700 // Next descriptor holds 7 elements
	FLOW_MSK   uint16 = 0x7000
	FLOW_STOP  uint16 = 0x0000 // Stop after this work unit
	FLOW_AUTO  uint16 = 0x1000 // Autobuffer
	FLOW_ARRAY uint16 = 0x4000 // Descriptor array
	FLOW_SMALL uint16 = 0x6000 // Small model descriptor list
	FLOW_LARGE uint16 = 0x7000 // Large model descriptor list
)

// Array mode descriptor layout (NDSIZE_7): seven 16 bit elements
const (
	DESC_SAL  uint32 = 0  // Start address, low half
	DESC_SAH  uint32 = 2  // Start address, high half
	DESC_CFG  uint32 = 4  // DMAx_CONFIG
	DESC_XCNT uint32 = 6  // Inner loop count
	DESC_XMOD uint32 = 8  // Inner loop address increment (signed)
	DESC_YCNT uint32 = 10 // Outer loop count
	DESC_YMOD uint32 = 12 // Outer loop address increment (signed)
	DESC_SIZE uint32 = 14
)

// Software exception used to hand a descriptor chain to the memory DMA
// controller from user mode
const EXCPT_MDMA_START uint32 = 0x4

// Returns the number of bytes per transfer word encoded in `config`
func WordBytes(config uint16) uint32 {
	switch config & WDSIZE_MSK {
	case WDSIZE_16:
		return 2
	case WDSIZE_32:
		return 4
	default:
		return 1
	}
}

// Splits a 32 bit address into the low and high halves stored in a
// descriptor
func SplitAddress(addr uint32) (low, high uint16) {
	return uint16(addr), uint16(addr >> 16)
}

// Joins the two descriptor halves back into a 32 bit address
func JoinAddress(low, high uint16) uint32 {
	return uint32(low) | uint32(high)<<16
}
