package dma

import "github.com/zeozeozeo/goscar/bfin"

// Descriptors per side of a chain: every move, the sync point that may
// follow a full chain, and the disabled terminator
const DESCRIPTORS_PER_SIDE = MAX_MOVES_PER_CHAIN + 2

// Per chain memory layout, relative to the chain base. Each part starts on
// its own cache line
const (
	DESC_ARRAY_SIZE = uint32(DESCRIPTORS_PER_SIDE) * bfin.DESC_SIZE

	CHAIN_DST_OFFSET  = 0
	CHAIN_SRC_OFFSET  = (CHAIN_DST_OFFSET + DESC_ARRAY_SIZE + bfin.CACHE_LINE_SIZE - 1) &^ (bfin.CACHE_LINE_SIZE - 1)
	CHAIN_SYNC_OFFSET = (CHAIN_SRC_OFFSET + DESC_ARRAY_SIZE + bfin.CACHE_LINE_SIZE - 1) &^ (bfin.CACHE_LINE_SIZE - 1)
	CHAIN_ONES_OFFSET = CHAIN_SYNC_OFFSET + bfin.CACHE_LINE_SIZE
	CHAIN_SIZE        = CHAIN_ONES_OFFSET + bfin.CACHE_LINE_SIZE
)

// Bytes of memory the pool needs at Config.Base
const POOL_SIZE = uint64(MAX_NR_DMA_CHAINS) * uint64(CHAIN_SIZE)
