// Package emulator simulates the parts of a Blackfin board the DMA driver
// talks to: SDRAM behind a write-back data cache, uncached L1 and
// scratchpad SRAM, the memory DMA controller and the core cycle counter.
package emulator

import (
	"log/slog"
	"sync"
	"time"

	"github.com/zeozeozeo/goscar/bfin"
	"github.com/zeozeozeo/goscar/osclog"
)

type Config struct {
	SDRAMSize   uint32 // Defaults to bfin.SDRAM_SIZE, must be a multiple of the cache line size
	CacheLines  int    // Defaults to CACHE_NR_LINES
	CoreClockHz uint64 // Defaults to bfin.CORE_CLOCK_HZ
	// DMA throughput used to delay every move; 0 moves data instantly
	BytesPerCycle uint64
	// Extra fixed delay after every move
	MoveDelay time.Duration
	Fill      byte // Initial memory contents, MEMORY_FILL if zero
	Logger    *slog.Logger
}

type Board struct {
	mu sync.Mutex // guards memories and the cache

	SDRAM      *Memory
	L1         *Memory
	ScratchPad *Memory
	Cache      *DataCache
	Inter      *Interconnect
	Mdma       *Controller
	Irq        *IrqState
	Debugger   *Debugger
	Clock      *Clock

	sdram         *Region
	bytesPerCycle uint64
	moveDelay     time.Duration
	log           *slog.Logger
}

// Creates a new board. Zero config fields take their defaults
func NewBoard(cfg Config) *Board {
	if cfg.SDRAMSize == 0 {
		cfg.SDRAMSize = bfin.SDRAM_SIZE
	}
	if cfg.SDRAMSize%bfin.CACHE_LINE_SIZE != 0 {
		panicFmt("board: SDRAM size 0x%x is not a multiple of the cache line size", cfg.SDRAMSize)
	}
	if cfg.CacheLines == 0 {
		cfg.CacheLines = CACHE_NR_LINES
	}
	if cfg.CoreClockHz == 0 {
		cfg.CoreClockHz = bfin.CORE_CLOCK_HZ
	}
	if cfg.Fill == 0 {
		cfg.Fill = MEMORY_FILL
	}
	log := osclog.For(cfg.Logger, "emulator")

	board := &Board{
		SDRAM:         NewMemory("sdram", cfg.SDRAMSize, cfg.Fill),
		L1:            NewMemory("l1", bfin.L1_DATA_A_SIZE, cfg.Fill),
		ScratchPad:    NewMemory("scratchpad", bfin.SCRATCHPAD_SIZE, cfg.Fill),
		Irq:           NewIrqState(),
		Debugger:      NewDebugger(),
		Clock:         NewClock(cfg.CoreClockHz),
		bytesPerCycle: cfg.BytesPerCycle,
		moveDelay:     cfg.MoveDelay,
		log:           log,
	}
	board.Cache = NewDataCache(board.SDRAM, cfg.CacheLines)
	board.sdram = &Region{Range: NewRange(bfin.SDRAM_START, cfg.SDRAMSize), Mem: board.SDRAM, Cached: true}
	board.Inter = NewInterconnect(
		board.sdram,
		&Region{Range: L1_RANGE, Mem: board.L1},
		&Region{Range: SCRATCHPAD_RANGE, Mem: board.ScratchPad},
	)
	board.Mdma = newController(board, log)

	log.Debug("board created", "sdram", cfg.SDRAMSize, "cacheLines", cfg.CacheLines, "hz", cfg.CoreClockHz)
	return board
}

// Core side load. Cached regions go through the data cache, misaligned
// and unmapped accesses panic
func (board *Board) load(addr uint32, size AccessSize) uint32 {
	if addr%uint32(size) != 0 {
		panicFmt("board: misaligned load%d at address 0x%x", size*8, addr)
	}
	board.mu.Lock()
	defer board.mu.Unlock()

	region := board.Inter.MustFind(addr, uint32(size))
	if region.Cached {
		return board.Cache.Load(region.Offset(addr), size)
	}
	return region.Mem.Load(region.Offset(addr), size)
}

// Core side store, see load
func (board *Board) store(addr uint32, size AccessSize, val uint32) {
	if addr%uint32(size) != 0 {
		panicFmt("board: misaligned store%d at address 0x%x", size*8, addr)
	}
	board.mu.Lock()
	defer board.mu.Unlock()

	region := board.Inter.MustFind(addr, uint32(size))
	if region.Cached {
		board.Cache.Store(region.Offset(addr), size, maskAccess(size, val))
		return
	}
	region.Mem.Store(region.Offset(addr), size, val)
}

// Returns a 32bit little endian value at `addr`
func (board *Board) Load32(addr uint32) uint32 {
	return board.load(addr, ACCESS_WORD)
}

// Returns a 16bit little endian value at `addr`
func (board *Board) Load16(addr uint32) uint16 {
	return uint16(board.load(addr, ACCESS_HALFWORD))
}

// Fetches the byte at `addr`
func (board *Board) Load8(addr uint32) byte {
	return byte(board.load(addr, ACCESS_BYTE))
}

// Stores a 32bit little endian word at `addr`
func (board *Board) Store32(addr, val uint32) {
	board.store(addr, ACCESS_WORD, val)
}

// Stores a 16bit little endian value at `addr`
func (board *Board) Store16(addr uint32, val uint16) {
	board.store(addr, ACCESS_HALFWORD, uint32(val))
}

// Sets the byte at `addr`
func (board *Board) Store8(addr uint32, val byte) {
	board.store(addr, ACCESS_BYTE, uint32(val))
}

// Writes back cached data in [addr, addr+length) so the DMA controller
// sees it. No-op for uncached memory
func (board *Board) Flush(addr, length uint32) {
	board.mu.Lock()
	defer board.mu.Unlock()
	if board.sdram.Contains(addr) {
		board.Cache.Flush(board.sdram.Offset(addr), length)
	}
}

// Writes back and invalidates cached data in [addr, addr+length) so the
// core sees what the DMA controller wrote. No-op for uncached memory
func (board *Board) FlushInvalidate(addr, length uint32) {
	board.mu.Lock()
	defer board.mu.Unlock()
	if board.sdram.Contains(addr) {
		board.Cache.FlushInvalidate(board.sdram.Offset(addr), length)
	}
}

// Raises EXCEPTION_MDMA_START with the descriptor addresses and merged
// config as operands
func (board *Board) Trigger(srcDesc, dstDesc, config uint32) {
	board.log.Debug("mdma trigger", "src", srcDesc, "dst", dstDesc, "config", config)
	board.raise(EXCEPTION_MDMA_START, srcDesc, dstDesc, config)
}

// Current core cycle count
func (board *Board) Cycles() uint64 {
	return board.Clock.Cycles()
}

// Blocks until the DMA controller is idle
func (board *Board) Wait() {
	board.Mdma.Wait()
}

// Returns the error of the last aborted DMA chain, if any
func (board *Board) Err() error {
	return board.Mdma.Err()
}

// Returns how long a move of `size` bytes keeps the controller busy
func (board *Board) moveLatency(size uint64) time.Duration {
	delay := board.moveDelay
	if board.bytesPerCycle > 0 {
		cycles := (size + board.bytesPerCycle - 1) / board.bytesPerCycle
		delay += board.Clock.Duration(cycles)
	}
	return delay
}
