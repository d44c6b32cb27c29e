// Package dma builds memory DMA descriptor chains and hands them to the
// hardware. Chains come from a fixed pool owned by a DMA context; the
// platform behind the context provides memory access, cache maintenance,
// the start trigger and a cycle counter.
package dma

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zeozeozeo/goscar/bfin"
	"github.com/zeozeozeo/goscar/osclog"
)

// Pool capacity, fixed at build time
const (
	MAX_NR_DMA_CHAINS   = 4
	MAX_MOVES_PER_CHAIN = 12
)

// Sync budget used when Config.SyncTimeout is zero: 100ms at the
// reference core clock
const DEFAULT_SYNC_TIMEOUT = bfin.CORE_CLOCK_HZ / 10

var (
	ErrNoChainsAvailable = errors.New("dma: no chains available")
	ErrInvalidParameter  = errors.New("dma: invalid parameter")
	ErrTimeout           = errors.New("dma: sync timeout")
	ErrClosed            = errors.New("dma: closed")
)

// What the chain engine needs from the processor and its memory system
type Platform interface {
	// Core side memory access, through the data cache where there is one
	Load32(addr uint32) uint32
	Store16(addr uint32, val uint16)
	Store32(addr uint32, val uint32)
	// Write back cached data so the DMA controller sees it
	Flush(addr, length uint32)
	// Write back and invalidate so the core sees what the controller wrote
	FlushInvalidate(addr, length uint32)
	// Start the controller on the given first descriptors. `config` holds
	// the destination config in the high half and the source config in
	// the low half
	Trigger(srcDesc, dstDesc, config uint32)
	// Core clock cycle counter
	Cycles() uint64
}

type Config struct {
	// Start of the POOL_SIZE bytes of memory holding descriptors and sync
	// flags. Must be non-zero and cache line aligned
	Base uint32
	// Sync budget in core clock cycles, DEFAULT_SYNC_TIMEOUT if zero
	SyncTimeout uint64
	Logger      *slog.Logger
}

// DMA context owning the chain pool
type DMA struct {
	platform Platform
	base     uint32
	timeout  uint64
	log      *slog.Logger

	mu        sync.Mutex
	chains    [MAX_NR_DMA_CHAINS]Chain
	allocated int
	closed    bool
}

// Creates a new DMA context on `p`
func New(p Platform, cfg Config) (*DMA, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil platform", ErrInvalidParameter)
	}
	if cfg.Base == 0 || cfg.Base%bfin.CACHE_LINE_SIZE != 0 {
		return nil, fmt.Errorf("%w: pool base 0x%x must be non-zero and cache line aligned", ErrInvalidParameter, cfg.Base)
	}
	if uint64(cfg.Base)+POOL_SIZE > 1<<32 {
		return nil, fmt.Errorf("%w: pool at 0x%x does not fit the address space", ErrInvalidParameter, cfg.Base)
	}
	if cfg.SyncTimeout == 0 {
		cfg.SyncTimeout = DEFAULT_SYNC_TIMEOUT
	}

	d := &DMA{
		platform: p,
		base:     cfg.Base,
		timeout:  cfg.SyncTimeout,
		log:      osclog.For(cfg.Logger, "dma"),
	}
	for i := range d.chains {
		d.chains[i].init(d, i)
	}
	d.log.Debug("pool created", "base", cfg.Base, "size", POOL_SIZE, "timeout", cfg.SyncTimeout)
	return d, nil
}

// Takes the next free chain from the pool. Chains are never returned to
// the pool; reuse one with Reset
func (d *DMA) AllocateChain() (*Chain, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if d.allocated >= MAX_NR_DMA_CHAINS {
		d.log.Warn("chain pool exhausted", "chains", MAX_NR_DMA_CHAINS)
		return nil, ErrNoChainsAvailable
	}

	chain := &d.chains[d.allocated]
	d.allocated++

	// constant source of the sync point
	d.platform.Store32(chain.onesAddr, 0xffffffff)
	d.platform.Flush(chain.onesAddr, 4)
	chain.Reset()

	d.log.Debug("chain allocated", "index", chain.index)
	return chain, nil
}

// Returns the number of chains handed out so far
func (d *DMA) Allocated() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.allocated
}

// Tears the context down. Later allocations and chain operations fail
// with ErrClosed. Transfers already started keep running
func (d *DMA) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	d.log.Debug("pool closed", "allocated", d.allocated)
	return nil
}

func (d *DMA) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
