package dma

import (
	"fmt"
	"math"
	"runtime"

	"github.com/zeozeozeo/goscar/bfin"
)

type State int

const (
	STATE_EMPTY    State = iota // No moves
	STATE_BUILDING              // Moves added, not started
	STATE_STARTED               // Handed to the hardware
	STATE_COMPLETE              // Sync saw the flag
	STATE_TIMEOUT               // Sync gave up
)

func (s State) String() string {
	switch s {
	case STATE_EMPTY:
		return "empty"
	case STATE_BUILDING:
		return "building"
	case STATE_STARTED:
		return "started"
	case STATE_COMPLETE:
		return "complete"
	case STATE_TIMEOUT:
		return "timeout"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Width of one transfer word, as encoded in the descriptor config
type WordSize uint16

const (
	WORD_SIZE_8  = WordSize(bfin.WDSIZE_8)
	WORD_SIZE_16 = WordSize(bfin.WDSIZE_16)
	WORD_SIZE_32 = WordSize(bfin.WDSIZE_32)
)

// Bytes per word, 0 for an invalid size
func (w WordSize) Bytes() uint32 {
	switch w {
	case WORD_SIZE_8:
		return 1
	case WORD_SIZE_16:
		return 2
	case WORD_SIZE_32:
		return 4
	default:
		return 0
	}
}

// One side of a move. The inner loop moves XCount words stepping by
// XModify bytes; the outer loop repeats it YCount times, applying YModify
// instead of XModify after the last word of each row
type Transfer struct {
	Addr     uint32
	WordSize WordSize
	XCount   uint32
	XModify  int32
	YCount   uint32
	YModify  int32
}

// A descriptor chain: up to MAX_MOVES_PER_CHAIN moves, each a destination
// and a source descriptor, executed in order by the hardware. A chain is
// not safe for concurrent use
type Chain struct {
	dma   *DMA
	index int

	dstDescs uint32
	srcDescs uint32
	syncAddr uint32
	onesAddr uint32

	moves          int
	state          State
	lastWordSize   WordSize
	firstSrcConfig uint16
	firstDstConfig uint16
}

func (c *Chain) init(d *DMA, index int) {
	base := d.base + uint32(index)*CHAIN_SIZE
	*c = Chain{
		dma:      d,
		index:    index,
		dstDescs: base + CHAIN_DST_OFFSET,
		srcDescs: base + CHAIN_SRC_OFFSET,
		syncAddr: base + CHAIN_SYNC_OFFSET,
		onesAddr: base + CHAIN_ONES_OFFSET,
	}
}

// Forgets all moves. Descriptor memory is left alone and rewritten by the
// next moves
func (c *Chain) Reset() {
	c.moves = 0
	c.state = STATE_EMPTY
	c.lastWordSize = 0
}

// Number of moves in the chain, including a sync point
func (c *Chain) Moves() int {
	return c.moves
}

func (c *Chain) State() State {
	return c.state
}

// Address of the word the sync point sets
func (c *Chain) SyncFlagAddr() uint32 {
	return c.syncAddr
}

// Addresses of the first destination and source descriptors
func (c *Chain) DescriptorAddrs() (dst, src uint32) {
	return c.dstDescs, c.srcDescs
}

func validTransfer(t *Transfer) error {
	bytes := t.WordSize.Bytes()
	switch {
	case bytes == 0:
		return fmt.Errorf("%w: word size 0x%x", ErrInvalidParameter, uint16(t.WordSize))
	case t.Addr%bytes != 0:
		return fmt.Errorf("%w: address 0x%x not aligned to %d bytes", ErrInvalidParameter, t.Addr, bytes)
	case t.XCount == 0 || t.XCount > math.MaxUint16:
		return fmt.Errorf("%w: x count %d", ErrInvalidParameter, t.XCount)
	case t.YCount == 0 || t.YCount > math.MaxUint16:
		return fmt.Errorf("%w: y count %d", ErrInvalidParameter, t.YCount)
	case t.XModify < math.MinInt16 || t.XModify > math.MaxInt16:
		return fmt.Errorf("%w: x modify %d", ErrInvalidParameter, t.XModify)
	case t.YModify < math.MinInt16 || t.YModify > math.MaxInt16:
		return fmt.Errorf("%w: y modify %d", ErrInvalidParameter, t.YModify)
	}
	return nil
}

// Config word of a descriptor for `t`
func descriptorConfig(t *Transfer, write bool) uint16 {
	cfg := bfin.DMAEN | bfin.FLOW_ARRAY | bfin.NDSIZE_7 | uint16(t.WordSize)
	if write {
		cfg |= bfin.WNR
	}
	if t.YCount > 1 {
		cfg |= bfin.DMA2D
	}
	return cfg
}

// Writes one descriptor at `addr`, disables the one after it and flushes
// both to memory
func (c *Chain) writeDescriptor(addr uint32, t *Transfer, cfg uint16) {
	p := c.dma.platform
	low, high := bfin.SplitAddress(t.Addr)
	p.Store16(addr+bfin.DESC_SAL, low)
	p.Store16(addr+bfin.DESC_SAH, high)
	p.Store16(addr+bfin.DESC_CFG, cfg)
	p.Store16(addr+bfin.DESC_XCNT, uint16(t.XCount))
	p.Store16(addr+bfin.DESC_XMOD, uint16(int16(t.XModify)))
	p.Store16(addr+bfin.DESC_YCNT, uint16(t.YCount))
	p.Store16(addr+bfin.DESC_YMOD, uint16(int16(t.YModify)))

	// terminator
	p.Store16(addr+bfin.DESC_SIZE+bfin.DESC_CFG, 0)

	p.Flush(addr, bfin.DESC_SIZE+bfin.CACHE_LINE_SIZE)
}

// Appends a validated move without checking the capacity
func (c *Chain) addMove(dst, src *Transfer) {
	offset := uint32(c.moves) * bfin.DESC_SIZE
	dstCfg := descriptorConfig(dst, true)
	srcCfg := descriptorConfig(src, false)

	c.writeDescriptor(c.dstDescs+offset, dst, dstCfg)
	c.writeDescriptor(c.srcDescs+offset, src, srcCfg)

	if c.moves == 0 {
		c.firstDstConfig = dstCfg
		c.firstSrcConfig = srcCfg
	}
	c.lastWordSize = dst.WordSize
	c.moves++
	c.state = STATE_BUILDING
}

// Common checks of the builder operations
func (c *Chain) checkBuilding() error {
	if c.dma.isClosed() {
		return ErrClosed
	}
	if c.state != STATE_EMPTY && c.state != STATE_BUILDING {
		return fmt.Errorf("%w: chain is %s, reset it first", ErrInvalidParameter, c.state)
	}
	return nil
}

// Appends a move from `src` to `dst`. Both sides must move the same number
// of bytes. Fails with ErrInvalidParameter when the chain is full or a
// count or modify does not fit the descriptor
func (c *Chain) AddMove2D(dst, src Transfer) error {
	if err := c.checkBuilding(); err != nil {
		return err
	}
	if c.moves >= MAX_MOVES_PER_CHAIN {
		return fmt.Errorf("%w: chain full (%d moves)", ErrInvalidParameter, c.moves)
	}
	if err := validTransfer(&dst); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if err := validTransfer(&src); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	c.addMove(&dst, &src)
	return nil
}

// Like AddMove2D with a single row on both sides. The Y fields of `dst`
// and `src` are ignored
func (c *Chain) AddMove1D(dst, src Transfer) error {
	dst.YCount, dst.YModify = 1, 4
	src.YCount, src.YModify = 1, 4
	return c.AddMove2D(dst, src)
}

// Appends a move that sets the chain's sync flag once all moves before it
// are done. It uses the word size of the previous move (32 bit for an
// empty chain). A sync point still fits into a chain holding
// MAX_MOVES_PER_CHAIN moves
func (c *Chain) AddSyncPoint() error {
	if err := c.checkBuilding(); err != nil {
		return err
	}
	if c.moves > MAX_MOVES_PER_CHAIN {
		return fmt.Errorf("%w: no room for a sync point (%d moves)", ErrInvalidParameter, c.moves)
	}

	ws := c.lastWordSize
	if c.moves == 0 {
		ws = WORD_SIZE_32
	}
	modify := int32(ws.Bytes())
	dst := Transfer{Addr: c.syncAddr, WordSize: ws, XCount: 1, XModify: modify, YCount: 1, YModify: modify}
	src := Transfer{Addr: c.onesAddr, WordSize: ws, XCount: 1, XModify: modify, YCount: 1, YModify: modify}
	c.addMove(&dst, &src)
	return nil
}

// Clears the sync flag and hands the chain to the hardware. Does not wait.
// A chain that completed or timed out runs again from its existing
// descriptors
func (c *Chain) Start() error {
	if c.dma.isClosed() {
		return ErrClosed
	}
	switch c.state {
	case STATE_BUILDING, STATE_COMPLETE, STATE_TIMEOUT:
	default:
		return fmt.Errorf("%w: cannot start a chain that is %s", ErrInvalidParameter, c.state)
	}

	p := c.dma.platform
	p.Store32(c.syncAddr, 0)
	p.Flush(c.syncAddr, 4)

	config := uint32(c.firstDstConfig)<<16 | uint32(c.firstSrcConfig)
	c.state = STATE_STARTED
	c.dma.log.Debug("chain started", "index", c.index, "moves", c.moves, "config", config)
	p.Trigger(c.srcDescs, c.dstDescs, config)
	return nil
}

// Polls the sync flag until the hardware sets it or the cycle budget runs
// out. Only chains with a sync point ever complete. A chain that timed out
// may be synced again
func (c *Chain) Sync() error {
	if c.dma.isClosed() {
		return ErrClosed
	}
	switch c.state {
	case STATE_COMPLETE:
		return nil
	case STATE_STARTED, STATE_TIMEOUT:
	default:
		return fmt.Errorf("%w: cannot sync a chain that is %s", ErrInvalidParameter, c.state)
	}

	p := c.dma.platform
	start := p.Cycles()
	for {
		p.FlushInvalidate(c.syncAddr, 4)
		if p.Load32(c.syncAddr) != 0 {
			c.state = STATE_COMPLETE
			return nil
		}
		if elapsed := p.Cycles() - start; elapsed >= c.dma.timeout {
			c.state = STATE_TIMEOUT
			c.dma.log.Warn("sync timeout", "index", c.index, "cycles", elapsed)
			return fmt.Errorf("%w: chain %d after %d cycles", ErrTimeout, c.index, elapsed)
		}
		runtime.Gosched()
	}
}

// Splits `words` 32 bit words into a row length and row count that both
// fit a descriptor
func splitWords(words uint32) (x, y uint32, ok bool) {
	if words <= math.MaxUint16 {
		return words, 1, true
	}
	for x = math.MaxUint16; x > 0; x-- {
		if words%x == 0 && words/x <= math.MaxUint16 {
			return x, words / x, true
		}
	}
	return 0, 0, false
}

// Resets the chain and fills it with one move copying `n` bytes of 32 bit
// words from `src` to `dst`
func (c *Chain) buildCopy(dst, src, n uint32) error {
	if n == 0 || n%4 != 0 {
		return fmt.Errorf("%w: length %d is not a non-zero multiple of 4", ErrInvalidParameter, n)
	}
	x, y, ok := splitWords(n / 4)
	if !ok {
		return fmt.Errorf("%w: cannot split %d words into rows", ErrInvalidParameter, n/4)
	}
	if c.dma.isClosed() {
		return ErrClosed
	}

	c.Reset()
	return c.AddMove2D(
		Transfer{Addr: dst, WordSize: WORD_SIZE_32, XCount: x, XModify: 4, YCount: y, YModify: 4},
		Transfer{Addr: src, WordSize: WORD_SIZE_32, XCount: x, XModify: 4, YCount: y, YModify: 4},
	)
}

// Copies `n` bytes from `src` to `dst` without waiting. `n` must be a
// non-zero multiple of 4. The chain is reset first
func (c *Chain) MemCopy(dst, src, n uint32) error {
	if err := c.buildCopy(dst, src, n); err != nil {
		return err
	}
	return c.Start()
}

// Like MemCopy, but waits for the copy to finish
func (c *Chain) MemCopySync(dst, src, n uint32) error {
	if err := c.buildCopy(dst, src, n); err != nil {
		return err
	}
	if err := c.AddSyncPoint(); err != nil {
		return err
	}
	if err := c.Start(); err != nil {
		return err
	}
	return c.Sync()
}
