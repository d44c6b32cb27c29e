package emulator

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zeozeozeo/goscar/bfin"
)

// Upper bound on descriptors walked by one chain, stops runaway arrays
const MAX_DESCRIPTORS_PER_CHAIN = 4096

var (
	ErrNotEnabled        = errors.New("mdma: channel not enabled")
	ErrDirection         = errors.New("mdma: descriptor direction mismatch")
	ErrCountMismatch     = errors.New("mdma: source and destination byte counts differ")
	ErrAlignment         = errors.New("mdma: misaligned address")
	ErrBusFault          = errors.New("mdma: bus fault")
	ErrUnsupportedFlow   = errors.New("mdma: unsupported flow mode")
	ErrDescriptorOverrun = errors.New("mdma: descriptor chain too long")
)

// Memory DMA stream (MDMA_S0 -> MDMA_D0). It walks source and destination
// descriptor arrays in lock step and reads and writes memory directly,
// bypassing the data cache. Chains started while another one runs are
// executed one after the other
type Controller struct {
	board *Board
	log   *slog.Logger

	run sync.Mutex     // serializes chains
	wg  sync.WaitGroup // running and queued chains

	mu     sync.Mutex // guards the fields below
	err    error
	busy   int
	chains uint64
	moves  uint64
	bytes  uint64
}

// Transfer counters
type Stats struct {
	Chains uint64 // Chains completed
	Moves  uint64 // Descriptor pairs executed
	Bytes  uint64 // Bytes written to destinations
}

func newController(board *Board, log *slog.Logger) *Controller {
	return &Controller{board: board, log: log}
}

// Starts executing the chain whose first descriptors live at `srcDesc` and
// `dstDesc`. `config` carries the destination config in the high half and
// the source config in the low half
func (ctrl *Controller) start(srcDesc, dstDesc, config uint32) {
	ctrl.mu.Lock()
	ctrl.busy++
	ctrl.mu.Unlock()

	ctrl.wg.Add(1)
	go func() {
		defer ctrl.wg.Done()
		ctrl.run.Lock()
		err := ctrl.execute(srcDesc, dstDesc, config)
		ctrl.run.Unlock()

		ctrl.mu.Lock()
		ctrl.busy--
		if err != nil {
			ctrl.err = err
		} else {
			ctrl.chains++
		}
		ctrl.mu.Unlock()

		if err != nil {
			ctrl.log.Error("chain aborted", "src", srcDesc, "dst", dstDesc, "err", err)
			ctrl.board.Irq.SetHigh(INTERRUPT_MDMA_ERROR)
			return
		}
		ctrl.board.Irq.SetHigh(INTERRUPT_MDMA_DONE)
	}()
}

// Blocks until every started chain has finished
func (ctrl *Controller) Wait() {
	ctrl.wg.Wait()
}

// Returns true while a chain runs or waits to run
func (ctrl *Controller) Busy() bool {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.busy > 0
}

// Returns the error of the most recently aborted chain
func (ctrl *Controller) Err() error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.err
}

// Clears the stored error
func (ctrl *Controller) ClearErr() {
	ctrl.mu.Lock()
	ctrl.err = nil
	ctrl.mu.Unlock()
}

// Returns the transfer counters
func (ctrl *Controller) Stats() Stats {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return Stats{Chains: ctrl.chains, Moves: ctrl.moves, Bytes: ctrl.bytes}
}

func (ctrl *Controller) execute(srcPtr, dstPtr, config uint32) error {
	if uint16(config)&bfin.DMAEN == 0 || uint16(config>>16)&bfin.DMAEN == 0 {
		return fmt.Errorf("%w: config 0x%08x", ErrNotEnabled, config)
	}

	for n := 0; n < MAX_DESCRIPTORS_PER_CHAIN; n++ {
		src, dst, err := ctrl.fetch(srcPtr, dstPtr)
		if err != nil {
			return err
		}
		if !src.Enabled() || !dst.Enabled() {
			ctrl.log.Debug("chain finished", "descriptors", n)
			return nil
		}

		if err := ctrl.move(&src, &dst); err != nil {
			return fmt.Errorf("descriptor %d: %w", n, err)
		}

		if src.Flow() == bfin.FLOW_STOP || dst.Flow() == bfin.FLOW_STOP {
			return nil
		}
		if src.Flow() != bfin.FLOW_ARRAY || dst.Flow() != bfin.FLOW_ARRAY {
			return fmt.Errorf("%w: 0x%x/0x%x", ErrUnsupportedFlow, src.Flow(), dst.Flow())
		}
		srcPtr += bfin.DESC_SIZE
		dstPtr += bfin.DESC_SIZE
	}
	return ErrDescriptorOverrun
}

// Reads the next descriptor pair straight from memory
func (ctrl *Controller) fetch(srcPtr, dstPtr uint32) (src, dst Descriptor, err error) {
	board := ctrl.board
	board.mu.Lock()
	defer board.mu.Unlock()

	srcRegion := board.Inter.Find(srcPtr, bfin.DESC_SIZE)
	dstRegion := board.Inter.Find(dstPtr, bfin.DESC_SIZE)
	if srcRegion == nil || dstRegion == nil || srcPtr&1 != 0 || dstPtr&1 != 0 {
		return src, dst, fmt.Errorf("%w: descriptor fetch at 0x%x/0x%x", ErrBusFault, srcPtr, dstPtr)
	}
	src = ReadDescriptor(srcRegion.Mem, srcRegion.Offset(srcPtr))
	dst = ReadDescriptor(dstRegion.Mem, dstRegion.Offset(dstPtr))
	return src, dst, nil
}

// Executes one descriptor pair
func (ctrl *Controller) move(src, dst *Descriptor) error {
	if src.Direction() != DIRECTION_READ || dst.Direction() != DIRECTION_WRITE {
		return ErrDirection
	}
	size := src.TransferSize()
	if size != dst.TransferSize() {
		return fmt.Errorf("%w: %d != %d", ErrCountMismatch, size, dst.TransferSize())
	}

	hits, err := ctrl.copy(src, dst)
	if err != nil {
		return err
	}
	ctrl.board.Debugger.report(hits)

	ctrl.mu.Lock()
	ctrl.moves++
	ctrl.bytes += size
	ctrl.mu.Unlock()

	if delay := ctrl.board.moveLatency(size); delay > 0 {
		time.Sleep(delay)
	}
	return nil
}

// Streams the source words through the FIFO into the destination words
func (ctrl *Controller) copy(src, dst *Descriptor) ([]watchHit, error) {
	board := ctrl.board
	board.mu.Lock()
	defer board.mu.Unlock()

	srcSize := accessSizeFromBytes(src.WordBytes())
	dstSize := accessSizeFromBytes(dst.WordBytes())
	srcWalk := newAddressWalker(src)
	dstWalk := newAddressWalker(dst)
	fifo := NewFIFO()

	var hits []watchHit
	srcDone := false
	for {
		for !srcDone && fifo.Free() >= uint8(srcSize) {
			addr, ok := srcWalk.next()
			if !ok {
				srcDone = true
				break
			}
			val, err := ctrl.busLoad(addr, srcSize)
			if err != nil {
				return hits, err
			}
			fifo.PushWord(val, srcSize)
		}

		if fifo.Length() < uint8(dstSize) {
			if srcDone {
				// counts were checked up front, so the FIFO drains exactly
				return hits, nil
			}
			continue
		}
		for fifo.Length() >= uint8(dstSize) {
			addr, ok := dstWalk.next()
			if !ok {
				return hits, nil
			}
			val := fifo.PopWord(dstSize)
			if err := ctrl.busStore(addr, dstSize, val); err != nil {
				return hits, err
			}
			if hit, ok := board.Debugger.memoryWrite(addr, val, dstSize); ok {
				hits = append(hits, hit)
			}
		}
	}
}

// Uncached load, board.mu must be held
func (ctrl *Controller) busLoad(addr uint32, size AccessSize) (uint32, error) {
	if addr%uint32(size) != 0 {
		return 0, fmt.Errorf("%w: read of %d bytes at 0x%x", ErrAlignment, size, addr)
	}
	region := ctrl.board.Inter.Find(addr, uint32(size))
	if region == nil {
		return 0, fmt.Errorf("%w: read at 0x%x", ErrBusFault, addr)
	}
	return region.Mem.Load(region.Offset(addr), size), nil
}

// Uncached store, board.mu must be held
func (ctrl *Controller) busStore(addr uint32, size AccessSize, val uint32) error {
	if addr%uint32(size) != 0 {
		return fmt.Errorf("%w: write of %d bytes at 0x%x", ErrAlignment, size, addr)
	}
	region := ctrl.board.Inter.Find(addr, uint32(size))
	if region == nil {
		return fmt.Errorf("%w: write at 0x%x", ErrBusFault, addr)
	}
	region.Mem.Store(region.Offset(addr), size, val)
	return nil
}
