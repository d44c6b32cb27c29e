package emulator

import (
	"fmt"
	"sync"
)

// System interrupt line
type Interrupt uint16

const (
	INTERRUPT_MDMA_DONE  Interrupt = 0 // Memory DMA chain finished
	INTERRUPT_MDMA_ERROR Interrupt = 1 // Memory DMA chain aborted
)

func (irq Interrupt) String() string {
	switch irq {
	case INTERRUPT_MDMA_DONE:
		return "mdma done"
	case INTERRUPT_MDMA_ERROR:
		return "mdma error"
	default:
		return fmt.Sprintf("irq %d", uint16(irq))
	}
}

func (irq Interrupt) bit() uint16 {
	return 1 << irq
}

// Latched interrupt status and mask of the system interrupt controller.
// Nothing services the lines; software polls them
type IrqState struct {
	mu     sync.Mutex
	status uint16
	mask   uint16
}

// Every line starts unmasked
func NewIrqState() *IrqState {
	return &IrqState{mask: 0xffff}
}

// Returns true if an unmasked line is latched
func (state *IrqState) Active() bool {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.status&state.mask != 0
}

// Returns true if `irq` is latched, masked or not
func (state *IrqState) Pending(irq Interrupt) bool {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.status&irq.bit() != 0
}

// Clears the latch of every line in `irqs`
func (state *IrqState) Acknowledge(irqs ...Interrupt) {
	state.mu.Lock()
	defer state.mu.Unlock()
	for _, irq := range irqs {
		state.status &^= irq.bit()
	}
}

// Enables exactly the lines in `irqs`
func (state *IrqState) SetMask(irqs ...Interrupt) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.mask = 0
	for _, irq := range irqs {
		state.mask |= irq.bit()
	}
}

// Latches `irq`
func (state *IrqState) SetHigh(irq Interrupt) {
	state.mu.Lock()
	state.status |= irq.bit()
	state.mu.Unlock()
}
