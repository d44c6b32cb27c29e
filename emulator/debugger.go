package emulator

import "sync"

// Called when the DMA controller writes a watched address. `val` holds the
// whole word written, `size` its width
type WatchFunc func(addr uint32, val uint32, size AccessSize)

// Write watchpoints on memory touched by the DMA controller
type Debugger struct {
	mu               sync.Mutex
	WriteWatchpoints []uint32 // All write watchpoints
	OnWrite          WatchFunc
}

func NewDebugger() *Debugger {
	return &Debugger{}
}

// Adds a memory write watchpoint for `addr`
func (debugger *Debugger) AddWriteWatchpoint(addr uint32) {
	debugger.mu.Lock()
	defer debugger.mu.Unlock()
	for _, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint == addr {
			return
		}
	}
	debugger.WriteWatchpoints = append(debugger.WriteWatchpoints, addr)
}

// Deletes a memory write watchpoint at `addr`. Does nothing if it doesn't exist
func (debugger *Debugger) DeleteWriteWatchpoint(addr uint32) {
	debugger.mu.Lock()
	defer debugger.mu.Unlock()
	for idx, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint == addr {
			debugger.WriteWatchpoints = append(
				debugger.WriteWatchpoints[:idx],
				debugger.WriteWatchpoints[idx+1:]...,
			)
			return
		}
	}
}

// Sets the callback fired by watchpoint hits
func (debugger *Debugger) SetWatchFunc(fn WatchFunc) {
	debugger.mu.Lock()
	debugger.OnWrite = fn
	debugger.mu.Unlock()
}

type watchHit struct {
	addr uint32
	val  uint32
	size AccessSize
}

// Called by the DMA controller when it's about to write a value to memory.
// Returns the hit if a watchpoint lies inside the written word
func (debugger *Debugger) memoryWrite(addr uint32, val uint32, size AccessSize) (watchHit, bool) {
	debugger.mu.Lock()
	defer debugger.mu.Unlock()
	if debugger.OnWrite == nil {
		return watchHit{}, false
	}
	for _, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint >= addr && watchpoint < addr+uint32(size) {
			return watchHit{addr: addr, val: val, size: size}, true
		}
	}
	return watchHit{}, false
}

// Fires the callback for hits collected during a move
func (debugger *Debugger) report(hits []watchHit) {
	debugger.mu.Lock()
	fn := debugger.OnWrite
	debugger.mu.Unlock()
	if fn == nil {
		return
	}
	for _, hit := range hits {
		fn(hit.addr, hit.val, hit.size)
	}
}
