package dma

import (
	"github.com/zeozeozeo/goscar/bfin"
)

type flushCall struct {
	addr, length uint32
	invalidate   bool
}

type triggerCall struct {
	src, dst, config uint32
}

// Records what the chain engine asks of the platform. Memory is a sparse
// byte map; the cycle counter advances by `step` on every read
type spyPlatform struct {
	mem      map[uint32]byte
	flushes  []flushCall
	triggers []triggerCall
	loads    int
	cycles   uint64
	step     uint64

	// runs on Trigger, standing in for the hardware
	onTrigger func(p *spyPlatform, call triggerCall)
}

func newSpyPlatform() *spyPlatform {
	return &spyPlatform{mem: make(map[uint32]byte), step: 1}
}

func (p *spyPlatform) Load32(addr uint32) uint32 {
	p.loads++
	return uint32(p.mem[addr]) | uint32(p.mem[addr+1])<<8 | uint32(p.mem[addr+2])<<16 | uint32(p.mem[addr+3])<<24
}

func (p *spyPlatform) load16(addr uint32) uint16 {
	return uint16(p.mem[addr]) | uint16(p.mem[addr+1])<<8
}

func (p *spyPlatform) Store16(addr uint32, val uint16) {
	p.mem[addr] = byte(val)
	p.mem[addr+1] = byte(val >> 8)
}

func (p *spyPlatform) Store32(addr uint32, val uint32) {
	p.Store16(addr, uint16(val))
	p.Store16(addr+2, uint16(val>>16))
}

func (p *spyPlatform) Flush(addr, length uint32) {
	p.flushes = append(p.flushes, flushCall{addr, length, false})
}

func (p *spyPlatform) FlushInvalidate(addr, length uint32) {
	p.flushes = append(p.flushes, flushCall{addr, length, true})
}

func (p *spyPlatform) Trigger(src, dst, config uint32) {
	call := triggerCall{src, dst, config}
	p.triggers = append(p.triggers, call)
	if p.onTrigger != nil {
		p.onTrigger(p, call)
	}
}

func (p *spyPlatform) Cycles() uint64 {
	p.cycles += p.step
	return p.cycles
}

func (p *spyPlatform) flushed(addr, length uint32) bool {
	for _, f := range p.flushes {
		if !f.invalidate && f.addr == addr && f.length == length {
			return true
		}
	}
	return false
}

// Descriptor as found in the spy's memory
type rawDescriptor struct {
	addr             uint32
	config           uint16
	xCount, yCount   uint16
	xModify, yModify int16
}

func (p *spyPlatform) descriptor(addr uint32) rawDescriptor {
	return rawDescriptor{
		addr:    bfin.JoinAddress(p.load16(addr+bfin.DESC_SAL), p.load16(addr+bfin.DESC_SAH)),
		config:  p.load16(addr + bfin.DESC_CFG),
		xCount:  p.load16(addr + bfin.DESC_XCNT),
		xModify: int16(p.load16(addr + bfin.DESC_XMOD)),
		yCount:  p.load16(addr + bfin.DESC_YCNT),
		yModify: int16(p.load16(addr + bfin.DESC_YMOD)),
	}
}
