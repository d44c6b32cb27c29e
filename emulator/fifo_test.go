package emulator

import "testing"

func TestFIFO(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	fifo := NewFIFO()
	assert(fifo.IsEmpty())
	assert(fifo.Free() == 16)

	fifo.PushWord(0x11223344, ACCESS_WORD)
	assert(fifo.Length() == 4)
	assert(fifo.PopWord(ACCESS_HALFWORD) == 0x3344)
	assert(fifo.PopWord(ACCESS_BYTE) == 0x22)
	assert(fifo.Pop() == 0x11)
	assert(fifo.IsEmpty())

	for i := 0; i < 16; i++ {
		fifo.Push(byte(i))
	}
	assert(fifo.IsFull())
	assert(fifo.Free() == 0)
	assert(fifo.PopWord(ACCESS_WORD) == 0x03020100)

	fifo.Clear()
	assert(fifo.IsEmpty())
	assert(fifo.Length() == 0)
}
