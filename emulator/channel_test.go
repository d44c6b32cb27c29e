package emulator

import (
	"testing"

	"github.com/zeozeozeo/goscar/bfin"
)

func walk(desc Descriptor) []uint32 {
	var addrs []uint32
	w := newAddressWalker(&desc)
	for {
		addr, ok := w.next()
		if !ok {
			return addrs
		}
		addrs = append(addrs, addr)
	}
}

func TestAddressWalker(t *testing.T) {
	tests := []struct {
		Desc  string
		D     Descriptor
		Addrs []uint32
	}{
		{
			"1D ignores the y fields",
			Descriptor{Addr: 0x100, Config: bfin.WDSIZE_32, XCount: 3, XModify: 4, YCount: 5, YModify: 100},
			[]uint32{0x100, 0x104, 0x108},
		},
		{
			"2D rows",
			Descriptor{Addr: 0x100, Config: bfin.WDSIZE_16 | bfin.DMA2D, XCount: 2, XModify: 2, YCount: 3, YModify: 14},
			[]uint32{0x100, 0x102, 0x110, 0x112, 0x120, 0x122},
		},
		{
			"negative modify",
			Descriptor{Addr: 0x10, Config: bfin.WDSIZE_8, XCount: 4, XModify: -1},
			[]uint32{0x10, 0x0f, 0x0e, 0x0d},
		},
		{
			"zero modify",
			Descriptor{Addr: 0x20, Config: bfin.WDSIZE_32, XCount: 3, XModify: 0},
			[]uint32{0x20, 0x20, 0x20},
		},
	}

	for _, test := range tests {
		got := walk(test.D)
		if len(got) != len(test.Addrs) {
			t.Errorf("%s: got %x, expected %x", test.Desc, got, test.Addrs)
			continue
		}
		for i := range got {
			if got[i] != test.Addrs[i] {
				t.Errorf("%s: got %x, expected %x", test.Desc, got, test.Addrs)
				break
			}
		}
		if n := test.D.Words(); int(n) != len(test.Addrs) {
			t.Errorf("%s: Words() = %d", test.Desc, n)
		}
	}
}

func TestDescriptorDecode(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	mem := NewMemory("test", 64, 0)
	writeDescriptor(mem, 2, Descriptor{
		Addr:    0xff801234,
		Config:  bfin.DMAEN | bfin.WNR | bfin.WDSIZE_16 | bfin.DMA2D | bfin.FLOW_ARRAY | bfin.NDSIZE_7,
		XCount:  10,
		XModify: -2,
		YCount:  0,
		YModify: 6,
	})
	desc := ReadDescriptor(mem, 2)

	assert(desc.Addr == 0xff801234)
	assert(desc.Enabled())
	assert(desc.Direction() == DIRECTION_WRITE)
	assert(desc.TwoD())
	assert(desc.Flow() == bfin.FLOW_ARRAY)
	assert(desc.WordBytes() == 2)
	assert(desc.XModify == -2)
	// a zero count means 65536
	assert(desc.Words() == 10*0x10000)
	assert(desc.TransferSize() == 2*10*0x10000)
}
