package dma

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zeozeozeo/goscar/bfin"
	"github.com/zeozeozeo/goscar/emulator"
)

var _ Platform = (*emulator.Board)(nil)

func newBoardDMA(t *testing.T, timeout uint64) (*emulator.Board, *DMA) {
	t.Helper()
	board := emulator.NewBoard(emulator.Config{SDRAMSize: 1 << 20})
	d, err := New(board, Config{Base: 0x80000, SyncTimeout: timeout})
	if err != nil {
		t.Fatal(err)
	}
	return board, d
}

func pattern(n int, seed byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)*7 + seed
	}
	return data
}

func TestBoardMemCopySync(t *testing.T) {
	board, d := newBoardDMA(t, DEFAULT_SYNC_TIMEOUT)
	chain, err := d.AllocateChain()
	if err != nil {
		t.Fatal(err)
	}

	data := pattern(1024, 3)
	if err := board.LoadImage(bytes.NewReader(data), 0x1000, uint32(len(data))); err != nil {
		t.Fatal(err)
	}
	board.Flush(0x1000, uint32(len(data)))

	if err := chain.MemCopySync(bfin.L1_DATA_A_START, 0x1000, uint32(len(data))); err != nil {
		t.Fatal(err)
	}
	for i, b := range data {
		if got := board.Load8(bfin.L1_DATA_A_START + uint32(i)); got != b {
			t.Fatalf("byte %d: got 0x%x, expected 0x%x", i, got, b)
		}
	}
	if err := board.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestBoardRestartChain(t *testing.T) {
	board, d := newBoardDMA(t, DEFAULT_SYNC_TIMEOUT)
	chain, _ := d.AllocateChain()

	if err := chain.MemCopySync(bfin.L1_DATA_A_START, 0x1000, 64); err != nil {
		t.Fatal(err)
	}

	// same chain, new frame
	for frame := byte(1); frame <= 3; frame++ {
		data := pattern(64, frame)
		if err := board.LoadImage(bytes.NewReader(data), 0x1000, 64); err != nil {
			t.Fatal(err)
		}
		board.Flush(0x1000, 64)

		if err := chain.Start(); err != nil {
			t.Fatal(err)
		}
		if err := chain.Sync(); err != nil {
			t.Fatal(err)
		}
		for i, b := range data {
			if got := board.Load8(bfin.L1_DATA_A_START + uint32(i)); got != b {
				t.Fatalf("frame %d byte %d: got 0x%x, expected 0x%x", frame, i, got, b)
			}
		}
	}

	board.Wait()
	if stats := board.Mdma.Stats(); stats.Chains != 4 {
		t.Errorf("%d chains executed, expected 4", stats.Chains)
	}
}

func TestBoardUnflushedSourceIsStale(t *testing.T) {
	board, d := newBoardDMA(t, DEFAULT_SYNC_TIMEOUT)
	chain, _ := d.AllocateChain()

	board.Store32(0x1000, 0x11223344) // stays in the cache
	if err := chain.MemCopySync(bfin.SCRATCHPAD_START, 0x1000, 4); err != nil {
		t.Fatal(err)
	}
	if board.Load32(bfin.SCRATCHPAD_START) == 0x11223344 {
		t.Fatal("controller read through the cache")
	}

	board.Flush(0x1000, 4)
	if err := chain.MemCopySync(bfin.SCRATCHPAD_START, 0x1000, 4); err != nil {
		t.Fatal(err)
	}
	if board.Load32(bfin.SCRATCHPAD_START) != 0x11223344 {
		t.Fatal("flushed data not copied")
	}
}

func TestBoardMultiMoveChain(t *testing.T) {
	board, d := newBoardDMA(t, DEFAULT_SYNC_TIMEOUT)
	chain, _ := d.AllocateChain()

	// 8x8 frame of 16 bit pixels in SDRAM
	const width, height = 8, 8
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			board.Store16(0x4000+(y*width+x)*2, uint16(y<<8|x))
		}
	}
	board.Flush(0x4000, width*height*2)

	// column 3 into L1, then row 5 into L1 right after it
	err := chain.AddMove1D(
		Transfer{Addr: bfin.L1_DATA_A_START, WordSize: WORD_SIZE_16, XCount: height, XModify: 2},
		Transfer{Addr: 0x4000 + 3*2, WordSize: WORD_SIZE_16, XCount: height, XModify: width * 2},
	)
	if err != nil {
		t.Fatal(err)
	}
	// same row, read as 32 bit words and written as halfwords
	err = chain.AddMove1D(
		Transfer{Addr: bfin.L1_DATA_A_START + height*2, WordSize: WORD_SIZE_16, XCount: width, XModify: 2},
		Transfer{Addr: 0x4000 + 5*width*2, WordSize: WORD_SIZE_32, XCount: width / 2, XModify: 4},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := chain.AddSyncPoint(); err != nil {
		t.Fatal(err)
	}
	if err := chain.Start(); err != nil {
		t.Fatal(err)
	}
	if err := chain.Sync(); err != nil {
		t.Fatal(err)
	}

	for y := uint32(0); y < height; y++ {
		if got := board.Load16(bfin.L1_DATA_A_START + y*2); got != uint16(y<<8|3) {
			t.Errorf("column pixel %d: 0x%x", y, got)
		}
	}
	for x := uint32(0); x < width; x++ {
		if got := board.Load16(bfin.L1_DATA_A_START + height*2 + x*2); got != uint16(5<<8|x) {
			t.Errorf("row pixel %d: 0x%x", x, got)
		}
	}
}

func TestBoardCopyBackToSDRAM(t *testing.T) {
	board, d := newBoardDMA(t, DEFAULT_SYNC_TIMEOUT)
	chain, _ := d.AllocateChain()

	for i := uint32(0); i < 16; i++ {
		board.Store32(bfin.L1_DATA_A_START+i*4, i*i)
	}
	// prime the cache with the destination's old contents
	for i := uint32(0); i < 16; i++ {
		board.Load32(0x6000 + i*4)
	}

	if err := chain.MemCopySync(0x6000, bfin.L1_DATA_A_START, 64); err != nil {
		t.Fatal(err)
	}
	if board.Load32(0x6000+8) == 4 {
		t.Fatal("expected stale cached data before invalidating")
	}
	board.FlushInvalidate(0x6000, 64)
	for i := uint32(0); i < 16; i++ {
		if got := board.Load32(0x6000 + i*4); got != i*i {
			t.Errorf("word %d: got %d", i, got)
		}
	}
}

func TestBoardConcurrentChains(t *testing.T) {
	board, d := newBoardDMA(t, DEFAULT_SYNC_TIMEOUT)

	var chains []*Chain
	for i := 0; i < MAX_NR_DMA_CHAINS; i++ {
		chain, err := d.AllocateChain()
		if err != nil {
			t.Fatal(err)
		}
		chains = append(chains, chain)

		src := uint32(0x10000 + i*0x1000)
		data := pattern(256, byte(i))
		board.LoadImage(bytes.NewReader(data), src, 256)
		board.Flush(src, 256)

		err = chain.AddMove1D(
			Transfer{Addr: bfin.L1_DATA_A_START + uint32(i)*256, WordSize: WORD_SIZE_32, XCount: 64, XModify: 4},
			Transfer{Addr: src, WordSize: WORD_SIZE_32, XCount: 64, XModify: 4},
		)
		if err != nil {
			t.Fatal(err)
		}
		chain.AddSyncPoint()
	}

	for _, chain := range chains {
		if err := chain.Start(); err != nil {
			t.Fatal(err)
		}
	}
	for i, chain := range chains {
		if err := chain.Sync(); err != nil {
			t.Fatalf("chain %d: %v", i, err)
		}
	}

	for i := range chains {
		data := pattern(256, byte(i))
		for j, b := range data {
			if got := board.Load8(bfin.L1_DATA_A_START + uint32(i*256+j)); got != b {
				t.Fatalf("chain %d byte %d: 0x%x", i, j, got)
			}
		}
	}
	board.Wait()
	if stats := board.Mdma.Stats(); stats.Chains != MAX_NR_DMA_CHAINS {
		t.Errorf("controller finished %d chains", stats.Chains)
	}
}

func TestBoardSyncTimeout(t *testing.T) {
	board, d := newBoardDMA(t, 5000)
	chain, _ := d.AllocateChain()

	// no sync point, the flag is never set
	if err := chain.MemCopy(bfin.L1_DATA_A_START, 0x1000, 16); err != nil {
		t.Fatal(err)
	}
	if err := chain.Sync(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("got %v, expected ErrTimeout", err)
	}
	board.Wait()
	if err := board.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestBoardSlowTransferTimesOut(t *testing.T) {
	board := emulator.NewBoard(emulator.Config{SDRAMSize: 1 << 20, CoreClockHz: 1000, BytesPerCycle: 1})
	d, err := New(board, Config{Base: 0x80000, SyncTimeout: 5})
	if err != nil {
		t.Fatal(err)
	}
	chain, _ := d.AllocateChain()

	// 64 bytes at one byte per cycle of 1ms
	if err := chain.MemCopySync(bfin.L1_DATA_A_START, 0x1000, 64); !errors.Is(err, ErrTimeout) {
		t.Fatalf("got %v, expected ErrTimeout", err)
	}

	board.Wait()
	if err := chain.Sync(); err != nil {
		t.Errorf("sync after the controller finished: %v", err)
	}
}
