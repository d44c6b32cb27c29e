package main

import (
	"bytes"
	"fmt"
	"image"

	"github.com/zeozeozeo/goscar/bfin"
	"github.com/zeozeozeo/goscar/dma"
	"github.com/zeozeozeo/goscar/dspl"
	"github.com/zeozeozeo/goscar/emulator"
)

// Where the frame lands in SDRAM
const FRAME_ADDR uint32 = 0x00100000

// Row buffers in L1, one per chain
const LINE_BUFFERS = 2

// Moves a frame from SDRAM into L1 one row at a time. Two chains take turns
// so the next row is in flight while the current one is read
type capture struct {
	board  *emulator.Board
	chains [LINE_BUFFERS]*dma.Chain
	lines  [LINE_BUFFERS]uint32
	width  uint32
	height uint32
}

func newCapture(board *emulator.Board, d *dma.DMA, width, height int) (*capture, error) {
	if width <= 0 || width%4 != 0 {
		return nil, fmt.Errorf("frame width %d must be a positive multiple of 4", width)
	}
	stride := (uint32(width) + bfin.CACHE_LINE_SIZE - 1) &^ (bfin.CACHE_LINE_SIZE - 1)
	if stride*LINE_BUFFERS > bfin.L1_DATA_A_SIZE {
		return nil, fmt.Errorf("frame width %d does not fit the L1 line buffers", width)
	}
	if uint64(width)*uint64(height) > uint64(bfin.SDRAM_SIZE-FRAME_ADDR) {
		return nil, fmt.Errorf("frame %dx%d does not fit SDRAM", width, height)
	}

	c := &capture{board: board, width: uint32(width), height: uint32(height)}
	for i := range c.chains {
		chain, err := d.AllocateChain()
		if err != nil {
			return nil, err
		}
		c.chains[i] = chain
		c.lines[i] = bfin.L1_DATA_A_START + uint32(i)*stride
	}
	return c, nil
}

// Copies the frame into SDRAM through the core and writes it back so the
// controller sees it
func (c *capture) load(frame *image.Gray) error {
	size := c.width * c.height
	pix := frame.Pix
	if frame.Stride != int(c.width) {
		pix = make([]byte, 0, size)
		for y := 0; y < int(c.height); y++ {
			off := y * frame.Stride
			pix = append(pix, frame.Pix[off:off+int(c.width)]...)
		}
	}
	if err := c.board.LoadImage(bytes.NewReader(pix), FRAME_ADDR, size); err != nil {
		return err
	}
	c.board.Flush(FRAME_ADDR, size)
	return nil
}

func (c *capture) startRow(y uint32) error {
	i := y % LINE_BUFFERS
	chain := c.chains[i]
	chain.Reset()

	words := c.width / 4
	err := chain.AddMove1D(
		dma.Transfer{Addr: c.lines[i], WordSize: dma.WORD_SIZE_32, XCount: words, XModify: 4},
		dma.Transfer{Addr: FRAME_ADDR + y*c.width, WordSize: dma.WORD_SIZE_32, XCount: words, XModify: 4},
	)
	if err != nil {
		return err
	}
	if err := chain.AddSyncPoint(); err != nil {
		return err
	}
	return chain.Start()
}

// Runs the capture and returns every pixel as a Q15 sample, row by row
func (c *capture) run() ([]dspl.Fract16, error) {
	samples := make([]dspl.Fract16, c.width*c.height)
	row := make([]byte, c.width)

	if err := c.startRow(0); err != nil {
		return nil, err
	}
	for y := uint32(0); y < c.height; y++ {
		if y+1 < c.height {
			if err := c.startRow(y + 1); err != nil {
				return nil, err
			}
		}

		i := y % LINE_BUFFERS
		if err := c.chains[i].Sync(); err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		for x := range row {
			row[x] = c.board.Load8(c.lines[i] + uint32(x))
		}
		pixelsToSamples(row, samples[y*c.width:(y+1)*c.width])
	}
	if err := c.board.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}
