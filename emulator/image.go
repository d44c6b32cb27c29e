package emulator

import (
	"fmt"
	"io"
)

// Copies exactly `size` bytes from `r` to `addr` through the core's data
// path, as a boot loader would. The data ends up in the cache for cached
// memory, so flush before handing it to the DMA controller
func (board *Board) LoadImage(r io.Reader, addr, size uint32) error {
	board.Inter.MustFind(addr, size)

	data := make([]byte, size)
	n, err := io.ReadFull(r, data)
	if err != nil {
		return fmt.Errorf("load image at 0x%x: expected %d bytes, got %d: %w", addr, size, n, err)
	}
	for i, b := range data {
		board.Store8(addr+uint32(i), b)
	}
	board.log.Debug("image loaded", "addr", addr, "size", size)
	return nil
}
