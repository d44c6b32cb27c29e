package main

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/zeozeozeo/goscar/dspl"
)

// Returns a horizontal-plus-vertical ramp from black in the top-left
// corner to white in the bottom-right one
func gradient(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	span := max(width+height-2, 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Pix[y*img.Stride+x] = uint8((x + y) * 255 / span)
		}
	}
	return img
}

// Decodes the BMP at `path` and scales it to the sensor window as 8 bit
// luma
func loadFrame(path string, width, height int) (*image.Gray, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src, err := bmp.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// Maps 8 bit pixels onto the Q15 range, 128 being zero
func pixelToFract16(p byte) dspl.Fract16 {
	return dspl.Fract16((int16(p) - 128) << 8)
}

func pixelsToSamples(row []byte, out []dspl.Fract16) {
	for i, p := range row {
		out[i] = pixelToFract16(p)
	}
}
