// Package plot renders the histogram and spectrum of a captured frame into
// raster images.
package plot

import (
	"errors"
	"image"
	"io"

	"github.com/gogpu/gg"

	"github.com/zeozeozeo/goscar/dspl"
)

var ErrEmptyFigure = errors.New("plot: nothing to draw")

var (
	BackgroundColor = gg.White
	BarColor        = gg.Hex("#3060c0")
	LineColor       = gg.Hex("#c03030")
	AxisColor       = gg.Hex("#808080")
)

// Margin around every panel, in pixels
const MARGIN = 4.0

// Figure is a stack of panels: the frame on top (if set), then the
// histogram, then the magnitude spectrum.
type Figure struct {
	Frame     image.Image
	Histogram []int
	Spectrum  []dspl.Fract16
}

func (fig *Figure) panels() int {
	n := 0
	if fig.Frame != nil {
		n++
	}
	if len(fig.Histogram) > 0 {
		n++
	}
	if len(fig.Spectrum) > 0 {
		n++
	}
	return n
}

// Magnitudes returns |X[k]| for the first half of an FFT output. The second
// half of a real input's spectrum mirrors the first.
func Magnitudes(bins []dspl.ComplexFract16) []dspl.Fract16 {
	mags := make([]dspl.Fract16, len(bins)/2)
	for i := range mags {
		mags[i] = dspl.CAbs(bins[i])
	}
	return mags
}

func drawAxis(dc *gg.Context, x, y, w, h float64) error {
	dc.SetColor(AxisColor)
	dc.SetLineWidth(1)
	dc.DrawLine(x, y+h, x+w, y+h)
	return dc.Stroke()
}

// DrawHistogram fills one bar per bin inside the box at x, y. Bars are scaled
// so the largest count spans the full height.
func DrawHistogram(dc *gg.Context, x, y, w, h float64, counts []int) error {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	if len(counts) == 0 || peak == 0 {
		return drawAxis(dc, x, y, w, h)
	}

	barWidth := w / float64(len(counts))
	dc.SetColor(BarColor)
	for i, c := range counts {
		if c <= 0 {
			continue
		}
		barHeight := h * float64(c) / float64(peak)
		dc.DrawRectangle(x+float64(i)*barWidth, y+h-barHeight, barWidth, barHeight)
	}
	if err := dc.Fill(); err != nil {
		return err
	}
	return drawAxis(dc, x, y, w, h)
}

// DrawSpectrum strokes the magnitudes as a polyline inside the box at x, y.
func DrawSpectrum(dc *gg.Context, x, y, w, h float64, mags []dspl.Fract16) error {
	if len(mags) < 2 {
		return drawAxis(dc, x, y, w, h)
	}

	var peak dspl.Fract16 = 1
	for _, m := range mags {
		peak = max(peak, m)
	}

	step := w / float64(len(mags)-1)
	for i, m := range mags {
		px := x + float64(i)*step
		py := y + h - h*float64(m)/float64(peak)
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.SetColor(LineColor)
	dc.SetLineWidth(1.5)
	if err := dc.Stroke(); err != nil {
		return err
	}
	return drawAxis(dc, x, y, w, h)
}

func (fig *Figure) draw(width, height int) (*gg.Context, error) {
	n := fig.panels()
	if n == 0 {
		return nil, ErrEmptyFigure
	}
	if float64(width) <= 2*MARGIN || float64(height) <= 2*MARGIN*float64(n) {
		return nil, errors.New("plot: canvas too small")
	}

	dc := gg.NewContext(width, height)
	dc.ClearWithColor(BackgroundColor)

	panelHeight := float64(height) / float64(n)
	w := float64(width) - 2*MARGIN
	h := panelHeight - 2*MARGIN
	y := MARGIN

	if fig.Frame != nil {
		dc.DrawImage(gg.ImageBufFromImage(fig.Frame), MARGIN, y)
		y += panelHeight
	}
	if len(fig.Histogram) > 0 {
		if err := DrawHistogram(dc, MARGIN, y, w, h, fig.Histogram); err != nil {
			dc.Close()
			return nil, err
		}
		y += panelHeight
	}
	if len(fig.Spectrum) > 0 {
		if err := DrawSpectrum(dc, MARGIN, y, w, h, fig.Spectrum); err != nil {
			dc.Close()
			return nil, err
		}
	}
	return dc, nil
}

// Render draws the figure and returns the resulting image.
func (fig *Figure) Render(width, height int) (image.Image, error) {
	dc, err := fig.draw(width, height)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	if err := dc.FlushGPU(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Encode writes the figure to `w` as PNG.
func (fig *Figure) Encode(w io.Writer, width, height int) error {
	dc, err := fig.draw(width, height)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SavePNG writes the figure to a PNG file at `path`.
func (fig *Figure) SavePNG(path string, width, height int) error {
	dc, err := fig.draw(width, height)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.SavePNG(path)
}
