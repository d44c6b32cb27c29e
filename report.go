package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zeozeozeo/goscar/dspl"
	"github.com/zeozeozeo/goscar/plot"
)

const MAX_BINS = 128

// Results of one frame
type analysis struct {
	Width, Height int

	Mean     dspl.Fract16
	Variance dspl.Fract16
	Min      dspl.Fract16
	Max      dspl.Fract16
	MinAt    int
	MaxAt    int

	Histogram []int

	// FFT of the first row
	Spectrum []dspl.ComplexFract16
	Exponent int
}

func validFFTSize(n, width int) bool {
	return n >= dspl.MIN_FFT_SIZE && n&(n-1) == 0 && n <= width
}

func analyze(samples []dspl.Fract16, width, height, bins, fftSize int) (*analysis, error) {
	if len(samples) != width*height || len(samples) == 0 {
		return nil, fmt.Errorf("got %d samples for a %dx%d frame", len(samples), width, height)
	}
	if bins < 1 || bins > MAX_BINS {
		return nil, fmt.Errorf("bin count %d out of range 1..%d", bins, MAX_BINS)
	}

	a := &analysis{
		Width:     width,
		Height:    height,
		Mean:      dspl.Mean(samples),
		Variance:  dspl.Variance(samples),
		Min:       dspl.VecMin(samples),
		Max:       dspl.VecMax(samples),
		MinAt:     dspl.VecMinLoc(samples),
		MaxAt:     dspl.VecMaxLoc(samples),
		Histogram: make([]int, bins),
	}
	dspl.Histogram(samples, a.Histogram, dspl.Fract16(math.MaxInt16), dspl.Fract16(math.MinInt16))

	if fftSize == 0 {
		return a, nil
	}
	if !validFFTSize(fftSize, width) {
		return nil, fmt.Errorf("FFT size %d must be a power of two in %d..%d", fftSize, dspl.MIN_FFT_SIZE, width)
	}
	twiddles := make([]dspl.ComplexFract16, fftSize/2)
	dspl.TwiddleRad2(twiddles, fftSize)
	a.Spectrum = make([]dspl.ComplexFract16, fftSize)
	a.Exponent = dspl.RFFT(samples[:fftSize], a.Spectrum, twiddles, 1, fftSize, dspl.SCALE_DYNAMIC)
	return a, nil
}

// Prints the statistics and an ASCII histogram no wider than `cols`
func (a *analysis) print(w io.Writer, cols int) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "frame       %dx%d (%d samples)\n", a.Width, a.Height, a.Width*a.Height)
	p.Fprintf(w, "mean        %.4f\n", dspl.Fract16ToFloat64(a.Mean))
	p.Fprintf(w, "variance    %.4f\n", dspl.Fract16ToFloat64(a.Variance))
	p.Fprintf(w, "min         %.4f at (%d, %d)\n", dspl.Fract16ToFloat64(a.Min), a.MinAt%a.Width, a.MinAt/a.Width)
	p.Fprintf(w, "max         %.4f at (%d, %d)\n", dspl.Fract16ToFloat64(a.Max), a.MaxAt%a.Width, a.MaxAt/a.Width)

	peak := 0
	for _, c := range a.Histogram {
		peak = max(peak, c)
	}
	labels := make([]string, len(a.Histogram))
	labelWidth := 0
	for i, c := range a.Histogram {
		labels[i] = p.Sprintf("%d", c)
		labelWidth = max(labelWidth, len(labels[i]))
	}
	barSpace := max(cols-labelWidth-8, 1)

	fmt.Fprintln(w, "histogram")
	for i, c := range a.Histogram {
		n := 0
		if peak > 0 {
			n = c * barSpace / peak
		}
		fmt.Fprintf(w, "%4d %*s |%s\n", i, labelWidth, labels[i], strings.Repeat("#", n))
	}

	if a.Spectrum == nil {
		return
	}
	mags := plot.Magnitudes(a.Spectrum)
	k := dspl.VecMaxLoc(mags[1:]) + 1
	p.Fprintf(w, "fft         %d points, block exponent %d\n", len(a.Spectrum), a.Exponent)
	p.Fprintf(w, "dc          %.4f\n", dspl.Fract16ToFloat64(mags[0]))
	p.Fprintf(w, "peak        bin %d, %.4f\n", k, dspl.Fract16ToFloat64(mags[k]))
}
