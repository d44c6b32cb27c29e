package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/gogpu/gg"

	"github.com/zeozeozeo/goscar/bfin"
	"github.com/zeozeozeo/goscar/dma"
	"github.com/zeozeozeo/goscar/emulator"
	"github.com/zeozeozeo/goscar/osclog"
	"github.com/zeozeozeo/goscar/plot"
)

type options struct {
	framePath string
	width     int
	height    int
	bins      int
	fftSize   int
	plotPath  string // "-" writes the PNG to stdout
	view      bool
	columns   int
}

type result struct {
	frame    *image.Gray
	analysis *analysis
}

func main() {
	var opts options
	flag.StringVar(&opts.framePath, "frame", "", "BMP sensor frame (synthetic gradient if empty)")
	flag.IntVar(&opts.width, "width", 64, "sensor window width, a multiple of 4")
	flag.IntVar(&opts.height, "height", 48, "sensor window height")
	flag.IntVar(&opts.bins, "bins", 16, "histogram bins")
	flag.IntVar(&opts.fftSize, "fft", 64, "FFT size over the first row, 0 to skip")
	flag.StringVar(&opts.plotPath, "plot", "", "write a PNG plot to this file, - for stdout")
	flag.BoolVar(&opts.view, "view", false, "show the plot in a window")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := osclog.NewText(os.Stderr, *verbose)
	osclog.SetLogger(log)
	gg.SetLogger(log)

	if opts.plotPath == "-" && isTerminal(os.Stdout) {
		log.Error("refusing to write a PNG to a terminal")
		os.Exit(2)
	}
	opts.columns = terminalColumns(os.Stdout)

	report := os.Stdout
	if opts.plotPath == "-" {
		report = os.Stderr
	}
	res, err := run(&opts, report)
	if err != nil {
		log.Error("capture failed", "err", err)
		os.Exit(1)
	}
	if err := output(&opts, res, os.Stdout); err != nil {
		log.Error("plot failed", "err", err)
		os.Exit(1)
	}
}

// Builds the frame, moves it through the board with DMA, analyses it and
// prints the report to `w`
func run(opts *options, w io.Writer) (*result, error) {
	log := osclog.Logger()
	start := time.Now()

	var frame *image.Gray
	if opts.framePath == "" {
		frame = gradient(opts.width, opts.height)
	} else {
		var err error
		if frame, err = loadFrame(opts.framePath, opts.width, opts.height); err != nil {
			return nil, err
		}
	}

	board := emulator.NewBoard(emulator.Config{})
	d, err := dma.New(board, dma.Config{Base: bfin.SCRATCHPAD_START})
	if err != nil {
		return nil, err
	}
	defer d.Close()

	c, err := newCapture(board, d, opts.width, opts.height)
	if err != nil {
		return nil, err
	}
	if err := c.load(frame); err != nil {
		return nil, err
	}
	samples, err := c.run()
	if err != nil {
		return nil, err
	}
	board.Wait()
	stats := board.Mdma.Stats()
	log.Debug("frame captured", "chains", stats.Chains, "moves", stats.Moves, "bytes", stats.Bytes, "took", time.Since(start))

	a, err := analyze(samples, opts.width, opts.height, opts.bins, opts.fftSize)
	if err != nil {
		return nil, err
	}
	a.print(w, opts.columns)
	return &result{frame: frame, analysis: a}, nil
}

func (res *result) figure() *plot.Figure {
	fig := &plot.Figure{
		Frame:     res.frame,
		Histogram: res.analysis.Histogram,
	}
	if res.analysis.Spectrum != nil {
		fig.Spectrum = plot.Magnitudes(res.analysis.Spectrum)
	}
	return fig
}

// Size of the plot canvas: three panels at least as large as the frame
func figureSize(frame image.Image) (int, int) {
	b := frame.Bounds()
	w := max(320, b.Dx()+2*int(plot.MARGIN))
	h := max(120, b.Dy()+2*int(plot.MARGIN))
	return w, 3 * h
}

// Writes the PNG and opens the viewer as requested
func output(opts *options, res *result, stdout io.Writer) error {
	if opts.plotPath == "" && !opts.view {
		return nil
	}
	fig := res.figure()
	w, h := figureSize(res.frame)

	switch opts.plotPath {
	case "":
	case "-":
		if err := fig.Encode(stdout, w, h); err != nil {
			return err
		}
	default:
		if err := fig.SavePNG(opts.plotPath, w, h); err != nil {
			return fmt.Errorf("save %s: %w", opts.plotPath, err)
		}
	}

	if !opts.view {
		return nil
	}
	img, err := fig.Render(w, h)
	if err != nil {
		return err
	}
	return newViewer(img, 2).run("goscar")
}
