package dspl

import "math"

// Selects how FFT stages keep their results in range
type ScaleMethod int

const (
	SCALE_STATIC  ScaleMethod = 1 // Halve every stage
	SCALE_DYNAMIC ScaleMethod = 2 // Halve a stage only if the working buffer may overflow
	SCALE_NONE    ScaleMethod = 3 // Never halve, saturate instead
)

// Minimum supported transform size
const MIN_FFT_SIZE = 4

// Values past these bounds may overflow in the next butterfly stage
const (
	DSCALE_UPPER Fract16 = 0x3fff
	DSCALE_LOWER Fract16 = -0x4000
)

// Fills `w` with the n/2 twiddle factors of a radix-2 transform of size
// `n`: w[k] = cos(2*pi*k/n) - i*sin(2*pi*k/n)
func TwiddleRad2(w []ComplexFract16, n int) {
	for k := 0; k < n/2 && k < len(w); k++ {
		a := 2 * math.Pi * float64(k) / float64(n)
		w[k] = ComplexFract16{
			Re: Float64ToFract16(math.Cos(a)),
			Im: Float64ToFract16(-math.Sin(a)),
		}
	}
}

// Reorders `v` in place into bit-reversed index order. len(v) must be a
// power of two. Applying it twice restores the original order
func BitReverse[T any](v []T) {
	n := len(v)
	j := 0
	for i := 0; i < n-1; i++ {
		if i < j {
			v[i], v[j] = v[j], v[i]
		}
		k := n >> 1
		for k <= j {
			j -= k
			k >>= 1
		}
		j += k
	}
}

// Returns true if any part of any value in `buf` lies outside the safe range
func needsScaling(buf []ComplexFract16) bool {
	for _, c := range buf {
		if c.Re > DSCALE_UPPER || c.Re < DSCALE_LOWER ||
			c.Im > DSCALE_UPPER || c.Im < DSCALE_LOWER {
			return true
		}
	}
	return false
}

// butterfly returns a+b and a-b, halved when `scaled` is set
func butterfly(a, b Fract16, scaled bool) (Fract16, Fract16) {
	if scaled {
		return Fract16((int32(a) + int32(b)) >> 1), Fract16((int32(a) - int32(b)) >> 1)
	}
	return Add(a, b), Sub(a, b)
}

// validFFT reports whether the transform arguments are usable
func validFFT(inLen, outLen int, w []ComplexFract16, stride, n int) bool {
	if n < MIN_FFT_SIZE || !isPowerOfTwo(n) || stride < 1 {
		return false
	}
	return inLen >= n && outLen >= n && len(w) >= stride*n/2
}

// transform runs the decimation-in-time stages over `work` (already in
// natural order) and returns the block exponent
func transform(work, w []ComplexFract16, stride, n int, scale ScaleMethod, inverse bool) int {
	BitReverse(work)

	exponent := 0
	scaleStage := func() bool {
		switch scale {
		case SCALE_NONE:
			return false
		case SCALE_DYNAMIC:
			if !needsScaling(work) {
				return false
			}
		}
		exponent++
		return true
	}

	// stage 0: adjacent pairs, all twiddles are 1
	scaled := scaleStage()
	for i := 0; i < n; i += 2 {
		a, b := work[i], work[i+1]
		work[i].Re, work[i+1].Re = butterfly(a.Re, b.Re, scaled)
		work[i].Im, work[i+1].Im = butterfly(a.Im, b.Im, scaled)
	}

	twiddleLen := stride * n / 2
	groups := n / 4
	offset := 2
	twiddleStep := stride * n / 4
	for groups > 0 {
		scaled = scaleStage()
		for g := 0; g < groups; g++ {
			base := g * 2 * offset
			t := 0
			for j := 0; j < offset; j++ {
				a := work[base+j]
				var b ComplexFract16
				if inverse {
					b = cMultConj(work[base+j+offset], w[t])
				} else {
					b = CMult(work[base+j+offset], w[t])
				}
				work[base+j].Re, work[base+j+offset].Re = butterfly(a.Re, b.Re, scaled)
				work[base+j].Im, work[base+j+offset].Im = butterfly(a.Im, b.Im, scaled)
				t = (t + twiddleStep) % twiddleLen
			}
		}
		groups >>= 1
		offset <<= 1
		twiddleStep >>= 1
	}
	return exponent
}

// Forward FFT of `n` real samples. `w` is a twiddle table made by
// TwiddleRad2 for size n*stride, of which every `stride`-th entry is used.
// Writes n complex bins to `out` and returns the block exponent: the number
// of times the data was halved. Invalid arguments leave `out` untouched and
// return 0
func RFFT(in []Fract16, out, w []ComplexFract16, stride, n int, scale ScaleMethod) int {
	if !validFFT(len(in), len(out), w, stride, n) {
		return 0
	}
	work := make([]ComplexFract16, n)
	for i := range work {
		work[i].Re = in[i]
	}
	exponent := transform(work, w, stride, n, scale, false)
	copy(out, work)
	return exponent
}

// Forward FFT of `n` complex samples. See RFFT
func CFFT(in, out, w []ComplexFract16, stride, n int, scale ScaleMethod) int {
	if !validFFT(len(in), len(out), w, stride, n) {
		return 0
	}
	work := make([]ComplexFract16, n)
	copy(work, in[:n])
	exponent := transform(work, w, stride, n, scale, false)
	copy(out, work)
	return exponent
}

// Inverse FFT of `n` complex bins, unnormalized apart from the scaling
// selected by `scale`. See RFFT
func IFFT(in, out, w []ComplexFract16, stride, n int, scale ScaleMethod) int {
	if !validFFT(len(in), len(out), w, stride, n) {
		return 0
	}
	work := make([]ComplexFract16, n)
	copy(work, in[:n])
	exponent := transform(work, w, stride, n, scale, true)
	copy(out, work)
	return exponent
}
