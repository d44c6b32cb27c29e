// Package dspl is a fixed-point DSP library working on Q15 values. All
// operations saturate instead of wrapping, and degenerate input yields a
// sentinel value (usually 0) instead of an error.
package dspl

import "math"

// Q15 fixed-point value: raw / 32768, range [-1.0, 0.99997]
type Fract16 int16

// 32 bit fixed-point intermediate, usually the product of two Fract16
type Fract32 int32

const (
	FR16_MAX Fract16 = math.MaxInt16
	FR16_MIN Fract16 = math.MinInt16
	FR32_MAX Fract32 = math.MaxInt32
	FR32_MIN Fract32 = math.MinInt32
)

// Number of fractional bits
const FRACT_BITS = 15

// Clamps `x` to the Fract16 range
func Sat16(x Fract32) Fract16 {
	if x > Fract32(FR16_MAX) {
		return FR16_MAX
	}
	if x < Fract32(FR16_MIN) {
		return FR16_MIN
	}
	return Fract16(x)
}

// Clamps a 64 bit accumulator to the Fract32 range. Used to keep long
// summations from wrapping
func Sat64(x int64) int64 {
	if x > int64(FR32_MAX) {
		return int64(FR32_MAX)
	}
	if x < int64(FR32_MIN) {
		return int64(FR32_MIN)
	}
	return x
}

// sat16Wide clamps a 64 bit value straight to the Fract16 range
func sat16Wide(x int64) Fract16 {
	return Sat16(Fract32(Sat64(x)))
}

// Multiplies two Q15 values and rounds the result to nearest, ties to even
func MultR(a, b Fract16) Fract16 {
	p := int32(a) * int32(b)
	q := p >> FRACT_BITS
	r := p & 0x7fff // discarded bits

	if r > 0x4000 || (r == 0x4000 && q&1 != 0) {
		q++
	}
	return Sat16(Fract32(q))
}

// Multiplies two Q15 values and truncates the result
func Mult(a, b Fract16) Fract16 {
	p := int32(a) * int32(b)
	return Sat16(Fract32(p >> FRACT_BITS))
}

// Saturating addition
func Add(a, b Fract16) Fract16 {
	return Sat16(Fract32(a) + Fract32(b))
}

// Saturating subtraction
func Sub(a, b Fract16) Fract16 {
	return Sat16(Fract32(a) - Fract32(b))
}

// Returns -x. FR16_MIN has no positive counterpart and becomes FR16_MAX
func Negate(x Fract16) Fract16 {
	if x == FR16_MIN {
		return FR16_MAX
	}
	return -x
}

// Returns |x|, saturated like Negate
func Abs(x Fract16) Fract16 {
	if x < 0 {
		return Negate(x)
	}
	return x
}

// Converts a float in [-1.0, 1.0) to Q15, rounding to nearest and
// saturating out of range values
func Float64ToFract16(f float64) Fract16 {
	v := math.Round(f * (1 << FRACT_BITS))
	if v >= float64(FR16_MAX) {
		return FR16_MAX
	}
	if v <= float64(FR16_MIN) {
		return FR16_MIN
	}
	return Fract16(v)
}

// Converts a Q15 value to a float
func Fract16ToFloat64(x Fract16) float64 {
	return float64(x) / (1 << FRACT_BITS)
}
