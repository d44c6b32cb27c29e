package dspl

// Polynomial coefficients of sin(x*pi/2)/2 for x in [0, 1)
var sinCoef = [5]Fract16{0x6480, 0x0059, -0x2ab3 /* 0xd54d */, 0x0252, 0x0388}

// sqrt(0.5 + u) for u in [0, 0.5)
var sqrtCoefHi = [5]Fract16{0x5a83, 0x5a61, -0x2b36, 0x203c, -0x0edd}

// sqrt(0.25 + u/2) for u in [0, 0.5)
var sqrtCoefLo = [5]Fract16{0x4000, 0x3fe8, -0x1e8e, 0x16cb, -0x0a83}

// sqrt(2) - 1
const SQRT2_MINUS_ONE Fract16 = 0x3505

// sinCore evaluates the sine polynomial for a non-negative argument
func sinCore(xabs Fract16) Fract16 {
	var acc Fract32
	xpow := xabs
	for k := 0; k < len(sinCoef); k++ {
		// Q31 product
		acc += (Fract32(xpow) * Fract32(sinCoef[k])) << 1
		xpow = MultR(xpow, xabs)
	}
	return Sat16(acc >> FRACT_BITS)
}

// Sine of `x`, where the input range [-1.0, 1.0) maps to [-pi/2, pi/2)
func Sin(x Fract16) Fract16 {
	r := sinCore(Abs(x))
	if x < 0 {
		return -r
	}
	return r
}

// Cosine of `x`, using the same angle mapping as Sin
func Cos(x Fract16) Fract16 {
	// FR16_MIN - |x| wraps around to 1.0 - |x|
	y := FR16_MIN - Abs(x)
	return sinCore(Abs(y))
}

// Square root of `x`. Returns 0 for x <= 0
func Sqrt(x Fract16) Fract16 {
	if x <= 0 {
		return 0
	}

	// bring x into [0x2000, 0x7fff], every step multiplies by 4 and
	// doubles the root
	steps := (countLeadingZeroesU16(uint16(x)) - 1) / 2
	x <<= 2 * steps

	var u Fract16
	var coef *[5]Fract16
	if x >= 0x4000 {
		u = x - 0x4000
		coef = &sqrtCoefHi
	} else {
		u = (x - 0x2000) << 1
		coef = &sqrtCoefLo
	}

	acc := Fract32(coef[0])
	upow := u
	for k := 1; k < len(coef); k++ {
		acc += Fract32(MultR(upow, coef[k]))
		upow = MultR(upow, u)
	}
	return Sat16(acc) >> steps
}

// Magnitude of a complex value
func CAbs(c ComplexFract16) Fract16 {
	re := Abs(c.Re)
	im := Abs(c.Im)

	// fast paths
	if re == 0 {
		return im
	}
	if im == 0 {
		return re
	}
	if re == im {
		return Add(re, MultR(re, SQRT2_MINUS_ONE))
	}

	hi, lo := re, im
	if lo > hi {
		hi, lo = lo, hi
	}

	// |c| = hi * sqrt(1 + (lo/hi)^2) = 2 * hi * sqrt((1 + r^2) / 4)
	ratio := Fract16((int32(lo) << FRACT_BITS) / int32(hi))
	root := Sqrt(0x2000 + MultR(ratio, ratio)>>2)
	return Sat16(Fract32((int32(hi)*int32(root) + 0x2000) >> 14))
}
