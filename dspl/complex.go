package dspl

// Complex value made of two Q15 parts
type ComplexFract16 struct {
	Re Fract16
	Im Fract16
}

// Saturating complex addition
func CAdd(a, b ComplexFract16) ComplexFract16 {
	return ComplexFract16{Re: Add(a.Re, b.Re), Im: Add(a.Im, b.Im)}
}

// Saturating complex subtraction
func CSub(a, b ComplexFract16) ComplexFract16 {
	return ComplexFract16{Re: Sub(a.Re, b.Re), Im: Sub(a.Im, b.Im)}
}

// Complex conjugate
func Conj(a ComplexFract16) ComplexFract16 {
	return ComplexFract16{Re: a.Re, Im: Negate(a.Im)}
}

// Complex multiplication built from four rounded real products
func CMult(a, b ComplexFract16) ComplexFract16 {
	re := Fract32(MultR(a.Re, b.Re)) - Fract32(MultR(a.Im, b.Im))
	im := Fract32(MultR(a.Re, b.Im)) + Fract32(MultR(a.Im, b.Re))
	return ComplexFract16{Re: Sat16(re), Im: Sat16(im)}
}

// Multiplies `a` by the conjugate of `b`
func cMultConj(a, b ComplexFract16) ComplexFract16 {
	re := Fract32(MultR(a.Re, b.Re)) + Fract32(MultR(a.Im, b.Im))
	im := Fract32(MultR(a.Im, b.Re)) - Fract32(MultR(a.Re, b.Im))
	return ComplexFract16{Re: Sat16(re), Im: Sat16(im)}
}
