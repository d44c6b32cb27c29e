package dspl

import (
	"math"
	"testing"
)

func TestMultRRounding(t *testing.T) {
	tests := []struct {
		Desc string
		A, B Fract16
		Want Fract16
	}{
		{"exact half rounds down to even", 0x4000, 1, 0},
		{"exact half rounds up to even", 0x4000, 3, 2},
		{"negative exact half rounds to even", 0x4000, -1, 0},
		{"negative exact half rounds away to even", 0x4000, -3, -2},
		{"above half rounds up", 0x4001, 1, 1},
		{"below half rounds down", 0x3fff, 1, 0},
		{"one half squared", 0x4000, 0x4000, 0x2000},
		{"-1 * -1 saturates", FR16_MIN, FR16_MIN, FR16_MAX},
		{"-1 * max", FR16_MIN, FR16_MAX, -FR16_MAX},
		{"zero", 0, 0x1234, 0},
	}

	for _, test := range tests {
		if got := MultR(test.A, test.B); got != test.Want {
			t.Errorf("%s: MultR(0x%x, 0x%x) = 0x%x, expected 0x%x", test.Desc, test.A, test.B, got, test.Want)
		}
	}
}

func TestMultRCommutative(t *testing.T) {
	for a := int32(math.MinInt16); a <= math.MaxInt16; a += 97 {
		for b := int32(math.MinInt16); b <= math.MaxInt16; b += 89 {
			x, y := Fract16(a), Fract16(b)
			if MultR(x, y) != MultR(y, x) {
				t.Fatalf("MultR(0x%x, 0x%x) != MultR(0x%x, 0x%x)", x, y, y, x)
			}
		}
	}
}

func TestMultRMatchesFloat(t *testing.T) {
	// rounded products never deviate from the exact product by more than
	// half an LSB, except for the saturated -1 * -1
	for a := int32(math.MinInt16) + 1; a <= math.MaxInt16; a += 61 {
		for b := int32(math.MinInt16) + 1; b <= math.MaxInt16; b += 67 {
			exact := float64(a) * float64(b) / 32768
			got := float64(MultR(Fract16(a), Fract16(b)))
			if math.Abs(got-exact) > 0.5 {
				t.Fatalf("MultR(%d, %d) = %v, exact %v", a, b, got, exact)
			}
		}
	}
}

func TestMultTruncated(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(Mult(0x4000, 3) == 1)
	assert(Mult(0x4000, -1) == -1)
	assert(Mult(0x4000, 0x4000) == 0x2000)
	assert(Mult(FR16_MIN, FR16_MIN) == FR16_MAX)
	assert(Mult(0x7fff, 0x7fff) == 0x7ffe)
	assert(MultR(0x7fff, 0x7fff) == 0x7ffe)
}

func TestSat16(t *testing.T) {
	values := []Fract32{
		FR32_MIN, -0x10000, -0x8001, -0x8000, -0x7fff, -1, 0, 1,
		0x7ffe, 0x7fff, 0x8000, 0x12345, FR32_MAX,
	}

	for i, x := range values {
		s := Sat16(x)
		// idempotent
		if Sat16(Fract32(s)) != s {
			t.Errorf("Sat16 not idempotent for 0x%x", x)
		}
		// monotonic
		if i > 0 && Sat16(values[i-1]) > s {
			t.Errorf("Sat16 not monotonic between 0x%x and 0x%x", values[i-1], x)
		}
	}

	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}
	assert(Sat16(0x8000) == FR16_MAX)
	assert(Sat16(-0x8001) == FR16_MIN)
	assert(Sat16(-5) == -5)
}

func TestSat64(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(Sat64(0) == 0)
	assert(Sat64(math.MaxInt32) == math.MaxInt32)
	assert(Sat64(math.MaxInt32+1) == math.MaxInt32)
	assert(Sat64(math.MinInt32-1) == math.MinInt32)
	assert(Sat64(math.MaxInt64) == math.MaxInt32)
	assert(Sat64(-1234567) == -1234567)
}

func TestAddSubNegate(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(Add(0x7000, 0x7000) == FR16_MAX)
	assert(Add(-0x7000, -0x7000) == FR16_MIN)
	assert(Add(0x1000, -0x0800) == 0x0800)
	assert(Sub(FR16_MIN, 1) == FR16_MIN)
	assert(Sub(0, FR16_MIN) == FR16_MAX)
	assert(Negate(FR16_MIN) == FR16_MAX)
	assert(Negate(5) == -5)
	assert(Abs(FR16_MIN) == FR16_MAX)
	assert(Abs(-0x1234) == 0x1234)
}

func TestFloatConversion(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(Float64ToFract16(0.5) == 0x4000)
	assert(Float64ToFract16(-1) == FR16_MIN)
	assert(Float64ToFract16(1) == FR16_MAX)
	assert(Float64ToFract16(-2) == FR16_MIN)
	assert(Float64ToFract16(0.25) == 0x2000)
	assert(Fract16ToFloat64(0x4000) == 0.5)
	assert(Fract16ToFloat64(FR16_MIN) == -1)
}

func TestComplex(t *testing.T) {
	a := ComplexFract16{0x4000, 0x2000}
	b := ComplexFract16{0x4000, -0x4000}

	if got := CMult(a, b); got != (ComplexFract16{0x3000, -0x1000}) {
		t.Errorf("CMult: got %+v", got)
	}
	if got := cMultConj(a, b); got != (ComplexFract16{0x1000, 0x3000}) {
		t.Errorf("cMultConj: got %+v", got)
	}
	if got := CAdd(a, b); got != (ComplexFract16{0x7fff, -0x2000}) {
		t.Errorf("CAdd: got %+v", got)
	}
	if got := CSub(a, b); got != (ComplexFract16{0, 0x6000}) {
		t.Errorf("CSub: got %+v", got)
	}
	if got := Conj(ComplexFract16{1, FR16_MIN}); got != (ComplexFract16{1, FR16_MAX}) {
		t.Errorf("Conj: got %+v", got)
	}
}
