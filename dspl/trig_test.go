package dspl

import (
	"math"
	"testing"
)

func TestSinCosKnownValues(t *testing.T) {
	tests := []struct {
		X        Fract16
		Sin, Cos Fract16
	}{
		{0, 0, 32767},
		{8192, 12539, 30274},
		{16384, 23170, 23170},
		{-16384, -23170, 23170},
		{32767, 32767, 1},
		{-32768, -32767, 1},
	}

	for _, test := range tests {
		if got := Sin(test.X); got != test.Sin {
			t.Errorf("Sin(%d) = %d, expected %d", test.X, got, test.Sin)
		}
		if got := Cos(test.X); got != test.Cos {
			t.Errorf("Cos(%d) = %d, expected %d", test.X, got, test.Cos)
		}
	}
}

func TestSinCosAccuracy(t *testing.T) {
	for i := math.MinInt16; i <= math.MaxInt16; i++ {
		x := Fract16(i)
		a := float64(i) * math.Pi / 65536

		if e := math.Abs(float64(Sin(x)) - 32768*math.Sin(a)); e > 2 {
			t.Fatalf("Sin(%d) off by %v LSB", i, e)
		}
		if e := math.Abs(float64(Cos(x)) - 32768*math.Cos(a)); e > 2 {
			t.Fatalf("Cos(%d) off by %v LSB", i, e)
		}
	}
}

func TestSinOdd(t *testing.T) {
	for i := -math.MaxInt16; i <= math.MaxInt16; i += 7 {
		x := Fract16(i)
		if Sin(-x) != -Sin(x) {
			t.Fatalf("Sin(-%d) != -Sin(%d)", i, i)
		}
		if Cos(-x) != Cos(x) {
			t.Fatalf("Cos(-%d) != Cos(%d)", i, i)
		}
	}
}

func TestSqrt(t *testing.T) {
	tests := []struct {
		X, Want Fract16
	}{
		{-5, 0},
		{FR16_MIN, 0},
		{0, 0},
		{1, 181},
		{2, 256},
		{3, 313},
		{256, 2896},
		{1000, 5724},
		{0x2000, 16384},
		{0x4000, 23171},
		{0x7fff, 32767},
	}

	for _, test := range tests {
		if got := Sqrt(test.X); got != test.Want {
			t.Errorf("Sqrt(%d) = %d, expected %d", test.X, got, test.Want)
		}
	}
}

func TestSqrtAccuracy(t *testing.T) {
	for i := 1; i <= math.MaxInt16; i++ {
		want := 32768 * math.Sqrt(float64(i)/32768)
		if e := math.Abs(float64(Sqrt(Fract16(i))) - want); e > 3 {
			t.Fatalf("Sqrt(%d) off by %v LSB", i, e)
		}
	}
}

func TestCAbs(t *testing.T) {
	tests := []struct {
		Re, Im Fract16
		Want   Fract16
	}{
		{0, 0, 0},
		{3000, 4000, 5000},
		{-3000, 4000, 5000},
		{0, -5, 5},
		{7, 0, 7},
		{1000, 1000, 1414},
		{-32768, 0, 32767},
		{16384, 16384, 23170},
		{20000, 20000, 28284},
		{32767, 32767, 32767},
		{12000, 5000, 13000},
	}

	for _, test := range tests {
		if got := CAbs(ComplexFract16{test.Re, test.Im}); got != test.Want {
			t.Errorf("CAbs(%d, %d) = %d, expected %d", test.Re, test.Im, got, test.Want)
		}
	}
}

func TestCAbsAccuracy(t *testing.T) {
	for re := -23000; re <= 23000; re += 97 {
		for im := -23000; im <= 23000; im += 89 {
			got := CAbs(ComplexFract16{Fract16(re), Fract16(im)})
			if e := math.Abs(float64(got) - math.Hypot(float64(re), float64(im))); e > 5 {
				t.Fatalf("CAbs(%d, %d) = %d, off by %v LSB", re, im, got, e)
			}
		}
	}
}
