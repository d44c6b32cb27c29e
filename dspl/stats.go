package dspl

// Vectors shorter than this use the exact sum-of-squares variance
const VARIANCE_DIRECT_MAX_LEN = 256

// Arithmetic mean of `v`, truncated toward zero. Returns 0 for an empty vector
func Mean(v []Fract16) Fract16 {
	n := int64(len(v))
	if n == 0 {
		return 0
	}
	var sum int64
	for _, x := range v {
		sum += int64(x)
	}
	return Fract16(sum / n)
}

// Sample variance of `v` (divided by n-1). Returns 0 for fewer than two
// values. Short vectors use an exact sum of squares; longer ones subtract
// the mean first and accumulate Q15 squares with 32 bit saturation
func Variance(v []Fract16) Fract16 {
	n := int64(len(v))
	if n < 2 {
		return 0
	}

	var sum int64
	for _, x := range v {
		sum += int64(x)
	}

	if n < VARIANCE_DIRECT_MAX_LEN {
		var sumSq int64 // Q30
		for _, x := range v {
			sumSq += int64(x) * int64(x)
		}
		num := n*sumSq - sum*sum
		if num < 0 {
			return 0
		}
		return sat16Wide((num / (n * (n - 1))) >> FRACT_BITS)
	}

	mean := sum / n
	var acc int64 // Q15
	for _, x := range v {
		d := int64(x) - mean
		acc = Sat64(acc + (d*d)>>FRACT_BITS)
	}
	return sat16Wide(acc / (n - 1))
}

// Largest value of `v`. Returns 0 for an empty vector
func VecMax(v []Fract16) Fract16 {
	if len(v) == 0 {
		return 0
	}
	return v[VecMaxLoc(v)]
}

// Smallest value of `v`. Returns 0 for an empty vector
func VecMin(v []Fract16) Fract16 {
	if len(v) == 0 {
		return 0
	}
	return v[VecMinLoc(v)]
}

// Index of the first occurrence of the largest value of `v`. Returns 0 for
// an empty vector
func VecMaxLoc(v []Fract16) int {
	loc := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[loc] {
			loc = i
		}
	}
	return loc
}

// Index of the first occurrence of the smallest value of `v`. Returns 0 for
// an empty vector
func VecMinLoc(v []Fract16) int {
	loc := 0
	for i := 1; i < len(v); i++ {
		if v[i] < v[loc] {
			loc = i
		}
	}
	return loc
}

// Counts the samples of `in` into len(out) bins of equal width spanning
// [min, max). Bin i covers [min + i*size, min + (i+1)*size) with
// size = (max-min)/len(out); samples outside all bins are dropped. If the
// bin size is zero (or negative) `out` is left untouched
func Histogram(in []Fract16, out []int, max, min Fract16) {
	bins := len(out)
	if bins == 0 {
		return
	}
	size := (int32(max) - int32(min)) / int32(bins)
	if size <= 0 {
		return
	}

	for i := range out {
		out[i] = 0
	}
	for _, x := range in {
		if int32(x) < int32(min) {
			continue
		}
		edge := int32(min)
		for b := 0; b < bins; b++ {
			edge += size
			if int32(x) < edge {
				out[b]++
				break
			}
		}
	}
}
