package dspl

func countLeadingZeroesU16(val uint16) uint16 {
	var r uint16
	for ((val & 0x8000) == 0) && r < 16 {
		val <<= 1
		r++
	}
	return r
}

// Returns true if `n` is a power of two
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
