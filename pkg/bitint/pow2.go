/*
Package bitint provides the bit manipulation helpers the radix-2 FFT
and the zero-padding paths depend on.

Design Principles:
- Zero Allocations: All operations use stack memory only
- Predictable Performance: O(1) constant time operations
- Real-Time Safe: No locks, syscalls, or blocking operations

Usage:

	// Pad a 1000 sample frame up to a valid transform size
	n := bitint.NextPowerOfTwo(1000) // Returns 1024

	// Number of butterfly stages for a 1024 point transform
	stages := bitint.Log2(1024) // Returns 10

	// Bit-reversed position of index 1 in an 8 point transform
	j := bitint.Reverse(1, 3) // Returns 4

----------------------------------------------------------------------

NextPowerOfTwo subtracts one before measuring the bit length so that
exact powers of two are preserved:

	input 8: 8-1 = 7 (0111), bits.Len(7) = 3, 1<<3 = 8
	input 9: 9-1 = 8 (1000), bits.Len(8) = 4, 1<<4 = 16
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size.
//
// Examples:
//
//	Input  Output  Explanation
//	4      4      Already power of 2 (preserved)
//	5      8      Next power after 5
//	0      1      Handle zero case
//	-1     1      Handle negative case
func NextPowerOfTwo(size int) int {
	if size <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of 2. Powers of two
// have exactly one bit set, so n & (n-1) clears it to zero.
//
//	Input  Output  Binary
//	8      true    1000 & 0111 = 0000
//	7      false   0111 & 0110 = 0110
//	0      false   Not positive
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Log2 returns the exponent of the highest set bit of n, which for a
// power of two is the number of radix-2 stages. Non-positive n yields 0.
func Log2(n int) int {
	if n <= 0 {
		return 0
	}
	return bits.Len(uint(n)) - 1
}

// Reverse returns the lowest width bits of i in reverse order. It is the
// index permutation applied before the iterative butterflies.
func Reverse(i, width int) int {
	if width <= 0 {
		return 0
	}
	return int(bits.Reverse(uint(i)) >> (bits.UintSize - width))
}
