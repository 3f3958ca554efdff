package utils

import "cmp"

// Clamp restricts value to the inclusive range [lower, upper].
//
// If the range is empty (lower > upper), upper takes precedence.
func Clamp[T cmp.Ordered](value, lower, upper T) T {
	return min(max(value, lower), upper)
}
