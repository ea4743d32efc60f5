// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// IntToFloat normalizes a signed integer sample of the given bit depth to
// [-1, 1).
func IntToFloat(v int64, bits int) float64 {
	return float64(v) / math.Ldexp(1, bits-1)
}

// FloatToInt scales x in [-1, 1] to a signed integer sample of the given
// bit depth, rounding to nearest and clamping to the representable range.
func FloatToInt(x float64, bits int) int64 {
	maxVal := int64(1)<<(bits-1) - 1
	minVal := -maxVal - 1

	if math.IsNaN(x) {
		return 0
	}

	scale := math.Ldexp(1, bits-1)
	r := math.Round(x * scale)
	if r >= scale {
		return maxVal
	}
	if r < -scale {
		return minVal
	}
	return int64(r)
}

// ConvertInt moves an integer sample between bit depths. Widening shifts
// left so the value can be narrowed back without loss; narrowing drops the
// low bits with an arithmetic shift.
func ConvertInt(v int64, from, to int) int64 {
	switch {
	case to > from:
		return v << (to - from)
	case to < from:
		return v >> (from - to)
	}
	return v
}
