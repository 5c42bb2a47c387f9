package common

import (
	"github.com/chewxy/math32"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp restricts v to the closed range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SRGBToLinear converts a single sRGB-encoded channel in [0, 1] to linear.
func SRGBToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}

// HexToLinearRGB converts a 0xRRGGBB color to linear RGB components.
//
// Parameters:
//   - hex: packed 24-bit sRGB color
//
// Returns:
//   - [3]float32: linear red, green, blue in [0, 1]
func HexToLinearRGB(hex uint32) [3]float32 {
	c := HexToRGB(hex)
	return [3]float32{SRGBToLinear(c[0]), SRGBToLinear(c[1]), SRGBToLinear(c[2])}
}

// HexToRGB unpacks a 0xRRGGBB color into its encoded components without conversion.
func HexToRGB(hex uint32) [3]float32 {
	return [3]float32{
		float32((hex>>16)&0xFF) / 255.0,
		float32((hex>>8)&0xFF) / 255.0,
		float32(hex&0xFF) / 255.0,
	}
}
