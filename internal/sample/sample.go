// SPDX-License-Identifier: EPL-2.0

// Package sample holds scalar helpers shared by decoders, drivers and the
// mixer: interpolation, PCM integer conversion and gain conversion.
package sample

import "math"

// Cubic performs Catmull-Rom interpolation between y1 and y2.
// x is the fractional position in [0, 1].
func Cubic(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}

// FullScale returns the magnitude of the most negative integer sample for a
// bit depth. Unknown depths fall back to 16-bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// FromInt converts a signed integer sample to a float in [-1, 1).
func FromInt(v int, bitDepth int) float32 {
	return float32(v) / FullScale(bitDepth)
}

// ToInt clamps x to [-1, 1] and scales it to a signed integer sample, using
// the positive maximum so 1.0 does not overflow.
func ToInt(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int(float64(x) * float64(FullScale(bitDepth)-1))
}

// DBToGain converts decibels to a linear amplitude factor.
func DBToGain(db float32) float32 {
	if db == 0 {
		return 1
	}
	return float32(math.Pow(10, float64(db)/20))
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
