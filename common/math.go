package common

import "math"

// Gravity is the default world gravity along y, in units per second squared.
// The world is y-up, so it is negative.
const Gravity = -9.81

// Epsilon is the tolerance used when comparing accumulated timers.
const Epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// NearlyEqual reports whether a and b differ by at most tol.
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
