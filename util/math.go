package util

import "math"
import "math/rand"

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func Min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// Clip bounds x into [lo, hi].
func Clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func ArrayEpsEquals(x, y []float64, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !EpsEqual(x[i], y[i], eps) {
			return false
		}
	}
	return true
}

func EpsEqual(x, y, eps float64) bool {
	return math.Abs(x-y) < eps
}

func RandomInInterval(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}
