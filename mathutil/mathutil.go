// Package mathutil holds small numeric helpers shared by the scene packages.
package mathutil

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp clamps x into the inclusive range [lo, hi].
func Clamp[T Number](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp returns a + (b-a)*t.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// Approach moves current toward target by at most step, never overshooting.
func Approach[T constraints.Float](current, target, step T) T {
	if current < target {
		return min(current+step, target)
	}
	return max(current-step, target)
}
