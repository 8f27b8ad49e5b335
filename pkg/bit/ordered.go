package bit

import "golang.org/x/exp/constraints"

// Min returns the smaller of a, b. Generalizes the scalar min/max helpers
// that used to be hand-copied at each call site (transposition bucket
// sizing, root-move worker fan-out, score clamping) into the one place
// golang.org/x/exp/constraints is meant for.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a, b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
