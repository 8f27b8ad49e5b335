// Package eval provides static position evaluation: material scoring tapered
// between middlegame and endgame phase, loadable value sets, and noise
// injection for move-ordering diversification.
package eval

import (
	"context"

	"github.com/herohde/shogo/pkg/bit"
	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/shogi"
)

// Score is a centipawn evaluation from the perspective of the side to move.
type Score int32

const (
	// Inf is larger than any real evaluation; used as a search bound.
	Inf Score = 30000
	// NegInf is smaller than any real evaluation.
	NegInf Score = -Inf
	// Mate is the base score for a forced mate, ply-adjusted by
	// IncrementMateDistance/DecrementMateDistance so that shorter mates
	// score higher than longer ones.
	Mate Score = 29000
	// MateThreshold separates mate scores from ordinary material scores.
	MateThreshold Score = Mate - 1000
)

// Evaluator statically scores a position from side's perspective.
type Evaluator interface {
	Evaluate(ctx context.Context, b *board.Board, side shogi.Side, hands *shogi.Hands) Score
}

// IsMate reports whether s encodes a forced mate rather than a material score.
func (s Score) IsMate() bool {
	return s > MateThreshold || s < -MateThreshold
}

// IncrementMateDistance biases a mate score one ply further from the root,
// applied when storing a child's score into the parent (negamax unwind) or
// when reading a transposition table entry back into the probing search's
// own perspective.
func IncrementMateDistance(s Score) Score {
	switch {
	case s > MateThreshold:
		return s - 1
	case s < -MateThreshold:
		return s + 1
	default:
		return s
	}
}

// DecrementMateDistance undoes IncrementMateDistance, applied when writing
// a score into a transposition table entry: the stored value is
// canonicalized to be independent of the writing node's ply, so a probe
// from a different ply (a genuine transposition) still recovers the
// correct mate distance.
func DecrementMateDistance(s Score) Score {
	switch {
	case s > MateThreshold:
		return s + 1
	case s < -MateThreshold:
		return s - 1
	default:
		return s
	}
}

// MateDistance returns the number of plies to the forced mate s encodes, if
// any. A search that finds a mate within the current iterative-deepening
// depth need not search deeper to improve on it.
func (s Score) MateDistance() (int, bool) {
	if !s.IsMate() {
		return 0, false
	}
	if s > 0 {
		return int(Mate - s), true
	}
	return int(Mate + s), true
}

// Crop clamps s into [NegInf, Inf].
func Crop(s Score) Score {
	switch {
	case s > Inf:
		return Inf
	case s < NegInf:
		return NegInf
	default:
		return s
	}
}

// Max returns the larger of a, b.
func Max(a, b Score) Score {
	return bit.Max(a, b)
}

// Min returns the smaller of a, b.
func Min(a, b Score) Score {
	return bit.Min(a, b)
}
