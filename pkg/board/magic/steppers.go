package magic

import "github.com/herohde/shogo/pkg/bit"

// stepAttack computes the jump/step attack set from every square for a
// fixed list of deltas, the way zurichess's initJumpAttack precomputes
// knight/king tables.
func stepAttack(deltas []Delta) [81]bit.Board128 {
	var out [81]bit.Board128
	for s := 0; s < 81; s++ {
		r0, f0 := s/9, s%9
		bb := bit.Empty
		for _, d := range deltas {
			r, f := r0+d.DR, f0+d.DF
			if inBounds(r, f) {
				bb = bb.Set(sq(r, f))
			}
		}
		out[s] = bb
	}
	return out
}

// King moves one square in any of the eight directions.
var KingAttack = stepAttack([]Delta{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
})

// Black moves toward decreasing rank index (rank 1 side); White toward
// increasing rank index, per the square layout in pkg/shogi where rank 1
// is row 0.

// PawnAttack is the single forward step, per side.
var PawnAttack = [2][81]bit.Board128{
	stepAttack([]Delta{{-1, 0}}), // Black
	stepAttack([]Delta{{1, 0}}),  // White
}

// KnightAttack is the two forward-diagonal jumps, per side.
var KnightAttack = [2][81]bit.Board128{
	stepAttack([]Delta{{-2, -1}, {-2, 1}}), // Black
	stepAttack([]Delta{{2, -1}, {2, 1}}),   // White
}

// SilverAttack moves one step forward (three forward directions) or
// diagonally backward, per side.
var SilverAttack = [2][81]bit.Board128{
	stepAttack([]Delta{{-1, -1}, {-1, 0}, {-1, 1}, {1, -1}, {1, 1}}),
	stepAttack([]Delta{{1, -1}, {1, 0}, {1, 1}, {-1, -1}, {-1, 1}}),
}

// GoldAttack (shared by Gold and all promoted pieces except Horse/Dragon)
// moves one step in six directions: all but the two backward diagonals.
var GoldAttack = [2][81]bit.Board128{
	stepAttack([]Delta{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, 0}}),
	stepAttack([]Delta{{1, -1}, {1, 0}, {1, 1}, {0, -1}, {0, 1}, {-1, 0}}),
}

// LanceDeltas is the single-ray forward direction, per side; lances slide
// so their attack set is produced by Build, not stepAttack.
var LanceDeltas = [2][]Delta{
	{{-1, 0}}, // Black
	{{1, 0}},  // White
}
