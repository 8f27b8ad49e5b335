package search

import "github.com/herohde/shogo/pkg/shogi"

// maxPly bounds the killer-move table; a search deeper than this reuses the
// table's last slot rather
// than indexing out of bounds, since legal Shogi games run far longer than
// any full-width search horizon actually reaches.
const maxPly = 128

// Killers holds up to two quiet moves per ply that most recently caused a
// beta cutoff there. Tried immediately after the TT move and captures, since
// a move that refuted a sibling line is disproportionately likely to refute
// this one too.
type Killers struct {
	moves [maxPly][2]shogi.Move
}

// Record stores m as the newest killer at ply, demoting the previous first
// killer to second. A no-op if m is already the first killer.
func (k *Killers) Record(ply int, m shogi.Move) {
	i := clampPly(ply)
	if k.moves[i][0].Equals(m) {
		return
	}
	k.moves[i][1] = k.moves[i][0]
	k.moves[i][0] = m
}

// Priority returns a move's killer bonus at ply, zero if m is neither
// killer there.
func (k *Killers) Priority(ply int, m shogi.Move) Priority {
	i := clampPly(ply)
	switch {
	case k.moves[i][0].Equals(m):
		return killerScore1
	case k.moves[i][1].Equals(m):
		return killerScore2
	default:
		return 0
	}
}

func clampPly(ply int) int {
	if ply < 0 {
		return 0
	}
	if ply >= maxPly {
		return maxPly - 1
	}
	return ply
}

const (
	killerScore1 Priority = 3000
	killerScore2 Priority = 2500
)

// History is the "butterfly" quiet-move heuristic: a from/to square table,
// per side, incremented by depth^2 whenever a quiet move causes a cutoff
// and decremented for quiet moves tried and rejected at the same node, so
// moves that have tended to be good across the whole search rank ahead of
// moves that haven't, even away from the position that first tried them.
type History struct {
	score [shogi.NumSides][shogi.NumSquares][shogi.NumSquares]int32
}

// Record adjusts the history score for a quiet board move made by side,
// rewarding cutoffs and penalizing quiet moves that were tried and failed
// to improve alpha at the same node.
func (h *History) Record(side shogi.Side, m shogi.Move, depth int, good bool) {
	if m.IsDrop {
		return
	}
	bonus := int32(depth * depth)
	cell := &h.score[side][m.From][m.To]
	if good {
		*cell += bonus
	} else {
		*cell -= bonus
	}
	if *cell > historyCap {
		h.halve()
	} else if *cell < -historyCap {
		h.halve()
	}
}

// Priority returns the history score for a quiet board move, zero for drops
// (history is keyed by from/to square, which drops don't have a meaningful
// "from" for).
func (h *History) Priority(side shogi.Side, m shogi.Move) Priority {
	if m.IsDrop {
		return 0
	}
	return Priority(h.score[side][m.From][m.To] >> 10)
}

// halve ages every entry, keeping scores within the Priority range across a
// long search without ever resetting accumulated ordering information.
func (h *History) halve() {
	for s := range h.score {
		for i := range h.score[s] {
			for j := range h.score[s][i] {
				h.score[s][i][j] /= 2
			}
		}
	}
}

const historyCap = 1 << 20
