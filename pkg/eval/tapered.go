package eval

import "github.com/herohde/shogo/pkg/shogi"

// TaperedScore carries separate middlegame and endgame centipawn values,
// blended by the position's phase at evaluation time.
type TaperedScore struct {
	MG, EG int32
}

func (t TaperedScore) Add(o TaperedScore) TaperedScore {
	return TaperedScore{MG: t.MG + o.MG, EG: t.EG + o.EG}
}

func (t TaperedScore) Scale(n int32) TaperedScore {
	return TaperedScore{MG: t.MG * n, EG: t.EG * n}
}

// maxPhase is the phase value of the initial position, computed from the
// per-piece phase weights below over the 20 starting non-pawn, non-king
// pieces (ten a side).
const maxPhase = phaseWeightLance*4 +
	phaseWeightKnight*4 +
	phaseWeightSilver*4 +
	phaseWeightGold*4 +
	phaseWeightBishop*2 +
	phaseWeightRook*2

const (
	phaseWeightLance  = 1
	phaseWeightKnight = 1
	phaseWeightSilver = 1
	phaseWeightGold   = 1
	phaseWeightBishop = 2
	phaseWeightRook   = 2
)

// phaseWeight is the contribution one piece of pt (board or hand, either
// side) makes to the game phase; pieces not listed (pawns, kings, promoted
// forms) don't move the needle since their presence doesn't by itself
// signal middlegame vs. endgame material reduction. Promoted sliders count
// as their base form, since a Horse or Dragon is still "slider pressure" on
// the board for phase purposes.
func phaseWeight(pt shogi.PieceType) int32 {
	switch pt.Demote() {
	case shogi.Lance:
		return phaseWeightLance
	case shogi.Knight:
		return phaseWeightKnight
	case shogi.Silver:
		return phaseWeightSilver
	case shogi.Gold:
		return phaseWeightGold
	case shogi.Bishop:
		return phaseWeightBishop
	case shogi.Rook:
		return phaseWeightRook
	default:
		return 0
	}
}

// Blend interpolates between t.MG and t.EG given phase in [0, maxPhase],
// where phase == maxPhase is the opening (full material) and phase == 0 is
// a bare-bones endgame.
func (t TaperedScore) Blend(phase int32) int32 {
	if phase > maxPhase {
		phase = maxPhase
	} else if phase < 0 {
		phase = 0
	}
	return (t.MG*phase + t.EG*(maxPhase-phase)) / maxPhase
}
