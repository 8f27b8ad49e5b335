package board

import (
	"github.com/herohde/shogo/pkg/bit"
	"github.com/herohde/shogo/pkg/board/magic"
	"github.com/herohde/shogo/pkg/shogi"
)

// pieceAttacks returns the squares a piece of the given side/type at sq can
// reach given board occupancy, ignoring whose pieces are there (pure
// attack/move set, used by both movegen and attackersTo).
func pieceAttacks(side shogi.Side, pt shogi.PieceType, sq shogi.Square, occ bit.Board128) bit.Board128 {
	s := int(sq)
	switch pt {
	case shogi.Pawn:
		return magic.PawnAttack[side][s]
	case shogi.Knight:
		return magic.KnightAttack[side][s]
	case shogi.Silver:
		return magic.SilverAttack[side][s]
	case shogi.Gold, shogi.PromotedPawn, shogi.PromotedLance, shogi.PromotedKnight, shogi.PromotedSilver:
		return magic.GoldAttack[side][s]
	case shogi.Lance:
		return magic.Lance[side].Attacks(s, occ)
	case shogi.Bishop:
		return magic.Bishop.Attacks(s, occ)
	case shogi.Rook:
		return magic.Rook.Attacks(s, occ)
	case shogi.King:
		return magic.KingAttack[s]
	case shogi.PromotedBishop:
		return magic.Bishop.Attacks(s, occ).Or(magic.KingAttack[s])
	case shogi.PromotedRook:
		return magic.Rook.Attacks(s, occ).Or(magic.KingAttack[s])
	default:
		return bit.Empty
	}
}

// inPromotionZone reports whether sq lies in side's three-rank promotion zone:
// ranks 1-3 for Black, ranks 7-9 for White (rank numbers are 1-indexed).
func inPromotionZone(side shogi.Side, sq shogi.Square) bool {
	r := sq.Rank()
	if side == shogi.Black {
		return r <= 3
	}
	return r >= 7
}

// mustPromote reports whether a piece of the given type landing on sq for
// side would have no legal moves if left unpromoted (the "no legal move"
// drop/move restriction): pawns and lances on the far rank, knights on the
// far two ranks.
func mustPromote(side shogi.Side, pt shogi.PieceType, sq shogi.Square) bool {
	r := sq.Rank()
	switch pt {
	case shogi.Pawn, shogi.Lance:
		if side == shogi.Black {
			return r == 1
		}
		return r == 9
	case shogi.Knight:
		if side == shogi.Black {
			return r <= 2
		}
		return r >= 8
	default:
		return false
	}
}
