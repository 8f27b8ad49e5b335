// Package board implements the 9x9 shogi board representation, zobrist
// hashing, and move generation/application on top of pkg/bit and
// pkg/board/magic.
package board

import (
	"fmt"

	"github.com/herohde/shogo/pkg/bit"
	"github.com/herohde/shogo/pkg/board/magic"
	"github.com/herohde/shogo/pkg/shogi"
)

// Position is the piece placement and hands for both sides. It does not
// track side to move, move history, or game result -- that's Board's job.
type Position struct {
	pieces [shogi.NumSides][shogi.NumPieceTypes]bit.Board128
	occ    [shogi.NumSides]bit.Board128
	square [shogi.NumSquares]shogi.Piece
	hands  shogi.Hands
}

// Placement is re-exported here so callers constructing a Position don't
// need to import pkg/shogi/fen.
type Placement struct {
	Square shogi.Square
	Piece  shogi.Piece
}

// NewPosition builds a position from piece placements and hands, validating
// that each side has exactly one king.
func NewPosition(placements []Placement, hands shogi.Hands) (*Position, error) {
	p := &Position{hands: hands}
	var kings [shogi.NumSides]int

	for _, pl := range placements {
		if !pl.Square.IsValid() {
			return nil, fmt.Errorf("invalid square: %v", pl.Square)
		}
		if p.square[pl.Square].IsValid() {
			return nil, fmt.Errorf("duplicate piece on square: %v", pl.Square)
		}
		p.square[pl.Square] = pl.Piece
		p.pieces[pl.Piece.Side][pl.Piece.Type] = p.pieces[pl.Piece.Side][pl.Piece.Type].Set(int(pl.Square))
		p.occ[pl.Piece.Side] = p.occ[pl.Piece.Side].Set(int(pl.Square))
		if pl.Piece.Type == shogi.King {
			kings[pl.Piece.Side]++
		}
	}
	for side := shogi.Black; side < shogi.NumSides; side++ {
		if kings[side] != 1 {
			return nil, fmt.Errorf("side %v must have exactly one king, has %d", side, kings[side])
		}
	}
	return p, nil
}

// Square returns the piece on sq, or the zero Piece if empty.
func (p *Position) Square(sq shogi.Square) shogi.Piece {
	return p.square[sq]
}

// Hands returns the pieces held in hand by both sides.
func (p *Position) Hands() shogi.Hands {
	return p.hands
}

// Occupancy returns the combined occupied-square board for side.
func (p *Position) Occupancy(side shogi.Side) bit.Board128 {
	return p.occ[side]
}

// AllOccupancy returns the union of both sides' occupied squares.
func (p *Position) AllOccupancy() bit.Board128 {
	return p.occ[shogi.Black].Or(p.occ[shogi.White])
}

// Pieces returns the board for the given side/piece-type combination.
func (p *Position) Pieces(side shogi.Side, pt shogi.PieceType) bit.Board128 {
	return p.pieces[side][pt]
}

// King returns the square of side's king.
func (p *Position) King(side shogi.Side) shogi.Square {
	return shogi.Square(p.pieces[side][shogi.King].BitScanForward())
}

// Clone returns a deep copy (cheap: only fixed-size arrays).
func (p *Position) Clone() *Position {
	cp := *p
	return &cp
}

// attackersTo returns the set of side's pieces that attack sq, given the
// current occupancy. Direction-dependent piece kinds (pawn, knight,
// silver, gold-like, lance) are looked up via the reverse-direction trick:
// a side's piece attacks sq iff sq is within the opponent-direction
// table rooted at sq, since the step offsets are mirror images.
func (p *Position) attackersTo(sq shogi.Square, side shogi.Side) bit.Board128 {
	occ := p.AllOccupancy()
	s := int(sq)
	opp := side.Opponent()

	rookSliders := p.pieces[side][shogi.Rook].Or(p.pieces[side][shogi.PromotedRook])
	bishopSliders := p.pieces[side][shogi.Bishop].Or(p.pieces[side][shogi.PromotedBishop])

	out := bit.Empty
	out = out.Or(magic.Rook.Attacks(s, occ).And(rookSliders))
	out = out.Or(magic.Bishop.Attacks(s, occ).And(bishopSliders))
	out = out.Or(magic.Lance[opp].Attacks(s, occ).And(p.pieces[side][shogi.Lance]))

	goldLike := p.pieces[side][shogi.Gold].Or(p.pieces[side][shogi.PromotedPawn]).
		Or(p.pieces[side][shogi.PromotedLance]).Or(p.pieces[side][shogi.PromotedKnight]).Or(p.pieces[side][shogi.PromotedSilver])
	out = out.Or(magic.GoldAttack[opp][s].And(goldLike))
	out = out.Or(magic.SilverAttack[opp][s].And(p.pieces[side][shogi.Silver]))
	out = out.Or(magic.KnightAttack[opp][s].And(p.pieces[side][shogi.Knight]))
	out = out.Or(magic.PawnAttack[opp][s].And(p.pieces[side][shogi.Pawn]))

	// King and the promoted-slider king-step component share the
	// direction-independent KingAttack table.
	kingLike := p.pieces[side][shogi.King].Or(p.pieces[side][shogi.PromotedRook]).Or(p.pieces[side][shogi.PromotedBishop])
	out = out.Or(magic.KingAttack[s].And(kingLike))

	return out
}

// IsAttacked reports whether sq is attacked by side.
func (p *Position) IsAttacked(sq shogi.Square, side shogi.Side) bool {
	return !p.attackersTo(sq, side).IsZero()
}

// IsChecked reports whether side's king is currently in check.
func (p *Position) IsChecked(side shogi.Side) bool {
	return p.IsAttacked(p.King(side), side.Opponent())
}
