package board

import (
	"math/rand"

	"github.com/herohde/shogo/pkg/shogi"
)

// Hash is a position hash covering piece placement, hands, and side to
// move, used for transposition table lookups and sennichite (repetition)
// draw detection.
type Hash uint64

// Table is a pseudo-randomized zobrist key table.
type Table struct {
	pieces [shogi.NumSides][shogi.NumPieceTypes][shogi.NumSquares]Hash
	hands  [shogi.NumSides][shogi.NumHandPieceTypes][shogi.MaxHandCount + 1]Hash
	turn   [shogi.NumSides]Hash
}

func NewTable(seed int64) *Table {
	t := &Table{}
	r := rand.New(rand.NewSource(seed))

	for side := shogi.Black; side < shogi.NumSides; side++ {
		for pt := shogi.PieceType(0); pt < shogi.NumPieceTypes; pt++ {
			for sq := shogi.ZeroSquare; sq < shogi.NumSquares; sq++ {
				t.pieces[side][pt][sq] = Hash(r.Uint64())
			}
		}
		for i := 0; i < shogi.NumHandPieceTypes; i++ {
			for c := 0; c <= shogi.MaxHandCount; c++ {
				t.hands[side][i][c] = Hash(r.Uint64())
			}
		}
		t.turn[side] = Hash(r.Uint64())
	}
	return t
}

// Hash computes the zobrist hash for the given position and side to move
// from scratch.
func (t *Table) Hash(p *Position, turn shogi.Side) Hash {
	var h Hash
	for sq := shogi.ZeroSquare; sq < shogi.NumSquares; sq++ {
		if piece := p.Square(sq); piece.IsValid() {
			h ^= t.pieces[piece.Side][piece.Type][sq]
		}
	}
	hands := p.Hands()
	for side := shogi.Black; side < shogi.NumSides; side++ {
		for i := 0; i < shogi.NumHandPieceTypes; i++ {
			h ^= t.hands[side][i][hands[side][i]]
		}
	}
	h ^= t.turn[turn]
	return h
}

// Pass computes the hash after a null move: only the side-to-move key
// changes, since no piece or hand count moves.
func (t *Table) Pass(h Hash) Hash {
	return h ^ t.turn[shogi.Black] ^ t.turn[shogi.White]
}

// Move computes the hash after applying m from position p (pre-move) as
// side, incrementally from the pre-move hash h. Cheaper than a full
// Hash recompute on the resulting position.
func (t *Table) Move(h Hash, p *Position, side shogi.Side, m shogi.Move) Hash {
	hash := h
	hash ^= t.turn[side]
	hash ^= t.turn[side.Opponent()]

	if m.IsDrop {
		idx := shogi.HandIndex(m.Piece)
		count := p.Hands()[side][idx]
		hash ^= t.hands[side][idx][count]
		hash ^= t.hands[side][idx][count-1]
		hash ^= t.pieces[side][m.Piece][m.To]
		return hash
	}

	piece := p.Square(m.From)
	hash ^= t.pieces[side][piece.Type][m.From]

	if cap := p.Square(m.To); cap.IsValid() {
		hash ^= t.pieces[cap.Side][cap.Type][m.To]
		idx := shogi.HandIndex(cap.Type.Demote())
		count := p.Hands()[side][idx]
		hash ^= t.hands[side][idx][count]
		hash ^= t.hands[side][idx][count+1]
	}

	pt := piece.Type
	if m.Promote {
		pt = pt.Promote()
	}
	hash ^= t.pieces[side][pt][m.To]
	return hash
}
