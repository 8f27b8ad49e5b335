package board

import (
	"github.com/herohde/shogo/pkg/shogi"
)

// PseudoLegalMoves returns every move and drop available to side without
// checking whether it leaves side's own king in check.
func (p *Position) PseudoLegalMoves(side shogi.Side) []shogi.Move {
	var out []shogi.Move
	out = append(out, p.generateBoardMoves(side)...)
	out = append(out, p.generateDrops(side)...)
	return out
}

// LegalMoves filters PseudoLegalMoves down to those that don't leave side's
// own king in check, and excludes pawn drops that deliver an unanswerable
// checkmate (uchifuzume).
func (p *Position) LegalMoves(side shogi.Side) []shogi.Move {
	var out []shogi.Move
	for _, m := range p.PseudoLegalMoves(side) {
		next, ok := p.Move(side, m)
		if !ok {
			continue
		}
		if next.IsChecked(side) {
			continue
		}
		if m.IsDrop && m.Piece == shogi.Pawn && next.IsChecked(side.Opponent()) {
			if len(next.LegalMoves(side.Opponent())) == 0 {
				continue // uchifuzume: illegal pawn-drop checkmate
			}
		}
		out = append(out, m)
	}
	return out
}

func (p *Position) generateBoardMoves(side shogi.Side) []shogi.Move {
	var out []shogi.Move
	occ := p.AllOccupancy()
	own := p.Occupancy(side)

	for pt := shogi.Pawn; pt < shogi.NumPieceTypes; pt++ {
		for _, from := range p.pieces[side][pt].Squares() {
			fromSq := shogi.Square(from)
			targets := pieceAttacks(side, pt, fromSq, occ).AndNot(own)
			for _, to := range targets.Squares() {
				toSq := shogi.Square(to)
				cap := p.Square(toSq)

				canPromote := pt.IsPromotable() && (inPromotionZone(side, fromSq) || inPromotionZone(side, toSq))
				forced := pt.IsPromotable() && mustPromote(side, pt, toSq)

				if !forced {
					out = append(out, shogi.Move{From: fromSq, To: toSq, Capture: cap})
				}
				if canPromote {
					out = append(out, shogi.Move{From: fromSq, To: toSq, Promote: true, Capture: cap})
				}
			}
		}
	}
	return out
}

func (p *Position) generateDrops(side shogi.Side) []shogi.Move {
	var out []shogi.Move
	occ := p.AllOccupancy()
	empty := occ.Not()

	for i := 0; i < shogi.NumHandPieceTypes; i++ {
		pt := handPieceAt(i)
		if p.hands.Count(side, pt) == 0 {
			continue
		}
		for _, to := range empty.Squares() {
			toSq := shogi.Square(to)
			if mustPromote(side, pt, toSq) {
				continue // would have no legal moves if dropped here
			}
			if pt == shogi.Pawn && p.hasUnpromotedPawnOnFile(side, toSq.File()) {
				continue // nifu
			}
			out = append(out, shogi.Move{IsDrop: true, Piece: pt, To: toSq})
		}
	}
	return out
}

func (p *Position) hasUnpromotedPawnOnFile(side shogi.Side, file int) bool {
	for _, sq := range p.pieces[side][shogi.Pawn].Squares() {
		if shogi.Square(sq).File() == file {
			return true
		}
	}
	return false
}

func handPieceAt(i int) shogi.PieceType {
	order := [shogi.NumHandPieceTypes]shogi.PieceType{shogi.Pawn, shogi.Lance, shogi.Knight, shogi.Silver, shogi.Gold, shogi.Bishop, shogi.Rook}
	return order[i]
}

// Move applies a pseudo-legal move or drop for side, returning the
// resulting position. Returns ok=false if the move is structurally
// inconsistent with the position (e.g. no piece on From).
func (p *Position) Move(side shogi.Side, m shogi.Move) (*Position, bool) {
	next := p.Clone()

	if m.IsDrop {
		if next.hands.Count(side, m.Piece) == 0 {
			return nil, false
		}
		if next.Square(m.To).IsValid() {
			return nil, false
		}
		next.hands.Remove(side, m.Piece)
		next.place(shogi.Piece{Type: m.Piece, Side: side}, m.To)
		return next, true
	}

	piece := next.Square(m.From)
	if !piece.IsValid() || piece.Side != side {
		return nil, false
	}

	next.remove(m.From)
	if cap := next.Square(m.To); cap.IsValid() {
		next.remove(m.To)
		next.hands.Add(side, cap.Type)
	}

	pt := piece.Type
	if m.Promote {
		pt = pt.Promote()
	}
	next.place(shogi.Piece{Type: pt, Side: side}, m.To)
	return next, true
}

func (p *Position) place(piece shogi.Piece, sq shogi.Square) {
	p.square[sq] = piece
	p.pieces[piece.Side][piece.Type] = p.pieces[piece.Side][piece.Type].Set(int(sq))
	p.occ[piece.Side] = p.occ[piece.Side].Set(int(sq))
}

func (p *Position) remove(sq shogi.Square) {
	piece := p.square[sq]
	if !piece.IsValid() {
		return
	}
	p.square[sq] = shogi.NoPiece
	p.pieces[piece.Side][piece.Type] = p.pieces[piece.Side][piece.Type].Clear(int(sq))
	p.occ[piece.Side] = p.occ[piece.Side].Clear(int(sq))
}
