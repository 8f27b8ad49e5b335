package search

import (
	"context"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/shogi"
)

// Exploration defines move ordering and selection in a given position:
// limited exploration is required by quiescence search and is useful for
// forward pruning in full search. FullExploration is the default: explore
// all moves, MVV-LVA ordered.
type Exploration func(ctx context.Context, b *board.Board) (PriorityFn, PredicateFn)

// FullExploration explores every pseudo-legal move, MVV-LVA ordered.
func FullExploration(ctx context.Context, b *board.Board) (PriorityFn, PredicateFn) {
	return MVVLVA(b.Position()), IsAnyMove
}

// IsAnyMove selects every move. Default predicate for full-width search.
func IsAnyMove(m shogi.Move) bool { return true }

// NoMove selects no move. Used to disable quiescence extension entirely.
func NoMove(m shogi.Move) bool { return false }

// QuiescenceExploration explores captures and promotions that net material
// or land on an undefended square, MVV-LVA ordered -- the noisy-move-only
// set quiescence search needs to avoid degenerating into a full-width
// search at every leaf.
func QuiescenceExploration(ctx context.Context, b *board.Board) (PriorityFn, PredicateFn) {
	return MVVLVA(b.Position()), IsQuickGain(b)
}

// IsQuickGain selects promotions and any capture that nets material or
// lands on an undefended square -- the standard quiescence move set.
func IsQuickGain(b *board.Board) PredicateFn {
	pos := b.Position()
	return func(m shogi.Move) bool {
		if !m.IsDrop && m.Promote {
			return true
		}
		if m.Capture.IsValid() {
			if eval.NominalValue(attacker(pos, m)) < eval.NominalValue(m.Capture.Type) {
				return true
			}
			if !pos.IsAttacked(m.To, b.Turn().Opponent()) {
				return true
			}
		}
		return false
	}
}

// MVVLVA returns the most-valuable-victim/least-valuable-attacker move
// priority: captures are ranked by victim value first, attacker value
// (negated) as a tiebreak, and quiet moves all rank zero.
func MVVLVA(pos *board.Position) PriorityFn {
	return func(m shogi.Move) Priority {
		if p := Priority(1000 * eval.NominalValueGain(m)); p > 0 {
			return p - Priority(eval.NominalValue(attacker(pos, m)))
		}
		return 0
	}
}

// attacker returns the piece type making move m: the dropped piece for a
// drop, or whatever currently occupies m.From for a board move.
func attacker(pos *board.Position, m shogi.Move) shogi.PieceType {
	if m.IsDrop {
		return m.Piece
	}
	return pos.Square(m.From).Type
}

// Ordered combines MVV-LVA captures with killer and history scores for
// quiet moves, the tt-move-first / MVV-LVA / killer / history ordering used
// by the main search: captures always rank above quiet moves (MVVLVA
// already returns 0 for non-captures), and quiet moves are broken by
// killer status first, history score second.
func Ordered(pos *board.Position, side shogi.Side, ply int, killers *Killers, history *History) PriorityFn {
	mvvlva := MVVLVA(pos)
	return func(m shogi.Move) Priority {
		if p := mvvlva(m); p > 0 {
			return quietCeiling + p
		}
		if p := killers.Priority(ply, m); p > 0 {
			return p
		}
		return history.Priority(side, m)
	}
}

// quietCeiling keeps every capture ranked above every killer/history score,
// which are bounded well below it in practice but not by construction.
const quietCeiling = 10000

// First reorders fn to try preferred ahead of everything else, used to
// search a transposition table's best move or the prior iteration's PV move
// first.
func First(preferred shogi.Move, fn PriorityFn) PriorityFn {
	return func(m shogi.Move) Priority {
		if m.Equals(preferred) {
			return 1 << 30
		}
		return fn(m)
	}
}

// Selection builds a priority/predicate pair that explores exactly the
// moves in list, in list order -- used to restrict search to a specific
// candidate set (e.g. a ponder line or a UCI "searchmoves" restriction).
func Selection(list []shogi.Move) (PriorityFn, PredicateFn) {
	rank := map[shogi.Move]Priority{}
	for i, m := range list {
		rank[m] = Priority(len(list) - i)
	}
	priority := func(m shogi.Move) Priority { return rank[m] }
	pick := func(m shogi.Move) bool { _, ok := rank[m]; return ok }
	return priority, pick
}
