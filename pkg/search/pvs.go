package search

import (
	"context"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// PVS implements principal variation search: the first move at each node is
// searched with a full window, and every subsequent move with a cheap
// null-window probe that only gets a full re-search if it fails high. The
// main search loop also carries null-move pruning, a check extension,
// internal iterative deepening when no TT move is available, and late move
// reductions. Null-move pruning can cut a node off without searching any of
// its moves; a reduced or null-window search that looks promising is
// re-searched at full depth and window.
// Pseudo-code for the PVS core:
//
// function pvs(node, depth, α, β) is
//
//	if depth = 0 or node is a terminal node then
//	    return the heuristic value of node
//	for each child of node do
//	    if child is first child then
//	        score := −pvs(child, depth − 1, −β, −α)
//	    else
//	        score := −pvs(child, depth − 1, −α − 1, −α) (* null window *)
//	        if α < score < β then
//	            score := −pvs(child, depth − 1, −β, −score) (* re-search *)
//	    α := max(α, score)
//	    if α ≥ β then
//	        break (* β cutoff *)
//	return α
//
// See: https://en.wikipedia.org/wiki/Principal_variation_search.
type PVS struct {
	Explore Exploration
	Eval    QuietSearch
}

// nullMoveMinDepth/nullMoveReduction/iidMinDepth/iidReduction/lmrMinDepth/
// lmrMinMoveIndex gate the heuristics below to depths where they pay for
// themselves; below these thresholds every move is searched at full depth
// and window, so a shallow search remains exact.
const (
	nullMoveMinDepth  = 3
	nullMoveReduction = 2
	iidMinDepth       = 4
	iidReduction      = 2
	lmrMinDepth       = 3
	lmrMinMoveIndex   = 3
)

func (p PVS) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []shogi.Move, error) {
	run := &runPVS{
		explore: p.Explore,
		eval:    p.Eval,
		tt:      sctx.TT,
		noise:   sctx.Noise,
		b:       b,
	}
	score, moves := run.search(ctx, depth, 0, sctx.Alpha, sctx.Beta)
	if contextx.IsCancelled(ctx) {
		return 0, 0, nil, ErrHalted
	}
	return run.nodes, score, moves, nil
}

type runPVS struct {
	explore Exploration
	eval    QuietSearch
	tt      TranspositionTable
	noise   eval.Random
	b       *board.Board
	nodes   uint64

	killers Killers
	history History
}

func (m *runPVS) search(ctx context.Context, depth, ply int, alpha, beta eval.Score) (eval.Score, []shogi.Move) {
	if contextx.IsCancelled(ctx) {
		return 0, nil
	}

	alphaOrig := alpha

	var best shogi.Move
	if bound, d, score, mv, ok := m.tt.Read(m.b.Hash(), ply); ok {
		best = mv
		if depth <= d {
			switch {
			case bound == ExactBound:
				return score, nil
			case bound == LowerBound && score >= beta:
				return score, nil
			case bound == UpperBound && score <= alpha:
				return score, nil
			}
		}
	}

	if depth == 0 {
		sctx := &Context{Alpha: alpha, Beta: beta, TT: m.tt, Noise: m.noise}
		nodes, score := m.eval.QuietSearch(ctx, sctx, m.b)
		m.nodes += nodes
		leaf := ExactBound
		switch {
		case score <= alpha:
			leaf = UpperBound
		case score >= beta:
			leaf = LowerBound
		}
		score = rootRelativeScore(score, ply)
		m.tt.Write(m.b.Hash(), leaf, ply, 0, score, shogi.Move{})
		return score, nil
	}

	m.nodes++

	inCheck := m.b.Position().IsChecked(m.b.Turn())
	if inCheck {
		depth++ // check extension: never resolve a check at the search horizon
	}

	if !inCheck && depth >= nullMoveMinDepth && beta < eval.MateThreshold && hasNonPawnMaterial(m.b) {
		if m.b.PushNullMove() {
			score, _ := m.search(ctx, depth-1-nullMoveReduction, ply+1, -beta, -beta+1)
			score = -score
			m.b.PopNullMove()
			if score >= beta {
				return beta, nil
			}
		}
	}

	if best.Equals(shogi.Move{}) && depth >= iidMinDepth {
		if _, pv := m.search(ctx, depth-1-iidReduction, ply, alpha, beta); len(pv) > 0 {
			best = pv[0]
		}
	}

	hasLegalMove := false
	bound := ExactBound
	var pv []shogi.Move

	priority, pick := m.ordering(ctx, ply)
	moves := NewMoveList(m.b.Position().PseudoLegalMoves(m.b.Turn()), First(best, priority))

	moveIndex := 0
	for {
		move, ok := moves.Next()
		if !ok {
			break
		}
		if !m.b.PushMove(move) {
			continue
		}

		quiet := !move.Capture.IsValid() && !move.Promote
		reduction := 0
		if depth >= lmrMinDepth && moveIndex >= lmrMinMoveIndex && quiet && hasLegalMove {
			reduction = 1
		}

		var score eval.Score
		var rem []shogi.Move
		switch {
		case !pick(move):
			m.b.PopMove()
			hasLegalMove = true
			continue
		case !hasLegalMove:
			score, rem = m.search(ctx, depth-1, ply+1, -beta, -alpha)
			score = -score
		default:
			score, rem = m.search(ctx, depth-1-reduction, ply+1, -alpha-1, -alpha)
			score = -score
			if reduction > 0 && score > alpha {
				score, rem = m.search(ctx, depth-1, ply+1, -alpha-1, -alpha)
				score = -score
			}
			if alpha < score && score < beta {
				score, rem = m.search(ctx, depth-1, ply+1, -beta, -alpha)
				score = -score
			}
		}
		m.b.PopMove()
		hasLegalMove = true
		moveIndex++

		if score > alpha {
			alpha = score
			pv = append([]shogi.Move{move}, rem...)
		}
		if alpha >= beta {
			bound = LowerBound
			if quiet {
				m.killers.Record(ply, move)
				m.history.Record(m.b.Turn(), move, depth, true)
			}
			break
		}
		if quiet {
			m.history.Record(m.b.Turn(), move, depth, false)
		}
	}

	if !hasLegalMove {
		if result := m.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return -eval.Mate + eval.Score(ply), nil
		}
		return 0, nil
	}

	if bound == ExactBound && alpha <= alphaOrig {
		bound = UpperBound
	}

	m.tt.Write(m.b.Hash(), bound, ply, depth, alpha, firstOrNone(pv))
	return alpha, pv
}

// ordering resolves the priority/predicate pair for a node: an explicit
// Explore override is honored as-is (e.g. a ponder-line Selection), while
// the default combines MVV-LVA captures with killer/history-ranked quiet
// moves.
func (m *runPVS) ordering(ctx context.Context, ply int) (PriorityFn, PredicateFn) {
	if m.explore != nil {
		return m.explore(ctx, m.b)
	}
	return Ordered(m.b.Position(), m.b.Turn(), ply, &m.killers, &m.history), IsAnyMove
}

// hasNonPawnMaterial reports whether the side to move holds any piece
// beyond pawns and the king, the standard null-move safeguard against
// zugzwang positions where passing is actually the best move (king-and-pawn
// endgames are the classic failure case).
func hasNonPawnMaterial(b *board.Board) bool {
	pos := b.Position()
	side := b.Turn()
	for pt := shogi.Lance; pt < shogi.NumPieceTypes; pt++ {
		if pt == shogi.King {
			continue
		}
		if !pos.Pieces(side, pt).IsZero() {
			return true
		}
	}
	hands := pos.Hands()
	for pt := shogi.Lance; pt <= shogi.Rook; pt++ {
		if hands.Count(side, pt) > 0 {
			return true
		}
	}
	return false
}
