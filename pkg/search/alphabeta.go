package search

import (
	"context"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// AlphaBeta implements negamax with alpha-beta pruning. Pseudo-code:
//
// function negamax(node, depth, α, β) is
//
//	if depth = 0 or node is a terminal node then
//	    return the heuristic value of node
//	value := −∞
//	for each child of node do
//	    value := max(value, −negamax(child, depth − 1, −β, −α))
//	    α := max(α, value)
//	    if α ≥ β then
//	        break (* β cutoff *)
//	return value
//
// See: https://en.wikipedia.org/wiki/Alpha–beta_pruning.
type AlphaBeta struct {
	Explore Exploration
	Eval    QuietSearch
}

func (p AlphaBeta) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []shogi.Move, error) {
	run := &runAlphaBeta{
		explore: fullIfNotSet(p.Explore),
		eval:    p.Eval,
		tt:      sctx.TT,
		noise:   sctx.Noise,
		ponder:  sctx.Ponder,
		b:       b,
	}

	score, moves := run.search(ctx, depth, 0, sctx.Alpha, sctx.Beta)
	if contextx.IsCancelled(ctx) {
		return 0, 0, nil, ErrHalted
	}
	return run.nodes, score, moves, nil
}

type runAlphaBeta struct {
	explore Exploration
	eval    QuietSearch
	tt      TranspositionTable
	noise   eval.Random
	b       *board.Board
	nodes   uint64

	ponder []shogi.Move
}

// search returns the score from the perspective of the side to move, along
// with the principal variation found below this node. ply is the distance
// from the search root, used for mate-distance bookkeeping and transposition
// table replacement ordering.
func (m *runAlphaBeta) search(ctx context.Context, depth, ply int, alpha, beta eval.Score) (eval.Score, []shogi.Move) {
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
				return score, nil // cutoff: already resolved at least this deep
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

	hasLegalMove := false
	bound := ExactBound
	var pv []shogi.Move

	priority, explore := m.explore(ctx, m.b)
	if len(m.ponder) > 0 {
		explore = m.ponder[0].Equals
		m.ponder = m.ponder[1:]
	}

	moves := NewMoveList(m.b.Position().PseudoLegalMoves(m.b.Turn()), First(best, priority))
	for {
		move, ok := moves.Next()
		if !ok {
			break
		}
		if !m.b.PushMove(move) {
			continue
		}
		hasLegalMove = true

		if explore(move) {
			score, rem := m.search(ctx, depth-1, ply+1, -beta, -alpha)
			score = -score
			if score > alpha {
				alpha = score
				pv = append([]shogi.Move{move}, rem...)
			}
		}
		m.b.PopMove()

		if alpha >= beta {
			bound = LowerBound
			break
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

func fullIfNotSet(p Exploration) Exploration {
	if p == nil {
		return FullExploration
	}
	return p
}
