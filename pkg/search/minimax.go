package search

import (
	"context"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Minimax implements naive full-width negamax with no pruning, alpha-beta,
// or quiescence. Useful as a slow, obviously-correct oracle to validate
// AlphaBeta/PVS against on small test positions. Pseudo-code:
//
// function negamax(node, depth) is
//
//	if depth = 0 or node is a terminal node then
//	    return the heuristic value of node
//	value := −∞
//	for each child of node do
//	    value := max(value, −negamax(child, depth − 1))
//	return value
//
// See: https://en.wikipedia.org/wiki/Minimax.
type Minimax struct {
	Eval eval.Evaluator
}

func (m Minimax) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []shogi.Move, error) {
	run := &runMinimax{eval: m.Eval, b: b}
	score, moves := run.search(ctx, depth)
	if contextx.IsCancelled(ctx) {
		return 0, 0, nil, ErrHalted
	}
	return run.nodes, score, moves, nil
}

type runMinimax struct {
	eval  eval.Evaluator
	b     *board.Board
	nodes uint64
}

func (m *runMinimax) search(ctx context.Context, depth int) (eval.Score, []shogi.Move) {
	m.nodes++

	if contextx.IsCancelled(ctx) {
		return 0, nil
	}
	if depth == 0 {
		turn := m.b.Turn()
		hands := m.b.Position().Hands()
		return m.eval.Evaluate(ctx, m.b, turn, &hands), nil
	}

	hasLegalMove := false
	score := eval.NegInf
	var pv []shogi.Move

	for _, move := range m.b.Position().PseudoLegalMoves(m.b.Turn()) {
		if !m.b.PushMove(move) {
			continue
		}
		s, rem := m.search(ctx, depth-1)
		m.b.PopMove()

		hasLegalMove = true
		s = -eval.IncrementMateDistance(s)
		if s > score {
			score = s
			pv = append([]shogi.Move{move}, rem...)
		}
	}

	if !hasLegalMove {
		if result := m.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return eval.NegInf, nil
		}
		return 0, nil
	}
	return score, pv
}
