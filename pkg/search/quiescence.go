package search

import (
	"context"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Quiescence extends a fixed-depth search with captures and promotions
// until the position settles, avoiding the horizon effect: a fixed-depth
// cutoff that stops mid-capture-sequence badly misjudges the position.
type Quiescence struct {
	Explore Exploration
	Eval    eval.Evaluator
}

// quiescenceMaxPly caps how many captures deep a single quiescence call will
// chase, a backstop against pathological capture chains the teacher's
// unbounded version never needed at chess's material scale.
const quiescenceMaxPly = 16

// deltaMargin is added to a capture's nominal gain before comparing against
// alpha; a capture that can't possibly close the gap even with this margin
// is pruned without being searched (delta pruning).
const deltaMargin = eval.Score(200)

func (q Quiescence) QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, eval.Score) {
	run := &runQuiescence{explore: fullIfNotSet(q.Explore), eval: q.Eval, b: b}
	score := run.search(ctx, 0, sctx.Alpha, sctx.Beta)
	return run.nodes, score
}

type runQuiescence struct {
	explore Exploration
	eval    eval.Evaluator
	b       *board.Board
	nodes   uint64
}

// search returns the score from the perspective of the side to move. qply
// counts quiescence-local recursion depth, separate from the main search's
// ply, and is what quiescenceMaxPly bounds.
func (r *runQuiescence) search(ctx context.Context, qply int, alpha, beta eval.Score) eval.Score {
	if contextx.IsCancelled(ctx) {
		return 0
	}
	r.nodes++

	turn := r.b.Turn()
	inCheck := r.b.Position().IsChecked(turn)

	// Stand-pat assumes passing is always an option; that's false while in
	// check, so a checked side searches every evasion instead of bounding
	// on the static evaluation.
	hands := r.b.Position().Hands()
	stand := r.eval.Evaluate(ctx, r.b, turn, &hands)
	if !inCheck {
		if stand >= beta {
			return beta
		}
		alpha = eval.Max(alpha, stand)
	}

	if qply >= quiescenceMaxPly {
		return alpha
	}

	priority, explore := r.explore(ctx, r.b)
	if inCheck {
		explore = IsAnyMove // every move matters when escaping check
	}
	moves := NewMoveList(r.b.Position().PseudoLegalMoves(turn), priority)

	hasLegalMove := false
	for {
		m, ok := moves.Next()
		if !ok {
			break
		}

		// Futility/delta pruning: a capture that can't plausibly reach
		// alpha even in the best case isn't worth searching, unless we're
		// in check (every move matters when escaping check).
		if !inCheck && m.Capture.IsValid() {
			gain := eval.NominalValue(m.Capture.Type)
			if stand+gain+deltaMargin <= alpha {
				continue
			}
		}

		if !r.b.PushMove(m) {
			continue
		}
		hasLegalMove = true

		if explore(m) {
			score := -eval.IncrementMateDistance(r.search(ctx, qply+1, -beta, -alpha))
			if score > alpha {
				alpha = score
			}
		}
		r.b.PopMove()

		if alpha >= beta {
			break
		}
	}

	if !hasLegalMove {
		if !anyPseudoLegalTried(r.b, turn) {
			if result := r.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
				return eval.NegInf
			}
			return 0
		}
	}
	return alpha
}

// anyPseudoLegalTried reports whether side has any legal move at all,
// distinguishing "quiescence explored nothing because every capture was
// pruned" from "this position is actually checkmate or stalemate" -- delta
// pruning above can leave hasLegalMove false even in positions with legal
// (but quiet, unexplored) moves.
func anyPseudoLegalTried(b *board.Board, side shogi.Side) bool {
	for _, m := range b.Position().PseudoLegalMoves(side) {
		if b.PushMove(m) {
			b.PopMove()
			return true
		}
	}
	return false
}
