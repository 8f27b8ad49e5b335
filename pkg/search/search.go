// Package search implements game-tree search over a board.Board: move
// ordering, quiescence, alpha-beta/principal-variation search, and a
// transposition table. Iterative deepening and time control live one level
// up, in searchctl, which drives a Search implementation depth by depth.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/shogi"
)

// ErrHalted indicates a search was stopped by its Context being cancelled
// mid-search, rather than running to completion.
var ErrHalted = errors.New("search halted")

// Context carries the per-node parameters threaded through a recursive
// search: the window to search within, the table to probe/store into, the
// noise to mix into leaf evaluations, and (at the root only) a ponder line
// to force through the first few plies regardless of move ordering.
// AlphaBeta honors Ponder; PVS does not read it.
type Context struct {
	Alpha, Beta eval.Score
	TT          TranspositionTable
	Noise       eval.Random
	Ponder      []shogi.Move
}

// Search evaluates a position to a fixed ply depth, returning the node
// count, score, and principal variation found.
type Search interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []shogi.Move, error)
}

// QuietSearch extends a fixed-depth search with captures/promotions until
// the position is quiet, avoiding the horizon effect at the search frontier.
type QuietSearch interface {
	QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, eval.Score)
}

// PV is the principal variation found at some search depth.
type PV struct {
	Depth int
	Moves []shogi.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization [0;1]
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%.0f%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, 100*p.Hash, p.Moves)
}

func firstOrNone(pv []shogi.Move) shogi.Move {
	if len(pv) == 0 {
		return shogi.Move{}
	}
	return pv[0]
}
