package search_test

import (
	"context"
	"testing"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/search"
	"github.com/herohde/shogo/pkg/shogi"
	sfen "github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T, s string) *board.Board {
	t.Helper()
	placements, turn, hands, moveNum, err := sfen.Decode(s)
	require.NoError(t, err)

	var bp []board.Placement
	for _, pl := range placements {
		bp = append(bp, board.Placement{Square: pl.Square, Piece: pl.Piece})
	}
	pos, err := board.NewPosition(bp, hands)
	require.NoError(t, err)

	zt := board.NewTable(1)
	return board.NewBoard(zt, pos, turn, moveNum)
}

// noQuiescence disables the recursive capture extension so a QuietSearch
// reduces to a single stand-pat evaluation, making AlphaBeta's node count
// directly comparable to Minimax's at the same depth.
func noQuiescence(eval eval.Evaluator) search.QuietSearch {
	return search.Quiescence{
		Explore: func(ctx context.Context, b *board.Board) (search.PriorityFn, search.PredicateFn) {
			return search.MVVLVA(b.Position()), search.NoMove
		},
		Eval: eval,
	}
}

// TestAlphaBetaUpperBoundProbeCutsOffWithoutRecursing exercises a cached
// fail-low (UpperBound) entry already at or below alpha: the probe must
// short-circuit instead of re-searching the subtree.
func TestAlphaBetaUpperBoundProbeCutsOffWithoutRecursing(t *testing.T) {
	ctx := context.Background()
	material := eval.TaperedMaterial{Values: eval.Classic}

	b := newBoard(t, sfen.Initial)
	tt := search.NewTranspositionTable(ctx, 1<<16)
	require.True(t, tt.Write(b.Hash(), search.UpperBound, 0, 6, eval.Score(-200), shogi.Move{}))

	sctx := &search.Context{Alpha: eval.Score(-100), Beta: eval.Score(150), TT: tt}
	ab := search.AlphaBeta{Eval: noQuiescence(material)}

	nodes, score, _, err := ab.Search(ctx, sctx, b, 5)
	require.NoError(t, err)
	assert.Equal(t, eval.Score(-200), score)
	assert.LessOrEqual(t, nodes, uint64(1), "a satisfying UpperBound probe must not recurse into the subtree")
}

func TestAlphaBetaMatchesMinimaxAtShallowDepth(t *testing.T) {
	ctx := context.Background()
	material := eval.TaperedMaterial{Values: eval.Classic}

	ab := search.AlphaBeta{Eval: noQuiescence(material)}
	mm := search.Minimax{Eval: material}

	for _, depth := range []int{1, 2, 3} {
		b := newBoard(t, sfen.Initial)
		sctx := &search.Context{Alpha: eval.NegInf, Beta: eval.Inf, TT: search.NewTranspositionTable(ctx, 1<<20)}
		abNodes, abScore, _, err := ab.Search(ctx, sctx, b, depth)
		require.NoError(t, err)

		b2 := newBoard(t, sfen.Initial)
		mmNodes, mmScore, _, err := mm.Search(ctx, &search.Context{}, b2, depth)
		require.NoError(t, err)

		assert.Equalf(t, mmScore, abScore, "depth %d", depth)
		assert.LessOrEqualf(t, abNodes, mmNodes, "depth %d should prune at least as much as minimax", depth)
	}
}
