package search_test

import (
	"context"
	"testing"

	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/search"
	"github.com/herohde/shogo/pkg/shogi"
	sfen "github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPVSLowerBoundProbeCutsOffWithoutRecursing exercises the classic
// beta-cutoff reuse case: a cached LowerBound already at or above beta
// must short-circuit the probe instead of re-searching the subtree.
func TestPVSLowerBoundProbeCutsOffWithoutRecursing(t *testing.T) {
	ctx := context.Background()
	material := eval.TaperedMaterial{Values: eval.Classic}

	b := newBoard(t, sfen.Initial)
	tt := search.NewTranspositionTable(ctx, 1<<16)
	require.True(t, tt.Write(b.Hash(), search.LowerBound, 0, 6, eval.Score(200), shogi.Move{}))

	sctx := &search.Context{Alpha: eval.Score(-100), Beta: eval.Score(150), TT: tt}
	pvs := search.PVS{Eval: noQuiescence(material)}

	nodes, score, _, err := pvs.Search(ctx, sctx, b, 5)
	require.NoError(t, err)
	assert.Equal(t, eval.Score(200), score)
	assert.LessOrEqual(t, nodes, uint64(1), "a satisfying LowerBound probe must not recurse into the subtree")
}

func TestPVSMatchesMinimaxAtShallowDepth(t *testing.T) {
	ctx := context.Background()
	material := eval.TaperedMaterial{Values: eval.Classic}

	pvs := search.PVS{Eval: noQuiescence(material)}
	mm := search.Minimax{Eval: material}

	for _, depth := range []int{1, 2, 3} {
		b := newBoard(t, sfen.Initial)
		sctx := &search.Context{Alpha: eval.NegInf, Beta: eval.Inf, TT: search.NewTranspositionTable(ctx, 1<<20)}
		pvsNodes, pvsScore, _, err := pvs.Search(ctx, sctx, b, depth)
		require.NoError(t, err)

		b2 := newBoard(t, sfen.Initial)
		mmNodes, mmScore, _, err := mm.Search(ctx, &search.Context{}, b2, depth)
		require.NoError(t, err)

		assert.Equalf(t, mmScore, pvsScore, "depth %d", depth)
		assert.LessOrEqualf(t, pvsNodes, mmNodes, "depth %d should prune at least as much as minimax", depth)
	}
}
