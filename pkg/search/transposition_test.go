package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/herohde/shogo/pkg/board"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/search"
	"github.com/herohde/shogo/pkg/shogi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspositionTableReadWrite(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<16)

	a := board.Hash(rand.Uint64())
	_, _, _, _, ok := tt.Read(a, 5)
	assert.False(t, ok)

	m := shogi.Move{From: 5, To: 13, Promote: true}
	s := eval.Score(120)
	assert.True(t, tt.Write(a, search.ExactBound, 5, 2, s, m))

	bound, depth, score, move, ok := tt.Read(a, 5)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 2, depth)
	assert.Equal(t, s, score)
	assert.True(t, move.Equals(m))

	_, _, _, _, ok = tt.Read(a^0xff0000, 5)
	assert.False(t, ok)
}

func TestTranspositionTableBoundsRoundTrip(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<16)

	cases := []struct {
		bound search.Bound
		score eval.Score
	}{
		{search.ExactBound, eval.Score(37)},
		{search.LowerBound, eval.Score(220)},
		{search.UpperBound, eval.Score(-150)},
	}
	for _, c := range cases {
		h := board.Hash(rand.Uint64())
		assert.True(t, tt.Write(h, c.bound, 3, 6, c.score, shogi.Move{}))

		bound, depth, score, _, ok := tt.Read(h, 3)
		assert.True(t, ok)
		assert.Equal(t, c.bound, bound)
		assert.Equal(t, 6, depth)
		assert.Equal(t, c.score, score)
	}
}

func TestTranspositionTableMateScoreSurvivesPlyShift(t *testing.T) {
	// A mate-in-2-from-node score, written while probing at ply 5 (i.e.
	// mate-in-7-from-root), must read back as mate-in-9-from-root when the
	// very same position is reached via a different, longer path at ply 7.
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<16)

	h := board.Hash(rand.Uint64())
	writePly := 5
	stored := eval.Mate - eval.Score(writePly) - 2 // mate-in-(writePly+2) from this invocation's root
	assert.True(t, tt.Write(h, search.ExactBound, writePly, 8, stored, shogi.Move{}))

	_, _, backAtSamePly, _, ok := tt.Read(h, writePly)
	require.True(t, ok)
	assert.Equal(t, stored, backAtSamePly, "round-trip at the same ply must be lossless")

	readPly := 7
	_, _, shifted, _, ok := tt.Read(h, readPly)
	require.True(t, ok)
	assert.Equal(t, eval.Mate-eval.Score(readPly)-2, shifted, "mate distance from this node is unchanged; root distance grows with ply")
}

func TestTranspositionTableKeepsDistinctEntriesReadable(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<20)

	// Four random hashes, written once each, must all remain readable with
	// their own depth and score.
	var hashes []board.Hash
	for i := 0; i < 4; i++ {
		hashes = append(hashes, board.Hash(rand.Uint64()))
	}
	for i, h := range hashes {
		tt.Write(h, search.ExactBound, 1, i+1, eval.Score(i), shogi.Move{})
	}
	for i, h := range hashes {
		_, depth, score, _, ok := tt.Read(h, 1)
		assert.True(t, ok)
		assert.Equal(t, i+1, depth)
		assert.Equal(t, eval.Score(i), score)
	}
}

func TestTranspositionTableAcceptsWritesAfterNewGeneration(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<12)

	a := board.Hash(1)
	tt.Write(a, search.ExactBound, 1, 10, eval.Score(1), shogi.Move{})
	tt.NewGeneration()

	// A fresh write for an unrelated hash should still succeed; the table
	// shouldn't deadlock or reject writes after a generation bump.
	b := board.Hash(2)
	assert.True(t, tt.Write(b, search.ExactBound, 1, 1, eval.Score(2), shogi.Move{}))
}

func TestNoTranspositionTableNeverStores(t *testing.T) {
	var tt search.NoTranspositionTable
	assert.False(t, tt.Write(board.Hash(1), search.ExactBound, 1, 1, eval.Score(1), shogi.Move{}))
	_, _, _, _, ok := tt.Read(board.Hash(1), 1)
	assert.False(t, ok)
}
