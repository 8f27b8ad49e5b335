package board

import (
	"testing"

	"github.com/herohde/shogo/pkg/shogi"
	sfen "github.com/herohde/shogo/pkg/shogi/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInitialBoard(t *testing.T) *Board {
	t.Helper()
	placements, turn, hands, moveNum, err := sfen.Decode(sfen.Initial)
	require.NoError(t, err)

	var bp []Placement
	for _, pl := range placements {
		bp = append(bp, Placement{Square: pl.Square, Piece: pl.Piece})
	}
	pos, err := NewPosition(bp, hands)
	require.NoError(t, err)

	zt := NewTable(1)
	return NewBoard(zt, pos, turn, moveNum)
}

func TestInitialPositionHasNoChecksAndHasLegalMoves(t *testing.T) {
	b := newInitialBoard(t)
	assert.False(t, b.Position().IsChecked(shogi.Black))
	assert.False(t, b.Position().IsChecked(shogi.White))

	moves := b.Position().LegalMoves(shogi.Black)
	assert.NotEmpty(t, moves)
}

func TestPushPopMoveRoundTripsHash(t *testing.T) {
	b := newInitialBoard(t)
	before := b.Hash()

	moves := b.Position().LegalMoves(shogi.Black)
	require.NotEmpty(t, moves)

	require.True(t, b.PushMove(moves[0]))
	assert.NotEqual(t, before, b.Hash())

	m, ok := b.PopMove()
	require.True(t, ok)
	assert.True(t, m.Equals(moves[0]))
	assert.Equal(t, before, b.Hash())
}

func TestZobristMoveMatchesFullRecompute(t *testing.T) {
	b := newInitialBoard(t)
	moves := b.Position().LegalMoves(shogi.Black)
	require.NotEmpty(t, moves)

	zt := NewTable(1)
	for _, m := range moves[:5] {
		pos := b.Position()
		turn := b.Turn()
		next, ok := pos.Move(turn, m)
		require.True(t, ok)

		incremental := zt.Move(zt.Hash(pos, turn), pos, turn, m)
		full := zt.Hash(next, turn.Opponent())
		assert.Equal(t, full, incremental, "move %v", m)
	}
}

func TestNoLegalMovesIsAlwaysALoss(t *testing.T) {
	b := newInitialBoard(t)
	result := b.AdjudicateNoLegalMoves()
	assert.NotEqual(t, Draw, result.Outcome)
}
